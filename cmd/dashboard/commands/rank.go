package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/fortunelab/internal/ranking"
	"github.com/wonny/fortunelab/internal/render"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "워치리스트 랭킹 출력",
	Long: `산출물을 한 번 로드해 워치리스트를 랭킹 순으로 출력합니다.

정렬 기준 (모두 내림차순):
  1. Action  READY > WAIT > NO_TRADE
  2. Grade   S > A > B > C
  3. 거래대금

Example:
  go run ./cmd/dashboard rank
  go run ./cmd/dashboard rank --top 10`,
	RunE: runRank,
}

var (
	rankTop int
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().IntVar(&rankTop, "top", 0, "상위 N개만 출력 (0 = 전체)")
}

func runRank(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.loader.Load(context.Background())
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}

	out := cmd.OutOrStdout()
	PrintHeader(out, "Watchlist Ranking", [][2]string{
		{"As of", snap.Meta.AsOf},
		{"Source", a.source.Kind()},
		{"Items", strconv.Itoa(len(snap.Watchlist))},
	})

	printRanking(out, ranking.WithPositions(snap.Watchlist), rankTop)
	return nil
}

func printRanking(w io.Writer, ranked []ranking.Ranked, top int) {
	if len(ranked) == 0 {
		PrintWarning(w, "조건을 만족하는 후보가 없습니다.")
		return
	}
	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}

	widths := []int{4, 8, 14, 8, 5, 10, 12, 8}
	PrintTableHeader(w, []string{"#", "Ticker", "Name", "Action", "Grade", "Close", "Volume(억)", "Change"}, widths)
	for _, r := range ranked {
		PrintTableRow(w, []string{
			strconv.Itoa(r.Rank),
			r.Ticker,
			r.Name,
			string(r.Action),
			string(r.Grade),
			render.Price(r.Close),
			render.Eok(r.Volume),
			render.Change(r.Change),
		}, widths)
	}
}
