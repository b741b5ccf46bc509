package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/fortunelab/internal/contracts"
	"github.com/wonny/fortunelab/internal/render"
	"github.com/wonny/fortunelab/internal/valuation"
)

// quantCmd represents the quant command
var quantCmd = &cobra.Command{
	Use:   "quant",
	Short: "섹터별 PBR-ROE 회귀 출력",
	Long: `quant_stats.json의 섹터별 PBR-ROE 회귀를 계산해 출력합니다.

출력 항목:
- slope / intercept (PBR = slope × ROE + intercept)
- 제외 종목 수 (PBR <= 0 또는 비정상 값)
- 잔차가 가장 낮은 저평가 후보

Example:
  go run ./cmd/dashboard quant
  go run ./cmd/dashboard quant --sector 반도체`,
	RunE: runQuant,
}

var (
	quantSector string
)

func init() {
	rootCmd.AddCommand(quantCmd)

	quantCmd.Flags().StringVar(&quantSector, "sector", "", "특정 섹터만 출력")
}

func runQuant(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.loader.Load(context.Background())
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}

	stats := snap.Quant
	if quantSector != "" {
		sv, ok := stats[quantSector]
		if !ok {
			return fmt.Errorf("sector %q not found in %s", quantSector, a.dashboard.Artifacts.Quant)
		}
		stats = contracts.QuantStats{quantSector: sv}
	}

	out := cmd.OutOrStdout()
	fits := valuation.FitSectors(stats, a.dashboard.ValuationOptions())

	PrintHeader(out, "Sector Valuation (PBR ~ ROE)", [][2]string{
		{"As of", snap.Meta.AsOf},
		{"Sectors", strconv.Itoa(len(fits))},
		{"Cheap N", strconv.Itoa(a.dashboard.Valuation.CheapCount)},
	})

	for i := range fits {
		printSectorFit(out, &fits[i])
	}
	return nil
}

func printSectorFit(w io.Writer, fit *valuation.SectorFit) {
	fmt.Fprintf(w, "\n[%s] %d종목\n", fit.Sector, fit.Items)

	if !fit.OK() {
		PrintWarning(w, fmt.Sprintf("%s (%s)", render.ReasonText(fit.Reason), fit.Error))
		return
	}

	res := fit.Result
	PrintKeyValue(w, "slope", render.Ratio(res.Slope), 9)
	PrintKeyValue(w, "intercept", render.Ratio(res.Intercept), 9)
	PrintKeyValue(w, "excluded", strconv.Itoa(res.ExcludedCount), 9)

	widths := []int{8, 14, 8, 8, 10}
	PrintTableHeader(w, []string{"Code", "Name", "ROE", "PBR", "Residual"}, widths)
	for _, p := range res.Cheap {
		PrintTableRow(w, []string{p.Code, p.Name, render.Ratio(p.ROE), render.Ratio(p.PBR), render.Ratio(p.Residual)}, widths)
	}
}
