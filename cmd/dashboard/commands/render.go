package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/fortunelab/internal/render"
	"github.com/wonny/fortunelab/internal/snapshot"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "정적 대시보드 HTML 생성",
	Long: `산출물을 한 번 로드해 대시보드 페이지를 정적 HTML 파일로 저장합니다.

Example:
  go run ./cmd/dashboard render
  go run ./cmd/dashboard render --out public/index.html --tab quant`,
	RunE: runRender,
}

var (
	renderOut string
	renderTab string
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderOut, "out", "index.html", "출력 파일 경로")
	renderCmd.Flags().StringVar(&renderTab, "tab", render.TabWatchlist, "초기 탭 (watchlist, quant, backtest, news)")
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	refresher := snapshot.NewRefresher(a.loader, a.dashboard, snapshot.NewStore(), nil, a.log)
	view, err := refresher.Refresh(cmd.Context())
	if err != nil {
		return err
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	var buf bytes.Buffer
	if err := renderer.Page(&buf, render.PageData{View: view, Tab: render.NormalizeTab(renderTab)}); err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	if err := os.WriteFile(renderOut, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", renderOut, err)
	}

	PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Wrote %s (%d bytes, generation %d)", renderOut, buf.Len(), view.Generation))
	return nil
}
