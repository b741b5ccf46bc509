package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Fortune Lab - 워치리스트 대시보드",
	Long: `Fortune Lab Dashboard CLI

생성 스크립트가 만든 JSON 산출물을 읽어
워치리스트 랭킹과 섹터별 PBR-ROE 회귀를 계산하고 보여줍니다.

Usage:
  go run ./cmd/dashboard [command]

Examples:
  go run ./cmd/dashboard serve
  go run ./cmd/dashboard rank
  go run ./cmd/dashboard quant --sector 반도체
  go run ./cmd/dashboard render --out index.html
  go run ./cmd/dashboard status`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
