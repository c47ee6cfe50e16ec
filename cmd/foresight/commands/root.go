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
	Use:   "foresight",
	Short: "foresight - 단변량 시계열 예측 모델 자동 선택기",
	Long: `foresight Unified CLI

지수평활(ETS) 하이퍼파라미터 그리드를 워크포워드 검증으로 전수 평가하고
표본외 오차 기준으로 랭킹합니다.

Usage:
  go run ./cmd/foresight [command]

Examples:
  go run ./cmd/foresight search --csv data/daily.csv
  go run ./cmd/foresight api
  go run ./cmd/foresight scheduler start
  go run ./cmd/foresight test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
