package commands

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/foresight/internal/data"
)

var (
	// fetch 플래그
	fetchURL string
	fetchOut string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "HTML 페이지에서 관측열 수집",
	Long: `통계 페이지의 테이블에서 (시간, 값) 행을 추출해 CSV로 저장합니다.
결과 파일은 search 명령의 --csv 입력으로 바로 사용할 수 있습니다.

Example:
  go run ./cmd/foresight fetch --url https://example.com/stats --out data/daily.csv`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "수집할 페이지 URL (기본: FETCHER_BASE_URL)")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "저장할 CSV 경로")
	_ = fetchCmd.MarkFlagRequired("out")
}

func runFetch(cmd *cobra.Command, args []string) error {
	fmt.Println("=== foresight: Fetch Series ===")

	ctx := cmd.Context()

	cfg, log, err := initDeps()
	if err != nil {
		return err
	}

	url := fetchURL
	if url == "" {
		url = cfg.Fetcher.BaseURL
	}
	if url == "" {
		return fmt.Errorf("no URL given: pass --url or set FETCHER_BASE_URL")
	}

	fetcher := data.NewFetcher(cfg, log)
	series, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch series: %w", err)
	}

	fmt.Printf("📥 Fetched %d observations from %s\n", series.Len(), url)

	f, err := os.Create(fetchOut)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write([]string{"date", "value"}); err != nil {
		return err
	}
	for i, label := range series.Labels {
		record := []string{label, fmt.Sprintf("%g", series.Values[i])}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	fmt.Printf("✅ Saved to %s\n", fetchOut)
	return nil
}
