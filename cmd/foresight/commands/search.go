package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/foresight/internal/data"
	"github.com/wonny/foresight/internal/search"
	"github.com/wonny/foresight/pkg/database"
)

var (
	// search 플래그
	searchCSV     string
	searchNTest   int
	searchSeq     bool
	searchDebug   bool
	searchTopK    int
	searchPeriods []int
	searchSave    bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "ETS 그리드 탐색 실행",
	Long: `CSV 시계열에 대해 지수평활 설정 전체를 워크포워드 검증으로 평가하고
RMSE 오름차순 랭킹을 출력합니다.

기본 탐색 공간: 추세(3) × 감쇠(2) × 계절(3) × 주기(1) × 멱변환(2) × 편향제거(2) = 72

Example:
  go run ./cmd/foresight search --csv data/daily.csv
  go run ./cmd/foresight search --csv data/daily.csv --n-test 165 --top 5
  go run ./cmd/foresight search --csv data/monthly.csv --period 6 --period 12
  go run ./cmd/foresight search --csv data/daily.csv --seq --debug`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchCSV, "csv", "", "시계열 CSV 파일 경로")
	searchCmd.Flags().IntVar(&searchNTest, "n-test", 0, "검증용 관측 수 (기본: SEARCH_N_TEST)")
	searchCmd.Flags().BoolVar(&searchSeq, "seq", false, "순차 실행 (기본: 병렬)")
	searchCmd.Flags().BoolVar(&searchDebug, "debug", false, "디버그 모드: 적합 실패를 숨기지 않고 전파")
	searchCmd.Flags().IntVar(&searchTopK, "top", 0, "출력할 상위 모델 수 (기본: SEARCH_TOP_K)")
	searchCmd.Flags().IntSliceVar(&searchPeriods, "period", nil, "계절 주기 도메인 (기본: 비계절)")
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "결과를 데이터베이스에 저장")
	_ = searchCmd.MarkFlagRequired("csv")
}

func runSearch(cmd *cobra.Command, args []string) error {
	fmt.Println("=== foresight: Model Grid Search ===")

	ctx := cmd.Context()

	cfg, log, err := initDeps()
	if err != nil {
		return err
	}

	nTest := searchNTest
	if nTest == 0 {
		nTest = cfg.Search.NTest
	}
	topK := searchTopK
	if topK == 0 {
		topK = cfg.Search.TopK
	}

	series, err := data.LoadCSV(searchCSV)
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}

	fmt.Printf("📈 Series: %s (%d observations, n_test=%d)\n\n", searchCSV, series.Len(), nTest)

	// 저장 옵션이 켜진 경우에만 DB 연결
	var repo *search.Repository
	if searchSave {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		repo = search.NewRepository(db.Pool)
	}

	orchestrator := search.NewOrchestrator(search.ETSForecaster(), log.Zerolog())
	service := search.NewService(orchestrator, repo, log.Zerolog())

	opts := search.Options{
		Parallel: !searchSeq,
		Workers:  cfg.Search.Workers,
		Debug:    searchDebug,
	}

	run, ranked, err := service.Run(ctx, series, nTest, searchPeriods, opts)
	if err != nil {
		if search.IsInsufficientData(err) {
			return fmt.Errorf("❌ input contract violation: %w", err)
		}
		if errors.Is(err, search.ErrEmptyResult) {
			return fmt.Errorf("❌ no valid model found: every candidate failed")
		}
		return err
	}

	fmt.Printf("📊 Evaluated %d candidates, %d produced a valid model\n\n", run.Candidates, run.Ranked)

	if topK > len(ranked) {
		topK = len(ranked)
	}

	fmt.Println("=== Top Models ===")
	for i := 0; i < topK; i++ {
		fmt.Printf("%d. %s  rmse=%.3f\n", i+1, ranked[i].Config, ranked[i].RMSE)
	}

	if searchSave {
		fmt.Printf("\n💾 Saved as run %d\n", run.ID)
	}

	fmt.Println("\n✅ Search completed")
	return nil
}
