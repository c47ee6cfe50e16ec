package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/foresight/internal/api"
	"github.com/wonny/foresight/internal/api/handlers"
	"github.com/wonny/foresight/internal/search"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `HTTP API 서버를 시작합니다.

Endpoints:
  GET  /health                        - 헬스 체크
  GET  /api/search/runs               - 최근 탐색 실행 목록
  GET  /api/search/runs/{id}/results  - 실행의 상위 결과
  POST /api/search/run                - 탐색 즉시 실행
  WS   /ws/progress                   - 설정별 진행 스트림

Example:
  go run ./cmd/foresight api`,
	RunE: runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	fmt.Println("=== foresight API Server ===")

	cfg, log, db, err := initDBDeps()
	if err != nil {
		return err
	}
	defer db.Close()

	loadSeries, err := newSeriesLoader(cfg, log)
	if err != nil {
		return err
	}

	// 탐색 파이프라인 조립
	hub := api.NewProgressHub(log)
	orchestrator := search.NewOrchestrator(search.ETSForecaster(), log.Zerolog())
	repo := search.NewRepository(db.Pool)
	service := search.NewService(orchestrator, repo, log.Zerolog())

	searchHandler := handlers.NewSearchHandler(service, repo, loadSeries, cfg, log).
		WithProgress(hub)
	router := api.NewRouter(searchHandler, hub, log)
	server := api.New(cfg, log, router)

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		fmt.Printf("\n⏹  Received %s, shutting down...\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.Close()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	fmt.Println("✅ Server stopped")
	return nil
}
