package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/foresight/internal/scheduler"
	"github.com/wonny/foresight/internal/scheduler/jobs"
	"github.com/wonny/foresight/internal/search"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

등록되는 작업:
- model_search: 매일 새벽 2시 (전체 그리드 탐색 재실행)

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/foresight scheduler start
  go run ./cmd/foresight scheduler run model_search`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "스케줄러 시작",
	Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
	RunE: runSchedulerStart,
}

var schedulerListCmd = &cobra.Command{
	Use:   "list",
	Short: "등록된 작업 목록",
	RunE:  runSchedulerList,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run [job_name]",
	Short: "특정 작업 즉시 실행",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulerJob,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// buildScheduler wires the scheduler with all jobs.
func buildScheduler() (*scheduler.Scheduler, func(), error) {
	cfg, log, db, err := initDBDeps()
	if err != nil {
		return nil, nil, err
	}

	loadSeries, err := newSeriesLoader(cfg, log)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	orchestrator := search.NewOrchestrator(search.ETSForecaster(), log.Zerolog())
	repo := search.NewRepository(db.Pool)
	service := search.NewService(orchestrator, repo, log.Zerolog())

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewSearchJob(service, loadSeries, cfg, log)); err != nil {
		db.Close()
		return nil, nil, err
	}

	return sched, db.Close, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	fmt.Println("=== foresight Scheduler ===")

	sched, cleanup, err := buildScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	sched.Start()
	fmt.Println("✅ Scheduler started (Ctrl+C to stop)")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	sched.Stop()
	return nil
}

func runSchedulerList(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := buildScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println("=== Registered Jobs ===")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("- %s\n", name)
	}
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	sched, cleanup, err := buildScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("▶ Running job %s...\n", jobName)
	if err := sched.RunJob(jobName); err != nil {
		return err
	}

	// RunJob은 비동기라 종료 신호까지 대기
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	return nil
}
