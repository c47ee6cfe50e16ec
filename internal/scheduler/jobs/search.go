package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/foresight/internal/api/handlers"
	"github.com/wonny/foresight/internal/search"
	"github.com/wonny/foresight/pkg/config"
	"github.com/wonny/foresight/pkg/logger"
)

// SearchJob re-runs the full model search nightly so the ranked models
// track newly appended observations.
// Schedule: 2:00 AM daily
type SearchJob struct {
	service    *search.Service
	loadSeries handlers.SeriesLoader
	cfg        *config.Config
	logger     *logger.Logger
}

// NewSearchJob creates a new search job
func NewSearchJob(
	service *search.Service,
	loadSeries handlers.SeriesLoader,
	cfg *config.Config,
	log *logger.Logger,
) *SearchJob {
	return &SearchJob{
		service:    service,
		loadSeries: loadSeries,
		cfg:        cfg,
		logger:     log,
	}
}

// Name returns the job name
func (j *SearchJob) Name() string {
	return "model_search"
}

// Schedule returns the cron schedule (2 AM daily, with seconds)
func (j *SearchJob) Schedule() string {
	return "0 0 2 * * *"
}

// Run executes one full grid search and persists the ranking
func (j *SearchJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled model search")

	series, err := j.loadSeries(ctx)
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}

	opts := search.Options{
		Parallel: j.cfg.Search.Parallel,
		Workers:  j.cfg.Search.Workers,
	}

	run, ranked, err := j.service.Run(ctx, series, j.cfg.Search.NTest, nil, opts)
	if err != nil {
		// 전 후보 실패는 재시도해도 달라지지 않으므로 그대로 보고
		return fmt.Errorf("model search: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":     run.ID,
		"candidates": run.Candidates,
		"ranked":     run.Ranked,
		"best":       ranked[0].Config.String(),
		"best_rmse":  ranked[0].RMSE,
	}).Info("Scheduled model search completed")

	return nil
}
