package search

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/foresight/internal/data"
)

// Service runs a full model search over a series and persists the outcome.
// CLI, API, 스케줄러가 공유하는 실행 경로
type Service struct {
	orchestrator *Orchestrator
	repo         *Repository // nil이면 결과를 저장하지 않음
	log          zerolog.Logger
}

// NewService creates a search service. repo may be nil for in-memory runs.
func NewService(orchestrator *Orchestrator, repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		orchestrator: orchestrator,
		repo:         repo,
		log:          log.With().Str("component", "search.service").Logger(),
	}
}

// Run enumerates the configuration space, searches it, and records the run.
// 반환된 Run.ID는 저장된 경우에만 유효
func (s *Service) Run(ctx context.Context, series *data.Series, nTest int, periods []int, opts Options) (Run, []Score, error) {
	configs := EnumerateConfigs(periods)

	run := Run{
		Dataset:    series.Name,
		SeriesLen:  series.Len(),
		NTest:      nTest,
		Candidates: len(configs),
		StartedAt:  time.Now(),
	}

	ranked, err := s.orchestrator.Search(ctx, series.Values, nTest, configs, opts)
	if err != nil {
		return run, nil, err
	}

	run.Ranked = len(ranked)
	run.FinishedAt = time.Now()

	if s.repo != nil {
		id, err := s.repo.SaveRun(ctx, run)
		if err != nil {
			return run, ranked, err
		}
		run.ID = id

		if err := s.repo.SaveScores(ctx, id, ranked); err != nil {
			return run, ranked, err
		}

		s.log.Info().
			Int64("run_id", id).
			Int("ranked", len(ranked)).
			Msg("search run persisted")
	}

	return run, ranked, nil
}
