package search

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/foresight/internal/ets"
)

// Options is the explicit run configuration for one search.
// 전역 플래그 대신 호출마다 명시적으로 전달한다.
type Options struct {
	Parallel bool
	Workers  int // 0 = number of CPUs
	Debug    bool
	Progress ProgressSink
}

// Orchestrator fans scoring out across the candidate configurations,
// collects the outcomes, and ranks the survivors.
// ⭐ SSOT: 그리드 탐색 실행은 여기서만
type Orchestrator struct {
	forecaster Forecaster
	log        zerolog.Logger
}

// NewOrchestrator creates a search orchestrator around the forecaster.
func NewOrchestrator(forecaster Forecaster, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		forecaster: forecaster,
		log:        log.With().Str("component", "search.orchestrator").Logger(),
	}
}

// scored pairs a score with its enumeration index for deterministic
// tie-breaking regardless of completion order.
type scored struct {
	idx   int
	score Score
	err   error
}

// Search evaluates every candidate and returns the ranked scores,
// best (lowest RMSE) first.
//
// 후보 하나의 실패는 배치를 중단하지 않는다. 모든 후보가 실패한 경우에만
// ErrEmptyResult를 반환한다.
func (o *Orchestrator) Search(ctx context.Context, series []float64, nTest int, configs []ets.Spec, opts Options) ([]Score, error) {
	if err := validateInput(series, nTest, configs); err != nil {
		return nil, err
	}

	scorer := NewScorer(NewWalkForward(o.forecaster), opts.Debug, o.log).
		WithProgress(opts.Progress)

	o.log.Info().
		Int("candidates", len(configs)).
		Int("n_test", nTest).
		Bool("parallel", opts.Parallel).
		Msg("starting grid search")

	start := time.Now()

	var outcomes []scored
	var err error
	if opts.Parallel {
		outcomes, err = o.searchParallel(ctx, series, nTest, configs, scorer, opts.Workers)
	} else {
		outcomes, err = o.searchSequential(ctx, series, nTest, configs, scorer)
	}
	if err != nil {
		return nil, err
	}

	ranked := rank(outcomes)
	if len(ranked) == 0 {
		return nil, ErrEmptyResult
	}

	o.log.Info().
		Int("evaluated", len(outcomes)).
		Int("ranked", len(ranked)).
		Str("best", ranked[0].Config.String()).
		Float64("best_rmse", ranked[0].RMSE).
		Dur("elapsed", time.Since(start)).
		Msg("grid search completed")

	return ranked, nil
}

// validateInput enforces the input contract before any model is fitted.
func validateInput(series []float64, nTest int, configs []ets.Spec) error {
	if nTest <= 0 {
		return &InsufficientDataError{
			SeriesLen: len(series), NTest: nTest,
			Reason: "n_test must be positive",
		}
	}
	if nTest >= len(series) {
		return &InsufficientDataError{
			SeriesLen: len(series), NTest: nTest,
			Reason: "n_test leaves no training partition",
		}
	}

	trainLen := len(series) - nTest
	for _, cfg := range configs {
		if cfg.Period >= trainLen {
			return &InsufficientDataError{
				SeriesLen: len(series), NTest: nTest, Period: cfg.Period,
				Reason: "seasonal period exceeds available history",
			}
		}
	}

	return nil
}

// searchSequential scores candidates in enumeration order.
func (o *Orchestrator) searchSequential(ctx context.Context, series []float64, nTest int, configs []ets.Spec, scorer *Scorer) ([]scored, error) {
	outcomes := make([]scored, 0, len(configs))
	for i, cfg := range configs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		score, err := scorer.Score(series, nTest, cfg)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, scored{idx: i, score: score})
	}
	return outcomes, nil
}

// searchParallel dispatches candidates to a fixed-size worker pool.
// 워커 간 공유 상태 없음, 완료 순서는 제약 없음
func (o *Orchestrator) searchParallel(ctx context.Context, series []float64, nTest int, configs []ets.Spec, scorer *Scorer, workers int) ([]scored, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type task struct {
		idx int
		cfg ets.Spec
	}

	taskCh := make(chan task, len(configs))
	resultCh := make(chan scored, len(configs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskCh {
				select {
				case <-ctx.Done():
					resultCh <- scored{idx: t.idx, err: ctx.Err()}
					continue
				default:
				}

				score, err := scorer.Score(series, nTest, t.cfg)
				resultCh <- scored{idx: t.idx, score: score, err: err}
			}
		}()
	}

	for i, cfg := range configs {
		taskCh <- task{idx: i, cfg: cfg}
	}
	close(taskCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	outcomes := make([]scored, 0, len(configs))
	var firstErr *scored
	for r := range resultCh {
		if r.err != nil {
			// 가장 낮은 인덱스의 오류를 보고해 결과를 결정적으로 유지
			if firstErr == nil || r.idx < firstErr.idx {
				r := r
				firstErr = &r
			}
			continue
		}
		outcomes = append(outcomes, r)
	}

	if firstErr != nil {
		return nil, firstErr.err
	}

	return outcomes, nil
}

// rank discards absent scores and stable-sorts the rest ascending by RMSE.
// 동률은 열거 순서로 해소됨
func rank(outcomes []scored) []Score {
	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].idx < outcomes[j].idx
	})

	present := make([]Score, 0, len(outcomes))
	for _, o := range outcomes {
		if o.score.Absent() {
			continue
		}
		present = append(present, o.score)
	}

	sort.SliceStable(present, func(i, j int) bool {
		return present[i].RMSE < present[j].RMSE
	})

	return present
}
