package search

import (
	"github.com/rs/zerolog"

	"github.com/wonny/foresight/internal/ets"
)

// Score 한 후보 설정의 평가 결과
// Err가 채워진 항목은 부재(absent) 점수로, 랭킹에서 제외된다.
type Score struct {
	Config ets.Spec
	RMSE   float64
	Err    error
}

// Absent reports whether the evaluation failed to produce an error value.
func (s Score) Absent() bool {
	return s.Err != nil
}

// ProgressSink receives one line per successfully evaluated configuration.
// 콘솔 외의 구독자(웹소켓 등)에게 진행 상황을 중계할 때 사용
type ProgressSink interface {
	Publish(configID string, rmse float64)
}

// Scorer wraps the walk-forward evaluator with failure isolation.
//
// 비디버그 모드에서는 모델 적합 실패만 부재 점수로 흡수한다.
// 그 외 오류는 모델 불안정성과 무관한 결함이므로 그대로 전파한다.
type Scorer struct {
	evaluator *WalkForward
	debug     bool
	log       zerolog.Logger
	progress  ProgressSink
}

// NewScorer creates a scorer around the evaluator.
func NewScorer(evaluator *WalkForward, debug bool, log zerolog.Logger) *Scorer {
	return &Scorer{
		evaluator: evaluator,
		debug:     debug,
		log:       log.With().Str("component", "search.scorer").Logger(),
	}
}

// WithProgress attaches a progress sink. nil이면 로그만 남김
func (s *Scorer) WithProgress(sink ProgressSink) *Scorer {
	s.progress = sink
	return s
}

// Score evaluates one configuration.
//
// 반환 규약: (Score, nil)은 평가 완료(성공 또는 부재),
// (_, error)는 배치 전체를 중단해야 하는 오류.
func (s *Scorer) Score(series []float64, nTest int, spec ets.Spec) (Score, error) {
	result, err := s.evaluator.Evaluate(series, nTest, spec)
	if err != nil {
		// 디버그 모드에서는 단일 설정 점검을 위해 모든 실패를 그대로 노출
		if s.debug {
			return Score{}, err
		}
		if ets.IsFitError(err) {
			return Score{Config: spec, Err: err}, nil
		}
		return Score{}, err
	}

	s.log.Info().
		Str("config", spec.String()).
		Float64("rmse", result).
		Msg("model evaluated")

	if s.progress != nil {
		s.progress.Publish(spec.String(), result)
	}

	return Score{Config: spec, RMSE: result}, nil
}
