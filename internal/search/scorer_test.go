package search

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/foresight/internal/ets"
)

type sinkRecorder struct {
	configs []string
	rmses   []float64
}

func (s *sinkRecorder) Publish(configID string, rmse float64) {
	s.configs = append(s.configs, configID)
	s.rmses = append(s.rmses, rmse)
}

func fitFailingForecaster(spec ets.Spec) Forecaster {
	return ForecasterFunc(func(_ []float64, s ets.Spec) (float64, error) {
		return 0, &ets.FitError{Spec: s, Reason: "unstable recursion"}
	})
}

func TestScorer_SuccessProducesScore(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6}
	spec := ets.Spec{Trend: ets.ComponentAdd}

	scorer := NewScorer(NewWalkForward(naiveForecaster()), false, zerolog.Nop())
	score, err := scorer.Score(series, 2, spec)

	require.NoError(t, err)
	assert.False(t, score.Absent())
	assert.Equal(t, spec, score.Config)
	assert.InDelta(t, 1.0, score.RMSE, 1e-12)
}

func TestScorer_FitErrorAbsorbedAsAbsent(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6}
	spec := ets.Spec{Trend: ets.ComponentMul}

	scorer := NewScorer(NewWalkForward(fitFailingForecaster(spec)), false, zerolog.Nop())
	score, err := scorer.Score(series, 2, spec)

	// 적합 실패는 평가 완료로 취급, 부재 점수로 남는다
	require.NoError(t, err)
	assert.True(t, score.Absent())
	assert.True(t, ets.IsFitError(score.Err))
}

func TestScorer_UnexpectedErrorPropagates(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6}
	boom := errors.New("disk on fire")

	broken := ForecasterFunc(func(_ []float64, _ ets.Spec) (float64, error) {
		return 0, boom
	})

	scorer := NewScorer(NewWalkForward(broken), false, zerolog.Nop())
	_, err := scorer.Score(series, 2, ets.Spec{})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestScorer_DebugPropagatesFitError(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6}
	spec := ets.Spec{Trend: ets.ComponentMul}

	scorer := NewScorer(NewWalkForward(fitFailingForecaster(spec)), true, zerolog.Nop())
	_, err := scorer.Score(series, 2, spec)

	require.Error(t, err)
	assert.True(t, ets.IsFitError(err))
}

func TestScorer_PublishesProgress(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6}
	spec := ets.Spec{Trend: ets.ComponentAdd}
	sink := &sinkRecorder{}

	scorer := NewScorer(NewWalkForward(naiveForecaster()), false, zerolog.Nop()).
		WithProgress(sink)

	_, err := scorer.Score(series, 2, spec)
	require.NoError(t, err)

	require.Len(t, sink.configs, 1)
	assert.Equal(t, spec.String(), sink.configs[0])
	assert.InDelta(t, 1.0, sink.rmses[0], 1e-12)
}
