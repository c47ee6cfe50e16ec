package search

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/foresight/internal/ets"
)

// trendOffsetForecaster biases the naive forecast per trend kind so that
// 후보 간 RMSE 차이가 결정적으로 갈리도록 만든다.
// series 1..10, nTest 3 기준: add=0.0, mul=0.5, none=1.0
func trendOffsetForecaster() Forecaster {
	return ForecasterFunc(func(history []float64, spec ets.Spec) (float64, error) {
		last := history[len(history)-1]
		switch spec.Trend {
		case ets.ComponentAdd:
			return last + 1.0, nil
		case ets.ComponentMul:
			return last + 0.5, nil
		default:
			return last, nil
		}
	})
}

func testSeries() []float64 {
	return []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
}

func TestSearch_RankingFollowsRMSEThenEnumerationOrder(t *testing.T) {
	configs := EnumerateConfigs(nil)
	o := NewOrchestrator(trendOffsetForecaster(), zerolog.Nop())

	ranked, err := o.Search(context.Background(), testSeries(), 3, configs, Options{})
	require.NoError(t, err)
	require.Len(t, ranked, len(configs))

	// RMSE 오름차순
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].RMSE, ranked[i].RMSE)
	}

	// 열거가 추세 기준으로 add → mul → none 블록이고 RMSE도 같은 순서라
	// 안정 정렬 후에는 열거 순서가 그대로 보존되어야 한다
	for i, score := range ranked {
		assert.Equal(t, configs[i], score.Config, "rank %d", i)
		assert.False(t, score.Absent())
	}
}

func TestSearch_ParallelMatchesSequential(t *testing.T) {
	configs := EnumerateConfigs(nil)

	seq := NewOrchestrator(trendOffsetForecaster(), zerolog.Nop())
	seqRanked, err := seq.Search(context.Background(), testSeries(), 3, configs, Options{Parallel: false})
	require.NoError(t, err)

	par := NewOrchestrator(trendOffsetForecaster(), zerolog.Nop())
	parRanked, err := par.Search(context.Background(), testSeries(), 3, configs, Options{Parallel: true, Workers: 4})
	require.NoError(t, err)

	// 완료 순서와 무관하게 동일한 랭킹
	assert.Equal(t, seqRanked, parRanked)
}

func TestSearch_AbsentCandidatesAreFiltered(t *testing.T) {
	// 계절 후보는 전부 적합 실패, 비계절만 살아남는다
	partial := ForecasterFunc(func(history []float64, spec ets.Spec) (float64, error) {
		if spec.Seasonal != ets.ComponentNone {
			return 0, &ets.FitError{Spec: spec, Reason: "seasonal unstable"}
		}
		return history[len(history)-1], nil
	})

	configs := EnumerateConfigs(nil)
	o := NewOrchestrator(partial, zerolog.Nop())

	ranked, err := o.Search(context.Background(), testSeries(), 3, configs, Options{})
	require.NoError(t, err)

	assert.Len(t, ranked, 24)
	for _, score := range ranked {
		assert.Equal(t, ets.ComponentNone, score.Config.Seasonal)
	}
}

func TestSearch_AllCandidatesFail(t *testing.T) {
	failing := ForecasterFunc(func(_ []float64, spec ets.Spec) (float64, error) {
		return 0, &ets.FitError{Spec: spec, Reason: "nothing fits"}
	})

	for _, parallel := range []bool{false, true} {
		o := NewOrchestrator(failing, zerolog.Nop())
		_, err := o.Search(context.Background(), testSeries(), 3, EnumerateConfigs(nil), Options{Parallel: parallel})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyResult, "parallel=%t", parallel)
	}
}

func TestSearch_InsufficientData(t *testing.T) {
	tests := []struct {
		name    string
		series  []float64
		nTest   int
		configs []ets.Spec
	}{
		{
			name:    "non-positive n_test",
			series:  testSeries(),
			nTest:   0,
			configs: EnumerateConfigs(nil),
		},
		{
			name:    "n_test consumes entire series",
			series:  testSeries(),
			nTest:   10,
			configs: EnumerateConfigs(nil),
		},
		{
			name:    "seasonal period exceeds training partition",
			series:  testSeries(),
			nTest:   3,
			configs: EnumerateConfigs([]int{7}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			spy := ForecasterFunc(func(history []float64, _ ets.Spec) (float64, error) {
				called = true
				return history[len(history)-1], nil
			})

			o := NewOrchestrator(spy, zerolog.Nop())
			_, err := o.Search(context.Background(), tt.series, tt.nTest, tt.configs, Options{})

			require.Error(t, err)
			assert.True(t, IsInsufficientData(err), "expected InsufficientDataError, got %v", err)
			assert.False(t, called, "input contract must fail before any fit")
		})
	}
}

func TestSearch_UnexpectedErrorAbortsBatch(t *testing.T) {
	boom := errors.New("corrupted series buffer")
	broken := ForecasterFunc(func(_ []float64, _ ets.Spec) (float64, error) {
		return 0, boom
	})

	for _, parallel := range []bool{false, true} {
		o := NewOrchestrator(broken, zerolog.Nop())
		_, err := o.Search(context.Background(), testSeries(), 3, EnumerateConfigs(nil), Options{Parallel: parallel})

		require.Error(t, err)
		assert.ErrorIs(t, err, boom, "parallel=%t", parallel)
	}
}

func TestSearch_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewOrchestrator(trendOffsetForecaster(), zerolog.Nop())
	_, err := o.Search(ctx, testSeries(), 3, EnumerateConfigs(nil), Options{})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_DebugPropagatesFitError(t *testing.T) {
	failing := ForecasterFunc(func(_ []float64, spec ets.Spec) (float64, error) {
		return 0, &ets.FitError{Spec: spec, Reason: "under inspection"}
	})

	o := NewOrchestrator(failing, zerolog.Nop())
	_, err := o.Search(context.Background(), testSeries(), 3, EnumerateConfigs(nil), Options{Debug: true})

	require.Error(t, err)
	assert.True(t, ets.IsFitError(err))
}
