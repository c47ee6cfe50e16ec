package search

import (
	"math"

	"github.com/wonny/foresight/internal/ets"
)

// Forecaster fits one model to a history and returns a single one-step-ahead
// point forecast.
// ⭐ SSOT: 탐색 엔진이 모델에 접근하는 유일한 경계
type Forecaster interface {
	Forecast(history []float64, spec ets.Spec) (float64, error)
}

// ForecasterFunc adapts a plain function to the Forecaster interface.
type ForecasterFunc func(history []float64, spec ets.Spec) (float64, error)

func (f ForecasterFunc) Forecast(history []float64, spec ets.Spec) (float64, error) {
	return f(history, spec)
}

// ETSForecaster returns the production forecaster backed by internal/ets.
func ETSForecaster() Forecaster {
	return ForecasterFunc(ets.Forecast)
}

// WalkForward evaluates one configuration with expanding-window
// walk-forward validation.
type WalkForward struct {
	forecaster Forecaster
}

// NewWalkForward creates a walk-forward evaluator around the forecaster.
func NewWalkForward(forecaster Forecaster) *WalkForward {
	return &WalkForward{forecaster: forecaster}
}

// splitTrainTest splits the series at the fixed ratio point.
// train = series[:len-nTest], test = series[len-nTest:]
func splitTrainTest(series []float64, nTest int) (train, test []float64) {
	cut := len(series) - nTest
	return series[:cut], series[cut:]
}

// Evaluate walks the test partition one step at a time: fit on the current
// history, forecast one step, then extend the history with the true value.
//
// 히스토리는 예측값이 아니라 실제 관측값으로 확장된다. 재적합 기반
// 1스텝 정확도를 재는 것이지 다단계 재귀 예측이 아니다.
// 적합 실패는 그대로 전파되며 부분 결과는 없다.
func (w *WalkForward) Evaluate(series []float64, nTest int, spec ets.Spec) (float64, error) {
	train, test := splitTrainTest(series, nTest)

	// 평가 인스턴스 전용 사본, 설정/워커 간 공유 없음
	history := make([]float64, len(train), len(series))
	copy(history, train)

	predictions := make([]float64, 0, nTest)
	for i := 0; i < nTest; i++ {
		yhat, err := w.forecaster.Forecast(history, spec)
		if err != nil {
			return 0, err
		}
		predictions = append(predictions, yhat)
		history = append(history, test[i])
	}

	return rmse(test, predictions), nil
}

// rmse computes the root-mean-square error between actual and predicted.
func rmse(actual, predicted []float64) float64 {
	sum := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}
