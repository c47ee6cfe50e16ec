// Package ets implements the exponential-smoothing (Error-Trend-Seasonality)
// point forecaster used by the model search engine.
//
// 하나의 히스토리에 하나의 모델을 적합하고 1스텝 예측값 하나를 반환한다.
// 평활 파라미터는 격자 탐색으로 SSE를 최소화해 결정한다 (결정적).
package ets

import "math"

// Smoothing parameter grids. 고정 격자라 동일 입력이면 항상 동일 결과
var (
	alphaGrid = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
	betaGrid  = []float64{0.01, 0.05, 0.1, 0.2, 0.3}
	gammaGrid = []float64{0.01, 0.05, 0.1, 0.2, 0.3}
	phiGrid   = []float64{0.8, 0.9, 0.95, 0.98}
)

type params struct {
	alpha float64
	beta  float64
	gamma float64
	phi   float64
}

// state holds the smoothing components after a full pass over the data.
type state struct {
	level     float64
	trend     float64
	seasonals []float64
	next      int // seasonal index of the next one-step forecast
}

// fitResult is one fully evaluated parameter combination.
type fitResult struct {
	params params
	state  state
	sse    float64
	bias   float64 // mean in-sample residual on the working scale
}

// Forecast fits an ETS model with the given spec to the history and returns
// a single one-step-ahead point forecast.
//
// 실패는 모두 *FitError: 구조적으로 불가능한 설정(비양수 데이터에 승법 성분,
// 계절 주기 대비 짧은 히스토리)이거나 최적화가 유효한 상태에 도달하지 못한 경우.
func Forecast(history []float64, spec Spec) (float64, error) {
	if err := validate(history, spec); err != nil {
		return 0, err
	}

	working := history
	lambda := 1.0
	if spec.BoxCox {
		lambda = estimateLambda(history)
		working = applyBoxCox(history, lambda)

		// 변환 후 비양수가 되면 승법 성분은 정의 불가
		if hasMulComponent(spec) && minValue(working) <= 0 {
			return 0, fitErrorf(spec, "multiplicative component on non-positive values under power transform")
		}
	}

	best, ok := optimize(working, spec)
	if !ok {
		return 0, fitErrorf(spec, "optimizer failed to converge")
	}

	forecast := oneStep(spec, best.params, best.state)
	if spec.RemoveBias {
		forecast += best.bias
	}

	if spec.BoxCox {
		v, valid := invertBoxCox(forecast, lambda)
		if !valid {
			return 0, fitErrorf(spec, "forecast outside inverse transform domain")
		}
		forecast = v
	}

	if math.IsNaN(forecast) || math.IsInf(forecast, 0) {
		return 0, fitErrorf(spec, "non-finite forecast")
	}

	return forecast, nil
}

// validate checks the structural compatibility of spec and history.
func validate(history []float64, spec Spec) error {
	if len(history) < 3 {
		return fitErrorf(spec, "history too short: %d observations", len(history))
	}

	if spec.Damped && spec.Trend == ComponentNone {
		return fitErrorf(spec, "damping requires a trend component")
	}

	if spec.Seasonal != ComponentNone {
		if spec.Period < 2 {
			return fitErrorf(spec, "seasonal component requires a period of at least 2")
		}
		if len(history) < 2*spec.Period {
			return fitErrorf(spec, "history shorter than two seasonal cycles of period %d", spec.Period)
		}
	}

	if (hasMulComponent(spec) || spec.BoxCox) && minValue(history) <= 0 {
		return fitErrorf(spec, "multiplicative component or power transform on non-positive values")
	}

	return nil
}

// optimize scans the parameter grids and keeps the lowest-SSE pass.
// 탐색 순서가 고정이라 타이도 결정적으로 해소됨
func optimize(data []float64, spec Spec) (fitResult, bool) {
	betas := []float64{0}
	if spec.Trend != ComponentNone {
		betas = betaGrid
	}
	gammas := []float64{0}
	if spec.Seasonal != ComponentNone {
		gammas = gammaGrid
	}
	phis := []float64{1}
	if spec.Damped {
		phis = phiGrid
	}

	best := fitResult{sse: math.Inf(1)}
	found := false

	for _, alpha := range alphaGrid {
		for _, beta := range betas {
			for _, gamma := range gammas {
				for _, phi := range phis {
					p := params{alpha: alpha, beta: beta, gamma: gamma, phi: phi}
					result, ok := smoothingPass(data, spec, p)
					if !ok {
						continue
					}
					if result.sse < best.sse {
						best = result
						found = true
					}
				}
			}
		}
	}

	return best, found
}

// smoothingPass runs the full smoothing recursion once and returns the
// accumulated one-step SSE plus the final component state.
func smoothingPass(data []float64, spec Spec, p params) (fitResult, bool) {
	st, start, ok := initState(data, spec)
	if !ok {
		return fitResult{}, false
	}

	n := len(data)
	m := spec.Period

	sse := 0.0
	residSum := 0.0
	steps := 0

	for t := start; t < n; t++ {
		idx := 0
		if spec.Seasonal != ComponentNone {
			idx = t % m
		}

		fitted := forecastOne(spec, p.phi, st, idx)
		if math.IsNaN(fitted) || math.IsInf(fitted, 0) {
			return fitResult{}, false
		}

		resid := data[t] - fitted
		sse += resid * resid
		residSum += resid
		steps++

		if !updateState(data[t], spec, p, &st, idx) {
			return fitResult{}, false
		}
	}

	if steps == 0 || math.IsNaN(sse) || math.IsInf(sse, 0) {
		return fitResult{}, false
	}

	if spec.Seasonal != ComponentNone {
		st.next = n % m
	}

	return fitResult{
		params: p,
		state:  st,
		sse:    sse,
		bias:   residSum / float64(steps),
	}, true
}

// initState derives the initial level, trend, and seasonal components.
func initState(data []float64, spec Spec) (state, int, bool) {
	var st state

	if spec.Seasonal == ComponentNone {
		st.level = data[0]
		switch spec.Trend {
		case ComponentAdd:
			st.trend = data[1] - data[0]
		case ComponentMul:
			if data[0] == 0 {
				return st, 0, false
			}
			st.trend = data[1] / data[0]
		}
		return st, 1, true
	}

	m := spec.Period
	firstMean := meanOf(data[:m])
	st.level = firstMean

	if spec.Trend != ComponentNone {
		secondMean := meanOf(data[m : 2*m])
		switch spec.Trend {
		case ComponentAdd:
			st.trend = (secondMean - firstMean) / float64(m)
		case ComponentMul:
			if firstMean <= 0 || secondMean <= 0 {
				return st, 0, false
			}
			st.trend = math.Pow(secondMean/firstMean, 1/float64(m))
		}
	}

	st.seasonals = make([]float64, m)
	for i := 0; i < m; i++ {
		if spec.Seasonal == ComponentAdd {
			st.seasonals[i] = data[i] - st.level
		} else {
			if st.level == 0 {
				return st, 0, false
			}
			st.seasonals[i] = data[i] / st.level
		}
	}
	normalizeSeasonals(st.seasonals, spec.Seasonal)

	return st, m, true
}

// normalizeSeasonals recenters additive components to sum to zero and
// multiplicative components to average to one.
func normalizeSeasonals(seasonals []float64, kind Component) {
	m := len(seasonals)
	if m == 0 {
		return
	}

	sum := 0.0
	for _, s := range seasonals {
		sum += s
	}
	avg := sum / float64(m)

	if kind == ComponentAdd {
		for i := range seasonals {
			seasonals[i] -= avg
		}
		return
	}
	if avg != 0 {
		for i := range seasonals {
			seasonals[i] /= avg
		}
	}
}

// forecastOne computes the one-step fitted value from the current state.
func forecastOne(spec Spec, phi float64, st state, idx int) float64 {
	lt := levelTrend(spec, phi, st)

	switch spec.Seasonal {
	case ComponentAdd:
		return lt + st.seasonals[idx]
	case ComponentMul:
		return lt * st.seasonals[idx]
	default:
		return lt
	}
}

// levelTrend combines level and (possibly damped) trend.
func levelTrend(spec Spec, phi float64, st state) float64 {
	switch spec.Trend {
	case ComponentAdd:
		return st.level + phi*st.trend
	case ComponentMul:
		return st.level * math.Pow(st.trend, phi)
	default:
		return st.level
	}
}

// updateState advances the smoothing recursion by one observation.
func updateState(y float64, spec Spec, p params, st *state, idx int) bool {
	// 계절 성분 제거한 관측값
	adjusted := y
	switch spec.Seasonal {
	case ComponentAdd:
		adjusted = y - st.seasonals[idx]
	case ComponentMul:
		if st.seasonals[idx] == 0 {
			return false
		}
		adjusted = y / st.seasonals[idx]
	}

	lt := levelTrend(spec, p.phi, *st)
	prevLevel := st.level
	st.level = p.alpha*adjusted + (1-p.alpha)*lt

	switch spec.Trend {
	case ComponentAdd:
		st.trend = p.beta*(st.level-prevLevel) + (1-p.beta)*p.phi*st.trend
	case ComponentMul:
		if prevLevel == 0 {
			return false
		}
		st.trend = p.beta*(st.level/prevLevel) + (1-p.beta)*math.Pow(st.trend, p.phi)
	}

	switch spec.Seasonal {
	case ComponentAdd:
		st.seasonals[idx] = p.gamma*(y-st.level) + (1-p.gamma)*st.seasonals[idx]
	case ComponentMul:
		if st.level == 0 {
			return false
		}
		st.seasonals[idx] = p.gamma*(y/st.level) + (1-p.gamma)*st.seasonals[idx]
	}

	if math.IsNaN(st.level) || math.IsInf(st.level, 0) ||
		math.IsNaN(st.trend) || math.IsInf(st.trend, 0) {
		return false
	}

	return true
}

// oneStep produces the out-of-sample one-step forecast from the final state.
func oneStep(spec Spec, p params, st state) float64 {
	return forecastOne(spec, p.phi, st, st.next)
}

func hasMulComponent(spec Spec) bool {
	return spec.Trend == ComponentMul || spec.Seasonal == ComponentMul
}

func minValue(data []float64) float64 {
	min := data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func meanOf(data []float64) float64 {
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}
