package ets

import "math"

// Box-Cox 멱변환
// 람다는 로그우도 최대화 격자 탐색으로 결정됨 (결정적, 난수 없음)

const lambdaEps = 1e-9

// estimateLambda selects the Box-Cox lambda maximizing the profile
// log-likelihood over a fixed grid. Data must be strictly positive.
func estimateLambda(data []float64) float64 {
	sumLog := 0.0
	for _, v := range data {
		sumLog += math.Log(v)
	}

	bestLambda := 1.0
	bestLLF := math.Inf(-1)

	for lambda := -1.0; lambda <= 2.0+lambdaEps; lambda += 0.1 {
		transformed := applyBoxCox(data, lambda)

		// 분산 0이면 우도 정의 불가, 스킵
		variance := sampleVariance(transformed)
		if variance <= 0 || math.IsNaN(variance) || math.IsInf(variance, 0) {
			continue
		}

		n := float64(len(data))
		llf := -n/2*math.Log(variance) + (lambda-1)*sumLog
		if llf > bestLLF {
			bestLLF = llf
			bestLambda = lambda
		}
	}

	return bestLambda
}

// applyBoxCox transforms data with the given lambda.
func applyBoxCox(data []float64, lambda float64) []float64 {
	out := make([]float64, len(data))
	if math.Abs(lambda) < lambdaEps {
		for i, v := range data {
			out[i] = math.Log(v)
		}
		return out
	}
	for i, v := range data {
		out[i] = (math.Pow(v, lambda) - 1) / lambda
	}
	return out
}

// invertBoxCox maps a forecast back to the original scale.
// false 반환은 역변환 정의역 밖의 값
func invertBoxCox(x, lambda float64) (float64, bool) {
	if math.Abs(lambda) < lambdaEps {
		return math.Exp(x), true
	}
	base := lambda*x + 1
	if base <= 0 {
		return 0, false
	}
	return math.Pow(base, 1/lambda), true
}

func sampleVariance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	variance := 0.0
	for _, v := range data {
		diff := v - mean
		variance += diff * diff
	}
	return variance / float64(len(data))
}
