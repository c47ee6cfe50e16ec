package ets

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxCox_LogRoundTrip(t *testing.T) {
	data := []float64{1, 2, 4, 8, 16, 32}

	transformed := applyBoxCox(data, 0)
	for i, v := range transformed {
		assert.InDelta(t, math.Log(data[i]), v, 1e-12)

		back, ok := invertBoxCox(v, 0)
		require.True(t, ok)
		assert.InDelta(t, data[i], back, 1e-9)
	}
}

func TestBoxCox_RoundTripNonZeroLambda(t *testing.T) {
	data := []float64{3, 7, 11, 19, 42}
	lambda := 0.5

	transformed := applyBoxCox(data, lambda)
	for i, v := range transformed {
		back, ok := invertBoxCox(v, lambda)
		require.True(t, ok)
		assert.InDelta(t, data[i], back, 1e-9)
	}
}

func TestInvertBoxCox_OutsideDomain(t *testing.T) {
	// lambda*x + 1 <= 0 이면 역변환이 정의되지 않음
	_, ok := invertBoxCox(-3, 0.5)
	assert.False(t, ok)
}

func TestEstimateLambda_Deterministic(t *testing.T) {
	data := make([]float64, 50)
	for i := range data {
		data[i] = math.Exp(0.1 * float64(i+1))
	}

	first := estimateLambda(data)
	second := estimateLambda(data)

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, -1.0)
	assert.LessOrEqual(t, first, 2.0)
}
