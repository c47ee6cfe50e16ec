package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/foresight/internal/ets"
)

func TestEnumerateConfigs_DefaultCardinality(t *testing.T) {
	configs := EnumerateConfigs(nil)

	// 3 trends x 2 damped x 3 seasonals x 1 period x 2 boxcox x 2 bias
	assert.Len(t, configs, 72)
}

func TestEnumerateConfigs_CustomPeriods(t *testing.T) {
	configs := EnumerateConfigs([]int{6, 12})

	assert.Len(t, configs, 144)

	for _, cfg := range configs {
		assert.Contains(t, []int{6, 12}, cfg.Period)
	}
}

func TestEnumerateConfigs_FixedOrder(t *testing.T) {
	configs := EnumerateConfigs(nil)
	require.NotEmpty(t, configs)

	// 첫 항목: 모든 차원의 첫 값
	assert.Equal(t, ets.Spec{
		Trend:      ets.ComponentAdd,
		Damped:     true,
		Seasonal:   ets.ComponentAdd,
		Period:     0,
		BoxCox:     true,
		RemoveBias: true,
	}, configs[0])

	// 가장 안쪽 차원(bias)이 가장 빨리 돈다
	assert.Equal(t, true, configs[0].RemoveBias)
	assert.Equal(t, false, configs[1].RemoveBias)
	assert.Equal(t, configs[0].BoxCox, configs[1].BoxCox)

	// 마지막 항목: 모든 차원의 마지막 값
	last := configs[len(configs)-1]
	assert.Equal(t, ets.Spec{
		Trend:      ets.ComponentNone,
		Damped:     false,
		Seasonal:   ets.ComponentNone,
		Period:     0,
		BoxCox:     false,
		RemoveBias: false,
	}, last)
}

func TestEnumerateConfigs_Deterministic(t *testing.T) {
	first := EnumerateConfigs([]int{7})
	second := EnumerateConfigs([]int{7})

	assert.Equal(t, first, second)
}
