package search

import "github.com/wonny/foresight/internal/ets"

// 탐색 공간 열거
// 중첩 순서(추세 → 감쇠 → 계절 → 주기 → 변환 → 편향)가 고정이라
// 랭킹의 타이브레이크가 결정적으로 동작한다.

var (
	trendKinds    = []ets.Component{ets.ComponentAdd, ets.ComponentMul, ets.ComponentNone}
	seasonalKinds = []ets.Component{ets.ComponentAdd, ets.ComponentMul, ets.ComponentNone}
	boolDomain    = []bool{true, false}
)

// EnumerateConfigs returns the full Cartesian product of the hyperparameter
// domains in fixed nested order. periods가 비어 있으면 비계절(0) 하나만 사용.
// 중복 제거나 가지치기는 하지 않는다.
func EnumerateConfigs(periods []int) []ets.Spec {
	if len(periods) == 0 {
		periods = []int{0}
	}

	configs := make([]ets.Spec, 0,
		len(trendKinds)*len(boolDomain)*len(seasonalKinds)*len(periods)*len(boolDomain)*len(boolDomain))

	for _, trend := range trendKinds {
		for _, damped := range boolDomain {
			for _, seasonal := range seasonalKinds {
				for _, period := range periods {
					for _, boxcox := range boolDomain {
						for _, bias := range boolDomain {
							configs = append(configs, ets.Spec{
								Trend:      trend,
								Damped:     damped,
								Seasonal:   seasonal,
								Period:     period,
								BoxCox:     boxcox,
								RemoveBias: bias,
							})
						}
					}
				}
			}
		}
	}

	return configs
}
