package ets

import "fmt"

// Component 추세/계절 성분 종류
type Component string

const (
	ComponentNone Component = "none"
	ComponentAdd  Component = "add"
	ComponentMul  Component = "mul"
)

// Spec 지수평활 모델 후보 설정
// 탐색 공간의 한 점을 나타내는 불변 레코드
type Spec struct {
	Trend      Component
	Damped     bool
	Seasonal   Component
	Period     int // 0 = 계절성 없음
	BoxCox     bool
	RemoveBias bool
}

// String returns the canonical identifier used as a log key.
// 동일 설정은 항상 동일 문자열로 직렬화됨
func (s Spec) String() string {
	return fmt.Sprintf("[%s %t %s %d %t %t]",
		s.Trend, s.Damped, s.Seasonal, s.Period, s.BoxCox, s.RemoveBias)
}
