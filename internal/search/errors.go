package search

import (
	"errors"
	"fmt"
)

// ErrEmptyResult 모든 후보가 실패해 랭킹이 비어 있음
// 호출자는 "유효한 모델 없음"으로 취급해야 하며 조용한 성공이 아님
var ErrEmptyResult = errors.New("search: no candidate configuration produced a valid model")

// InsufficientDataError 입력 계약 위반
// 탐색 시작 전에 검증되며 모델 적합 실패와 구분해 보고됨
type InsufficientDataError struct {
	SeriesLen int
	NTest     int
	Period    int
	Reason    string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("search: insufficient data (series=%d, n_test=%d, period=%d): %s",
		e.SeriesLen, e.NTest, e.Period, e.Reason)
}

// IsInsufficientData reports whether err is (or wraps) an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var ide *InsufficientDataError
	return errors.As(err, &ide)
}
