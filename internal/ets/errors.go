package ets

import (
	"errors"
	"fmt"
)

// FitError 모델 적합 실패
// 설정과 데이터의 구조적 불일치 또는 최적화 실패를 나타냄
type FitError struct {
	Spec   Spec
	Reason string
}

func (e *FitError) Error() string {
	return fmt.Sprintf("ets fit %s: %s", e.Spec, e.Reason)
}

// IsFitError reports whether err is (or wraps) a FitError.
func IsFitError(err error) bool {
	var fe *FitError
	return errors.As(err, &fe)
}

func fitErrorf(spec Spec, format string, args ...interface{}) *FitError {
	return &FitError{Spec: spec, Reason: fmt.Sprintf(format, args...)}
}
