package barscan

import (
	"errors"
	"fmt"
)

var (
	ErrFrameNotDetected      = errors.New("frame not detected")
	ErrAxisCalibrationFailed = errors.New("axis calibration failed")
	ErrBarRowsUndetermined   = errors.New("bar rows undetermined")
)

// RowsError 行定位未能覆盖全部属性条
type RowsError struct {
	Found int
	Total int
}

func (e *RowsError) Error() string {
	return fmt.Sprintf("%s: %d/%d", ErrBarRowsUndetermined, e.Found, e.Total)
}

func (e *RowsError) Unwrap() error {
	return ErrBarRowsUndetermined
}
