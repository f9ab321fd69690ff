package barscan

import "fmt"

// AxisCalibration 所有属性条共用的 0% / 100% 横坐标
type AxisCalibration struct {
	ZeroX        int  `json:"zero_x"`
	FullX        int  `json:"full_x"`
	ZeroDetected bool `json:"zero_detected"`
	FullDetected bool `json:"full_detected"`
}

func (a AxisCalibration) Span() int {
	return a.FullX - a.ZeroX
}

// CalibrateAxis 先按边缘线颜色检测，失败时退回到框架比例
func CalibrateAxis(r *Raster, frame FrameBounds, p *Profile) (AxisCalibration, error) {
	s := p.Axis
	isLine := lineColumn(r, frame, p)
	lastX := r.Width() - 1

	var axis AxisCalibration

	zeroFrom := clampInt(frame.X(s.ZeroScanStart), 0, lastX)
	zeroTo := clampInt(frame.X(s.ZeroScanEnd), 0, lastX)
	if x, ok := first(ascend(zeroFrom, zeroTo), isLine); ok {
		// 线可能有多个像素宽，取这一组连续线列的最右列
		for x+1 <= zeroTo && isLine(x+1) {
			x++
		}
		axis.ZeroX, axis.ZeroDetected = x, true
	} else {
		axis.ZeroX = frame.X(s.ZeroRatio)
	}

	fullFrom := clampInt(frame.X(s.FullScanEnd), 0, lastX)
	fullTo := max(frame.X(s.FullScanStart), axis.ZeroX+1)
	if x, ok := first(descend(fullFrom, fullTo), isLine); ok {
		axis.FullX, axis.FullDetected = x, true
	} else {
		axis.FullX = frame.X(s.FullRatio)
	}

	if axis.FullX <= axis.ZeroX && axis.ZeroDetected {
		axis.ZeroX, axis.ZeroDetected = frame.X(s.ZeroRatio), false
	}
	if axis.FullX <= axis.ZeroX {
		return axis, fmt.Errorf("%w: zeroX=%d fullX=%d", ErrAxisCalibrationFailed, axis.ZeroX, axis.FullX)
	}
	return axis, nil
}

// lineColumn 列内竖直方向连续匹配边缘色的像素数不少于 MinLineRun 即视为参考线
func lineColumn(r *Raster, frame FrameBounds, p *Profile) func(x int) bool {
	top := frame.Y(p.Axis.BandTop)
	bottom := frame.Y(p.Axis.BandBottom)
	need := p.Axis.MinLineRun

	return func(x int) bool {
		run := 0
		for y := range ascend(top, bottom) {
			if r.matchAt(x, y, p.Metric, p.EdgeColor, p.Tolerances.Line) {
				run++
				if run >= need {
					return true
				}
			} else {
				run = 0
			}
		}
		return false
	}
}
