package barscan

import (
	"fmt"
	"math"
)

// FrameBounds UI 面板在像素坐标中的边界（含两端）
type FrameBounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func (f FrameBounds) Width() int  { return f.Right - f.Left }
func (f FrameBounds) Height() int { return f.Bottom - f.Top }

// X 框架内按宽度比例换算出的横坐标
func (f FrameBounds) X(ratio float64) int {
	return f.Left + int(math.Floor(float64(f.Width())*ratio))
}

// Y 框架内按高度比例换算出的纵坐标
func (f FrameBounds) Y(ratio float64) int {
	return f.Top + int(math.Floor(float64(f.Height())*ratio))
}

// LocateFrame 从图像四边向内扫描，找到 UI 面板的边界
func LocateFrame(r *Raster, p *Profile) (FrameBounds, error) {
	w, h := r.Width(), r.Height()
	isFrame := framePixel(r, p)

	bandTop := int(math.Floor(float64(h) * p.Frame.BandStart))
	bandBottom := int(math.Floor(float64(h) * p.Frame.BandEnd))
	column := func(x int) bool {
		_, ok := first(ascend(bandTop, bandBottom-1), func(y int) bool { return isFrame(x, y) })
		return ok
	}

	left, ok := first(ascend(0, w-1), column)
	if !ok {
		return FrameBounds{}, fmt.Errorf("%w: no left edge", ErrFrameNotDetected)
	}

	rightLimit := int(math.Floor(float64(w) * p.Frame.RightScanStart))
	right, ok := first(descend(w-1, rightLimit), column)
	if !ok {
		right = min(left+int(math.Floor(float64(w)*p.Frame.AssumedWidth)), w-1)
	}

	row := func(y int) bool {
		_, ok := first(ascend(left, right), func(x int) bool { return isFrame(x, y) })
		return ok
	}
	top, okTop := first(ascend(0, h-1), row)
	bottom, okBottom := first(descend(h-1, 0), row)
	if !okTop || !okBottom {
		return FrameBounds{}, fmt.Errorf("%w: no top/bottom edge", ErrFrameNotDetected)
	}

	f := FrameBounds{Left: left, Top: top, Right: right, Bottom: bottom}
	if f.Left >= f.Right || f.Top >= f.Bottom {
		return FrameBounds{}, fmt.Errorf("%w: degenerate bounds %+v", ErrFrameNotDetected, f)
	}
	return f, nil
}

// framePixel 按框架模式返回像素判定函数
func framePixel(r *Raster, p *Profile) func(x, y int) bool {
	if p.Frame.Mode == FrameByBackground {
		return func(x, y int) bool {
			c, ok := r.At(x, y)
			if !ok {
				return false
			}
			for _, bg := range p.BackgroundColors {
				if p.Metric.Match(c, bg, p.Tolerances.Background) {
					return false
				}
			}
			return true
		}
	}
	return func(x, y int) bool {
		return r.matchAt(x, y, p.Metric, p.BorderColor, p.Tolerances.Border)
	}
}
