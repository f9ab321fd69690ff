package barscan

import (
	"image"
	"image/color"
	"testing"
)

// canvas 用于构造合成截图
type canvas struct {
	img *image.NRGBA
}

func newCanvas(w, h int, bg Color) *canvas {
	c := &canvas{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
	c.rect(0, 0, w-1, h-1, bg)
	return c
}

// rect 填充 [x0,x1]×[y0,y1]（含两端）
func (c *canvas) rect(x0, y0, x1, y1 int, col Color) *canvas {
	nc := color.NRGBA{R: col.R, G: col.G, B: col.B, A: 255}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.img.SetNRGBA(x, y, nc)
		}
	}
	return c
}

func (c *canvas) raster(t *testing.T) *Raster {
	t.Helper()
	r, err := NewRaster(c.img)
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	return r
}

var panelBackground = RGB(79, 60, 31)

// panelRows ratio 策略在 defaultPanel 上得到的行坐标
var panelRows = []int{42, 85, 128, 170, 213, 256}

// defaultPanel 400×300，灰色双像素边框，x=60 为 0% 线、x=300 为 100% 线。
// 框架 {20,20,379,279}
func defaultPanel() *canvas {
	border := RGB(185, 185, 185)
	white := RGB(255, 255, 255)
	c := newCanvas(400, 300, panelBackground)
	c.rect(20, 20, 379, 21, border)
	c.rect(20, 278, 379, 279, border)
	c.rect(20, 20, 21, 279, border)
	c.rect(378, 20, 379, 279, border)
	c.rect(60, 25, 60, 274, white)
	c.rect(300, 25, 300, 274, white)
	return c
}

// fillBar 画一条从 x=61 到 endX、高 9 像素的属性条
func (c *canvas) fillBar(i, endX int) *canvas {
	bar := DefaultProfile().Bars[i]
	y := panelRows[i]
	return c.rect(61, y-4, endX, y+4, bar.Fill)
}

// literalProfile 单像素高 HP 条与 0% 竖线的最小场景所用参数
func literalProfile() *Profile {
	p := DefaultProfile()
	p.Name = "literal"
	p.BorderColor = RGB(255, 255, 241)
	p.EdgeColor = RGB(255, 255, 241)
	p.Tolerances.Border = 60
	p.Frame.AssumedWidth = 0.8
	p.Axis.ZeroScanStart = 0
	p.Axis.ZeroScanEnd = 0.3
	p.Axis.BandTop = 0
	p.Axis.BandBottom = 1
	p.Axis.FullScanStart = 0.5
	p.Axis.FullScanEnd = 1
	p.Axis.FullRatio = 1
	p.Measure.Adjustment = 0
	p.Measure.Rounding = RoundNearest
	return p
}

// literalCanvas 200×100，x=20 处 y=10..90 的竖线，y=15 上 x=21..100 的 HP 填充
func literalCanvas() *canvas {
	c := newCanvas(200, 100, RGB(74, 55, 32))
	c.rect(20, 10, 20, 90, RGB(255, 255, 241))
	c.rect(21, 15, 100, 15, RGB(252, 227, 126))
	return c
}
