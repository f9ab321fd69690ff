package barscan

import (
	"fmt"
	"image"
	"image/draw"
	"math"
)

// Raster 解码后图像像素的只读视图，原点在左上角
type Raster struct {
	width  int
	height int
	pix    []uint8 // NRGBA, row-major, stride width*4
}

// NewRaster 复制 img 的像素，之后对 img 的修改不会影响 Raster
func NewRaster(img image.Image) (*Raster, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	return &Raster{
		width:  b.Dx(),
		height: b.Dy(),
		pix:    dst.Pix,
	}, nil
}

// NewRasterFromPix 从 4 字节/像素 (R,G,B,A) 的缓冲区构建
func NewRasterFromPix(width, height int, pix []uint8) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("pixel buffer has %d bytes, want %d", len(pix), width*height*4)
	}

	cp := make([]uint8, len(pix))
	copy(cp, pix)
	return &Raster{width: width, height: height, pix: cp}, nil
}

func (r *Raster) Width() int  { return r.width }
func (r *Raster) Height() int { return r.height }

// At 返回 (x, y) 处的颜色；越界时 ok 为 false
func (r *Raster) At(x, y int) (Color, bool) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return Color{}, false
	}
	i := (y*r.width + x) * 4
	return Color{R: r.pix[i], G: r.pix[i+1], B: r.pix[i+2]}, true
}

// Sample 与 At 相同，但接受小数坐标（向下取整）
func (r *Raster) Sample(x, y float64) (Color, bool) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return Color{}, false
	}
	fx, fy := math.Floor(x), math.Floor(y)
	if fx < 0 || fy < 0 || fx >= float64(r.width) || fy >= float64(r.height) {
		return Color{}, false
	}
	return r.At(int(fx), int(fy))
}

// matchAt 越界像素永远不匹配
func (r *Raster) matchAt(x, y int, m Metric, ref Color, tolerance float64) bool {
	c, ok := r.At(x, y)
	return ok && m.Match(c, ref, tolerance)
}
