// Package overlay 把一次分析的中间结果画回截图上，用于核对校准参数。
package overlay

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/TIANLI0/StatScan/barscan"
	"gocv.io/x/gocv"
)

var (
	frameColor = color.RGBA{255, 0, 0, 255}
	zeroColor  = color.RGBA{255, 255, 0, 255}
	endColor   = color.RGBA{255, 0, 0, 255}
	fullColor  = color.RGBA{0, 255, 0, 255}
	labelColor = color.RGBA{255, 255, 255, 255}
)

// Renderer 框架矩形（红）、0% 线（黄）、每条属性条的末端（红）与 100% 位置（绿）
type Renderer struct {
	thickness int
}

func NewRenderer(thickness int) *Renderer {
	return &Renderer{thickness: max(1, thickness)}
}

// Render 返回 base64 编码的 PNG
func (r *Renderer) Render(img image.Image, report *barscan.Report) (string, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return "", fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	r.draw(&mat, report)

	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	if err != nil {
		return "", fmt.Errorf("failed to encode overlay: %w", err)
	}
	defer buf.Close()

	return base64.StdEncoding.EncodeToString(buf.GetBytes()), nil
}

func (r *Renderer) draw(mat *gocv.Mat, report *barscan.Report) {
	f := report.Frame
	axis := report.Axis

	gocv.Rectangle(mat, image.Rect(f.Left, f.Top, f.Right, f.Bottom), frameColor, r.thickness)
	gocv.Line(mat, image.Pt(axis.ZeroX, f.Top), image.Pt(axis.ZeroX, f.Bottom), zeroColor, r.thickness)

	for i, m := range report.Measurements {
		y0, y1 := m.RowY-4, m.RowY+4
		gocv.Line(mat, image.Pt(m.EndX, y0), image.Pt(m.EndX, y1), endColor, r.thickness)
		gocv.Line(mat, image.Pt(axis.FullX, y0), image.Pt(axis.FullX, y1), fullColor, r.thickness)

		e := report.Result[i]
		text := fmt.Sprintf("%s %d%%", e.Bar, e.Percent)
		if !e.Determined {
			text = e.Bar + " N/A"
		}
		gocv.PutText(mat, text, image.Pt(axis.FullX+6, m.RowY+4),
			gocv.FontHersheyPlain, 1.0, labelColor, 1)
	}
}
