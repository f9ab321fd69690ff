package barscan

import "math"

// Measurement 单条属性条的测量结果
type Measurement struct {
	Bar        string `json:"bar"`
	RowY       int    `json:"row_y"`
	EndX       int    `json:"end_x"` // 最右填充列，未填充时等于 ZeroX
	Percent    int    `json:"percent"`
	Determined bool   `json:"determined"`
}

// MeasureBar 从 ZeroX+1 向右扫描，找到属性条最右端的填充列
func MeasureBar(r *Raster, spec BarSpec, row BarRow, axis AxisCalibration, p *Profile) Measurement {
	m := p.Measure
	out := Measurement{Bar: spec.Name, RowY: row.Y, EndX: axis.ZeroX}

	// 采样窗口完全落在图像外时无法判断
	if row.Y+m.HalfHeight < 0 || row.Y-m.HalfHeight >= r.Height() || axis.ZeroX+1 >= r.Width() {
		return out
	}
	out.Determined = true

	// 0% / 100% 参考线也是 EdgeColor，只有紧接在填充列之后的边缘色才算作填充
	matches := func(x int, ref Color) bool {
		for y := range ascend(row.Y-m.HalfHeight, row.Y+m.HalfHeight) {
			if r.matchAt(x, y, p.Metric, ref, p.Tolerances.Fill) {
				return true
			}
		}
		return false
	}

	started := false
	gap := 0
	for x := range ascend(axis.ZeroX+1, axis.FullX+m.Overscan) {
		if matches(x, spec.Fill) || (started && x == out.EndX+1 && matches(x, p.EdgeColor)) {
			out.EndX = x
			started = true
			gap = 0
			continue
		}
		gap++
		// 第一段填充之前使用 LeadIn
		limit := m.MaxGap
		if !started {
			limit = m.LeadIn
		}
		if gap > limit {
			break
		}
	}

	out.Percent = Percentage(out.EndX, axis, m)
	return out
}

// Percentage (endX-zeroX)/(fullX-zeroX)*100，加上 Adjustment 后截断到 [0,100] 再取整
func Percentage(endX int, axis AxisCalibration, m MeasureSettings) int {
	span := axis.Span()
	if span <= 0 {
		return 0
	}
	v := float64(endX-axis.ZeroX)/float64(span)*100 + m.Adjustment
	v = math.Max(0, math.Min(100, v))

	switch m.Rounding {
	case RoundCeil:
		v = math.Ceil(v)
	case RoundFloor:
		v = math.Floor(v)
	default:
		v = math.Round(v)
	}
	return int(v)
}
