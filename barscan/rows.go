package barscan

import (
	"cmp"
	"slices"
)

// BarRow 属性条所在的行
type BarRow struct {
	Bar      string `json:"bar"`
	Y        int    `json:"y"`
	Detected bool   `json:"detected"` // false 表示按比例推算
}

// LocateRows 为每个 BarSpec 确定行坐标，返回顺序与 p.Bars 一致
func LocateRows(r *Raster, frame FrameBounds, axis AxisCalibration, p *Profile) ([]BarRow, error) {
	if p.Rows.Strategy == RowsByColor {
		return rowsByColor(r, frame, axis, p)
	}
	return rowsByRatio(frame, p), nil
}

func rowsByRatio(frame FrameBounds, p *Profile) []BarRow {
	rows := make([]BarRow, len(p.Bars))
	for i, b := range p.Bars {
		rows[i] = BarRow{Bar: b.Name, Y: frame.Y(b.RowRatio)}
	}
	return rows
}

type rowCandidate struct {
	y     int
	dists []int // 到每个 BarSpec 填充色的欧氏距离平方
}

func rowsByColor(r *Raster, frame FrameBounds, axis AxisCalibration, p *Profile) ([]BarRow, error) {
	s := p.Rows
	limit := rowLimit(p)
	sampleFrom := axis.ZeroX + 1 + s.SampleOffset
	sampleTo := sampleFrom + s.SampleWidth - 1

	// 行平均色最接近的属性条及距离
	nearest := func(y int) (bar int, dists []int, ok bool) {
		avg, ok := averageColor(r, y, sampleFrom, sampleTo)
		if !ok {
			return 0, nil, false
		}
		dists = make([]int, len(p.Bars))
		for i, b := range p.Bars {
			dists[i] = avg.DistanceSq(b.Fill)
			if dists[i] < dists[bar] {
				bar = i
			}
		}
		return bar, dists, float64(dists[bar]) < limit
	}

	var candidates []rowCandidate
	tooClose := func(y int) bool {
		for _, c := range candidates {
			if abs(y-c.y) < s.MinSeparation {
				return true
			}
		}
		return false
	}

	top := frame.Y(s.ScanStart)
	bottom := frame.Y(s.ScanEnd)
	for y := top; y <= bottom; y++ {
		if tooClose(y) {
			continue
		}
		bar, _, ok := nearest(y)
		if !ok {
			continue
		}
		// 同一条的抗锯齿边缘会连续匹配多行，合并为一段取中心
		end := y
		for end+1 <= bottom {
			next, _, ok := nearest(end + 1)
			if !ok || next != bar {
				break
			}
			end++
		}
		center := (y + end) / 2
		_, dists, _ := nearest(center)
		candidates = append(candidates, rowCandidate{y: center, dists: dists})
		y = end
	}

	return assignRows(candidates, p, limit)
}

// assignRows 按距离从小到大贪心配对，每个候选行和每个 BarSpec 至多使用一次
func assignRows(candidates []rowCandidate, p *Profile, limit float64) ([]BarRow, error) {
	type pair struct {
		cand, bar, dist int
	}
	var pairs []pair
	for ci, c := range candidates {
		for bi, d := range c.dists {
			if float64(d) < limit {
				pairs = append(pairs, pair{cand: ci, bar: bi, dist: d})
			}
		}
	}
	slices.SortStableFunc(pairs, func(a, b pair) int {
		return cmp.Compare(a.dist, b.dist)
	})

	rows := make([]BarRow, len(p.Bars))
	usedCand := make([]bool, len(candidates))
	usedBar := make([]bool, len(p.Bars))
	found := 0
	for _, pr := range pairs {
		if usedCand[pr.cand] || usedBar[pr.bar] {
			continue
		}
		usedCand[pr.cand], usedBar[pr.bar] = true, true
		rows[pr.bar] = BarRow{Bar: p.Bars[pr.bar].Name, Y: candidates[pr.cand].y, Detected: true}
		found++
	}

	if found < len(p.Bars) {
		return nil, &RowsError{Found: found, Total: len(p.Bars)}
	}
	return rows, nil
}

// rowLimit 行定位的欧氏距离平方上限，不截断小数容差
func rowLimit(p *Profile) float64 {
	return p.Tolerances.Row * p.Tolerances.Row
}

// averageColor 对 [x0,x1] 中在界内的像素取平均
func averageColor(r *Raster, y, x0, x1 int) (Color, bool) {
	var sr, sg, sb, n int
	for x := range ascend(x0, x1) {
		c, ok := r.At(x, y)
		if !ok {
			continue
		}
		sr += int(c.R)
		sg += int(c.G)
		sb += int(c.B)
		n++
	}
	if n == 0 {
		return Color{}, false
	}
	return RGB(uint8(sr/n), uint8(sg/n), uint8(sb/n)), true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
