package barscan

import (
	"errors"
	"testing"
)

var panelAxis = AxisCalibration{ZeroX: 60, FullX: 300, ZeroDetected: true, FullDetected: true}

func colorProfile() *Profile {
	p := DefaultProfile()
	p.Rows.Strategy = RowsByColor
	return p
}

func fullPanel() *canvas {
	c := defaultPanel()
	for i := range panelRows {
		c.fillBar(i, 299)
	}
	return c
}

func TestLocateRowsByRatio(t *testing.T) {
	rows, err := LocateRows(defaultPanel().raster(t), panelFrame, panelAxis, DefaultProfile())
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		if row.Y != panelRows[i] || row.Detected {
			t.Errorf("row %d = %+v, want y=%d", i, row, panelRows[i])
		}
	}
}

func TestLocateRowsByColor(t *testing.T) {
	p := colorProfile()
	rows, err := LocateRows(fullPanel().raster(t), panelFrame, panelAxis, p)
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		if row.Bar != p.Bars[i].Name || row.Y != panelRows[i] || !row.Detected {
			t.Errorf("row %d = %+v, want %s at y=%d", i, row, p.Bars[i].Name, panelRows[i])
		}
	}
}

func TestLocateRowsByColorSwapped(t *testing.T) {
	p := colorProfile()
	c := fullPanel()
	// HP 与 ATK 互换位置
	c.rect(61, 38, 299, 46, p.Bars[1].Fill)
	c.rect(61, 81, 299, 89, p.Bars[0].Fill)

	rows, err := LocateRows(c.raster(t), panelFrame, panelAxis, p)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Y != 85 || rows[1].Y != 42 {
		t.Fatalf("HP y=%d ATK y=%d, want 85 and 42", rows[0].Y, rows[1].Y)
	}
}

func TestLocateRowsByColorMissing(t *testing.T) {
	c := fullPanel()
	y := panelRows[4]
	c.rect(61, y-4, 299, y+4, panelBackground)

	_, err := LocateRows(c.raster(t), panelFrame, panelAxis, colorProfile())
	if !errors.Is(err, ErrBarRowsUndetermined) {
		t.Fatalf("err = %v, want ErrBarRowsUndetermined", err)
	}
	var re *RowsError
	if !errors.As(err, &re) || re.Found != 5 || re.Total != 6 {
		t.Fatalf("err = %#v, want 5/6", err)
	}
}

func TestLocateRowsFractionalTolerance(t *testing.T) {
	hp := DefaultProfile().Bars[0]
	// 与 HP 填充色的距离平方正好是 58²+14²+10² = 3660
	near := RGB(hp.Fill.R-58, hp.Fill.G-14, hp.Fill.B-10)
	r := defaultPanel().rect(61, 38, 299, 46, near).raster(t)

	tests := []struct {
		tol   float64
		found bool
	}{
		{60.5, true}, // 3660 < 3660.25
		{60.49, false},
	}
	for _, tt := range tests {
		p := colorProfile()
		p.Bars = p.Bars[:1]
		p.Tolerances.Row = tt.tol

		rows, err := LocateRows(r, panelFrame, panelAxis, p)
		if tt.found {
			if err != nil || rows[0].Y != panelRows[0] {
				t.Errorf("tol %v: rows=%+v err=%v", tt.tol, rows, err)
			}
		} else if !errors.Is(err, ErrBarRowsUndetermined) {
			t.Errorf("tol %v: err = %v, want ErrBarRowsUndetermined", tt.tol, err)
		}
	}

	cands := []rowCandidate{{y: 10, dists: []int{3660}}}
	p := colorProfile()
	p.Bars = p.Bars[:1]
	p.Tolerances.Row = 60.5
	if _, err := assignRows(cands, p, rowLimit(p)); err != nil {
		t.Errorf("assignRows rejected distance inside the tolerance: %v", err)
	}
}
