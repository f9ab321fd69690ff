package barscan

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#fce37e", RGB(252, 227, 126), false},
		{"FCE37E", RGB(252, 227, 126), false},
		{" #000000 ", RGB(0, 0, 0), false},
		{"#fff", Color{}, true},
		{"#gggggg", Color{}, true},
		{"", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorStringRoundTrip(t *testing.T) {
	c := RGB(214, 107, 135)
	if c.String() != "#d66b87" {
		t.Fatalf("String() = %s", c)
	}
	back, err := ParseColor(c.String())
	if err != nil || back != c {
		t.Fatalf("ParseColor(%s) = %v, %v", c, back, err)
	}
}

func TestMetricMatch(t *testing.T) {
	ref := RGB(100, 100, 100)
	tests := []struct {
		name   string
		metric Metric
		c      Color
		tol    float64
		want   bool
	}{
		{"manhattan exact", Manhattan, ref, 0, true},
		{"manhattan at limit", Manhattan, RGB(110, 95, 100), 15, true},
		{"manhattan over limit", Manhattan, RGB(110, 94, 100), 15, false},
		{"euclidean under limit", EuclideanSquared, RGB(103, 104, 100), 6, true},
		{"euclidean at limit is exclusive", EuclideanSquared, RGB(103, 104, 100), 5, false},
		{"euclidean far", EuclideanSquared, RGB(0, 0, 0), 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.metric.Match(tt.c, ref, tt.tol); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistances(t *testing.T) {
	a, b := RGB(10, 200, 30), RGB(13, 196, 30)
	if d := a.Manhattan(b); d != 7 {
		t.Errorf("Manhattan = %d, want 7", d)
	}
	if d := a.DistanceSq(b); d != 25 {
		t.Errorf("DistanceSq = %d, want 25", d)
	}
	if a.Manhattan(b) != b.Manhattan(a) {
		t.Error("Manhattan not symmetric")
	}
}
