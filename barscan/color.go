package barscan

import (
	"fmt"
	"strconv"
	"strings"
)

// Color 8-bit RGB triple
type Color struct {
	R uint8 `mapstructure:"r" json:"r"`
	G uint8 `mapstructure:"g" json:"g"`
	B uint8 `mapstructure:"b" json:"b"`
}

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ParseColor 解析 "#rrggbb" 或 "rrggbb"
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Manhattan 各通道差的绝对值之和
func (c Color) Manhattan(o Color) int {
	return absDiff(c.R, o.R) + absDiff(c.G, o.G) + absDiff(c.B, o.B)
}

// DistanceSq 欧氏距离的平方
func (c Color) DistanceSq(o Color) int {
	dr := absDiff(c.R, o.R)
	dg := absDiff(c.G, o.G)
	db := absDiff(c.B, o.B)
	return dr*dr + dg*dg + db*db
}

// Metric 颜色距离度量
type Metric string

const (
	Manhattan        Metric = "manhattan"
	EuclideanSquared Metric = "euclidean"
)

func (m Metric) valid() bool {
	return m == Manhattan || m == EuclideanSquared
}

// Match 判断两种颜色在容差内是否相同。
// manhattan: |dr|+|dg|+|db| <= tol; euclidean: dr²+dg²+db² < tol²
func (m Metric) Match(c, ref Color, tolerance float64) bool {
	if m == EuclideanSquared {
		return float64(c.DistanceSq(ref)) < tolerance*tolerance
	}
	return float64(c.Manhattan(ref)) <= tolerance
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
