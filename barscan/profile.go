package barscan

import (
	"errors"
	"fmt"
)

// 默认六条属性条
const (
	BarHP   = "HP"
	BarATK  = "ATK"
	BarMATK = "MATK"
	BarDEF  = "DEF"
	BarMDEF = "MDEF"
	BarSPD  = "SPD"
)

// BarSpec 单条属性条的静态参考数据
type BarSpec struct {
	Name     string  `mapstructure:"name"`
	Label    string  `mapstructure:"label"`
	Fill     Color   `mapstructure:"fill"`
	RowRatio float64 `mapstructure:"row_ratio"` // 仅 ratio 策略使用，相对框架高度
}

// DisplayName 优先使用 Label
func (b BarSpec) DisplayName() string {
	if b.Label != "" {
		return b.Label
	}
	return b.Name
}

// Tolerances 按用途区分的颜色容差
type Tolerances struct {
	Fill       float64 `mapstructure:"fill"`
	Border     float64 `mapstructure:"border"`
	Line       float64 `mapstructure:"line"`
	Background float64 `mapstructure:"background"`
	Row        float64 `mapstructure:"row"` // 行定位，始终按欧氏距离
}

type FrameMode string

const (
	FrameByBorder     FrameMode = "border"
	FrameByBackground FrameMode = "background"
)

type FrameSettings struct {
	Mode           FrameMode `mapstructure:"mode"`
	BandStart      float64   `mapstructure:"band_start"`
	BandEnd        float64   `mapstructure:"band_end"`
	RightScanStart float64   `mapstructure:"right_scan_start"`
	AssumedWidth   float64   `mapstructure:"assumed_width"`
}

// AxisSettings 横坐标比例均相对于框架宽度，Band 相对于框架高度
type AxisSettings struct {
	ZeroScanStart float64 `mapstructure:"zero_scan_start"`
	ZeroScanEnd   float64 `mapstructure:"zero_scan_end"`
	FullScanStart float64 `mapstructure:"full_scan_start"`
	FullScanEnd   float64 `mapstructure:"full_scan_end"`
	BandTop       float64 `mapstructure:"band_top"`
	BandBottom    float64 `mapstructure:"band_bottom"`
	MinLineRun    int     `mapstructure:"min_line_run"`
	ZeroRatio     float64 `mapstructure:"zero_ratio"`
	FullRatio     float64 `mapstructure:"full_ratio"`
}

type RowStrategy string

const (
	RowsByColor RowStrategy = "color"
	RowsByRatio RowStrategy = "ratio"
)

type RowSettings struct {
	Strategy      RowStrategy `mapstructure:"strategy"`
	ScanStart     float64     `mapstructure:"scan_start"`
	ScanEnd       float64     `mapstructure:"scan_end"`
	SampleOffset  int         `mapstructure:"sample_offset"`
	SampleWidth   int         `mapstructure:"sample_width"`
	MinSeparation int         `mapstructure:"min_separation"`
}

type Rounding string

const (
	RoundNearest Rounding = "round"
	RoundCeil    Rounding = "ceil"
	RoundFloor   Rounding = "floor"
)

type MeasureSettings struct {
	HalfHeight int      `mapstructure:"half_height"`
	MaxGap     int      `mapstructure:"max_gap"`
	LeadIn     int      `mapstructure:"lead_in"` // 0% 线与第一列填充之间允许的空白列数
	Overscan   int      `mapstructure:"overscan"`
	Adjustment float64  `mapstructure:"adjustment"` // 在截断到 [0,100] 之前加到原始百分比上
	Rounding   Rounding `mapstructure:"rounding"`
}

// Profile 一套 UI 皮肤的校准参数
type Profile struct {
	Name             string          `mapstructure:"name"`
	Metric           Metric          `mapstructure:"metric"`
	Bars             []BarSpec       `mapstructure:"bars"`
	BorderColor      Color           `mapstructure:"border_color"`
	EdgeColor        Color           `mapstructure:"edge_color"`
	BackgroundColors []Color         `mapstructure:"background_colors"`
	Tolerances       Tolerances      `mapstructure:"tolerances"`
	Frame            FrameSettings   `mapstructure:"frame"`
	Axis             AxisSettings    `mapstructure:"axis"`
	Rows             RowSettings     `mapstructure:"rows"`
	Measure          MeasureSettings `mapstructure:"measure"`
}

// DefaultProfile 返回按原始截图调校的默认参数，每次调用返回新副本
func DefaultProfile() *Profile {
	return &Profile{
		Name:   "default",
		Metric: Manhattan,
		Bars: []BarSpec{
			{Name: BarHP, Label: "HP", Fill: RGB(252, 227, 126), RowRatio: 0.085},
			{Name: BarATK, Label: "攻撃", Fill: RGB(214, 107, 135), RowRatio: 0.251},
			{Name: BarMATK, Label: "魔攻", Fill: RGB(85, 134, 200), RowRatio: 0.417},
			{Name: BarDEF, Label: "防御", Fill: RGB(237, 170, 118), RowRatio: 0.583},
			{Name: BarMDEF, Label: "魔防", Fill: RGB(140, 210, 236), RowRatio: 0.749},
			{Name: BarSPD, Label: "敏捷", Fill: RGB(113, 252, 211), RowRatio: 0.915},
		},
		BorderColor:      RGB(185, 185, 185),
		EdgeColor:        RGB(255, 255, 255),
		BackgroundColors: []Color{RGB(79, 60, 31), RGB(69, 52, 26)},
		Tolerances: Tolerances{
			Fill:       70,
			Border:     250,
			Line:       150,
			Background: 60,
			Row:        60,
		},
		Frame: FrameSettings{
			Mode:           FrameByBorder,
			BandStart:      0.1,
			BandEnd:        0.9,
			RightScanStart: 0.85,
			AssumedWidth:   0.7,
		},
		Axis: AxisSettings{
			ZeroScanStart: 0.05,
			ZeroScanEnd:   0.5,
			FullScanStart: 0.5,
			FullScanEnd:   0.84,
			BandTop:       0.16,
			BandBottom:    0.5,
			MinLineRun:    3,
			ZeroRatio:     0.05,
			FullRatio:     0.77,
		},
		Rows: RowSettings{
			Strategy:      RowsByRatio,
			ScanStart:     0.02,
			ScanEnd:       0.98,
			SampleOffset:  2,
			SampleWidth:   10,
			MinSeparation: 20,
		},
		Measure: MeasureSettings{
			HalfHeight: 3,
			MaxGap:     2,
			LeadIn:     2,
			Adjustment: -0.5,
			Rounding:   RoundCeil,
		},
	}
}

// Clone 深拷贝
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.Bars = append([]BarSpec(nil), p.Bars...)
	cp.BackgroundColors = append([]Color(nil), p.BackgroundColors...)
	return &cp
}

// Validate 检查参数是否可用于一次分析
func (p *Profile) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !p.Metric.valid() {
		add("unknown metric %q", p.Metric)
	}
	if len(p.Bars) == 0 {
		add("no bars configured")
	}
	seen := make(map[string]bool, len(p.Bars))
	for i, b := range p.Bars {
		if b.Name == "" {
			add("bar %d has no name", i)
		} else if seen[b.Name] {
			add("duplicate bar name %q", b.Name)
		}
		seen[b.Name] = true
		if !inUnit(b.RowRatio) {
			add("bar %q: row_ratio %v outside [0,1]", b.Name, b.RowRatio)
		}
	}

	t := p.Tolerances
	if t.Fill < 0 || t.Border < 0 || t.Line < 0 || t.Background < 0 || t.Row < 0 {
		add("tolerances must be non-negative")
	}

	switch p.Frame.Mode {
	case FrameByBorder:
	case FrameByBackground:
		if len(p.BackgroundColors) == 0 {
			add("frame mode %q needs background_colors", FrameByBackground)
		}
	default:
		add("unknown frame mode %q", p.Frame.Mode)
	}
	if !inUnit(p.Frame.BandStart) || !inUnit(p.Frame.BandEnd) || p.Frame.BandStart >= p.Frame.BandEnd {
		add("frame band [%v,%v) invalid", p.Frame.BandStart, p.Frame.BandEnd)
	}
	if !inUnit(p.Frame.RightScanStart) {
		add("frame right_scan_start %v outside [0,1]", p.Frame.RightScanStart)
	}
	if p.Frame.AssumedWidth <= 0 {
		add("frame assumed_width must be positive")
	}

	a := p.Axis
	if a.ZeroScanStart > a.ZeroScanEnd || a.FullScanStart > a.FullScanEnd {
		add("axis scan windows must satisfy start <= end")
	}
	if a.BandTop > a.BandBottom {
		add("axis band_top %v > band_bottom %v", a.BandTop, a.BandBottom)
	}
	if a.MinLineRun < 1 {
		add("axis min_line_run must be >= 1")
	}

	switch p.Rows.Strategy {
	case RowsByRatio:
	case RowsByColor:
		if p.Rows.SampleWidth < 1 {
			add("rows sample_width must be >= 1")
		}
		if p.Rows.ScanStart > p.Rows.ScanEnd {
			add("rows scan_start %v > scan_end %v", p.Rows.ScanStart, p.Rows.ScanEnd)
		}
	default:
		add("unknown row strategy %q", p.Rows.Strategy)
	}

	m := p.Measure
	if m.HalfHeight < 0 || m.MaxGap < 0 || m.LeadIn < 0 || m.Overscan < 0 {
		add("measure half_height, max_gap, lead_in and overscan must be non-negative")
	}
	switch m.Rounding {
	case RoundNearest, RoundCeil, RoundFloor:
	default:
		add("unknown rounding %q", m.Rounding)
	}

	if len(errs) > 0 {
		return fmt.Errorf("profile %q: %w", p.Name, errors.Join(errs...))
	}
	return nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
