// Package barscan 从游戏 UI 截图中读取六条属性条的填充百分比。
//
// 一次分析依次完成：定位 UI 框架、校准 0%/100% 横坐标、确定每条属性条所在行、
// 测量填充长度。所有步骤都是 Raster + Profile 上的纯函数，Analyzer 只负责串联。
package barscan

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Entry 结果中的一项，Determined 为 false 时 Percent 无意义
type Entry struct {
	Bar        string `json:"bar"`
	Label      string `json:"label"`
	Percent    int    `json:"percent"`
	Determined bool   `json:"determined"`
}

// Result 按 BarSpec 声明顺序排列
type Result []Entry

// Lookup 按名称查找百分比
func (r Result) Lookup(bar string) (int, bool) {
	for _, e := range r {
		if e.Bar == bar {
			return e.Percent, e.Determined
		}
	}
	return 0, false
}

// Lines 渲染为 "<名称>: <百分比>%" 形式
func (r Result) Lines() []string {
	lines := make([]string, len(r))
	for i, e := range r {
		if e.Determined {
			lines[i] = fmt.Sprintf("%s: %d%%", e.Label, e.Percent)
		} else {
			lines[i] = fmt.Sprintf("%s: N/A", e.Label)
		}
	}
	return lines
}

// Text 供复制的纯文本
func (r Result) Text() string {
	return strings.Join(r.Lines(), "\n")
}

// Report 一次分析的完整诊断记录
type Report struct {
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	Frame        FrameBounds     `json:"frame"`
	Axis         AxisCalibration `json:"axis"`
	Rows         []BarRow        `json:"rows"`
	Measurements []Measurement   `json:"measurements"`
	Result       Result          `json:"result"`
}

type Analyzer struct {
	profile *Profile
	logger  *zap.Logger
}

// New 校验 profile 后创建 Analyzer；logger 为 nil 时不输出诊断信息
func New(p *Profile, logger *zap.Logger) (*Analyzer, error) {
	if p == nil {
		return nil, fmt.Errorf("nil profile")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{profile: p.Clone(), logger: logger}, nil
}

func (a *Analyzer) Profile() *Profile {
	return a.profile.Clone()
}

// Analyze 对一张图像执行完整流程；任何阶段失败都不返回部分结果
func (a *Analyzer) Analyze(r *Raster) (*Report, error) {
	p := a.profile
	log := a.logger.With(zap.String("profile", p.Name))

	frame, err := LocateFrame(r, p)
	if err != nil {
		return nil, err
	}
	log.Debug("frame located",
		zap.Int("left", frame.Left),
		zap.Int("top", frame.Top),
		zap.Int("right", frame.Right),
		zap.Int("bottom", frame.Bottom))

	axis, err := CalibrateAxis(r, frame, p)
	if err != nil {
		return nil, err
	}
	log.Debug("axis calibrated",
		zap.Int("zero_x", axis.ZeroX),
		zap.Bool("zero_detected", axis.ZeroDetected),
		zap.Int("full_x", axis.FullX),
		zap.Bool("full_detected", axis.FullDetected))

	rows, err := LocateRows(r, frame, axis, p)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Width:        r.Width(),
		Height:       r.Height(),
		Frame:        frame,
		Axis:         axis,
		Rows:         rows,
		Measurements: make([]Measurement, len(p.Bars)),
		Result:       make(Result, len(p.Bars)),
	}
	for i, spec := range p.Bars {
		m := MeasureBar(r, spec, rows[i], axis, p)
		report.Measurements[i] = m
		report.Result[i] = Entry{
			Bar:        spec.Name,
			Label:      spec.DisplayName(),
			Percent:    m.Percent,
			Determined: m.Determined,
		}
		log.Debug("bar measured",
			zap.String("bar", spec.Name),
			zap.Int("row_y", m.RowY),
			zap.Int("end_x", m.EndX),
			zap.Int("percent", m.Percent))
	}

	return report, nil
}
