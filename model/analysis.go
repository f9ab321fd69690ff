package model

// AnalysisResult 一张截图的属性条读数
type AnalysisResult struct {
	MD5          string      `json:"md5"`
	Profile      string      `json:"profile"`
	Width        int         `json:"width"` // 实际分析的尺寸（缩放后）
	Height       int         `json:"height"`
	SourceWidth  int         `json:"source_width"`
	SourceHeight int         `json:"source_height"`
	Frame        BBox        `json:"frame"`
	ZeroX        int         `json:"zero_x"`
	FullX        int         `json:"full_x"`
	Bars         []BarResult `json:"bars"`
	Text         string      `json:"text"`              // 可直接复制的文本
	Overlay      string      `json:"overlay,omitempty"` // base64编码的PNG
	Timestamp    int64       `json:"timestamp"`
}

// BarResult 单条属性条
type BarResult struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Percentage *int   `json:"percentage"` // 无法判断时为 null
	RowY       int    `json:"row_y"`
	EndX       int    `json:"end_x"`
}

// BBox 边界框
type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AnalyzeResponse 分析响应
type AnalyzeResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    *AnalysisResult `json:"data,omitempty"`
}

// ProfilesResponse 可用的校准参数
type ProfilesResponse struct {
	Success  bool     `json:"success"`
	Default  string   `json:"default"`
	Profiles []string `json:"profiles"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
