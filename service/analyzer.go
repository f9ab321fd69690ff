package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/TIANLI0/StatScan/barscan"
	"github.com/TIANLI0/StatScan/config"
	"github.com/TIANLI0/StatScan/model"
	"github.com/TIANLI0/StatScan/utils"
	"go.uber.org/zap"
)

var (
	ErrUnknownProfile = errors.New("unknown profile")
	ErrQueueFull      = errors.New("analysis queue is full")
)

// OverlayRenderer 在截图上标出分析结果，返回 base64 PNG
type OverlayRenderer interface {
	Render(img image.Image, report *barscan.Report) (string, error)
}

// AnalyzerService 负责属性条读数，限制同时进行的分析数量
type AnalyzerService struct {
	analyzers      map[string]*barscan.Analyzer
	names          []string
	defaultProfile string
	semaphore      chan struct{}
	queueTimeout   time.Duration
	previewW       int
	previewH       int
	renderer       OverlayRenderer
}

// NewAnalyzerService renderer 可以为 nil，此时 overlay 请求被忽略
func NewAnalyzerService(cfg *config.AnalyzerConfig, profiles map[string]*barscan.Profile, renderer OverlayRenderer) (*AnalyzerService, error) {
	if _, ok := profiles[cfg.DefaultProfile]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, cfg.DefaultProfile)
	}

	logger := utils.Logger.Named("barscan")
	analyzers := make(map[string]*barscan.Analyzer, len(profiles))
	for name, p := range profiles {
		a, err := barscan.New(p, logger)
		if err != nil {
			return nil, err
		}
		analyzers[name] = a
	}

	return &AnalyzerService{
		analyzers:      analyzers,
		names:          config.ProfileNames(profiles),
		defaultProfile: cfg.DefaultProfile,
		semaphore:      make(chan struct{}, max(1, cfg.MaxConcurrent)),
		queueTimeout:   cfg.QueueTimeout,
		previewW:       cfg.PreviewMaxWidth,
		previewH:       cfg.PreviewMaxHeight,
		renderer:       renderer,
	}, nil
}

// Profiles 可用的 profile 名称（已排序）
func (s *AnalyzerService) Profiles() []string {
	return append([]string(nil), s.names...)
}

func (s *AnalyzerService) DefaultProfile() string {
	return s.defaultProfile
}

// ResolveProfile 空名称解析为默认 profile
func (s *AnalyzerService) ResolveProfile(name string) (string, error) {
	if name == "" {
		return s.defaultProfile, nil
	}
	if _, ok := s.analyzers[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return name, nil
}

// ProcessImage 解码上传内容并读取六条属性条
func (s *AnalyzerService) ProcessImage(ctx context.Context, data []byte, md5, profile string, withOverlay bool) (*model.AnalysisResult, error) {
	profile, err := s.ResolveProfile(profile)
	if err != nil {
		return nil, err
	}

	// 并发控制
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer func() { <-s.semaphore }()

	startTime := time.Now()

	img, format, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	src := img.Bounds()
	img = FitPreview(img, s.previewW, s.previewH)

	raster, err := barscan.NewRaster(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	utils.Logger.Info("analyzing image",
		zap.String("md5", md5),
		zap.String("profile", profile),
		zap.String("format", format),
		zap.Int("source_width", src.Dx()),
		zap.Int("source_height", src.Dy()),
		zap.Int("width", raster.Width()),
		zap.Int("height", raster.Height()))

	report, err := s.analyzers[profile].Analyze(raster)
	if err != nil {
		return nil, err
	}

	result := buildResult(md5, profile, src, report)

	if withOverlay && s.renderer != nil {
		overlay, err := s.renderer.Render(img, report)
		if err != nil {
			utils.Logger.Warn("failed to render overlay", zap.String("md5", md5), zap.Error(err))
		} else {
			result.Overlay = overlay
		}
	}

	utils.Logger.Info("image analyzed successfully",
		zap.String("md5", md5),
		zap.Duration("duration", time.Since(startTime)),
		zap.Strings("result", report.Result.Lines()))

	return result, nil
}

// acquire 在 queueTimeout 内等待空闲槽位
func (s *AnalyzerService) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.queueTimeout)
	defer cancel()

	select {
	case s.semaphore <- struct{}{}:
		return nil
	case <-waitCtx.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrQueueFull
	}
}

func buildResult(md5, profile string, src image.Rectangle, report *barscan.Report) *model.AnalysisResult {
	bars := make([]model.BarResult, len(report.Result))
	for i, e := range report.Result {
		m := report.Measurements[i]
		bars[i] = model.BarResult{
			Name:  e.Bar,
			Label: e.Label,
			RowY:  m.RowY,
			EndX:  m.EndX,
		}
		if e.Determined {
			pct := e.Percent
			bars[i].Percentage = &pct
		}
	}

	f := report.Frame
	return &model.AnalysisResult{
		MD5:          md5,
		Profile:      profile,
		Width:        report.Width,
		Height:       report.Height,
		SourceWidth:  src.Dx(),
		SourceHeight: src.Dy(),
		Frame:        model.BBox{X: f.Left, Y: f.Top, Width: f.Width() + 1, Height: f.Height() + 1},
		ZeroX:        report.Axis.ZeroX,
		FullX:        report.Axis.FullX,
		Bars:         bars,
		Text:         report.Result.Text(),
		Timestamp:    time.Now().Unix(),
	}
}
