package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/TIANLI0/StatScan/barscan"
	"github.com/TIANLI0/StatScan/config"
	"github.com/TIANLI0/StatScan/model"
	"github.com/TIANLI0/StatScan/service"
	"github.com/TIANLI0/StatScan/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Analyzer 由 service.AnalyzerService 实现
type Analyzer interface {
	ProcessImage(ctx context.Context, data []byte, md5, profile string, withOverlay bool) (*model.AnalysisResult, error)
	ResolveProfile(name string) (string, error)
	Profiles() []string
	DefaultProfile() string
}

// ResultCache 由 service.RedisService 实现
type ResultCache interface {
	GetAnalysis(ctx context.Context, key string) (*model.AnalysisResult, error)
	SetAnalysis(ctx context.Context, key string, result *model.AnalysisResult) error
}

type UploadHandler struct {
	cfg      *config.Config
	cache    ResultCache
	analyzer Analyzer
}

func NewUploadHandler(cfg *config.Config, cache ResultCache, analyzer Analyzer) *UploadHandler {
	return &UploadHandler{
		cfg:      cfg,
		cache:    cache,
		analyzer: analyzer,
	}
}

// Analyze 处理截图上传并返回六条属性条的百分比
func (h *UploadHandler) Analyze(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.Logger.Error("failed to get uploaded file", zap.Error(err))
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "请上传截图文件",
			Error:   err.Error(),
		})
		return
	}

	// 验证文件大小
	if file.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("文件大小超过限制 (%d MB)", h.cfg.Upload.MaxSize/(1024*1024)),
		})
		return
	}

	// 验证文件类型
	contentType := file.Header.Get("Content-Type")
	if !h.isAllowedType(contentType) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "不支持的文件类型，仅支持 JPEG/PNG/WebP",
		})
		return
	}

	profile, err := h.analyzer.ResolveProfile(c.PostForm("profile"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	withOverlay := c.DefaultPostForm("overlay", "false") == "true"

	// 保存文件
	filename := utils.UploadFilename(file.Filename)
	savePath := filepath.Join(h.cfg.Upload.UploadDir, filename)
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		utils.Logger.Error("failed to save file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "保存文件失败",
			Error:   err.Error(),
		})
		return
	}

	// 确保文件在处理完成后被删除（如果配置启用）
	if h.cfg.Upload.CleanupTempFiles {
		defer func() {
			if err := os.Remove(savePath); err != nil {
				utils.Logger.Warn("failed to delete temp file",
					zap.String("file", savePath),
					zap.Error(err))
			}
		}()
	}

	data, err := os.ReadFile(savePath)
	if err != nil {
		utils.Logger.Error("failed to read saved file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "读取文件失败",
			Error:   err.Error(),
		})
		return
	}
	md5 := utils.BytesMD5(data)

	utils.Logger.Info("file uploaded",
		zap.String("filename", filename),
		zap.String("md5", md5),
		zap.Int64("size", file.Size),
		zap.String("profile", profile),
		zap.Bool("overlay", withOverlay))

	// 检查缓存（带参数区分）
	ctx := c.Request.Context()
	cacheKey := service.CacheKey(md5, profile, withOverlay)

	cachedResult, err := h.cache.GetAnalysis(ctx, cacheKey)
	if err != nil {
		utils.Logger.Warn("failed to get cache", zap.Error(err))
	}
	if cachedResult != nil {
		utils.Logger.Info("cache hit", zap.String("cache_key", cacheKey))
		h.respond(c, cachedResult, "识别成功（来自缓存）")
		return
	}

	result, err := h.analyzer.ProcessImage(ctx, data, md5, profile, withOverlay)
	if err != nil {
		utils.Logger.Error("failed to analyze image", zap.String("md5", md5), zap.Error(err))
		h.respondError(c, err)
		return
	}

	// 保存到缓存
	if err := h.cache.SetAnalysis(ctx, cacheKey, result); err != nil {
		utils.Logger.Warn("failed to set cache", zap.Error(err))
	}

	h.respond(c, result, "识别成功")
}

// GetByMD5 根据MD5获取已缓存的识别结果
func (h *UploadHandler) GetByMD5(c *gin.Context) {
	md5 := c.Param("md5")
	if md5 == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "MD5参数缺失",
		})
		return
	}

	profile, err := h.analyzer.ResolveProfile(c.Query("profile"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	withOverlay := c.DefaultQuery("overlay", "false") == "true"

	result, err := h.cache.GetAnalysis(c.Request.Context(), service.CacheKey(md5, profile, withOverlay))
	if err != nil {
		utils.Logger.Error("failed to get analysis result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "查询失败",
			Error:   err.Error(),
		})
		return
	}

	if result == nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Message: "未找到该截图的识别结果",
		})
		return
	}

	h.respond(c, result, "查询成功")
}

// Profiles 列出可用的校准参数
func (h *UploadHandler) Profiles(c *gin.Context) {
	c.JSON(http.StatusOK, model.ProfilesResponse{
		Success:  true,
		Default:  h.analyzer.DefaultProfile(),
		Profiles: h.analyzer.Profiles(),
	})
}

// respond format=text 时只返回可复制的文本
func (h *UploadHandler) respond(c *gin.Context, result *model.AnalysisResult, message string) {
	format := c.Query("format")
	if format == "" {
		format = c.PostForm("format")
	}
	if format == "text" {
		c.String(http.StatusOK, result.Text)
		return
	}

	c.JSON(http.StatusOK, model.AnalyzeResponse{
		Success: true,
		Message: message,
		Data:    result,
	})
}

func (h *UploadHandler) respondError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	_ = c.Error(err)
	c.JSON(status, model.ErrorResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

// errorStatus 识别失败多半是截图或校准参数不匹配，返回 422 并提示可能的原因
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, barscan.ErrFrameNotDetected):
		return http.StatusUnprocessableEntity, "未找到状态面板，请确认截图范围或 border_color 设置"
	case errors.Is(err, barscan.ErrAxisCalibrationFailed):
		return http.StatusUnprocessableEntity, "无法确定 0%/100% 位置，请检查 edge_color 或 axis 比例"
	case errors.Is(err, barscan.ErrBarRowsUndetermined):
		return http.StatusUnprocessableEntity, "未能定位全部属性条，请检查 bars 的填充色"
	case errors.Is(err, service.ErrUnknownProfile):
		return http.StatusBadRequest, "未知的 profile"
	case errors.Is(err, service.ErrUnsupportedImage):
		return http.StatusBadRequest, "无法解码图片"
	case errors.Is(err, service.ErrQueueFull):
		return http.StatusServiceUnavailable, "处理队列已满，请稍后重试"
	default:
		return http.StatusInternalServerError, "图片处理失败"
	}
}

func (h *UploadHandler) isAllowedType(contentType string) bool {
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}
