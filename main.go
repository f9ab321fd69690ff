package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/TIANLI0/StatScan/config"
	"github.com/TIANLI0/StatScan/handler"
	"github.com/TIANLI0/StatScan/middleware"
	"github.com/TIANLI0/StatScan/service"
	"github.com/TIANLI0/StatScan/service/overlay"
	"github.com/TIANLI0/StatScan/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	BuildID   = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	// 加载配置
	cfg := config.New()

	// 初始化日志
	if err := utils.InitLogger(cfg.Server.Mode, cfg.Log.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	utils.Logger.Info("starting StatScan server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("git_branch", GitBranch),
		zap.Strings("profiles", config.ProfileNames(cfg.Profiles)))

	// 确保上传目录存在
	if err := os.MkdirAll(cfg.Upload.UploadDir, 0755); err != nil {
		utils.Logger.Fatal("failed to create upload directory", zap.Error(err))
	}

	// 初始化Redis
	redisService := service.NewRedisService(&cfg.Redis)
	ctx := context.Background()
	if err := redisService.Ping(ctx); err != nil {
		utils.Logger.Warn("redis connection failed, cache disabled", zap.Error(err))
	} else {
		utils.Logger.Info("redis connected successfully")
	}
	defer redisService.Close()

	// 初始化分析服务
	renderer := overlay.NewRenderer(cfg.Analyzer.OverlayThickness)
	analyzerService, err := service.NewAnalyzerService(&cfg.Analyzer, cfg.Profiles, renderer)
	if err != nil {
		utils.Logger.Fatal("failed to initialize analyzer", zap.Error(err))
	}

	// 初始化Handler
	uploadHandler := handler.NewUploadHandler(cfg, redisService, analyzerService)

	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)
	r := setupRouter(cfg, uploadHandler)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	utils.Logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		utils.Logger.Fatal("failed to start server", zap.Error(err))
	}
}

// setupRouter 注册中间件、上传页面和 API 路由
func setupRouter(cfg *config.Config, uploadHandler *handler.UploadHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())
	r.MaxMultipartMemory = cfg.Upload.MaxSize

	// 静态文件服务
	r.Static("/static", cfg.Server.StaticDir)
	r.StaticFile("/", filepath.Join(cfg.Server.StaticDir, "index.html"))

	// 健康检查和版本信息
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": Version,
		})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"build_id":   BuildID,
			"git_commit": GitCommit,
			"git_branch": GitBranch,
		})
	})

	// API路由
	api := r.Group("/api/v1")
	{
		api.POST("/analyze", uploadHandler.Analyze)
		api.GET("/result/:md5", uploadHandler.GetByMD5)
		api.GET("/profiles", uploadHandler.Profiles)
	}
	return r
}
