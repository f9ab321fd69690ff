package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/TIANLI0/StatScan/config"
	"github.com/TIANLI0/StatScan/model"
	"github.com/TIANLI0/StatScan/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const analysisKeyPrefix = "statbar:"

type RedisService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisService(cfg *config.RedisConfig) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisService{
		client: client,
		ttl:    cfg.TTL,
	}
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// CacheKey 同一张图在不同 profile 或带 overlay 时分别缓存
func CacheKey(md5, profile string, withOverlay bool) string {
	key := md5 + ":" + profile
	if withOverlay {
		key += ":overlay"
	}
	return key
}

// GetAnalysis 从缓存获取分析结果，未命中时返回 nil, nil
func (s *RedisService) GetAnalysis(ctx context.Context, key string) (*model.AnalysisResult, error) {
	data, err := s.client.Get(ctx, analysisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // 缓存未命中
		}
		return nil, err
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		utils.Logger.Error("failed to unmarshal analysis result",
			zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return &result, nil
}

// SetAnalysis 设置分析结果到缓存
func (s *RedisService) SetAnalysis(ctx context.Context, key string, result *model.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, analysisKeyPrefix+key, data, s.ttl).Err()
}

func (s *RedisService) Close() error {
	return s.client.Close()
}
