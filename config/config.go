package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/TIANLI0/StatScan/barscan"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	Log      LogConfig      `mapstructure:"log"`

	// Profiles 校准参数，按名称索引，始终包含 "default"
	Profiles map[string]*barscan.Profile `mapstructure:"-"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	StaticDir    string        `mapstructure:"static_dir"` // 上传页面所在目录
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	MaxSize          int64    `mapstructure:"max_size"`
	UploadDir        string   `mapstructure:"upload_dir"`
	AllowedTypes     []string `mapstructure:"allowed_types"`
	CleanupTempFiles bool     `mapstructure:"cleanup_temp_files"`
}

type AnalyzerConfig struct {
	MaxConcurrent    int           `mapstructure:"max_concurrent"`
	QueueTimeout     time.Duration `mapstructure:"queue_timeout"`
	PreviewMaxWidth  int           `mapstructure:"preview_max_width"`
	PreviewMaxHeight int           `mapstructure:"preview_max_height"`
	DefaultProfile   string        `mapstructure:"default_profile"`
	OverlayThickness int           `mapstructure:"overlay_thickness"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load 从 YAML 文件加载配置
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return decode(v)
}

// New 使用默认配置路径加载配置
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		// 如果加载失败，只使用默认值和环境变量
		cfg, err = decode(newViper())
		if err != nil {
			return getDefaultConfig()
		}
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("STATSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	profiles, err := loadProfiles(v)
	if err != nil {
		return nil, err
	}
	cfg.Profiles = profiles

	if _, ok := cfg.Profiles[cfg.Analyzer.DefaultProfile]; !ok {
		return nil, fmt.Errorf("analyzer.default_profile %q is not defined", cfg.Analyzer.DefaultProfile)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.static_dir", "./static")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("upload.max_size", 10*1024*1024)
	v.SetDefault("upload.upload_dir", "./uploads")
	v.SetDefault("upload.allowed_types", []string{"image/jpeg", "image/png", "image/jpg", "image/webp"})
	v.SetDefault("upload.cleanup_temp_files", true)

	v.SetDefault("analyzer.max_concurrent", 4)
	v.SetDefault("analyzer.queue_timeout", 30*time.Second)
	v.SetDefault("analyzer.preview_max_width", 1920)
	v.SetDefault("analyzer.preview_max_height", 1920)
	v.SetDefault("analyzer.default_profile", "default")
	v.SetDefault("analyzer.overlay_thickness", 1)

	v.SetDefault("log.level", "")
}

func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  24 * time.Hour,
		},
		Upload: UploadConfig{
			MaxSize:          10 * 1024 * 1024,
			UploadDir:        "./uploads",
			AllowedTypes:     []string{"image/jpeg", "image/png", "image/jpg", "image/webp"},
			CleanupTempFiles: true,
		},
		Analyzer: AnalyzerConfig{
			MaxConcurrent:    4,
			QueueTimeout:     30 * time.Second,
			PreviewMaxWidth:  1920,
			PreviewMaxHeight: 1920,
			DefaultProfile:   "default",
			OverlayThickness: 1,
		},
		Profiles: map[string]*barscan.Profile{
			"default": barscan.DefaultProfile(),
		},
	}
}
