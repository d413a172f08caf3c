// 配置管理
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 主配置结构
type Config struct {
	System        SystemConfig        `mapstructure:"system"`
	Temporal      TemporalConfig      `mapstructure:"temporal"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// SystemConfig 系统配置
type SystemConfig struct {
	Env             string        `mapstructure:"env"`
	ServiceName     string        `mapstructure:"service_name"`
	Version         string        `mapstructure:"version"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// TemporalConfig Temporal 配置
type TemporalConfig struct {
	Address   string       `mapstructure:"address"`
	Namespace string       `mapstructure:"namespace"`
	TaskQueue string       `mapstructure:"task_queue"`
	Worker    WorkerConfig `mapstructure:"worker"`
	Retry     RetryConfig  `mapstructure:"retry"`
}

// WorkerConfig Worker 配置
type WorkerConfig struct {
	MaxConcurrentActivities int `mapstructure:"max_concurrent_activities"`
	MaxConcurrentWorkflows  int `mapstructure:"max_concurrent_workflows"`
}

// RetryConfig 重试配置
type RetryConfig struct {
	InitialInterval    time.Duration `mapstructure:"initial_interval"`
	BackoffCoefficient float64       `mapstructure:"backoff_coefficient"`
	MaximumInterval    time.Duration `mapstructure:"maximum_interval"`
	MaximumAttempts    int           `mapstructure:"maximum_attempts"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// DatabaseConfig 试验数据库配置
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Address      string        `mapstructure:"address"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ScoringConfig 评分管道配置
type ScoringConfig struct {
	// ReferenceFile 参考表覆盖文件路径 (可选)
	ReferenceFile string `mapstructure:"reference_file"`
	// AlertThreshold 周度平均市值波动告警阈值 (比例)
	AlertThreshold float64 `mapstructure:"alert_threshold"`
	// ComparisonWindowDays 告警对比窗口天数
	ComparisonWindowDays int `mapstructure:"comparison_window_days"`
	// TopOpportunities 快照中保留的高回报条目数
	TopOpportunities int `mapstructure:"top_opportunities"`
	// CompanyCacheTTL 公司画像缓存有效期
	CompanyCacheTTL time.Duration `mapstructure:"company_cache_ttl"`
	// RunLockTTL 运行锁有效期，需覆盖最长一次运行
	RunLockTTL time.Duration `mapstructure:"run_lock_ttl"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Tracing TracingConfig `mapstructure:"tracing"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Endpoint   string  `mapstructure:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load 加载配置
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 环境变量替换
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 处理环境变量中的密钥
	config.Storage.Redis.Password = os.ExpandEnv(config.Storage.Redis.Password)
	config.Storage.Database.DSN = os.ExpandEnv(config.Storage.Database.DSN)

	setDefaults(&config)

	return &config, nil
}

func setDefaults(cfg *Config) {
	if cfg.System.ServiceName == "" {
		cfg.System.ServiceName = "ctmis-worker"
	}
	if cfg.System.ShutdownTimeout == 0 {
		cfg.System.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Temporal.TaskQueue == "" {
		cfg.Temporal.TaskQueue = "ctmis-update"
	}
	if cfg.Temporal.Worker.MaxConcurrentActivities == 0 {
		cfg.Temporal.Worker.MaxConcurrentActivities = 10
	}
	if cfg.Temporal.Worker.MaxConcurrentWorkflows == 0 {
		cfg.Temporal.Worker.MaxConcurrentWorkflows = 5
	}
	if cfg.Storage.Database.DSN == "" {
		cfg.Storage.Database.DSN = "ctmis.db"
	}
	if cfg.Storage.Redis.PoolSize == 0 {
		cfg.Storage.Redis.PoolSize = 20
	}
	if cfg.Scoring.AlertThreshold == 0 {
		cfg.Scoring.AlertThreshold = 0.20
	}
	if cfg.Scoring.ComparisonWindowDays == 0 {
		cfg.Scoring.ComparisonWindowDays = 7
	}
	if cfg.Scoring.TopOpportunities == 0 {
		cfg.Scoring.TopOpportunities = 10
	}
	if cfg.Scoring.CompanyCacheTTL == 0 {
		cfg.Scoring.CompanyCacheTTL = 24 * time.Hour
	}
	if cfg.Scoring.RunLockTTL == 0 {
		cfg.Scoring.RunLockTTL = 2 * time.Hour
	}
	if cfg.Observability.Metrics.Port == 0 {
		cfg.Observability.Metrics.Port = 9090
	}
}
