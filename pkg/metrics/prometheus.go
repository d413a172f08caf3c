// Prometheus 指标定义
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdateRunDuration 周度更新运行时长
	UpdateRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ctmis_update_run_duration_seconds",
			Help:    "Weekly update run duration",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"status"},
	)

	// ActivityDuration 活动执行时长
	ActivityDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ctmis_activity_duration_seconds",
			Help:    "Activity execution duration",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"activity_name", "status"},
	)

	// TrialsProcessed 处理的试验数
	TrialsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ctmis_trials_processed_total",
			Help: "Trials scored across all runs",
		},
	)

	// TrialsSkipped 单试验失败被跳过的数量
	TrialsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ctmis_trials_skipped_total",
			Help: "Trials skipped due to per-trial scoring failures",
		},
	)

	// AlertsEmitted 告警发出数
	AlertsEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ctmis_alerts_emitted_total",
			Help: "Disease-area swing alerts emitted",
		},
	)

	// CacheHitRate 缓存命中率
	CacheHitRate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ctmis_cache_operations_total",
			Help: "Cache operations count",
		},
		[]string{"operation", "result"}, // result: hit/miss
	)

	// ErrorsTotal 错误计数
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ctmis_errors_total",
			Help: "Total errors by level and code",
		},
		[]string{"level", "code"},
	)

	// ActiveRuns 进行中的运行数
	ActiveRuns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ctmis_active_runs",
			Help: "Number of update runs currently in progress",
		},
	)
)
