// Activity 实现
// 封装更新运行各阶段的具体业务逻辑
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/ctmis-ai/ctmis/internal/company"
	"github.com/ctmis-ai/ctmis/internal/model"
	"github.com/ctmis-ai/ctmis/internal/refdata"
	"github.com/ctmis-ai/ctmis/internal/snapshot"
	"github.com/ctmis-ai/ctmis/internal/store"
	"github.com/ctmis-ai/ctmis/pkg/cache"
	"github.com/ctmis-ai/ctmis/pkg/config"
	cerrors "github.com/ctmis-ai/ctmis/pkg/errors"
	"github.com/ctmis-ai/ctmis/pkg/metrics"
	"github.com/ctmis-ai/ctmis/pkg/tracing"
	"go.temporal.io/sdk/activity"
	"go.uber.org/zap"
)

// Activities 包含所有 Activity 的依赖
type Activities struct {
	config     *config.Config
	logger     *zap.Logger
	store      *store.Store
	cache      *cache.RedisCache
	tables     *refdata.Tables
	aggregator *snapshot.Aggregator
	detector   *snapshot.AlertDetector
}

// NewActivities 创建 Activities 实例
func NewActivities(cfg *config.Config, logger *zap.Logger) (*Activities, error) {
	tables, err := refdata.Load(cfg.Scoring.ReferenceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference tables: %w", err)
	}

	st, err := store.Open(cfg.Storage.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	redisCache, err := cache.NewRedisCache(cfg.Storage.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cache: %w", err)
	}

	companies := company.NewCachedClassifier(st, redisCache, cfg.Scoring.CompanyCacheTTL, logger)
	aggregator := snapshot.NewAggregator(tables, companies, st, st, logger, cfg.Scoring.TopOpportunities)
	detector := snapshot.NewAlertDetector(
		st, st,
		cfg.Scoring.AlertThreshold,
		time.Duration(cfg.Scoring.ComparisonWindowDays)*24*time.Hour,
		logger,
	)

	return &Activities{
		config:     cfg,
		logger:     logger,
		store:      st,
		cache:      redisCache,
		tables:     tables,
		aggregator: aggregator,
		detector:   detector,
	}, nil
}

// Close 关闭资源
func (a *Activities) Close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}

// BeginRunActivity 启动一次更新运行
// 抢占分布式运行锁后写入 RUNNING 日志行；锁被占用时直接失败且不重试
func (a *Activities) BeginRunActivity(ctx context.Context) (*BeginRunResult, error) {
	logger := a.logger.With(zap.String("activity", "BeginRun"))
	info := activity.GetInfo(ctx)

	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.ActivityDuration.WithLabelValues("BeginRun", status).Observe(time.Since(startTime).Seconds())
	}()

	ctx, span := tracing.StartSpan(ctx, "activity.BeginRun")
	defer span.End()

	acquired, err := a.cache.AcquireRunLock(ctx, info.WorkflowExecution.ID, a.config.Scoring.RunLockTTL)
	if err != nil {
		status = "error"
		tracing.RecordError(ctx, err)
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !acquired {
		status = "error"
		logger.Warn("Run lock held by another execution, refusing to start")
		return nil, cerrors.ClassifyError(cerrors.ErrRunLockHeld)
	}

	entry, err := a.store.BeginUpdateLog(ctx)
	if err != nil {
		status = "error"
		tracing.RecordError(ctx, err)
		// 日志行创建失败时释放锁，避免下次调度被挡
		if relErr := a.cache.ReleaseRunLock(ctx); relErr != nil {
			logger.Error("Failed to release run lock after log failure", zap.Error(relErr))
		}
		return nil, fmt.Errorf("failed to begin update log: %w", err)
	}

	metrics.ActiveRuns.Inc()
	logger.Info("Update run started", zap.Uint("update_log_id", entry.ID))
	return &BeginRunResult{UpdateLogID: entry.ID}, nil
}

// AggregateSnapshotActivity 对在研试验全量评分并产出周度快照
func (a *Activities) AggregateSnapshotActivity(ctx context.Context) (*AggregateResult, error) {
	logger := a.logger.With(zap.String("activity", "AggregateSnapshot"))

	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.ActivityDuration.WithLabelValues("AggregateSnapshot", status).Observe(time.Since(startTime).Seconds())
	}()

	ctx, span := tracing.StartSpan(ctx, "activity.AggregateSnapshot")
	defer span.End()

	activity.RecordHeartbeat(ctx, "Scoring active trials...")

	result, err := a.aggregator.Run(ctx)
	if err != nil {
		status = "error"
		tracing.RecordError(ctx, err)
		classified := cerrors.ClassifyError(err)
		metrics.ErrorsTotal.WithLabelValues(classified.Level.String(), classified.Code).Inc()
		return nil, classified
	}

	logger.Info("Snapshot aggregation finished",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Uint("snapshot_id", result.SnapshotID))

	return &AggregateResult{
		Processed:             result.Processed,
		Skipped:               result.Skipped,
		TrialCount:            result.TrialCount,
		SnapshotID:            result.SnapshotID,
		AvgValueByDiseaseArea: result.AvgValueByDiseaseArea,
	}, nil
}

// DetectAlertsActivity 对比上一周快照检测均值大幅波动
func (a *Activities) DetectAlertsActivity(ctx context.Context, input DetectAlertsInput) (*DetectAlertsResult, error) {
	logger := a.logger.With(zap.String("activity", "DetectAlerts"))

	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.ActivityDuration.WithLabelValues("DetectAlerts", status).Observe(time.Since(startTime).Seconds())
	}()

	ctx, span := tracing.StartSpan(ctx, "activity.DetectAlerts")
	defer span.End()

	alerts, err := a.detector.Detect(ctx, input.AvgValueByDiseaseArea, time.Now().UTC())
	if err != nil {
		status = "error"
		tracing.RecordError(ctx, err)
		return nil, cerrors.ClassifyError(err)
	}

	logger.Info("Alert detection finished", zap.Int("alert_count", len(alerts)))
	return &DetectAlertsResult{AlertCount: len(alerts)}, nil
}

// FinishRunActivity 将运行日志迁移到终态并释放运行锁
// 无论成功失败路径都必须执行，锁释放失败只记日志不影响终态写入
func (a *Activities) FinishRunActivity(ctx context.Context, input FinishRunInput) error {
	logger := a.logger.With(
		zap.String("activity", "FinishRun"),
		zap.Uint("update_log_id", input.UpdateLogID),
		zap.String("status", input.Status))

	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.ActivityDuration.WithLabelValues("FinishRun", status).Observe(time.Since(startTime).Seconds())
	}()

	ctx, span := tracing.StartSpan(ctx, "activity.FinishRun")
	defer span.End()

	err := a.store.FinishUpdateLog(ctx,
		input.UpdateLogID,
		model.UpdateStatus(input.Status),
		input.Processed,
		input.ErrorMessage)

	if relErr := a.cache.ReleaseRunLock(ctx); relErr != nil {
		logger.Error("Failed to release run lock", zap.Error(relErr))
	}
	metrics.ActiveRuns.Dec()

	if err != nil {
		status = "error"
		tracing.RecordError(ctx, err)
		return fmt.Errorf("failed to finish update log: %w", err)
	}

	logger.Info("Update run finished")
	return nil
}
