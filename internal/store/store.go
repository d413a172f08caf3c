// 存储层
// gorm 仓储: 试验记录只读，衍生指标事务内整表替换，
// 快照/告警/运行日志 append-only
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ctmis-ai/ctmis/internal/model"
	"github.com/ctmis-ai/ctmis/pkg/config"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 聚合范围: 仅这些阶段与状态的试验参与评分
var (
	eligiblePhases = []model.Phase{model.Phase1, model.Phase2, model.Phase3}

	eligibleStatuses = []model.TrialStatus{
		model.StatusRecruiting,
		model.StatusActive,
		model.StatusActiveNotRecruiting,
	}
)

// Store 数据仓储
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open 打开数据库并迁移衍生表
// 试验表与公司分类表由外部摄取器负责写入，这里仅确保结构存在
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&model.TrialRecord{},
		&model.CompanyProfile{},
		&model.ComputedTrialMetrics{},
		&model.WeeklySnapshot{},
		&model.Alert{},
		&model.UpdateLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db, logger: log}, nil
}

// New 从已有连接构建仓储 (测试用)
func New(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, logger: log}
}

// ActiveTrials 返回参与本次评分的试验集合
// 按 nct_id 排序保证跨运行的确定性
func (s *Store) ActiveTrials(ctx context.Context) ([]model.TrialRecord, error) {
	var trials []model.TrialRecord
	err := s.db.WithContext(ctx).
		Where("phase IN ? AND status IN ?", eligiblePhases, eligibleStatuses).
		Order("nct_id").
		Find(&trials).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active trials: %w", err)
	}
	return trials, nil
}

// PublishSnapshot 在单事务内整表替换衍生指标并写入对应快照
// 指标与快照要么一起可见要么都不可见；任一步失败整体回滚，
// 上一版指标与快照保持权威
func (s *Store) PublishSnapshot(ctx context.Context, rows []model.ComputedTrialMetrics, snap *model.WeeklySnapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.ComputedTrialMetrics{}).Error; err != nil {
			return fmt.Errorf("failed to truncate metrics: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("failed to insert metrics: %w", err)
			}
		}
		if err := tx.Create(snap).Error; err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		return nil
	})
}

// Metrics 返回当前衍生指标全表 (按 nct_id 排序)
func (s *Store) Metrics(ctx context.Context) ([]model.ComputedTrialMetrics, error) {
	var rows []model.ComputedTrialMetrics
	err := s.db.WithContext(ctx).Order("nct_id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics: %w", err)
	}
	return rows, nil
}

// LatestSnapshotBefore 返回 cutoff 之前最近的快照，没有时返回 nil
func (s *Store) LatestSnapshotBefore(ctx context.Context, cutoff time.Time) (*model.WeeklySnapshot, error) {
	var snap model.WeeklySnapshot
	err := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Order("created_at DESC").
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load prior snapshot: %w", err)
	}
	return &snap, nil
}

// SaveAlerts 追加告警
func (s *Store) SaveAlerts(ctx context.Context, alerts []model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&alerts).Error; err != nil {
		return fmt.Errorf("failed to save alerts: %w", err)
	}
	return nil
}

// BeginUpdateLog 写入 RUNNING 运行日志行
func (s *Store) BeginUpdateLog(ctx context.Context) (*model.UpdateLog, error) {
	entry := &model.UpdateLog{
		StartedAt: time.Now().UTC(),
		Status:    model.UpdateRunning,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create update log: %w", err)
	}
	return entry, nil
}

// FinishUpdateLog 将运行日志迁移到终态
// WHERE status = RUNNING 保证每次运行恰好一次终态迁移
func (s *Store) FinishUpdateLog(ctx context.Context, id uint, status model.UpdateStatus, processed int, errMsg string) error {
	now := time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&model.UpdateLog{}).
		Where("id = ? AND status = ?", id, model.UpdateRunning).
		Updates(map[string]interface{}{
			"status":          status,
			"finished_at":     &now,
			"processed_count": processed,
			"error_message":   errMsg,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to finish update log: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update log %d is not in RUNNING state", id)
	}
	return nil
}

// UpdateLogByID 按 ID 读取运行日志
func (s *Store) UpdateLogByID(ctx context.Context, id uint) (*model.UpdateLog, error) {
	var entry model.UpdateLog
	if err := s.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, fmt.Errorf("failed to load update log: %w", err)
	}
	return &entry, nil
}

// CompanyClassification 按 sponsor 查公司分类
// 未收录的 sponsor 返回零值画像 (评分走默认乘数)，不视为错误
func (s *Store) CompanyClassification(ctx context.Context, sponsor string) (model.CompanyProfile, error) {
	var profile model.CompanyProfile
	err := s.db.WithContext(ctx).
		Where("sponsor_name = ?", sponsor).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CompanyProfile{SponsorName: sponsor}, nil
	}
	if err != nil {
		return model.CompanyProfile{}, fmt.Errorf("failed to load company classification: %w", err)
	}
	return profile, nil
}
