// 告警检测器
// 对比本周与上一周快照的疾病领域平均市值，超阈值波动产出告警
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ctmis-ai/ctmis/internal/model"
	"github.com/ctmis-ai/ctmis/pkg/metrics"
	"go.uber.org/zap"
)

// SnapshotHistory 历史快照查询
type SnapshotHistory interface {
	LatestSnapshotBefore(ctx context.Context, cutoff time.Time) (*model.WeeklySnapshot, error)
}

// AlertSink 告警写入端
type AlertSink interface {
	SaveAlerts(ctx context.Context, alerts []model.Alert) error
}

// AlertDetector 周环比告警检测器
type AlertDetector struct {
	history   SnapshotHistory
	sink      AlertSink
	threshold float64
	window    time.Duration
	logger    *zap.Logger
}

// NewAlertDetector 构建告警检测器
// threshold 为相对变化阈值 (0.20 = 20%)，window 为对比窗口
func NewAlertDetector(history SnapshotHistory, sink AlertSink, threshold float64, window time.Duration, logger *zap.Logger) *AlertDetector {
	return &AlertDetector{
		history:   history,
		sink:      sink,
		threshold: threshold,
		window:    window,
		logger:    logger,
	}
}

// Detect 对比当前均值与窗口外最近一次快照，写入并返回告警
// 没有历史快照视为首次运行，不产出告警
func (d *AlertDetector) Detect(ctx context.Context, currentAvg map[string]float64, now time.Time) ([]model.Alert, error) {
	prior, err := d.history.LatestSnapshotBefore(ctx, now.Add(-d.window))
	if err != nil {
		return nil, fmt.Errorf("failed to load prior snapshot: %w", err)
	}
	if prior == nil {
		d.logger.Info("No prior snapshot in comparison window, skipping alert detection")
		return nil, nil
	}

	var priorAvg map[string]float64
	if err := json.Unmarshal([]byte(prior.AvgValueByDiseaseAreaJSON), &priorAvg); err != nil {
		return nil, fmt.Errorf("failed to decode prior snapshot averages: %w", err)
	}

	// 按领域名排序保证告警产出顺序确定
	areas := make([]string, 0, len(currentAvg))
	for area := range currentAvg {
		areas = append(areas, area)
	}
	sort.Strings(areas)

	var alerts []model.Alert
	for _, area := range areas {
		old, ok := priorAvg[area]
		if !ok || old == 0 {
			// 新出现的领域或上周均值为零，无可比基线
			continue
		}
		current := currentAvg[area]
		change := (current - old) / old
		if math.Abs(change) <= d.threshold {
			continue
		}
		alerts = append(alerts, model.Alert{
			DiseaseArea:      area,
			PreviousAvgValue: old,
			CurrentAvgValue:  current,
			PercentChange:    change * 100,
		})
		d.logger.Info("Disease area value shift detected",
			zap.String("disease_area", area),
			zap.Float64("previous_avg", old),
			zap.Float64("current_avg", current),
			zap.Float64("percent_change", change*100))
		metrics.AlertsEmitted.Inc()
	}

	if len(alerts) > 0 {
		if err := d.sink.SaveAlerts(ctx, alerts); err != nil {
			return nil, fmt.Errorf("failed to save alerts: %w", err)
		}
	}
	return alerts, nil
}
