// 周度更新主工作流
// 编排锁定、全量评分快照、告警检测与运行收尾
package workflow

import (
	"fmt"
	"time"

	"github.com/ctmis-ai/ctmis/internal/activity"
	"github.com/ctmis-ai/ctmis/internal/model"
	cerrors "github.com/ctmis-ai/ctmis/pkg/errors"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// WeeklyUpdateOutput 工作流输出
type WeeklyUpdateOutput struct {
	UpdateLogID uint               `json:"update_log_id"`
	Status      model.UpdateStatus `json:"status"`
	Processed   int                `json:"processed"`
	SnapshotID  uint               `json:"snapshot_id"`
	AlertCount  int                `json:"alert_count"`
	CompletedAt time.Time          `json:"completed_at"`
}

// ProgressInfo 进度信息 (用于 Query)
type ProgressInfo struct {
	CurrentStep    string   `json:"current_step"`
	CompletedSteps []string `json:"completed_steps"`
	TotalSteps     int      `json:"total_steps"`
	Progress       float64  `json:"progress"`
}

// WeeklyUpdateWorkflow 周度市场情报更新工作流
// 不变量: BeginRun 成功后，无论后续任何一步失败，
// FinishRun 都恰好执行一次，使运行日志进入终态并释放运行锁
func WeeklyUpdateWorkflow(ctx workflow.Context) (*WeeklyUpdateOutput, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting weekly update workflow")

	saga := NewSagaCompensation()

	var currentStep string
	completedSteps := make([]string, 0)
	const totalSteps = 4

	err := workflow.SetQueryHandler(ctx, "progress", func() (ProgressInfo, error) {
		return ProgressInfo{
			CurrentStep:    currentStep,
			CompletedSteps: completedSteps,
			TotalSteps:     totalSteps,
			Progress:       float64(len(completedSteps)) / float64(totalSteps) * 100,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set query handler: %w", err)
	}

	activityOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        5 * time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        1 * time.Minute,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{"ClassifiedError", "FatalError"},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOpts)

	output := &WeeklyUpdateOutput{}

	// ============== Step 1: 抢锁并写入 RUNNING 日志 ==============
	currentStep = "BeginRun"

	var beginResult activity.BeginRunResult
	if err := workflow.ExecuteActivity(ctx, "BeginRunActivity").Get(ctx, &beginResult); err != nil {
		// 锁被占用或日志创建失败: 还没有需要收尾的运行
		logger.Warn("BeginRun failed, nothing to compensate", "error", err)
		return nil, fmt.Errorf("begin run failed: %w", err)
	}
	completedSteps = append(completedSteps, "BeginRun")
	output.UpdateLogID = beginResult.UpdateLogID

	// 此后任何失败都要把日志迁移到 ERROR 并释放锁
	processed := 0
	failureMessage := ""
	saga.AddCompensation("finish_run_error", func(ctx workflow.Context) error {
		return workflow.ExecuteActivity(ctx, "FinishRunActivity", activity.FinishRunInput{
			UpdateLogID:  beginResult.UpdateLogID,
			Status:       string(model.UpdateError),
			Processed:    processed,
			ErrorMessage: failureMessage,
		}).Get(ctx, nil)
	})

	// ============== Step 2: 全量评分与快照 ==============
	currentStep = "AggregateSnapshot"

	var aggResult activity.AggregateResult
	if err := workflow.ExecuteActivity(ctx, "AggregateSnapshotActivity").Get(ctx, &aggResult); err != nil {
		classified := cerrors.ClassifyError(err)
		failureMessage = classified.Error()
		logger.Error("Snapshot aggregation failed",
			"error", err,
			"level", classified.Level.String(),
			"code", classified.Code)
		_ = saga.Execute(ctx)
		output.Status = model.UpdateError
		return output, fmt.Errorf("snapshot aggregation failed: %w", err)
	}
	completedSteps = append(completedSteps, "AggregateSnapshot")
	processed = aggResult.Processed
	output.Processed = aggResult.Processed
	output.SnapshotID = aggResult.SnapshotID

	// ============== Step 3: 周环比告警检测 ==============
	currentStep = "DetectAlerts"

	var alertResult activity.DetectAlertsResult
	if err := workflow.ExecuteActivity(ctx, "DetectAlertsActivity",
		activity.DetectAlertsInput{
			AvgValueByDiseaseArea: aggResult.AvgValueByDiseaseArea,
		}).Get(ctx, &alertResult); err != nil {
		classified := cerrors.ClassifyError(err)
		failureMessage = classified.Error()
		logger.Error("Alert detection failed", "error", err, "code", classified.Code)
		_ = saga.Execute(ctx)
		output.Status = model.UpdateError
		return output, fmt.Errorf("alert detection failed: %w", err)
	}
	completedSteps = append(completedSteps, "DetectAlerts")
	output.AlertCount = alertResult.AlertCount

	// ============== Step 4: 成功收尾 ==============
	currentStep = "FinishRun"

	if err := workflow.ExecuteActivity(ctx, "FinishRunActivity",
		activity.FinishRunInput{
			UpdateLogID: beginResult.UpdateLogID,
			Status:      string(model.UpdateSuccess),
			Processed:   aggResult.Processed,
		}).Get(ctx, nil); err != nil {
		// 成功收尾本身失败时仍走补偿路径，保证终态迁移被重试过
		failureMessage = err.Error()
		_ = saga.Execute(ctx)
		output.Status = model.UpdateError
		return output, fmt.Errorf("finish run failed: %w", err)
	}
	completedSteps = append(completedSteps, "FinishRun")
	saga.Clear()

	output.Status = model.UpdateSuccess
	output.CompletedAt = workflow.Now(ctx)

	logger.Info("Weekly update workflow completed",
		"update_log_id", output.UpdateLogID,
		"processed", output.Processed,
		"alert_count", output.AlertCount,
	)

	return output, nil
}
