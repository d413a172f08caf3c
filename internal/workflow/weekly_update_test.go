package workflow

import (
	"context"
	"testing"

	"github.com/ctmis-ai/ctmis/internal/activity"
	"github.com/ctmis-ai/ctmis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	sdkactivity "go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
)

type WeeklyUpdateWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env *testsuite.TestWorkflowEnvironment

	finishInputs []activity.FinishRunInput
}

func TestWeeklyUpdateWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(WeeklyUpdateWorkflowTestSuite))
}

func (s *WeeklyUpdateWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.finishInputs = nil
}

func (s *WeeklyUpdateWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

// 注册按名称调用的活动桩
func (s *WeeklyUpdateWorkflowTestSuite) registerStubs(
	begin func(ctx context.Context) (*activity.BeginRunResult, error),
	aggregate func(ctx context.Context) (*activity.AggregateResult, error),
	detect func(ctx context.Context, input activity.DetectAlertsInput) (*activity.DetectAlertsResult, error),
	finish func(ctx context.Context, input activity.FinishRunInput) error,
) {
	s.env.RegisterActivityWithOptions(begin, sdkactivity.RegisterOptions{Name: "BeginRunActivity"})
	s.env.RegisterActivityWithOptions(aggregate, sdkactivity.RegisterOptions{Name: "AggregateSnapshotActivity"})
	s.env.RegisterActivityWithOptions(detect, sdkactivity.RegisterOptions{Name: "DetectAlertsActivity"})
	s.env.RegisterActivityWithOptions(finish, sdkactivity.RegisterOptions{Name: "FinishRunActivity"})
}

func (s *WeeklyUpdateWorkflowTestSuite) captureFinish() func(ctx context.Context, input activity.FinishRunInput) error {
	return func(ctx context.Context, input activity.FinishRunInput) error {
		s.finishInputs = append(s.finishInputs, input)
		return nil
	}
}

func (s *WeeklyUpdateWorkflowTestSuite) TestSuccessPath() {
	avg := map[string]float64{"Oncology": 120.5}

	s.registerStubs(
		func(ctx context.Context) (*activity.BeginRunResult, error) {
			return &activity.BeginRunResult{UpdateLogID: 7}, nil
		},
		func(ctx context.Context) (*activity.AggregateResult, error) {
			return &activity.AggregateResult{
				Processed:             42,
				TrialCount:            42,
				SnapshotID:            9,
				AvgValueByDiseaseArea: avg,
			}, nil
		},
		func(ctx context.Context, input activity.DetectAlertsInput) (*activity.DetectAlertsResult, error) {
			s.Equal(avg, input.AvgValueByDiseaseArea)
			return &activity.DetectAlertsResult{AlertCount: 2}, nil
		},
		s.captureFinish(),
	)

	s.env.ExecuteWorkflow(WeeklyUpdateWorkflow)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var output WeeklyUpdateOutput
	s.NoError(s.env.GetWorkflowResult(&output))
	s.Equal(uint(7), output.UpdateLogID)
	s.Equal(model.UpdateSuccess, output.Status)
	s.Equal(42, output.Processed)
	s.Equal(uint(9), output.SnapshotID)
	s.Equal(2, output.AlertCount)

	// 成功路径只收尾一次，状态为 SUCCESS
	s.Require().Len(s.finishInputs, 1)
	s.Equal("SUCCESS", s.finishInputs[0].Status)
	s.Equal(uint(7), s.finishInputs[0].UpdateLogID)
	s.Equal(42, s.finishInputs[0].Processed)
	s.Empty(s.finishInputs[0].ErrorMessage)
}

func (s *WeeklyUpdateWorkflowTestSuite) TestAggregateFailureCompensates() {
	s.registerStubs(
		func(ctx context.Context) (*activity.BeginRunResult, error) {
			return &activity.BeginRunResult{UpdateLogID: 3}, nil
		},
		func(ctx context.Context) (*activity.AggregateResult, error) {
			return nil, temporal.NewNonRetryableApplicationError("trial store unavailable", "ClassifiedError", nil)
		},
		func(ctx context.Context, input activity.DetectAlertsInput) (*activity.DetectAlertsResult, error) {
			s.Fail("detect must not run after aggregation failure")
			return nil, nil
		},
		s.captureFinish(),
	)

	s.env.ExecuteWorkflow(WeeklyUpdateWorkflow)

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())

	// 失败路径补偿恰好收尾一次，状态为 ERROR 且带错误信息
	s.Require().Len(s.finishInputs, 1)
	s.Equal("ERROR", s.finishInputs[0].Status)
	s.Equal(uint(3), s.finishInputs[0].UpdateLogID)
	s.Equal(0, s.finishInputs[0].Processed)
	s.NotEmpty(s.finishInputs[0].ErrorMessage)
}

func (s *WeeklyUpdateWorkflowTestSuite) TestDetectFailureCompensatesWithProcessedCount() {
	s.registerStubs(
		func(ctx context.Context) (*activity.BeginRunResult, error) {
			return &activity.BeginRunResult{UpdateLogID: 5}, nil
		},
		func(ctx context.Context) (*activity.AggregateResult, error) {
			return &activity.AggregateResult{Processed: 17, SnapshotID: 2}, nil
		},
		func(ctx context.Context, input activity.DetectAlertsInput) (*activity.DetectAlertsResult, error) {
			return nil, temporal.NewNonRetryableApplicationError("prior snapshot corrupt", "ClassifiedError", nil)
		},
		s.captureFinish(),
	)

	s.env.ExecuteWorkflow(WeeklyUpdateWorkflow)

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())

	// 聚合已完成: 补偿收尾仍带上已处理数
	s.Require().Len(s.finishInputs, 1)
	s.Equal("ERROR", s.finishInputs[0].Status)
	s.Equal(17, s.finishInputs[0].Processed)
}

func (s *WeeklyUpdateWorkflowTestSuite) TestBeginFailureSkipsCompensation() {
	s.registerStubs(
		func(ctx context.Context) (*activity.BeginRunResult, error) {
			return nil, temporal.NewNonRetryableApplicationError("update run already in progress", "ClassifiedError", nil)
		},
		func(ctx context.Context) (*activity.AggregateResult, error) {
			s.Fail("aggregate must not run without the lock")
			return nil, nil
		},
		func(ctx context.Context, input activity.DetectAlertsInput) (*activity.DetectAlertsResult, error) {
			return nil, nil
		},
		s.captureFinish(),
	)

	s.env.ExecuteWorkflow(WeeklyUpdateWorkflow)

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
	// 锁未到手，没有需要收尾的运行
	s.Empty(s.finishInputs)
}

func TestSagaCompensationOrder(t *testing.T) {
	saga := NewSagaCompensation()
	require.Equal(t, 0, saga.Len())

	saga.AddCompensation("first", nil)
	saga.AddCompensation("second", nil)
	require.Equal(t, 2, saga.Len())

	// LIFO: 后注册的排在前面
	assert.Equal(t, "second", saga.steps[0].Name)
	assert.Equal(t, "first", saga.steps[1].Name)

	saga.Clear()
	assert.Equal(t, 0, saga.Len())
}
