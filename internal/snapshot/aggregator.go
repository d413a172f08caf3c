// 快照聚合器
// 对在研试验全量评分，重建衍生指标表并产出周度快照
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ctmis-ai/ctmis/internal/company"
	"github.com/ctmis-ai/ctmis/internal/model"
	"github.com/ctmis-ai/ctmis/internal/refdata"
	"github.com/ctmis-ai/ctmis/internal/scoring"
	"github.com/ctmis-ai/ctmis/pkg/metrics"
	"go.uber.org/zap"
)

// TrialSource 试验数据源
type TrialSource interface {
	ActiveTrials(ctx context.Context) ([]model.TrialRecord, error)
}

// MetricsSink 聚合结果写入端
// 指标替换与快照写入必须作为一个原子发布动作落库
type MetricsSink interface {
	PublishSnapshot(ctx context.Context, rows []model.ComputedTrialMetrics, snap *model.WeeklySnapshot) error
}

// Result 单次聚合的运行摘要
type Result struct {
	Processed             int
	Skipped               int
	TrialCount            int
	SnapshotID            uint
	AvgValueByDiseaseArea map[string]float64
}

// Aggregator 周度聚合器
type Aggregator struct {
	tables    *refdata.Tables
	companies company.Classifier
	source    TrialSource
	sink      MetricsSink
	logger    *zap.Logger
	topN      int
}

// NewAggregator 构建聚合器
func NewAggregator(tables *refdata.Tables, companies company.Classifier, source TrialSource, sink MetricsSink, logger *zap.Logger, topN int) *Aggregator {
	return &Aggregator{
		tables:    tables,
		companies: companies,
		source:    source,
		sink:      sink,
		logger:    logger,
		topN:      topN,
	}
}

// Run 执行一次完整聚合
// 单个试验评分失败只跳过该试验，整体运行继续
func (a *Aggregator) Run(ctx context.Context) (*Result, error) {
	trials, err := a.source.ActiveTrials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trials: %w", err)
	}
	a.logger.Info("Loaded active trials", zap.Int("count", len(trials)))

	rows := make([]model.ComputedTrialMetrics, 0, len(trials))
	tops := make([]model.TopOpportunity, 0, len(trials))
	skipped := 0

	for _, trial := range trials {
		row, err := a.scoreTrial(ctx, trial)
		if err != nil {
			a.logger.Warn("Trial scoring failed, skipping",
				zap.String("nct_id", trial.NCTID),
				zap.Error(err))
			metrics.TrialsSkipped.Inc()
			skipped++
			continue
		}
		rows = append(rows, row)
		tops = append(tops, model.TopOpportunity{
			NCTID:          trial.NCTID,
			BriefTitle:     trial.BriefTitle,
			DiseaseArea:    row.DiseaseArea,
			Phase:          trial.Phase,
			ExpectedReturn: row.ExpectedReturn,
		})
		metrics.TrialsProcessed.Inc()
	}

	snap, avgValues, err := a.buildSnapshot(trials, rows, tops)
	if err != nil {
		return nil, err
	}

	if err := a.sink.PublishSnapshot(ctx, rows, snap); err != nil {
		return nil, fmt.Errorf("failed to publish snapshot: %w", err)
	}

	a.logger.Info("Aggregation complete",
		zap.Int("processed", len(rows)),
		zap.Int("skipped", skipped),
		zap.Uint("snapshot_id", snap.ID))

	return &Result{
		Processed:             len(rows),
		Skipped:               skipped,
		TrialCount:            len(rows),
		SnapshotID:            snap.ID,
		AvgValueByDiseaseArea: avgValues,
	}, nil
}

// scoreTrial 对单个试验计算全套衍生指标
func (a *Aggregator) scoreTrial(ctx context.Context, trial model.TrialRecord) (model.ComputedTrialMetrics, error) {
	area, ok := scoring.ClassifyDiseaseArea(a.tables, trial.ConditionsJSON)
	if !ok {
		// 无法识别的适应症落入 Other，仍计入本次运行
		area = refdata.AreaOther
	}
	rank, _ := a.tables.Rank(area)

	hasBiomarker := scoring.DetectBiomarker(a.tables, scoring.TextFromTrial(trial))

	profile, err := a.companies.Classify(ctx, trial.SponsorName)
	if err != nil {
		return model.ComputedTrialMetrics{}, fmt.Errorf("company classification: %w", err)
	}

	reaction := scoring.ScoreMarketReaction(a.tables, scoring.ReactionInput{
		Company:      profile,
		Phase:        trial.Phase,
		DiseaseArea:  area,
		HasBiomarker: hasBiomarker,
		DesignText:   trial.DesignInfoJSON,
	})

	marketValue := scoring.MarketValue(a.tables, area, trial.Phase)
	devCost := scoring.DevelopmentCost(a.tables, trial.Phase, area)
	expectedReturn := scoring.ExpectedReturn(a.tables, area, trial.Phase)

	return model.ComputedTrialMetrics{
		NCTID:                    trial.NCTID,
		DiseaseArea:              area,
		DiseaseRank:              rank,
		PhaseSuccessProbability:  scoring.SuccessProbability(a.tables, area, trial.Phase),
		LikelihoodOfApproval:     scoring.CumulativeProbability(a.tables, area, trial.Phase),
		HasBiomarker:             hasBiomarker,
		MarketReactionScore:      reaction.Raw,
		CTMISScore:               reaction.CTMIS,
		MarketReactionStrength:   reaction.Strength,
		EstimatedMarketValue:     marketValue,
		EstimatedDevelopmentCost: devCost,
		ExpectedReturn:           expectedReturn,
	}, nil
}

// buildSnapshot 由评分行构建快照
func (a *Aggregator) buildSnapshot(trials []model.TrialRecord, rows []model.ComputedTrialMetrics, tops []model.TopOpportunity) (*model.WeeklySnapshot, map[string]float64, error) {
	countsByPhase := make(map[string]int)
	countsByArea := make(map[string]int)
	valueSums := make(map[string]float64)

	phaseByNCT := make(map[string]model.Phase, len(trials))
	for _, t := range trials {
		phaseByNCT[t.NCTID] = t.Phase
	}

	for _, row := range rows {
		countsByPhase[string(phaseByNCT[row.NCTID])]++
		countsByArea[row.DiseaseArea]++
		valueSums[row.DiseaseArea] += row.EstimatedMarketValue
	}

	avgValues := make(map[string]float64, len(valueSums))
	for area, sum := range valueSums {
		avgValues[area] = sum / float64(countsByArea[area])
	}

	// 预期回报降序，持平时保持 nct_id 自然序
	sort.SliceStable(tops, func(i, j int) bool {
		return tops[i].ExpectedReturn > tops[j].ExpectedReturn
	})
	if len(tops) > a.topN {
		tops = tops[:a.topN]
	}

	snap := &model.WeeklySnapshot{
		SnapshotDate: time.Now().UTC(),
		TrialCount:   len(rows),
	}
	var err error
	if snap.CountsByPhaseJSON, err = marshalColumn(countsByPhase); err != nil {
		return nil, nil, err
	}
	if snap.CountsByDiseaseAreaJSON, err = marshalColumn(countsByArea); err != nil {
		return nil, nil, err
	}
	if snap.AvgValueByDiseaseAreaJSON, err = marshalColumn(avgValues); err != nil {
		return nil, nil, err
	}
	if snap.TopOpportunitiesJSON, err = marshalColumn(tops); err != nil {
		return nil, nil, err
	}
	return snap, avgValues, nil
}

func marshalColumn(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot column: %w", err)
	}
	return string(raw), nil
}
