// 估值模型
// 风险与时间双重折现的 DCF 口径估值，单位统一为百万美元
package scoring

import (
	"math"

	"github.com/ctmis-ai/ctmis/internal/model"
	"github.com/ctmis-ai/ctmis/internal/refdata"
)

// MarketValue 计算 (疾病领域, 阶段) 的预估市值
// baseApprovalValue × 疾病乘数 × 阶段乘数 × 阶段转化概率 / (1+贴现率)^距获批年数
// 此处的转化概率与年数来自估值专用阶段参数对，与概率模型的转化表相互独立
func MarketValue(tables *refdata.Tables, area string, phase model.Phase) float64 {
	pv := tables.PhaseValuationParams(phase)
	return refdata.BaseApprovalValue *
		tables.DiseaseValueMultiplier(area) *
		tables.PhaseValueMultiplier(phase) *
		pv.TransitionProbability /
		math.Pow(1.0+refdata.DiscountRate, pv.YearsToApproval)
}

// DevelopmentCost 计算 (阶段, 疾病领域) 的预估开发成本
// 阶段基准成本 × 疾病成本乘数
func DevelopmentCost(tables *refdata.Tables, phase model.Phase, area string) float64 {
	return tables.BasePhaseCost(phase) * tables.DiseaseCostMultiplier(area)
}

// ExpectedReturn 计算预期回报
// marketValue × 获批可能性 × (1 + 1/rank) − developmentCost
// 获批可能性取转化表的预计算值，缺失时默认 0.1
func ExpectedReturn(tables *refdata.Tables, area string, phase model.Phase) float64 {
	loa := refdata.DefaultValuationLOA
	if row, ok := tables.Transitions(area); ok {
		loa = row.LikelihoodOfApproval
	}
	return MarketValue(tables, area, phase)*loa*tables.RankWeight(area) -
		DevelopmentCost(tables, phase, area)
}
