// 阶段转化概率模型
package scoring

import (
	"github.com/ctmis-ai/ctmis/internal/model"
	"github.com/ctmis-ai/ctmis/internal/refdata"
)

// SuccessProbability 返回 (疾病领域, 阶段) 对应的当前阶段转化成功概率
// 阶段到概率列的映射: PHASE1→phase_1_to_2, PHASE2→phase_2_to_3,
// PHASE3→phase_3_to_nda_bla, FDA_REVIEW→nda_bla_to_approval；
// 未识别阶段回退到 phase_1_to_2。疾病领域无数据行时返回目录平均 0.632。
func SuccessProbability(tables *refdata.Tables, area string, phase model.Phase) float64 {
	row, ok := tables.Transitions(area)
	if !ok {
		return refdata.AvgPhaseSuccess
	}

	switch phase {
	case model.Phase1:
		return row.Phase1To2
	case model.Phase2:
		return row.Phase2To3
	case model.Phase3:
		return row.Phase3ToNDA
	case model.PhaseFDAReview:
		return row.NDAToApproval
	default:
		return row.Phase1To2
	}
}

// CumulativeProbability 返回从 startPhase 到获批的剩余转化概率乘积
// 独立阶段假设下逐段相乘；数据缺失时返回默认 0.112
func CumulativeProbability(tables *refdata.Tables, area string, startPhase model.Phase) float64 {
	row, ok := tables.Transitions(area)
	if !ok {
		return refdata.AvgLikelihoodOfApproval
	}

	switch startPhase {
	case model.Phase1:
		return row.Phase1To2 * row.Phase2To3 * row.Phase3ToNDA * row.NDAToApproval
	case model.Phase2:
		return row.Phase2To3 * row.Phase3ToNDA * row.NDAToApproval
	case model.Phase3:
		return row.Phase3ToNDA * row.NDAToApproval
	case model.PhaseFDAReview:
		return row.NDAToApproval
	default:
		// 未识别起始阶段折算为该行的整体获批可能性
		return row.LikelihoodOfApproval
	}
}
