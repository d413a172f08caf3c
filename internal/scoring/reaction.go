// 市场反应评分器
package scoring

import (
	"strings"

	"github.com/ctmis-ai/ctmis/internal/model"
	"github.com/ctmis-ai/ctmis/internal/refdata"
)

const (
	baseReactionScore    = 5.0
	biomarkerMultiplier  = 1.15
	designBonusPerSignal = 0.10

	strongThreshold   = 7.5
	moderateThreshold = 5.0
)

// ReactionInput 市场反应评分输入
type ReactionInput struct {
	Company      model.CompanyProfile
	Phase        model.Phase
	DiseaseArea  string
	HasBiomarker bool
	DesignText   string
}

// ReactionScore 市场反应评分结果
// Raw 为裁剪到 [0,10] 的原始分，强度档位据此判定；
// CTMIS 为 Raw × (1 + 1/rank)，两者是不同量，均需对外暴露
type ReactionScore struct {
	Raw      float64
	CTMIS    float64
	Strength model.ReactionStrength
}

// ScoreMarketReaction 组合公司画像、阶段、疾病领域、标志物与研究设计信号
// 输出有界 [0,10] 的综合分与定性强度档位
func ScoreMarketReaction(tables *refdata.Tables, in ReactionInput) ReactionScore {
	score := baseReactionScore *
		tables.CompanyTypeMultiplier(in.Company.CompanyType) *
		tables.ReactionPhaseMultiplier(in.Phase)

	if in.HasBiomarker {
		score *= biomarkerMultiplier
	}

	// 设计文本加成: 各信号累加进单一乘数 (1+sum)，只应用一次
	design := strings.ToLower(in.DesignText)
	bonus := 0.0
	if strings.Contains(design, "double-blind") || strings.Contains(design, "double blind") {
		bonus += designBonusPerSignal
	}
	if strings.Contains(design, "placebo") {
		bonus += designBonusPerSignal
	}
	if strings.Contains(design, "randomized") || strings.Contains(design, "randomised") {
		bonus += designBonusPerSignal
	}
	score *= 1.0 + bonus

	if score > 10.0 {
		score = 10.0
	}
	if score < 0.0 {
		score = 0.0
	}

	return ReactionScore{
		Raw:      score,
		CTMIS:    score * tables.RankWeight(in.DiseaseArea),
		Strength: bucketStrength(score),
	}
}

// bucketStrength 按裁剪后的原始分判定强度档位
func bucketStrength(raw float64) model.ReactionStrength {
	switch {
	case raw >= strongThreshold:
		return model.ReactionStrong
	case raw >= moderateThreshold:
		return model.ReactionModerate
	default:
		return model.ReactionWeak
	}
}
