package scoring

import (
	"testing"

	"github.com/ctmis-ai/ctmis/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestScoreMarketReactionBaseline(t *testing.T) {
	tables := loadTables(t)

	// 未知公司类型 (1.0) × PHASE2 (1.0)，无标志物无设计信号: 基准分 5.0
	score := ScoreMarketReaction(tables, ReactionInput{
		Company:     model.CompanyProfile{SponsorName: "Anon Labs"},
		Phase:       model.Phase2,
		DiseaseArea: "Other",
	})
	assert.InDelta(t, 5.0, score.Raw, 1e-9)
	assert.Equal(t, model.ReactionModerate, score.Strength)
}

func TestScoreMarketReactionMultipliers(t *testing.T) {
	tables := loadTables(t)

	// 5.0 × Small Pharma 1.2 × PHASE3 1.2 = 7.2
	score := ScoreMarketReaction(tables, ReactionInput{
		Company:     model.CompanyProfile{CompanyType: "Small Pharma"},
		Phase:       model.Phase3,
		DiseaseArea: "Respiratory",
	})
	assert.InDelta(t, 7.2, score.Raw, 1e-9)
	assert.Equal(t, model.ReactionModerate, score.Strength)

	// 标志物乘数 1.15: 7.2 × 1.15 = 8.28
	score = ScoreMarketReaction(tables, ReactionInput{
		Company:      model.CompanyProfile{CompanyType: "Small Pharma"},
		Phase:        model.Phase3,
		DiseaseArea:  "Respiratory",
		HasBiomarker: true,
	})
	assert.InDelta(t, 8.28, score.Raw, 1e-9)
	assert.Equal(t, model.ReactionStrong, score.Strength)
}

func TestScoreMarketReactionDesignBonus(t *testing.T) {
	tables := loadTables(t)

	// 三个设计信号累加进单一乘数: 5.0 × (1 + 0.3) = 6.5
	score := ScoreMarketReaction(tables, ReactionInput{
		Company:     model.CompanyProfile{},
		Phase:       model.Phase2,
		DiseaseArea: "Other",
		DesignText:  `{"masking":"Double-Blind","allocation":"Randomized","control":"Placebo"}`,
	})
	assert.InDelta(t, 6.5, score.Raw, 1e-9)

	// 同一信号的变体拼写只计一次
	score = ScoreMarketReaction(tables, ReactionInput{
		Company:     model.CompanyProfile{},
		Phase:       model.Phase2,
		DiseaseArea: "Other",
		DesignText:  "randomized randomised study",
	})
	assert.InDelta(t, 5.5, score.Raw, 1e-9)
}

func TestScoreMarketReactionClamp(t *testing.T) {
	tables := loadTables(t)

	// 5.0 × 1.8 × 1.3 × 1.15 × 1.3 ≈ 17.5 → 裁剪到 10
	score := ScoreMarketReaction(tables, ReactionInput{
		Company:      model.CompanyProfile{CompanyType: "Early-stage Biotech"},
		Phase:        model.PhaseFDAReview,
		DiseaseArea:  "Oncology",
		HasBiomarker: true,
		DesignText:   "double-blind placebo randomized",
	})
	assert.Equal(t, 10.0, score.Raw)
	assert.Equal(t, model.ReactionStrong, score.Strength)

	// CTMIS 分基于裁剪后的原始分放大，可超过 10
	assert.InDelta(t, 10.0*tables.RankWeight("Oncology"), score.CTMIS, 1e-9)
	assert.Greater(t, score.CTMIS, 10.0)
}

func TestScoreMarketReactionStrengthBuckets(t *testing.T) {
	tables := loadTables(t)

	// Big Pharma 0.7 × PHASE1 0.8 = 2.8 → Weak
	weak := ScoreMarketReaction(tables, ReactionInput{
		Company:     model.CompanyProfile{CompanyType: "Big Pharma"},
		Phase:       model.Phase1,
		DiseaseArea: "Other",
	})
	assert.InDelta(t, 2.8, weak.Raw, 1e-9)
	assert.Equal(t, model.ReactionWeak, weak.Strength)

	// 阈值为闭下界: 恰好 5.0 为 Moderate
	moderate := ScoreMarketReaction(tables, ReactionInput{
		Company:     model.CompanyProfile{},
		Phase:       model.Phase2,
		DiseaseArea: "Other",
	})
	assert.Equal(t, model.ReactionModerate, moderate.Strength)
}
