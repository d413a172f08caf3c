package refdata

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctmis-ai/ctmis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedOnly(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, tables)

	assert.Len(t, tables.Areas(), 14)
	assert.NotEmpty(t, tables.VocabularyPatterns())
}

func TestRankingIsTotalOrder(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)

	seen := make(map[int]string)
	for _, area := range tables.Areas() {
		rank, ok := tables.Rank(area.Name)
		require.True(t, ok, "area %s has no rank", area.Name)
		assert.GreaterOrEqual(t, rank, 1)
		assert.LessOrEqual(t, rank, len(tables.Areas()))
		prev, dup := seen[rank]
		assert.False(t, dup, "rank %d shared by %s and %s", rank, prev, area.Name)
		seen[rank] = area.Name
	}

	rank, ok := tables.Rank("Oncology")
	require.True(t, ok)
	assert.Equal(t, 1, rank)
}

func TestRankWeight(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)

	assert.InDelta(t, 2.0, tables.RankWeight("Oncology"), 1e-9)
	assert.InDelta(t, 1.5, tables.RankWeight("Rare Disease"), 1e-9)
	assert.Equal(t, 1.0, tables.RankWeight("Unranked Area"))
}

// 存储的 LikelihoodOfApproval 必须与四段乘积一致 (3 位小数口径)
func TestStoredLOAMatchesProduct(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)

	for _, area := range tables.Areas() {
		row, ok := tables.Transitions(area.Name)
		if !ok {
			continue
		}
		product := row.Phase1To2 * row.Phase2To3 * row.Phase3ToNDA * row.NDAToApproval
		assert.InDelta(t, product, row.LikelihoodOfApproval, 0.0005,
			"area %s: stored LOA %v vs product %v", area.Name, row.LikelihoodOfApproval, product)
	}
}

// 回退常量由种子表算得，二者必须保持一致
func TestFallbackConstantsMatchSeedAverages(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)

	var sumP1, sumLOA float64
	n := 0
	for _, area := range tables.Areas() {
		row, ok := tables.Transitions(area.Name)
		if !ok {
			continue
		}
		sumP1 += row.Phase1To2
		sumLOA += row.LikelihoodOfApproval
		n++
	}
	require.Equal(t, 12, n)

	assert.InDelta(t, AvgPhaseSuccess, sumP1/float64(n), 0.0005)
	assert.InDelta(t, AvgLikelihoodOfApproval, sumLOA/float64(n), 0.0005)
}

func TestMultiplierDefaults(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1.0, tables.DiseaseValueMultiplier("Gastroenterology"))
	assert.Equal(t, DefaultPhaseValueMultiplier, tables.PhaseValueMultiplier(model.Phase("UNKNOWN")))
	assert.Equal(t, DefaultBasePhaseCost, tables.BasePhaseCost(model.Phase("UNKNOWN")))
	assert.Equal(t, 1.0, tables.DiseaseCostMultiplier("Other"))
	assert.Equal(t, 1.0, tables.CompanyTypeMultiplier("Academic"))
	assert.Equal(t, DefaultReactionPhaseMultiplier, tables.ReactionPhaseMultiplier(model.PhaseDiscovery))

	// 未知阶段回退到 Discovery 档估值参数
	pv := tables.PhaseValuationParams(model.Phase("UNKNOWN"))
	assert.Equal(t, tables.PhaseValuationParams(model.PhaseDiscovery), pv)
}

func TestVocabularyOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reference.yaml")
	content := []byte("biomarker_vocabulary:\n  custom:\n    - Circulating Free DNA\n    - cfdna\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	tables, err := Load(path)
	require.NoError(t, err)

	vocab := tables.Vocabulary()
	require.Contains(t, vocab, "custom")
	assert.ElementsMatch(t, []string{"circulating free dna", "cfdna"}, vocab["custom"])
	// 覆盖是整体替换，内置分类不再存在
	assert.NotContains(t, vocab, "genomic")

	matched := false
	for _, p := range tables.VocabularyPatterns() {
		if p.MatchString("plasma cfdna collection") {
			matched = true
		}
	}
	assert.True(t, matched)
}

func TestVocabularyOverrideMissingFile(t *testing.T) {
	tables, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Contains(t, tables.Vocabulary(), "genomic")
}

// 估值参数对沿阶段推进单调抬升风险调整值
func TestPhaseValuationProgression(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)

	prev := math.Inf(-1)
	for _, phase := range model.PhaseOrder {
		pv := tables.PhaseValuationParams(phase)
		adjusted := pv.TransitionProbability / math.Pow(1.0+DiscountRate, pv.YearsToApproval)
		assert.Greater(t, adjusted, prev, "phase %s", phase)
		prev = adjusted
	}
}
