// 参考表加载
package refdata

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load 构建参考表集合
// path 为可选的 reference.yaml 覆盖文件，目前支持覆盖生物标志物词表；
// 文件不存在时使用纯种子数据。返回的 Tables 加载后不再变更。
func Load(path string) (*Tables, error) {
	t := &Tables{
		areas:                   seedAreas,
		ranking:                 seedRanking,
		transitions:             seedTransitions,
		vocabulary:              seedVocabulary,
		diseaseValueMultiplier:  seedDiseaseValueMultiplier,
		phaseValueMultiplier:    seedPhaseValueMultiplier,
		phaseValuation:          seedPhaseValuation,
		basePhaseCost:           seedBasePhaseCost,
		diseaseCostMultiplier:   seedDiseaseCostMultiplier,
		companyTypeMultiplier:   seedCompanyTypeMultiplier,
		reactionPhaseMultiplier: seedReactionPhaseMultiplier,
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			override, err := loadVocabularyOverride(path)
			if err != nil {
				return nil, err
			}
			if len(override) > 0 {
				t.vocabulary = override
			}
		}
	}

	patterns, err := compileVocabulary(t.vocabulary)
	if err != nil {
		return nil, err
	}
	t.vocabPatterns = patterns

	return t, nil
}

// loadVocabularyOverride 读取词表覆盖文件
func loadVocabularyOverride(path string) (map[string][]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read reference file %s: %w", path, err)
	}

	raw := v.GetStringMapStringSlice("biomarker_vocabulary")
	if len(raw) == 0 {
		return nil, nil
	}

	vocab := make(map[string][]string, len(raw))
	for category, terms := range raw {
		cleaned := make([]string, 0, len(terms))
		for _, term := range terms {
			term = strings.TrimSpace(strings.ToLower(term))
			if term != "" {
				cleaned = append(cleaned, term)
			}
		}
		if len(cleaned) > 0 {
			vocab[category] = cleaned
		}
	}
	return vocab, nil
}

// compileVocabulary 将词项编译为全词匹配模式
// 词项整体按字面量处理，前后锚定单词边界，避免 "endpointless" 命中 "endpoint"
func compileVocabulary(vocab map[string][]string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, 32)
	for category, terms := range vocab {
		for _, term := range terms {
			expr := `\b` + regexp.QuoteMeta(strings.ToLower(term)) + `\b`
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("invalid vocabulary term %q in category %s: %w", term, category, err)
			}
			patterns = append(patterns, re)
		}
	}
	return patterns, nil
}
