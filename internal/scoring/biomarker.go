// 生物标志物检测器
package scoring

import (
	"strings"

	"github.com/ctmis-ai/ctmis/internal/model"
	"github.com/ctmis-ai/ctmis/internal/refdata"
)

// TrialText 检测用的试验文本字段集
// 缺失字段按空串处理，不视为错误
type TrialText struct {
	Eligibility        string
	Outcomes           string
	DesignInfo         string
	BiospecRetention   string
	BiospecDescription string
}

// TextFromTrial 从试验记录提取检测字段
func TextFromTrial(trial model.TrialRecord) TrialText {
	return TrialText{
		Eligibility:        trial.EligibilityJSON,
		Outcomes:           trial.OutcomeMeasuresJSON,
		DesignInfo:         trial.DesignInfoJSON,
		BiospecRetention:   trial.BiospecRetention,
		BiospecDescription: trial.BiospecDescription,
	}
}

// DetectBiomarker 判断试验方案是否涉及生物标志物
// 生物样本保留字段非空即视为涉及（样本保留本身即标志物相关设计）；
// 否则将其余字段小写拼接后按词表做全词/全短语匹配。
func DetectBiomarker(tables *refdata.Tables, text TrialText) bool {
	if strings.TrimSpace(text.BiospecRetention) != "" {
		return true
	}

	blob := strings.ToLower(strings.Join([]string{
		text.Eligibility,
		text.Outcomes,
		text.DesignInfo,
		text.BiospecDescription,
	}, " "))

	for _, pattern := range tables.VocabularyPatterns() {
		if pattern.MatchString(blob) {
			return true
		}
	}
	return false
}
