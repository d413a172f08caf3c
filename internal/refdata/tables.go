// 静态参考表
// 疾病领域目录、优先级排名、阶段转化概率、生物标志物词表与估值乘数
// 进程启动时一次性加载，运行期间不可变，通过依赖注入传入各组件
package refdata

import (
	"regexp"

	"github.com/ctmis-ai/ctmis/internal/model"
)

// 全局估值与概率常量
const (
	// BaseApprovalValue 获批药物基准市值 (百万美元)
	BaseApprovalValue = 1620.0
	// DiscountRate 年贴现率
	DiscountRate = 0.10
	// AvgPhaseSuccess 目录平均阶段成功率，疾病领域无数据时的回退值
	// 由种子表预先计算，修改种子表时需保持一致
	AvgPhaseSuccess = 0.632
	// AvgLikelihoodOfApproval 目录平均获批可能性回退值
	AvgLikelihoodOfApproval = 0.112
	// DefaultValuationLOA 预期回报计算中获批可能性缺失时的默认值
	// 注意与概率模型的 0.112 回退值相互独立
	DefaultValuationLOA = 0.1
	// DefaultPhaseValueMultiplier 阶段乘数表未命中时的默认值
	DefaultPhaseValueMultiplier = 0.05
	// DefaultBasePhaseCost 阶段成本表未命中时的默认基准成本 (百万美元)
	DefaultBasePhaseCost = 58.51
	// DefaultReactionPhaseMultiplier 市场反应阶段乘数默认值
	DefaultReactionPhaseMultiplier = 0.7
)

// AreaOther 兜底疾病领域
const AreaOther = "Other"

// DiseaseArea 疾病领域条目
type DiseaseArea struct {
	Name        string
	Description string
}

// TransitionProbabilities 单个疾病领域的阶段转化概率集
// LikelihoodOfApproval 为四段乘积的预计算值
type TransitionProbabilities struct {
	Phase1To2            float64
	Phase2To3            float64
	Phase3ToNDA          float64
	NDAToApproval        float64
	LikelihoodOfApproval float64
}

// PhaseValuation 估值专用的阶段参数对
// 这是与 TransitionProbabilities 相互独立的第二套概率面，
// 仅用于估值折现，二者不可合并
type PhaseValuation struct {
	TransitionProbability float64
	YearsToApproval       float64
}

// Tables 所有参考表的不可变集合
type Tables struct {
	areas       []DiseaseArea
	ranking     map[string]int
	transitions map[string]TransitionProbabilities

	vocabulary    map[string][]string
	vocabPatterns []*regexp.Regexp

	diseaseValueMultiplier  map[string]float64
	phaseValueMultiplier    map[model.Phase]float64
	phaseValuation          map[model.Phase]PhaseValuation
	basePhaseCost           map[model.Phase]float64
	diseaseCostMultiplier   map[string]float64
	companyTypeMultiplier   map[string]float64
	reactionPhaseMultiplier map[model.Phase]float64
}

// Areas 返回疾病领域目录
func (t *Tables) Areas() []DiseaseArea {
	return t.areas
}

// Rank 返回疾病领域的优先级排名 (1 为最高)
func (t *Tables) Rank(area string) (int, bool) {
	r, ok := t.ranking[area]
	return r, ok
}

// RankWeight 返回排名权重 1 + 1/rank，未排名时为 1.0
func (t *Tables) RankWeight(area string) float64 {
	r, ok := t.ranking[area]
	if !ok || r <= 0 {
		return 1.0
	}
	return 1.0 + 1.0/float64(r)
}

// Transitions 返回疾病领域的阶段转化概率行
func (t *Tables) Transitions(area string) (TransitionProbabilities, bool) {
	row, ok := t.transitions[area]
	return row, ok
}

// Vocabulary 返回生物标志物词表 (category → 词项变体)
func (t *Tables) Vocabulary() map[string][]string {
	return t.vocabulary
}

// VocabularyPatterns 返回编译后的全词匹配模式
func (t *Tables) VocabularyPatterns() []*regexp.Regexp {
	return t.vocabPatterns
}

// DiseaseValueMultiplier 返回疾病市值乘数，未命中默认 1.0
func (t *Tables) DiseaseValueMultiplier(area string) float64 {
	if m, ok := t.diseaseValueMultiplier[area]; ok {
		return m
	}
	return 1.0
}

// PhaseValueMultiplier 返回阶段市值乘数，未命中默认 0.05
func (t *Tables) PhaseValueMultiplier(phase model.Phase) float64 {
	if m, ok := t.phaseValueMultiplier[phase]; ok {
		return m
	}
	return DefaultPhaseValueMultiplier
}

// PhaseValuationParams 返回估值专用阶段参数对
// 未知阶段回退到 Discovery 档参数
func (t *Tables) PhaseValuationParams(phase model.Phase) PhaseValuation {
	if pv, ok := t.phaseValuation[phase]; ok {
		return pv
	}
	return t.phaseValuation[model.PhaseDiscovery]
}

// BasePhaseCost 返回阶段基准开发成本 (百万美元)，未命中默认 58.51
func (t *Tables) BasePhaseCost(phase model.Phase) float64 {
	if c, ok := t.basePhaseCost[phase]; ok {
		return c
	}
	return DefaultBasePhaseCost
}

// DiseaseCostMultiplier 返回疾病成本乘数，未命中默认 1.0
func (t *Tables) DiseaseCostMultiplier(area string) float64 {
	if m, ok := t.diseaseCostMultiplier[area]; ok {
		return m
	}
	return 1.0
}

// CompanyTypeMultiplier 返回公司类型反应乘数，未命中默认 1.0
func (t *Tables) CompanyTypeMultiplier(companyType string) float64 {
	if m, ok := t.companyTypeMultiplier[companyType]; ok {
		return m
	}
	return 1.0
}

// ReactionPhaseMultiplier 返回市场反应阶段乘数，未命中默认 0.7
func (t *Tables) ReactionPhaseMultiplier(phase model.Phase) float64 {
	if m, ok := t.reactionPhaseMultiplier[phase]; ok {
		return m
	}
	return DefaultReactionPhaseMultiplier
}
