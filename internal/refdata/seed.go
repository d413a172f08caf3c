// 参考表种子数据
// 表内数值为目录口径的行业参考值；AvgPhaseSuccess / AvgLikelihoodOfApproval
// 两个回退常量由本表预先算得，修改任一行时必须同步重算
package refdata

import "github.com/ctmis-ai/ctmis/internal/model"

var seedAreas = []DiseaseArea{
	{Name: "Oncology", Description: "Malignant tumors and hematologic cancers"},
	{Name: "Rare Disease", Description: "Orphan indications incl. genetic disorders"},
	{Name: "Immunology", Description: "Autoimmune and inflammatory conditions"},
	{Name: "Neurology", Description: "Central and peripheral nervous system disorders"},
	{Name: "Cardiovascular", Description: "Heart and vascular disease"},
	{Name: "Metabolic", Description: "Metabolic and nutritional disorders"},
	{Name: "Infectious Disease", Description: "Bacterial, viral, fungal and parasitic infections"},
	{Name: "Hematology", Description: "Non-malignant blood disorders"},
	{Name: "Endocrinology", Description: "Hormonal and glandular disorders"},
	{Name: "Respiratory", Description: "Pulmonary and airway disease"},
	{Name: "Gastroenterology", Description: "Digestive tract and hepatic disease"},
	{Name: "Psychiatry", Description: "Mental and behavioral disorders"},
	{Name: "Ophthalmology", Description: "Eye and vision disorders"},
	{Name: AreaOther, Description: "Conditions outside the named catalog"},
}

// 全序排名，1 为最高优先级，无并列
var seedRanking = map[string]int{
	"Oncology":           1,
	"Rare Disease":       2,
	"Immunology":         3,
	"Neurology":          4,
	"Cardiovascular":     5,
	"Metabolic":          6,
	"Infectious Disease": 7,
	"Hematology":         8,
	"Endocrinology":      9,
	"Respiratory":        10,
	"Gastroenterology":   11,
	"Psychiatry":         12,
	"Ophthalmology":      13,
	AreaOther:            14,
}

// 阶段转化概率，LikelihoodOfApproval 为四段乘积的预计算值
// Gastroenterology 与 Other 无专门数据，回退到目录平均值
var seedTransitions = map[string]TransitionProbabilities{
	"Oncology":           {Phase1To2: 0.639, Phase2To3: 0.283, Phase3ToNDA: 0.452, NDAToApproval: 0.817, LikelihoodOfApproval: 0.067},
	"Hematology":         {Phase1To2: 0.683, Phase2To3: 0.509, Phase3ToNDA: 0.702, NDAToApproval: 0.740, LikelihoodOfApproval: 0.181},
	"Rare Disease":       {Phase1To2: 0.711, Phase2To3: 0.472, Phase3ToNDA: 0.686, NDAToApproval: 0.801, LikelihoodOfApproval: 0.184},
	"Immunology":         {Phase1To2: 0.658, Phase2To3: 0.352, Phase3ToNDA: 0.621, NDAToApproval: 0.832, LikelihoodOfApproval: 0.120},
	"Infectious Disease": {Phase1To2: 0.672, Phase2To3: 0.378, Phase3ToNDA: 0.683, NDAToApproval: 0.807, LikelihoodOfApproval: 0.140},
	"Metabolic":          {Phase1To2: 0.561, Phase2To3: 0.422, Phase3ToNDA: 0.674, NDAToApproval: 0.754, LikelihoodOfApproval: 0.120},
	"Endocrinology":      {Phase1To2: 0.591, Phase2To3: 0.362, Phase3ToNDA: 0.590, NDAToApproval: 0.774, LikelihoodOfApproval: 0.098},
	"Cardiovascular":     {Phase1To2: 0.588, Phase2To3: 0.407, Phase3ToNDA: 0.532, NDAToApproval: 0.786, LikelihoodOfApproval: 0.100},
	"Neurology":          {Phase1To2: 0.594, Phase2To3: 0.298, Phase3ToNDA: 0.573, NDAToApproval: 0.831, LikelihoodOfApproval: 0.084},
	"Psychiatry":         {Phase1To2: 0.535, Phase2To3: 0.237, Phase3ToNDA: 0.556, NDAToApproval: 0.879, LikelihoodOfApproval: 0.062},
	"Respiratory":        {Phase1To2: 0.603, Phase2To3: 0.263, Phase3ToNDA: 0.644, NDAToApproval: 0.878, LikelihoodOfApproval: 0.090},
	"Ophthalmology":      {Phase1To2: 0.749, Phase2To3: 0.408, Phase3ToNDA: 0.473, NDAToApproval: 0.678, LikelihoodOfApproval: 0.098},
}

// 生物标志物词表，category → 词项变体
// 检测按全词/全短语匹配，可通过 reference.yaml 扩展而无需改代码
var seedVocabulary = map[string][]string{
	"genomic": {
		"biomarker", "biomarkers",
		"genetic marker", "genetic markers",
		"gene expression", "genomic profiling",
		"mutation status", "egfr mutation", "kras mutation",
		"pharmacogenomic", "pharmacogenomics",
	},
	"protein": {
		"tumor marker", "tumor markers",
		"molecular marker", "molecular profiling",
		"her2 status", "pd-l1 expression",
		"immunohistochemistry", "protein expression",
	},
	"endpoint": {
		"surrogate endpoint", "surrogate endpoints",
		"predictive marker", "prognostic marker",
		"companion diagnostic",
	},
	"specimen": {
		"biospecimen", "biospecimens",
		"tissue sample", "tissue samples",
		"liquid biopsy", "circulating tumor dna", "ctdna",
	},
	"immune": {
		"tumor mutational burden", "microsatellite instability",
	},
}

// 疾病市值乘数，未列出的领域默认 1.0
var seedDiseaseValueMultiplier = map[string]float64{
	"Oncology":           1.50,
	"Rare Disease":       1.40,
	"Immunology":         1.30,
	"Neurology":          1.25,
	"Hematology":         1.20,
	"Metabolic":          1.20,
	"Cardiovascular":     1.15,
	"Infectious Disease": 1.10,
	"Endocrinology":      1.05,
	"Respiratory":        1.00,
	"Psychiatry":         0.95,
	"Ophthalmology":      0.90,
}

// 阶段市值乘数
var seedPhaseValueMultiplier = map[model.Phase]float64{
	model.PhaseDiscovery: 0.05,
	model.Phase1:         0.10,
	model.Phase2:         0.25,
	model.Phase3:         0.50,
	model.PhaseFDAReview: 0.80,
	model.PhaseApproved:  1.00,
}

// 估值专用阶段参数对 (转化概率, 距获批年数)
// 与 seedTransitions 相互独立，仅用于折现估值
var seedPhaseValuation = map[model.Phase]PhaseValuation{
	model.PhaseDiscovery: {TransitionProbability: 0.05, YearsToApproval: 10},
	model.Phase1:         {TransitionProbability: 0.07, YearsToApproval: 8},
	model.Phase2:         {TransitionProbability: 0.09, YearsToApproval: 5},
	model.Phase3:         {TransitionProbability: 0.11, YearsToApproval: 3},
	model.PhaseFDAReview: {TransitionProbability: 0.90, YearsToApproval: 1},
	model.PhaseApproved:  {TransitionProbability: 1.00, YearsToApproval: 0},
}

// 阶段基准开发成本 (百万美元)
var seedBasePhaseCost = map[model.Phase]float64{
	model.PhaseDiscovery: 12.20,
	model.Phase1:         25.30,
	model.Phase2:         58.60,
	model.Phase3:         255.40,
	model.PhaseFDAReview: 46.70,
	model.PhaseApproved:  31.00,
}

// 疾病成本乘数，未列出默认 1.0
var seedDiseaseCostMultiplier = map[string]float64{
	"Oncology":           1.30,
	"Cardiovascular":     1.25,
	"Neurology":          1.20,
	"Immunology":         1.15,
	"Metabolic":          1.10,
	"Respiratory":        1.05,
	"Infectious Disease": 0.90,
	"Rare Disease":       0.85,
}

// 公司类型反应乘数，未列出默认 1.0
var seedCompanyTypeMultiplier = map[string]float64{
	"Early-stage Biotech": 1.8,
	"Small Pharma":        1.2,
	"Big Pharma":          0.7,
}

// 市场反应阶段乘数，未列出默认 0.7
var seedReactionPhaseMultiplier = map[model.Phase]float64{
	model.Phase1:         0.8,
	model.Phase2:         1.0,
	model.Phase3:         1.2,
	model.PhaseFDAReview: 1.3,
}
