// 领域类型定义
// 临床试验记录、公司画像与每次运行产出的衍生指标
package model

import "time"

// Phase 临床阶段
type Phase string

const (
	PhaseDiscovery Phase = "DISCOVERY"
	Phase1         Phase = "PHASE1"
	Phase2         Phase = "PHASE2"
	Phase3         Phase = "PHASE3"
	PhaseFDAReview Phase = "FDA_REVIEW"
	PhaseApproved  Phase = "APPROVED"
)

// PhaseOrder 阶段推进顺序，用于估值单调性校验
var PhaseOrder = []Phase{PhaseDiscovery, Phase1, Phase2, Phase3, PhaseFDAReview, PhaseApproved}

// TrialStatus 试验状态
type TrialStatus string

const (
	StatusRecruiting          TrialStatus = "RECRUITING"
	StatusActive              TrialStatus = "ACTIVE"
	StatusActiveNotRecruiting TrialStatus = "ACTIVE_NOT_RECRUITING"
	StatusCompleted           TrialStatus = "COMPLETED"
)

// ============== Trial Record (外部注入，只读) ==============

// TrialRecord 临床试验记录
// 由外部注册数据摄取器写入，本服务只读取
// conditions / outcome_measures / eligibility_criteria / design_info
// 为原始 JSON 文本块，检测器按字面文本处理
type TrialRecord struct {
	NCTID               string      `gorm:"primaryKey;column:nct_id" json:"nct_id"`
	BriefTitle          string      `json:"brief_title"`
	OfficialTitle       string      `json:"official_title"`
	SponsorName         string      `gorm:"index" json:"sponsor_name"`
	Status              TrialStatus `gorm:"index" json:"status"`
	Phase               Phase       `gorm:"index" json:"phase"`
	StudyType           string      `json:"study_type"`
	Enrollment          int         `json:"enrollment"`
	StartDate           *time.Time  `json:"start_date"`
	CompletionDate      *time.Time  `json:"completion_date"`
	LastUpdateDate      *time.Time  `json:"last_update_date"`
	ConditionsJSON      string      `gorm:"column:conditions;type:text" json:"conditions"`
	OutcomeMeasuresJSON string      `gorm:"column:outcome_measures;type:text" json:"outcome_measures"`
	EligibilityJSON     string      `gorm:"column:eligibility_criteria;type:text" json:"eligibility_criteria"`
	BiospecRetention    string      `json:"biospec_retention"`
	BiospecDescription  string      `json:"biospec_description"`
	DesignInfoJSON      string      `gorm:"column:design_info;type:text" json:"design_info"`
}

func (TrialRecord) TableName() string {
	return "consolidated_clinical_trials"
}

// ============== Company Profile (外部注入) ==============

// CompanyProfile 公司分类画像
// sponsor → 规模档位与公司类型，由外部分类服务维护
type CompanyProfile struct {
	SponsorName string `gorm:"primaryKey" json:"sponsor_name"`
	CompanySize string `json:"company_size"` // Small / Medium / Big
	CompanyType string `json:"company_type"` // Early-stage Biotech / Small Pharma / Big Pharma ...
}

func (CompanyProfile) TableName() string {
	return "company_classifications"
}

// ============== Computed Metrics (每次运行全量重建) ==============

// ReactionStrength 市场反应强度档位
type ReactionStrength string

const (
	ReactionStrong   ReactionStrength = "Strong"
	ReactionModerate ReactionStrength = "Moderate"
	ReactionWeak     ReactionStrength = "Weak"
)

// ComputedTrialMetrics 单个试验的衍生指标行
// 每次运行 truncate-and-rebuild，历史只保留在快照中
type ComputedTrialMetrics struct {
	NCTID                    string           `gorm:"primaryKey;column:nct_id" json:"nct_id"`
	DiseaseArea              string           `gorm:"index" json:"disease_area"`
	DiseaseRank              int              `json:"disease_rank"`
	PhaseSuccessProbability  float64          `json:"phase_success_probability"`
	LikelihoodOfApproval     float64          `json:"likelihood_of_approval"`
	HasBiomarker             bool             `json:"has_biomarker"`
	MarketReactionScore      float64          `json:"market_reaction_score"` // 裁剪到 [0,10] 的原始分
	CTMISScore               float64          `gorm:"column:ctmis_score" json:"ctmis_score"`
	MarketReactionStrength   ReactionStrength `json:"market_reaction_strength"`
	EstimatedMarketValue     float64          `json:"estimated_market_value"`     // 百万美元
	EstimatedDevelopmentCost float64          `json:"estimated_development_cost"` // 百万美元
	ExpectedReturn           float64          `json:"expected_return"`            // 百万美元
	UpdatedAt                time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ComputedTrialMetrics) TableName() string {
	return "computed_trial_metrics"
}

// ============== Weekly Snapshot (append-only) ==============

// WeeklySnapshot 周度快照，创建后不可变
// 各汇总维度序列化为 JSON 列存储
type WeeklySnapshot struct {
	ID                        uint      `gorm:"primarykey" json:"id"`
	SnapshotDate              time.Time `gorm:"index" json:"snapshot_date"`
	TrialCount                int       `json:"trial_count"`
	CountsByPhaseJSON         string    `gorm:"column:counts_by_phase;type:text" json:"counts_by_phase"`
	CountsByDiseaseAreaJSON   string    `gorm:"column:counts_by_disease_area;type:text" json:"counts_by_disease_area"`
	AvgValueByDiseaseAreaJSON string    `gorm:"column:avg_value_by_disease_area;type:text" json:"avg_value_by_disease_area"`
	TopOpportunitiesJSON      string    `gorm:"column:top_opportunities;type:text" json:"top_opportunities"`
	CreatedAt                 time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (WeeklySnapshot) TableName() string {
	return "weekly_snapshots"
}

// TopOpportunity 快照中的高预期回报条目
type TopOpportunity struct {
	NCTID          string  `json:"nct_id"`
	BriefTitle     string  `json:"brief_title"`
	DiseaseArea    string  `json:"disease_area"`
	Phase          Phase   `json:"phase"`
	ExpectedReturn float64 `json:"expected_return"`
}

// ============== Alert (append-only) ==============

// Alert 疾病领域周度平均市值大幅波动告警
type Alert struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	DiseaseArea      string    `gorm:"index" json:"disease_area"`
	PreviousAvgValue float64   `json:"previous_avg_value"`
	CurrentAvgValue  float64   `json:"current_avg_value"`
	PercentChange    float64   `json:"percent_change"` // (new-old)/old × 100
	DetectedAt       time.Time `gorm:"autoCreateTime" json:"detected_at"`
}

func (Alert) TableName() string {
	return "alerts"
}

// ============== Update Log ==============

// UpdateStatus 运行状态
type UpdateStatus string

const (
	UpdateRunning UpdateStatus = "RUNNING"
	UpdateSuccess UpdateStatus = "SUCCESS"
	UpdateError   UpdateStatus = "ERROR"
)

// UpdateLog 运行日志，append-only
// 不变量: 每次运行恰好一次 RUNNING → {SUCCESS|ERROR} 迁移
type UpdateLog struct {
	ID             uint         `gorm:"primarykey" json:"id"`
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     *time.Time   `json:"finished_at"`
	Status         UpdateStatus `gorm:"index" json:"status"`
	ProcessedCount int          `json:"processed_count"`
	ErrorMessage   string       `json:"error_message"`
}

func (UpdateLog) TableName() string {
	return "update_logs"
}
