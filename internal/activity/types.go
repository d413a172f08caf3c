// Activity 类型定义
package activity

// ============== Begin Run ==============

// BeginRunResult 运行启动结果
type BeginRunResult struct {
	UpdateLogID uint `json:"update_log_id"`
}

// ============== Aggregate Snapshot ==============

// AggregateResult 聚合结果摘要
type AggregateResult struct {
	Processed             int                `json:"processed"`
	Skipped               int                `json:"skipped"`
	TrialCount            int                `json:"trial_count"`
	SnapshotID            uint               `json:"snapshot_id"`
	AvgValueByDiseaseArea map[string]float64 `json:"avg_value_by_disease_area"`
}

// ============== Detect Alerts ==============

// DetectAlertsInput 告警检测输入
type DetectAlertsInput struct {
	AvgValueByDiseaseArea map[string]float64 `json:"avg_value_by_disease_area"`
}

// DetectAlertsResult 告警检测结果
type DetectAlertsResult struct {
	AlertCount int `json:"alert_count"`
}

// ============== Finish Run ==============

// FinishRunInput 运行收尾输入
// Status 只能是 SUCCESS 或 ERROR
type FinishRunInput struct {
	UpdateLogID  uint   `json:"update_log_id"`
	Status       string `json:"status"`
	Processed    int    `json:"processed"`
	ErrorMessage string `json:"error_message,omitempty"`
}
