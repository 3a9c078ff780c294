package dto

// TaskRequest 创建/更新任务请求，字段校验由服务层完成
type TaskRequest struct {
	UnitTestLabel  string       `json:"unitTestLabel"`
	Tags           FlexibleList `json:"tags"`
	Description    string       `json:"description"`
	TestCases      FlexibleList `json:"testCases"`
	Notes          string       `json:"notes"`
	AttachedImages FlexibleList `json:"attachedImages"`
}

// TaskSummary 执行记录中关联的任务摘要
type TaskSummary struct {
	ID            uint     `json:"id"`
	UnitTestLabel string   `json:"unitTestLabel"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
}
