package dto

import "time"

// TestCaseInput 单个用例执行结果
type TestCaseInput struct {
	TestCase string `json:"testCase"`
	Passed   bool   `json:"passed"`
	Notes    string `json:"notes"`
}

// ExecutionRequest 创建/更新执行记录请求
// 不接受 passedTestCases/totalTestCases，计数总是由 testCases 重新计算
type ExecutionRequest struct {
	TaskID         FlexibleID      `json:"taskId"`
	TestID         string          `json:"testId"`
	ExecID         string          `json:"execId"`
	Status         string          `json:"status"`
	Feedback       string          `json:"feedback"`
	TesterName     string          `json:"testerName"`
	AttachedImages FlexibleList    `json:"attachedImages"`
	TestCases      []TestCaseInput `json:"testCases"`
}

// ExecutionFilter 执行记录查询条件
type ExecutionFilter struct {
	Status string
	Label  string
	Tags   []string
	Latest bool
}

// ExecutionResponse 执行记录
type ExecutionResponse struct {
	ID              uint            `json:"id"`
	TaskID          uint            `json:"taskId"`
	Task            *TaskSummary    `json:"task"`
	TestID          string          `json:"testId"`
	Status          string          `json:"status"`
	Feedback        string          `json:"feedback"`
	AttachedImages  []string        `json:"attachedImages"`
	TesterName      string          `json:"testerName"`
	TestCases       []TestCaseInput `json:"testCases"`
	PassedTestCases int             `json:"passedTestCases"`
	TotalTestCases  int             `json:"totalTestCases"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
