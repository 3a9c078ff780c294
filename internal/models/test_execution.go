package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ExecutionStatus 执行结果
type ExecutionStatus string

const (
	StatusPass ExecutionStatus = "pass"
	StatusFail ExecutionStatus = "fail"
)

// ParseExecutionStatus 解析执行状态（大小写不敏感），空值按 fail 处理
func ParseExecutionStatus(raw string) (ExecutionStatus, bool) {
	switch ExecutionStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusFail:
		return StatusFail, true
	case StatusPass:
		return StatusPass, true
	}
	return "", false
}

// TestExecution 一次针对 Task 的执行记录
type TestExecution struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	TaskID          uint            `gorm:"not null;index" json:"taskId"`
	TestID          string          `gorm:"size:255;not null" json:"testId"`
	Status          ExecutionStatus `gorm:"size:10;not null;default:'fail'" json:"status"`
	Feedback        string          `gorm:"type:text;not null" json:"feedback"`
	AttachedImages  StringList      `gorm:"type:text" json:"attachedImages"`
	TesterName      string          `gorm:"size:255;not null" json:"testerName"`
	TestCases       TestCaseResults `gorm:"type:text" json:"testCases"`
	PassedTestCases int             `gorm:"not null;default:0" json:"passedTestCases"`
	TotalTestCases  int             `gorm:"not null;default:0" json:"totalTestCases"`
	CreatedAt       time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	// 关联（任务删除后为 nil）
	Task *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}

// TableName 指定表名
func (TestExecution) TableName() string {
	return "test_executions"
}

// BeforeSave 每次写入前由用例列表重新计算计数
func (e *TestExecution) BeforeSave(tx *gorm.DB) error {
	e.Recount()
	return nil
}

// Recount 根据 TestCases 重新计算通过数与总数
func (e *TestExecution) Recount() {
	e.PassedTestCases = e.TestCases.PassedCount()
	e.TotalTestCases = len(e.TestCases)
}

// NewerThan 按创建时间比较，时间相同时 ID 大者较新
func (e *TestExecution) NewerThan(other *TestExecution) bool {
	if e.CreatedAt.Equal(other.CreatedAt) {
		return e.ID > other.ID
	}
	return e.CreatedAt.After(other.CreatedAt)
}
