package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Task 测试用例定义（UTC case）
type Task struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	UnitTestLabel  string     `gorm:"size:255;not null" json:"unitTestLabel"`
	LabelKey       string     `gorm:"uniqueIndex;size:255;not null" json:"-"`
	Tags           StringList `gorm:"type:text" json:"tags"`
	Description    string     `gorm:"type:text;not null" json:"description"`
	TestCases      StringList `gorm:"type:text" json:"testCases"`
	Notes          string     `gorm:"type:text" json:"notes"`
	AttachedImages StringList `gorm:"type:text" json:"attachedImages"`
	CreatedAt      time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// TableName 指定表名
func (Task) TableName() string {
	return "tasks"
}

// BeforeSave 维护大小写不敏感的唯一键
func (t *Task) BeforeSave(tx *gorm.DB) error {
	t.LabelKey = LabelKey(t.UnitTestLabel)
	return nil
}

// LabelKey 标签的唯一性比较键
func LabelKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
