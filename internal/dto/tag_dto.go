package dto

import "time"

// TagRequest 创建/更新标签请求
type TagRequest struct {
	Label       string       `json:"label"`
	TagType     FlexibleList `json:"tagType"`
	Description string       `json:"description"`
	IsActive    *bool        `json:"isActive"`
}

// TagLabel 自动补全使用的精简结构
type TagLabel struct {
	Label string `json:"label"`
}

// TagResponse 标签详情
type TagResponse struct {
	ID          uint         `json:"id"`
	Label       string       `json:"label"`
	TagType     []string     `json:"tagType"`
	Description string       `json:"description"`
	IsActive    bool         `json:"isActive"`
	CreatedBy   *UserSummary `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
