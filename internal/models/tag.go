package models

import (
	"time"

	"gorm.io/gorm"
)

// TagType 标签类型
type TagType string

const (
	TagTypeFeature      TagType = "Feature"
	TagTypeApplication  TagType = "Application"
	TagTypeBuildVersion TagType = "BuildVersion"
	TagTypeEnvironment  TagType = "Environment"
	TagTypeDevice       TagType = "Device"
	TagTypeSprints      TagType = "Sprints"
)

// TagTypes 全部合法的标签类型
var TagTypes = []TagType{
	TagTypeFeature,
	TagTypeApplication,
	TagTypeBuildVersion,
	TagTypeEnvironment,
	TagTypeDevice,
	TagTypeSprints,
}

// ValidTagType 是否为合法标签类型（区分大小写）
func ValidTagType(value string) bool {
	for _, t := range TagTypes {
		if string(t) == value {
			return true
		}
	}
	return false
}

// TagDescriptionMaxLen 描述最大长度
const TagDescriptionMaxLen = 200

// Tag 分类标签
type Tag struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Label       string     `gorm:"size:255;not null" json:"label"`
	LabelKey    string     `gorm:"uniqueIndex;size:255;not null" json:"-"`
	TagType     StringList `gorm:"type:text" json:"tagType"`
	Description string     `gorm:"size:200" json:"description"`
	CreatedBy   uint       `gorm:"index" json:"-"`
	IsActive    bool       `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// 关联
	Creator *User `gorm:"foreignKey:CreatedBy" json:"createdBy,omitempty"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

// BeforeSave 维护大小写不敏感的唯一键
func (t *Tag) BeforeSave(tx *gorm.DB) error {
	t.LabelKey = LabelKey(t.Label)
	return nil
}
