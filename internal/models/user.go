package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role 用户角色
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTester  Role = "tester"
	RoleManager Role = "manager"
)

// Valid 角色是否合法
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTester, RoleManager:
		return true
	}
	return false
}

// User 用户模型
type User struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	Name               string    `gorm:"size:100;not null" json:"name"`
	Email              string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash       string    `gorm:"size:255" json:"-"`
	Role               Role      `gorm:"size:20;not null;default:'tester'" json:"role"`
	IsActive           bool      `gorm:"not null" json:"isActive"`
	ExternalProviderID *string   `gorm:"uniqueIndex;size:255" json:"externalProviderId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// BeforeSave 邮箱统一小写存储，唯一索引即为大小写不敏感
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// NormalizeEmail 邮箱查找键
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
