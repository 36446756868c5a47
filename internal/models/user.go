package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（顾客/商家/配送员共用一张表，按角色区分）
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                      // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`                         // 邮箱
	Phone        string         `gorm:"index" json:"phone"`                                        // 手机号
	Name         string         `gorm:"not null" json:"name"`                                      // 昵称
	PasswordHash string         `gorm:"not null" json:"-"`                                         // 密码哈希
	Role         string         `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`  // 角色（customer/vendor/delivery_partner）
	Status       string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`  // 状态（active/disabled）
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
