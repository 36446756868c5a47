package models

import (
	"time"

	"gorm.io/gorm"
)

// Address 收货地址表
type Address struct {
	ID        uint           `gorm:"primarykey" json:"id"`                         // 主键
	UserID    uint           `gorm:"not null;index" json:"user_id"`                // 用户ID
	Label     string         `gorm:"type:varchar(50)" json:"label"`                // 标签（home/work）
	Line1     string         `gorm:"not null" json:"line1"`                        // 地址一行
	City      string         `gorm:"type:varchar(100)" json:"city"`                // 城市
	Pincode   string         `gorm:"type:varchar(10)" json:"pincode"`              // 邮编
	Latitude  float64        `gorm:"not null;default:0" json:"latitude"`           // 纬度
	Longitude float64        `gorm:"not null;default:0" json:"longitude"`          // 经度
	IsDefault bool           `gorm:"not null;default:false;index" json:"is_default"` // 是否默认地址
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                   // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}

// HasCoordinates 坐标是否可用（0,0 视为缺失，降级为仅基础费模式）
func (a Address) HasCoordinates() bool {
	return a.Latitude != 0 || a.Longitude != 0
}
