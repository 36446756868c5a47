package models

import (
	"time"

	"gorm.io/gorm"
)

// Vendor 商家表（含配送费配置）
type Vendor struct {
	ID                    uint           `gorm:"primarykey" json:"id"`                                                  // 主键
	Name                  string         `gorm:"not null" json:"name"`                                                  // 店铺名称
	Slug                  string         `gorm:"uniqueIndex;not null" json:"slug"`                                      // 唯一标识
	BaseDeliveryFee       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"base_delivery_fee"`        // 基础配送费
	PerKmRate             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"per_km_rate"`              // 每公里加价（0 表示不启用按距离计费）
	FreeDeliveryThreshold Money          `gorm:"type:decimal(20,2);not null;default:0" json:"free_delivery_threshold"`  // 单店免配送费门槛（0 表示不启用）
	Latitude              float64        `gorm:"not null;default:0" json:"latitude"`                                    // 门店纬度
	Longitude             float64        `gorm:"not null;default:0" json:"longitude"`                                   // 门店经度
	IsActive              bool           `gorm:"not null;index" json:"is_active"`                                       // 是否营业（无列默认值，创建时必须显式赋值）
	SortOrder             int            `gorm:"default:0;index" json:"sort_order"`                                     // 排序权重
	CreatedAt             time.Time      `gorm:"index" json:"created_at"`                                               // 创建时间
	UpdatedAt             time.Time      `json:"updated_at"`                                                            // 更新时间
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`                                                        // 软删除时间
}

// TableName 指定表名
func (Vendor) TableName() string {
	return "vendors"
}
