package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券
type Coupon struct {
	ID                   uint           `gorm:"primarykey" json:"id"`                                              // 主键
	Code                 string         `gorm:"uniqueIndex;not null" json:"code"`                                  // 优惠码
	Title                string         `gorm:"not null" json:"title"`                                             // 展示标题
	DiscountType         string         `gorm:"type:varchar(20);not null" json:"discount_type"`                    // 类型（percentage/flat/free_shipping）
	DiscountValue        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"`       // 数值（百分比或固定金额）
	MinOrderAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"`     // 使用门槛
	MaxDiscountAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount_amount"`  // 最大优惠金额（0 表示不封顶）
	ApplicableTo         string         `gorm:"type:varchar(20);not null;default:'all'" json:"applicable_to"`      // 适用范围（all/vendor/category）
	ApplicableID         uint           `gorm:"index;not null;default:0" json:"applicable_id"`                     // 适用商家/分类ID
	UsageLimit           int            `gorm:"not null;default:0" json:"usage_limit"`                             // 总使用上限（0 表示不限制）
	UsageCount           int            `gorm:"not null;default:0" json:"usage_count"`                             // 已使用次数
	StartDate            time.Time      `gorm:"index;not null" json:"start_date"`                                  // 生效时间
	EndDate              time.Time      `gorm:"index;not null" json:"end_date"`                                    // 失效时间
	IncludesFreeDelivery bool           `gorm:"not null;default:false" json:"includes_free_delivery"`              // 是否附带免配送费
	IsActive             bool           `gorm:"not null" json:"is_active"`                                         // 是否启用（无列默认值，创建时必须显式赋值）
	CreatedAt            time.Time      `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt            time.Time      `gorm:"index" json:"updated_at"`                                           // 更新时间
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`                                                    // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
