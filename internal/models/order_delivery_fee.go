package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderDeliveryFee 订单分商家配送费快照
type OrderDeliveryFee struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID     uint           `gorm:"index;not null" json:"order_id"`                            // 订单ID
	VendorID    uint           `gorm:"index;not null" json:"vendor_id"`                           // 商家ID
	Fee         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"fee"`          // 实收配送费
	OriginalFee Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_fee"` // 原始配送费
	IsFree      bool           `gorm:"not null;default:false" json:"is_free"`                     // 是否免配送费
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (OrderDeliveryFee) TableName() string {
	return "order_delivery_fees"
}
