package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                               // 主键
	OrderNo             string         `gorm:"uniqueIndex;not null" json:"order_no"`                               // 订单编号
	UserID              uint           `gorm:"index;not null" json:"user_id"`                                      // 用户ID
	AddressID           uint           `gorm:"index;not null" json:"address_id"`                                   // 收货地址ID
	Status              string         `gorm:"index;not null" json:"status"`                                       // 订单状态
	Currency            string         `gorm:"not null" json:"currency"`                                           // 币种
	ItemSubtotal        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"item_subtotal"`         // 商品小计
	DeliveryFee         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"`          // 实收配送费
	OriginalDeliveryFee Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_delivery_fee"` // 原始配送费（免配送费时仍保留用于展示）
	DiscountAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`       // 优惠金额
	TotalAmount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`          // 实付金额
	CouponID            *uint          `gorm:"index" json:"coupon_id,omitempty"`                                   // 优惠券ID
	CouponCode          string         `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`                      // 优惠码快照
	ClientIP            string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                        // 下单客户端IP
	ExpiresAt           *time.Time     `gorm:"index" json:"expires_at"`                                            // 支付过期时间
	PaidAt              *time.Time     `gorm:"index" json:"paid_at"`                                               // 支付时间
	CanceledAt          *time.Time     `gorm:"index" json:"canceled_at"`                                           // 取消时间
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                            // 创建时间
	UpdatedAt           time.Time      `gorm:"index" json:"updated_at"`                                            // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                                     // 软删除时间

	Items        []OrderItem        `gorm:"foreignKey:OrderID" json:"items,omitempty"`         // 订单项
	DeliveryFees []OrderDeliveryFee `gorm:"foreignKey:OrderID" json:"delivery_fees,omitempty"` // 分商家配送费快照
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
