package pricing

import (
	"github.com/kirana-next/internal/models"
)

// AppliedDiscount 已应用优惠的会话快照。字段从优惠券复制而来，
// 使后续重算不依赖数据库读取。
type AppliedDiscount struct {
	CouponID             uint         `json:"coupon_id"`
	Code                 string       `json:"code"`
	DiscountType         string       `json:"discount_type"`
	DiscountValue        models.Money `json:"discount_value"`
	MinOrderAmount       models.Money `json:"min_order_amount"`
	MaxDiscountAmount    models.Money `json:"max_discount_amount"`
	ApplicableTo         string       `json:"applicable_to"`
	ApplicableID         uint         `json:"applicable_id"`
	IncludesFreeDelivery bool         `json:"includes_free_delivery"`
	DiscountAmount       models.Money `json:"discount_amount"` // 按最近一次小计计算的优惠金额
}

func (d AppliedDiscount) coupon() models.Coupon {
	return models.Coupon{
		ID:                   d.CouponID,
		Code:                 d.Code,
		DiscountType:         d.DiscountType,
		DiscountValue:        d.DiscountValue,
		MinOrderAmount:       d.MinOrderAmount,
		MaxDiscountAmount:    d.MaxDiscountAmount,
		ApplicableTo:         d.ApplicableTo,
		ApplicableID:         d.ApplicableID,
		IncludesFreeDelivery: d.IncludesFreeDelivery,
	}
}

// DiscountState 优惠会话状态，同一时间至多一张券生效
type DiscountState struct {
	Applied *AppliedDiscount `json:"applied"`
}

// Apply 应用优惠券。小计低于使用门槛时拒绝并返回原状态。
// 重复应用同一张券直接替换当前状态。
func (s DiscountState) Apply(coupon models.Coupon, subtotal models.Money) (DiscountState, bool) {
	if coupon.MinOrderAmount.IsPositive() && subtotal.LessThan(coupon.MinOrderAmount.Decimal) {
		return s, false
	}
	return DiscountState{Applied: &AppliedDiscount{
		CouponID:             coupon.ID,
		Code:                 coupon.Code,
		DiscountType:         coupon.DiscountType,
		DiscountValue:        coupon.DiscountValue,
		MinOrderAmount:       coupon.MinOrderAmount,
		MaxDiscountAmount:    coupon.MaxDiscountAmount,
		ApplicableTo:         coupon.ApplicableTo,
		ApplicableID:         coupon.ApplicableID,
		IncludesFreeDelivery: coupon.IncludesFreeDelivery,
		DiscountAmount:       ComputeDiscount(coupon, subtotal),
	}}, true
}

// Remove 移除当前优惠
func (s DiscountState) Remove() DiscountState {
	return DiscountState{}
}

// RecomputeForSubtotal 在小计变化后重算优惠金额。
// 小计跌破使用门槛时自动移除优惠，避免结算时出现失效折扣。
func (s DiscountState) RecomputeForSubtotal(subtotal models.Money) DiscountState {
	if s.Applied == nil {
		return s
	}
	if s.Applied.MinOrderAmount.IsPositive() && subtotal.LessThan(s.Applied.MinOrderAmount.Decimal) {
		return DiscountState{}
	}
	next := *s.Applied
	next.DiscountAmount = ComputeDiscount(s.Applied.coupon(), subtotal)
	return DiscountState{Applied: &next}
}

// Amount 当前优惠金额，无优惠时为 0
func (s DiscountState) Amount() models.Money {
	if s.Applied == nil {
		return models.Money{}
	}
	return s.Applied.DiscountAmount
}

// IncludesFreeDelivery 当前优惠是否附带免配送费
func (s DiscountState) IncludesFreeDelivery() bool {
	return s.Applied != nil && s.Applied.IncludesFreeDelivery
}
