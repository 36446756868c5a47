package pricing

import (
	"fmt"
	"sort"
	"time"

	"github.com/kirana-next/internal/constants"
	"github.com/kirana-next/internal/models"

	"github.com/shopspring/decimal"
)

// CouponOffer 可用优惠券及按当前小计计算的优惠金额
type CouponOffer struct {
	Coupon   models.Coupon `json:"coupon"`
	Discount models.Money  `json:"discount"`
}

// IneligibleOffer 不可用优惠券，附带原因与冲突商品
type IneligibleOffer struct {
	Coupon           models.Coupon `json:"coupon"`
	Discount         models.Money  `json:"discount"` // 满足条件后可获得的优惠金额
	Reason           string        `json:"reason"`
	Shortfall        models.Money  `json:"shortfall"`         // 距离使用门槛还差多少
	ConflictingItems []CartLine    `json:"conflicting_items"` // 不在适用范围内的购物车行
}

// CouponEvaluation 优惠券评估结果
type CouponEvaluation struct {
	Eligible   []CouponOffer     `json:"eligible"`
	Ineligible []IneligibleOffer `json:"ineligible"`
}

// ComputeDiscount 计算优惠金额：
//   - percentage：小计 × 百分比，受最大优惠金额封顶（0 不封顶）
//   - flat：固定金额，不超过小计
//   - free_shipping：优惠金额为 0（免配送费在配送费聚合中体现）
func ComputeDiscount(coupon models.Coupon, subtotal models.Money) models.Money {
	switch coupon.DiscountType {
	case constants.CouponTypePercentage:
		discount := subtotal.Decimal.Mul(coupon.DiscountValue.Decimal).Div(decimal.NewFromInt(100))
		if coupon.MaxDiscountAmount.IsPositive() && discount.GreaterThan(coupon.MaxDiscountAmount.Decimal) {
			discount = coupon.MaxDiscountAmount.Decimal
		}
		return models.NewMoneyFromDecimal(discount)
	case constants.CouponTypeFlat:
		if coupon.DiscountValue.GreaterThan(subtotal.Decimal) {
			return subtotal
		}
		return coupon.DiscountValue
	case constants.CouponTypeFreeShipping:
		return models.Money{}
	default:
		return models.Money{}
	}
}

// ConflictingLines 返回不在优惠券适用范围内的购物车行。
// 范围为 all 时永远为空。
func ConflictingLines(coupon models.Coupon, lines []CartLine) []CartLine {
	conflicts := make([]CartLine, 0)
	for _, line := range lines {
		if !lineInScope(coupon, line) {
			conflicts = append(conflicts, line)
		}
	}
	return conflicts
}

func lineInScope(coupon models.Coupon, line CartLine) bool {
	switch coupon.ApplicableTo {
	case constants.CouponScopeVendor:
		return line.VendorID == coupon.ApplicableID
	case constants.CouponScopeCategory:
		return line.CategoryID == coupon.ApplicableID
	default:
		return true
	}
}

// EvaluateCoupons 将优惠券集合按当前购物车划分为可用/不可用两组。
// 检查按顺序执行，命中第一条失败原因即停止：
//  1. 启用且在有效期内（不满足的券整体不出现在结果中）
//  2. 使用次数未达上限
//  3. 满足最低订单金额
//  4. 购物车全部商品在适用范围内
// 可用组按优惠金额从大到小排序，不可用组按差额从小到大排序。
func EvaluateCoupons(coupons []models.Coupon, lines []CartLine, subtotal models.Money, now time.Time) CouponEvaluation {
	eligible := make([]CouponOffer, 0, len(coupons))
	ineligible := make([]IneligibleOffer, 0)

	for _, coupon := range coupons {
		if !coupon.IsActive || now.Before(coupon.StartDate) || now.After(coupon.EndDate) {
			continue
		}

		discount := ComputeDiscount(coupon, subtotal)

		if coupon.UsageLimit > 0 && coupon.UsageCount >= coupon.UsageLimit {
			ineligible = append(ineligible, IneligibleOffer{
				Coupon:   coupon,
				Discount: discount,
				Reason:   "Coupon fully redeemed",
			})
			continue
		}

		if coupon.MinOrderAmount.IsPositive() && subtotal.LessThan(coupon.MinOrderAmount.Decimal) {
			shortfall := models.NewMoneyFromDecimal(coupon.MinOrderAmount.Decimal.Sub(subtotal.Decimal))
			ineligible = append(ineligible, IneligibleOffer{
				Coupon:    coupon,
				Discount:  discount,
				Reason:    fmt.Sprintf("Add %s more to use this coupon", shortfall),
				Shortfall: shortfall,
			})
			continue
		}

		if conflicts := ConflictingLines(coupon, lines); len(conflicts) > 0 {
			ineligible = append(ineligible, IneligibleOffer{
				Coupon:           coupon,
				Discount:         discount,
				Reason:           "Some cart items are outside this coupon's scope",
				ConflictingItems: conflicts,
			})
			continue
		}

		eligible = append(eligible, CouponOffer{Coupon: coupon, Discount: discount})
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if !eligible[i].Discount.Equal(eligible[j].Discount.Decimal) {
			return eligible[i].Discount.GreaterThan(eligible[j].Discount.Decimal)
		}
		return eligible[i].Coupon.Code < eligible[j].Coupon.Code
	})
	sort.SliceStable(ineligible, func(i, j int) bool {
		if !ineligible[i].Shortfall.Equal(ineligible[j].Shortfall.Decimal) {
			return ineligible[i].Shortfall.LessThan(ineligible[j].Shortfall.Decimal)
		}
		return ineligible[i].Coupon.Code < ineligible[j].Coupon.Code
	})

	return CouponEvaluation{Eligible: eligible, Ineligible: ineligible}
}
