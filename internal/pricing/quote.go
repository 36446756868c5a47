package pricing

import (
	"github.com/kirana-next/internal/models"

	"github.com/shopspring/decimal"
)

// Quote 订单报价（购物车 + 配送费 + 优惠的汇总视图）
type Quote struct {
	Lines          []CartLine       `json:"lines"`
	TotalItems     int              `json:"total_items"`
	Subtotal       models.Money     `json:"subtotal"`
	Delivery       DeliveryQuote    `json:"delivery"`
	Discount       *AppliedDiscount `json:"discount"`
	DiscountAmount models.Money     `json:"discount_amount"`
	GrandTotal     models.Money     `json:"grand_total"`
	Currency       string           `json:"currency"`
	IsCalculating  bool             `json:"is_calculating"`
}

// GrandTotal 应付金额 = 小计 + 配送费 − 优惠，最终结果不低于 0。
// 钳制只发生在这一步，中间各项保持原值。
func GrandTotal(subtotal, deliveryFee, discount models.Money) models.Money {
	total := subtotal.Decimal.Add(deliveryFee.Decimal).Sub(discount.Decimal)
	if total.LessThan(decimal.Zero) {
		return models.Money{}
	}
	return models.NewMoneyFromDecimal(total)
}

// BuildQuote 汇总报价。传入的优惠状态应已按当前小计重算。
func BuildQuote(cart CartState, delivery DeliveryQuote, discount DiscountState, currency string) Quote {
	return Quote{
		Lines:          cart.Lines,
		TotalItems:     cart.TotalItems,
		Subtotal:       cart.TotalPrice,
		Delivery:       delivery,
		Discount:       discount.Applied,
		DiscountAmount: discount.Amount(),
		GrandTotal:     GrandTotal(cart.TotalPrice, delivery.TotalDeliveryFee, discount.Amount()),
		Currency:       currency,
		IsCalculating:  delivery.IsCalculating,
	}
}
