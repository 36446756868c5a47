package pricing

import (
	"testing"

	"github.com/kirana-next/internal/constants"
)

func TestDiscountStateApply(t *testing.T) {
	coupon := liveCoupon(t, "FLAT100", constants.CouponTypeFlat, "100.00")
	coupon.MinOrderAmount = money(t, "300.00")

	state, ok := DiscountState{}.Apply(coupon, money(t, "150.00"))
	if ok || state.Applied != nil {
		t.Fatalf("apply below min order should be rejected: %+v", state)
	}

	state, ok = DiscountState{}.Apply(coupon, money(t, "400.00"))
	if !ok || state.Applied == nil {
		t.Fatalf("apply should succeed above min order")
	}
	if state.Amount().String() != "100.00" {
		t.Fatalf("expected discount amount 100.00, got: %s", state.Amount())
	}
	if state.Applied.Code != "FLAT100" {
		t.Fatalf("unexpected applied code: %s", state.Applied.Code)
	}
}

func TestDiscountStateRemove(t *testing.T) {
	coupon := liveCoupon(t, "SAVE10", constants.CouponTypeFlat, "10.00")
	state, _ := DiscountState{}.Apply(coupon, money(t, "100.00"))
	state = state.Remove()
	if state.Applied != nil || !state.Amount().IsZero() {
		t.Fatalf("remove should clear the session: %+v", state)
	}
}

func TestDiscountStateRecomputeOnSubtotalChange(t *testing.T) {
	coupon := liveCoupon(t, "PCT10", constants.CouponTypePercentage, "10")
	state, _ := DiscountState{}.Apply(coupon, money(t, "500.00"))
	if state.Amount().String() != "50.00" {
		t.Fatalf("expected initial discount 50.00, got: %s", state.Amount())
	}

	state = state.RecomputeForSubtotal(money(t, "300.00"))
	if state.Amount().String() != "30.00" {
		t.Fatalf("discount should track the subtotal, got: %s", state.Amount())
	}
}

func TestDiscountStateAutoRemoveBelowMinOrder(t *testing.T) {
	coupon := liveCoupon(t, "FLAT50", constants.CouponTypeFlat, "50.00")
	coupon.MinOrderAmount = money(t, "300.00")
	state, _ := DiscountState{}.Apply(coupon, money(t, "400.00"))

	// 小计跌破门槛后优惠自动失效
	state = state.RecomputeForSubtotal(money(t, "250.00"))
	if state.Applied != nil {
		t.Fatalf("discount should auto-remove below min order: %+v", state.Applied)
	}
}

func TestDiscountStateFreeDeliveryFlag(t *testing.T) {
	coupon := liveCoupon(t, "FREESHIP", constants.CouponTypeFreeShipping, "0")
	coupon.IncludesFreeDelivery = true
	state, _ := DiscountState{}.Apply(coupon, money(t, "100.00"))
	if !state.IncludesFreeDelivery() {
		t.Fatalf("free shipping coupon should set the flag")
	}
	if !state.Amount().IsZero() {
		t.Fatalf("free shipping should carry zero discount amount, got: %s", state.Amount())
	}
}
