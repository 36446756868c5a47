package pricing

import (
	"testing"

	"github.com/kirana-next/internal/constants"
	"github.com/kirana-next/internal/models"
)

func TestGrandTotalClampsAtZero(t *testing.T) {
	if got := GrandTotal(money(t, "100.00"), money(t, "20.00"), money(t, "50.00")); got.String() != "70.00" {
		t.Fatalf("expected grand total 70.00, got: %s", got)
	}
	if got := GrandTotal(money(t, "30.00"), models.Money{}, money(t, "50.00")); !got.IsZero() {
		t.Fatalf("grand total should clamp at zero, got: %s", got)
	}
}

// 免运费券场景：小计不变、优惠金额 0、配送费归零但原价保留
func TestBuildQuoteFreeShippingCoupon(t *testing.T) {
	cart := NewCartState([]CartLine{sampleLine(1, "150.00", 1)})

	coupon := liveCoupon(t, "SAVE50FREESHIP", constants.CouponTypeFreeShipping, "0")
	coupon.IncludesFreeDelivery = true
	discount, ok := DiscountState{}.Apply(coupon, cart.TotalPrice)
	if !ok {
		t.Fatalf("apply should succeed")
	}

	delivery := CalculateDelivery(DeliveryInput{
		Subtotal:        cart.TotalPrice,
		Address:         &DeliveryAddress{Latitude: 12.97, Longitude: 77.59},
		Vendors:         testVendors(t),
		HasFreeDelivery: discount.IncludesFreeDelivery(),
	}, nil)

	quote := BuildQuote(cart, delivery, discount, constants.SiteCurrencyDefault)
	if quote.Subtotal.String() != "150.00" {
		t.Fatalf("expected subtotal 150.00, got: %s", quote.Subtotal)
	}
	if !quote.DiscountAmount.IsZero() {
		t.Fatalf("free shipping should not discount the subtotal, got: %s", quote.DiscountAmount)
	}
	if !quote.Delivery.TotalDeliveryFee.IsZero() || quote.Delivery.OriginalDeliveryFee.String() != "45.00" {
		t.Fatalf("unexpected delivery in quote: %+v", quote.Delivery)
	}
	if quote.GrandTotal.String() != "150.00" {
		t.Fatalf("expected grand total 150.00, got: %s", quote.GrandTotal)
	}
	if quote.Currency != "INR" {
		t.Fatalf("unexpected currency: %s", quote.Currency)
	}
}

func TestBuildQuotePercentageCoupon(t *testing.T) {
	cart := NewCartState([]CartLine{sampleLine(1, "500.00", 2)})

	coupon := liveCoupon(t, "PCT20", constants.CouponTypePercentage, "20")
	coupon.MaxDiscountAmount = money(t, "50.00")
	discount, _ := DiscountState{}.Apply(coupon, cart.TotalPrice)

	delivery := CalculateDelivery(DeliveryInput{
		Subtotal:            cart.TotalPrice,
		Address:             &DeliveryAddress{Latitude: 12.97, Longitude: 77.59},
		Vendors:             testVendors(t),
		FreeDeliveryMinimum: money(t, "499.00"),
	}, nil)

	quote := BuildQuote(cart, delivery, discount, constants.SiteCurrencyDefault)
	if quote.DiscountAmount.String() != "50.00" {
		t.Fatalf("expected capped discount 50.00, got: %s", quote.DiscountAmount)
	}
	if !quote.Delivery.IsFreeDelivery {
		t.Fatalf("subtotal above minimum should ride free delivery")
	}
	// 1000 + 0 − 50
	if quote.GrandTotal.String() != "950.00" {
		t.Fatalf("expected grand total 950.00, got: %s", quote.GrandTotal)
	}
}

func TestBuildQuoteCalculatingState(t *testing.T) {
	cart := NewCartState([]CartLine{sampleLine(1, "450.00", 1)})
	delivery := CalculateDelivery(DeliveryInput{
		Subtotal: cart.TotalPrice,
		Vendors:  testVendors(t),
	}, nil)
	quote := BuildQuote(cart, delivery, DiscountState{}, constants.SiteCurrencyDefault)
	if !quote.IsCalculating {
		t.Fatalf("quote should surface the calculating state")
	}
	// 计算中状态下应付金额不含配送费
	if quote.GrandTotal.String() != "450.00" {
		t.Fatalf("expected grand total 450.00, got: %s", quote.GrandTotal)
	}
}
