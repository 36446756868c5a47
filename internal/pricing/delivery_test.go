package pricing

import (
	"testing"
)

func testVendors(t *testing.T) []VendorRate {
	t.Helper()
	return []VendorRate{
		{VendorID: 1, BaseFee: money(t, "20.00")},
		{VendorID: 2, BaseFee: money(t, "25.00")},
	}
}

func TestCalculateDeliveryPerVendor(t *testing.T) {
	addr := &DeliveryAddress{Latitude: 12.97, Longitude: 77.59}
	quote := CalculateDelivery(DeliveryInput{
		Subtotal:            money(t, "450.00"),
		Address:             addr,
		Vendors:             testVendors(t),
		FreeDeliveryMinimum: money(t, "499.00"),
	}, nil)
	if quote.IsCalculating {
		t.Fatalf("quote should not be calculating with a resolved address")
	}
	if quote.TotalDeliveryFee.String() != "45.00" {
		t.Fatalf("expected total fee 45.00, got: %s", quote.TotalDeliveryFee)
	}
	if quote.VendorCount != 2 || len(quote.VendorDeliveryFees) != 2 {
		t.Fatalf("expected 2 vendor fees, got: %+v", quote)
	}
	if quote.IsFreeDelivery {
		t.Fatalf("subtotal below minimum should not be free")
	}
}

func TestCalculateDeliveryFreeAboveMinimum(t *testing.T) {
	quote := CalculateDelivery(DeliveryInput{
		Subtotal:            money(t, "499.00"),
		Address:             &DeliveryAddress{Latitude: 12.97, Longitude: 77.59},
		Vendors:             testVendors(t),
		FreeDeliveryMinimum: money(t, "499.00"),
	}, nil)
	if !quote.IsFreeDelivery {
		t.Fatalf("subtotal at minimum should be free")
	}
	if !quote.TotalDeliveryFee.IsZero() {
		t.Fatalf("free delivery should zero the total, got: %s", quote.TotalDeliveryFee)
	}
	// 原价保留用于展示划线价
	if quote.OriginalDeliveryFee.String() != "45.00" {
		t.Fatalf("original fee should survive the override, got: %s", quote.OriginalDeliveryFee)
	}
	for _, fee := range quote.VendorDeliveryFees {
		if !fee.IsFree || !fee.Fee.IsZero() || fee.OriginalFee.IsZero() {
			t.Fatalf("unexpected vendor fee under free delivery: %+v", fee)
		}
	}
}

func TestCalculateDeliveryCouponOverride(t *testing.T) {
	quote := CalculateDelivery(DeliveryInput{
		Subtotal:        money(t, "150.00"),
		Vendors:         testVendors(t),
		HasFreeDelivery: true,
	}, nil)
	if !quote.IsFreeDelivery || !quote.TotalDeliveryFee.IsZero() {
		t.Fatalf("coupon override should force free delivery, got: %+v", quote)
	}
	if quote.OriginalDeliveryFee.String() != "45.00" {
		t.Fatalf("expected original fee 45.00, got: %s", quote.OriginalDeliveryFee)
	}
}

func TestCalculateDeliveryMissingAddress(t *testing.T) {
	quote := CalculateDelivery(DeliveryInput{
		Subtotal: money(t, "450.00"),
		Vendors:  testVendors(t),
	}, nil)
	if !quote.IsCalculating {
		t.Fatalf("missing address should yield a calculating quote")
	}
	if !quote.TotalDeliveryFee.IsZero() || len(quote.VendorDeliveryFees) != 0 {
		t.Fatalf("calculating quote must not carry fees: %+v", quote)
	}
	if quote.VendorCount != 2 {
		t.Fatalf("vendor count should still be reported, got: %d", quote.VendorCount)
	}
}

func TestCalculateDeliveryNoVendors(t *testing.T) {
	quote := CalculateDelivery(DeliveryInput{Subtotal: money(t, "100.00")}, nil)
	if quote.IsCalculating || quote.IsFreeDelivery {
		t.Fatalf("empty cart should yield a plain zero quote: %+v", quote)
	}
	if quote.VendorCount != 0 || !quote.TotalDeliveryFee.IsZero() {
		t.Fatalf("unexpected quote for zero vendors: %+v", quote)
	}
}

func TestDistanceFeeStrategyDegradesToBase(t *testing.T) {
	rate := VendorRate{VendorID: 1, BaseFee: money(t, "20.00"), PerKmRate: money(t, "5.00")}
	// 商家坐标缺失时只收基础费
	if got := DistanceFeeStrategy(rate, &DeliveryAddress{Latitude: 12.97, Longitude: 77.59}); got.String() != "20.00" {
		t.Fatalf("expected base fee fallback, got: %s", got)
	}
	// 地址坐标缺失时同样退化
	if got := DistanceFeeStrategy(rate, &DeliveryAddress{}); got.String() != "20.00" {
		t.Fatalf("expected base fee fallback for zero coords, got: %s", got)
	}
}

func TestDistanceFeeStrategyAddsPerKm(t *testing.T) {
	rate := VendorRate{
		VendorID:  1,
		BaseFee:   money(t, "20.00"),
		PerKmRate: money(t, "5.00"),
		Latitude:  12.9700,
		Longitude: 77.5900,
	}
	addr := &DeliveryAddress{Latitude: 13.0000, Longitude: 77.5900}
	got := DistanceFeeStrategy(rate, addr)
	if !got.GreaterThan(rate.BaseFee.Decimal) {
		t.Fatalf("distance fee should exceed base fee, got: %s", got)
	}
}

func TestCalculateDeliveryVendorThreshold(t *testing.T) {
	vendors := []VendorRate{
		{
			VendorID:              1,
			BaseFee:               money(t, "20.00"),
			FreeDeliveryThreshold: money(t, "299.00"),
			Subtotal:              money(t, "320.00"),
		},
		{
			VendorID:              2,
			BaseFee:               money(t, "25.00"),
			FreeDeliveryThreshold: money(t, "299.00"),
			Subtotal:              money(t, "130.00"),
		},
	}
	quote := CalculateDelivery(DeliveryInput{
		Subtotal: money(t, "450.00"),
		Address:  &DeliveryAddress{Latitude: 12.97, Longitude: 77.59},
		Vendors:  vendors,
	}, nil)
	if quote.IsFreeDelivery {
		t.Fatalf("single-vendor threshold must not flip the global flag")
	}
	// 达标商家归零，原价保留；未达标商家照常计费
	if quote.TotalDeliveryFee.String() != "25.00" {
		t.Fatalf("expected total fee 25.00, got: %s", quote.TotalDeliveryFee)
	}
	if quote.OriginalDeliveryFee.String() != "45.00" {
		t.Fatalf("expected original fee 45.00, got: %s", quote.OriginalDeliveryFee)
	}
	first := quote.VendorDeliveryFees[0]
	if !first.IsFree || !first.Fee.IsZero() || first.OriginalFee.String() != "20.00" {
		t.Fatalf("vendor over threshold should ship free with original kept: %+v", first)
	}
	second := quote.VendorDeliveryFees[1]
	if second.IsFree || second.Fee.String() != "25.00" {
		t.Fatalf("vendor under threshold should pay base fee: %+v", second)
	}
}

func TestVendorSubtotals(t *testing.T) {
	state := NewCartState([]CartLine{
		{ProductID: 1, VendorID: 1, UnitPrice: money(t, "100.00"), Quantity: 2},
		{ProductID: 2, VendorID: 2, UnitPrice: money(t, "80.00"), Quantity: 1},
		{ProductID: 3, VendorID: 1, UnitPrice: money(t, "50.00"), DiscountPrice: money(t, "40.00"), Quantity: 3},
	})
	subtotals := state.VendorSubtotals()
	if subtotals[1].String() != "320.00" {
		t.Fatalf("vendor 1 subtotal want 320.00 got %s", subtotals[1])
	}
	if subtotals[2].String() != "80.00" {
		t.Fatalf("vendor 2 subtotal want 80.00 got %s", subtotals[2])
	}
}
