package service

import (
	"context"
	"testing"
	"time"

	"github.com/kirana-next/internal/cache"
	"github.com/kirana-next/internal/constants"
	"github.com/kirana-next/internal/models"
	"github.com/kirana-next/internal/repository"

	"gorm.io/gorm"
)

func setupQuoteServiceTest(t *testing.T) (*QuoteService, *CouponService, *CartService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t, "quote_service_test")
	cartSvc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	couponSvc := NewCouponService(
		repository.NewCouponRepository(db),
		cartSvc,
		cache.NewDiscountSessionStore(),
		time.Minute,
	)
	quoteSvc := NewQuoteService(
		cartSvc,
		couponSvc,
		repository.NewVendorRepository(db),
		repository.NewAddressRepository(db),
		constants.SiteCurrencyDefault,
		testMoney(t, "499.00"),
	)
	return quoteSvc, couponSvc, cartSvc, db
}

func seedAddress(t *testing.T, db *gorm.DB, userID uint, lat, lon float64, isDefault bool) models.Address {
	t.Helper()
	address := models.Address{
		UserID:    userID,
		Label:     "home",
		Line1:     "12 MG Road",
		City:      "Bengaluru",
		Pincode:   "560001",
		Latitude:  lat,
		Longitude: lon,
		IsDefault: isDefault,
	}
	if err := db.Create(&address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	return address
}

func TestQuoteServiceMultiVendorFees(t *testing.T) {
	quoteSvc, _, cartSvc, db := setupQuoteServiceTest(t)
	ctx := context.Background()
	seedVendor(t, db, 1, "20.00")
	seedVendor(t, db, 2, "25.00")
	seedProduct(t, db, 1, 1, "250.00")
	seedProduct(t, db, 2, 2, "200.00")
	seedAddress(t, db, 10, 12.97, 77.59, true)
	fillCart(t, cartSvc, 10, 1, 2)

	quote, err := quoteSvc.Quote(ctx, 10, 0)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if quote.Subtotal.String() != "450.00" {
		t.Fatalf("expected subtotal 450.00, got: %s", quote.Subtotal)
	}
	if quote.Delivery.VendorCount != 2 || quote.Delivery.TotalDeliveryFee.String() != "45.00" {
		t.Fatalf("unexpected delivery: %+v", quote.Delivery)
	}
	if quote.GrandTotal.String() != "495.00" {
		t.Fatalf("expected grand total 495.00, got: %s", quote.GrandTotal)
	}
}

func TestQuoteServiceFreeDeliveryAtMinimum(t *testing.T) {
	quoteSvc, _, cartSvc, db := setupQuoteServiceTest(t)
	ctx := context.Background()
	seedVendor(t, db, 1, "20.00")
	seedVendor(t, db, 2, "25.00")
	seedProduct(t, db, 1, 1, "299.00")
	seedProduct(t, db, 2, 2, "200.00")
	seedAddress(t, db, 10, 12.97, 77.59, true)
	fillCart(t, cartSvc, 10, 1, 2)

	quote, err := quoteSvc.Quote(ctx, 10, 0)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.Delivery.IsFreeDelivery || !quote.Delivery.TotalDeliveryFee.IsZero() {
		t.Fatalf("subtotal at minimum should be free: %+v", quote.Delivery)
	}
	if quote.Delivery.OriginalDeliveryFee.String() != "45.00" {
		t.Fatalf("original fee should survive: %s", quote.Delivery.OriginalDeliveryFee)
	}
	if quote.GrandTotal.String() != "499.00" {
		t.Fatalf("expected grand total 499.00, got: %s", quote.GrandTotal)
	}
}

func TestQuoteServiceMissingAddressIsCalculating(t *testing.T) {
	quoteSvc, _, cartSvc, db := setupQuoteServiceTest(t)
	ctx := context.Background()
	seedVendor(t, db, 1, "20.00")
	seedProduct(t, db, 1, 1, "100.00")
	fillCart(t, cartSvc, 10, 1)

	quote, err := quoteSvc.Quote(ctx, 10, 0)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.IsCalculating {
		t.Fatalf("quote without address should be calculating: %+v", quote)
	}
}

func TestQuoteServiceZeroCoordsUsesBaseFee(t *testing.T) {
	quoteSvc, _, cartSvc, db := setupQuoteServiceTest(t)
	ctx := context.Background()
	vendor := seedVendor(t, db, 1, "20.00")
	if err := db.Model(&vendor).Update("per_km_rate", testMoney(t, "5.00")).Error; err != nil {
		t.Fatalf("update vendor failed: %v", err)
	}
	seedProduct(t, db, 1, 1, "100.00")
	// 地址坐标缺失（0,0），按距离计费退化为基础费
	seedAddress(t, db, 10, 0, 0, true)
	fillCart(t, cartSvc, 10, 1)

	quote, err := quoteSvc.Quote(ctx, 10, 0)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if quote.IsCalculating {
		t.Fatalf("stored address should not be calculating")
	}
	if quote.Delivery.TotalDeliveryFee.String() != "20.00" {
		t.Fatalf("expected base fee only, got: %s", quote.Delivery.TotalDeliveryFee)
	}
}

func TestQuoteServiceEmptyCart(t *testing.T) {
	quoteSvc, _, _, db := setupQuoteServiceTest(t)
	seedAddress(t, db, 10, 12.97, 77.59, true)

	quote, err := quoteSvc.Quote(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if len(quote.Lines) != 0 || !quote.GrandTotal.IsZero() || quote.Delivery.VendorCount != 0 {
		t.Fatalf("empty cart should yield a zero quote: %+v", quote)
	}
}

func TestQuoteServiceFreeShippingCoupon(t *testing.T) {
	quoteSvc, couponSvc, cartSvc, db := setupQuoteServiceTest(t)
	ctx := context.Background()
	seedVendor(t, db, 1, "20.00")
	seedVendor(t, db, 2, "25.00")
	seedProduct(t, db, 1, 1, "100.00")
	seedProduct(t, db, 2, 2, "50.00")
	seedAddress(t, db, 10, 12.97, 77.59, true)
	coupon := seedLiveCoupon(t, db, "SAVE50FREESHIP", constants.CouponTypeFreeShipping, "0", "0")
	if err := db.Model(&coupon).Update("includes_free_delivery", true).Error; err != nil {
		t.Fatalf("update coupon failed: %v", err)
	}
	fillCart(t, cartSvc, 10, 1, 2)

	if _, err := couponSvc.Apply(ctx, 10, "SAVE50FREESHIP"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	quote, err := quoteSvc.Quote(ctx, 10, 0)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.DiscountAmount.IsZero() {
		t.Fatalf("free shipping discount amount should be zero, got: %s", quote.DiscountAmount)
	}
	if !quote.Delivery.TotalDeliveryFee.IsZero() || quote.Delivery.OriginalDeliveryFee.String() != "45.00" {
		t.Fatalf("unexpected delivery under free shipping: %+v", quote.Delivery)
	}
	if quote.GrandTotal.String() != "150.00" {
		t.Fatalf("expected grand total 150.00, got: %s", quote.GrandTotal)
	}
}

func TestQuoteServiceVendorThresholdFreesOwnFee(t *testing.T) {
	quoteSvc, _, cartSvc, db := setupQuoteServiceTest(t)
	ctx := context.Background()

	vendor := seedVendor(t, db, 1, "20.00")
	vendor.FreeDeliveryThreshold = testMoney(t, "299.00")
	if err := db.Save(&vendor).Error; err != nil {
		t.Fatalf("update vendor failed: %v", err)
	}
	seedVendor(t, db, 2, "25.00")
	seedProduct(t, db, 1, 1, "320.00")
	seedProduct(t, db, 2, 2, "100.00")
	seedAddress(t, db, 10, 12.97, 77.59, true)
	fillCart(t, cartSvc, 10, 1, 2)

	quote, err := quoteSvc.Quote(ctx, 10, 0)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if quote.Delivery.IsFreeDelivery {
		t.Fatalf("per-vendor threshold must not flip the global free flag")
	}
	if quote.Delivery.TotalDeliveryFee.String() != "25.00" {
		t.Fatalf("expected total fee 25.00, got: %s", quote.Delivery.TotalDeliveryFee)
	}
	if quote.Delivery.OriginalDeliveryFee.String() != "45.00" {
		t.Fatalf("expected original fee 45.00, got: %s", quote.Delivery.OriginalDeliveryFee)
	}
	for _, fee := range quote.Delivery.VendorDeliveryFees {
		if fee.VendorID == 1 && (!fee.IsFree || !fee.Fee.IsZero()) {
			t.Fatalf("vendor over its threshold should ship free: %+v", fee)
		}
		if fee.VendorID == 2 && fee.IsFree {
			t.Fatalf("vendor under its threshold should pay: %+v", fee)
		}
	}
}
