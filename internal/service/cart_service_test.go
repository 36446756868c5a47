package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/kirana-next/internal/models"
	"github.com/kirana-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Category{},
		&models.Product{},
		&models.Address{},
		&models.CartItem{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderDeliveryFee{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func testMoney(t *testing.T, s string) models.Money {
	t.Helper()
	return models.NewMoneyFromDecimal(decimal.RequireFromString(s))
}

func seedVendor(t *testing.T, db *gorm.DB, id uint, baseFee string) models.Vendor {
	t.Helper()
	vendor := models.Vendor{
		ID:              id,
		Name:            fmt.Sprintf("vendor-%d", id),
		Slug:            fmt.Sprintf("vendor-%d", id),
		BaseDeliveryFee: testMoney(t, baseFee),
		Latitude:        12.97,
		Longitude:       77.59,
		IsActive:        true,
	}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	return vendor
}

func seedProduct(t *testing.T, db *gorm.DB, id, vendorID uint, price string) models.Product {
	t.Helper()
	product := models.Product{
		ID:         id,
		VendorID:   vendorID,
		CategoryID: 1,
		Slug:       fmt.Sprintf("product-%d", id),
		Name:       fmt.Sprintf("product-%d", id),
		UnitPrice:  testMoney(t, price),
		IsActive:   true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t, "cart_service_test")
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	return svc, db
}

func TestCartServiceAddItem(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	seedVendor(t, db, 1, "20.00")
	seedProduct(t, db, 1, 1, "80.00")

	state, err := svc.AddItem(10, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if state.TotalItems != 1 || state.TotalPrice.String() != "80.00" {
		t.Fatalf("unexpected state after add: %+v", state)
	}

	// 重复加入不叠加数量
	state, err = svc.AddItem(10, 1)
	if err != nil {
		t.Fatalf("repeat add failed: %v", err)
	}
	if state.TotalItems != 1 {
		t.Fatalf("repeat add should not change quantity, got: %d", state.TotalItems)
	}
}

func TestCartServiceAddInactiveProduct(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	seedVendor(t, db, 1, "20.00")
	product := seedProduct(t, db, 1, 1, "80.00")
	if err := db.Model(&product).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	if _, err := svc.AddItem(10, 1); err != ErrProductNotAvailable {
		t.Fatalf("expected ErrProductNotAvailable, got: %v", err)
	}
}

func TestCartServiceUpdateQuantity(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	seedVendor(t, db, 1, "20.00")
	seedProduct(t, db, 1, 1, "80.00")

	if _, err := svc.AddItem(10, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	state, err := svc.UpdateQuantity(10, 1, 2)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if state.TotalItems != 3 || state.TotalPrice.String() != "240.00" {
		t.Fatalf("unexpected state after increment: %+v", state)
	}

	// 减到 0 移除该行
	state, err = svc.UpdateQuantity(10, 1, -3)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if len(state.Lines) != 0 {
		t.Fatalf("line should be removed at zero quantity: %+v", state.Lines)
	}

	// 不在购物车的商品静默忽略
	state, err = svc.UpdateQuantity(10, 99, 1)
	if err != nil {
		t.Fatalf("update unknown product failed: %v", err)
	}
	if state.TotalItems != 0 {
		t.Fatalf("unknown product should be ignored: %+v", state)
	}
}

func TestCartServiceStateDropsInactive(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	seedVendor(t, db, 1, "20.00")
	seedProduct(t, db, 1, 1, "80.00")
	product2 := seedProduct(t, db, 2, 1, "40.00")

	if _, err := svc.AddItem(10, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.AddItem(10, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := db.Model(&product2).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	state, err := svc.State(10)
	if err != nil {
		t.Fatalf("state failed: %v", err)
	}
	if len(state.Lines) != 1 || state.Lines[0].ProductID != 1 {
		t.Fatalf("inactive product should be dropped from cart: %+v", state.Lines)
	}
}
