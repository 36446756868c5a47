package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/kirana-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCouponRepoTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:coupon_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func seedCoupon(t *testing.T, db *gorm.DB, code string, start, end time.Time, active bool) models.Coupon {
	t.Helper()
	coupon := models.Coupon{
		Code:          code,
		Title:         code,
		DiscountType:  "flat",
		DiscountValue: models.NewMoneyFromDecimal(decimal.RequireFromString("10.00")),
		ApplicableTo:  "all",
		StartDate:     start,
		EndDate:       end,
		IsActive:      active,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestCouponRepositoryListLive(t *testing.T) {
	db := setupCouponRepoTest(t)
	repo := NewCouponRepository(db)
	now := time.Now()

	seedCoupon(t, db, "LIVE", now.Add(-time.Hour), now.Add(time.Hour), true)
	seedCoupon(t, db, "EXPIRED", now.Add(-2*time.Hour), now.Add(-time.Hour), true)
	seedCoupon(t, db, "FUTURE", now.Add(time.Hour), now.Add(2*time.Hour), true)
	seedCoupon(t, db, "DISABLED", now.Add(-time.Hour), now.Add(time.Hour), false)

	live, err := repo.ListLive(now)
	if err != nil {
		t.Fatalf("list live failed: %v", err)
	}
	if len(live) != 1 || live[0].Code != "LIVE" {
		t.Fatalf("expected only the live coupon, got: %+v", live)
	}
}

func TestCouponRepositoryUsageCount(t *testing.T) {
	db := setupCouponRepoTest(t)
	repo := NewCouponRepository(db)
	now := time.Now()
	coupon := seedCoupon(t, db, "COUNTED", now.Add(-time.Hour), now.Add(time.Hour), true)

	if claimed, err := repo.IncrementUsageCount(coupon.ID, 0); err != nil || !claimed {
		t.Fatalf("increment failed: claimed=%v err=%v", claimed, err)
	}
	if claimed, err := repo.IncrementUsageCount(coupon.ID, 2); err != nil || !claimed {
		t.Fatalf("increment failed: claimed=%v err=%v", claimed, err)
	}
	got, err := repo.GetByID(coupon.ID)
	if err != nil || got == nil {
		t.Fatalf("get coupon failed: %v", err)
	}
	if got.UsageCount != 3 {
		t.Fatalf("expected usage count 3, got: %d", got.UsageCount)
	}

	if err := repo.DecrementUsageCount(coupon.ID, 5); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	got, _ = repo.GetByID(coupon.ID)
	if got.UsageCount != 0 {
		t.Fatalf("usage count should floor at zero, got: %d", got.UsageCount)
	}
}

func TestCouponRepositoryUsageCountLimitGuard(t *testing.T) {
	db := setupCouponRepoTest(t)
	repo := NewCouponRepository(db)
	now := time.Now()
	coupon := seedCoupon(t, db, "LIMITED", now.Add(-time.Hour), now.Add(time.Hour), true)
	if err := db.Model(&coupon).UpdateColumn("usage_limit", 1).Error; err != nil {
		t.Fatalf("set usage limit failed: %v", err)
	}

	claimed, err := repo.IncrementUsageCount(coupon.ID, 1)
	if err != nil || !claimed {
		t.Fatalf("first claim should succeed: claimed=%v err=%v", claimed, err)
	}
	claimed, err = repo.IncrementUsageCount(coupon.ID, 1)
	if err != nil {
		t.Fatalf("second claim errored: %v", err)
	}
	if claimed {
		t.Fatalf("claim past the usage limit must be rejected")
	}
	got, err := repo.GetByID(coupon.ID)
	if err != nil || got == nil {
		t.Fatalf("get coupon failed: %v", err)
	}
	if got.UsageCount != 1 {
		t.Fatalf("usage count must stop at the limit, got: %d", got.UsageCount)
	}
}
