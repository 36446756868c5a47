package service

import (
	"context"
	"testing"
	"time"

	"github.com/kirana-next/internal/cache"
	"github.com/kirana-next/internal/constants"
	"github.com/kirana-next/internal/models"
	"github.com/kirana-next/internal/queue"
	"github.com/kirana-next/internal/repository"

	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *CouponService, *CartService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t, "order_service_test")
	cartSvc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	couponRepo := repository.NewCouponRepository(db)
	couponSvc := NewCouponService(couponRepo, cartSvc, cache.NewDiscountSessionStore(), time.Minute)
	quoteSvc := NewQuoteService(
		cartSvc,
		couponSvc,
		repository.NewVendorRepository(db),
		repository.NewAddressRepository(db),
		constants.SiteCurrencyDefault,
		testMoney(t, "499.00"),
	)
	queueClient, err := queue.NewClient(nil) // 测试环境不启用队列
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	orderSvc := NewOrderService(
		repository.NewOrderRepository(db),
		couponRepo,
		repository.NewCouponUsageRepository(db),
		cartSvc,
		couponSvc,
		quoteSvc,
		queueClient,
		15,
	)
	return orderSvc, couponSvc, cartSvc, db
}

func TestOrderServiceCreateOrder(t *testing.T) {
	orderSvc, _, cartSvc, db := setupOrderServiceTest(t)
	ctx := context.Background()
	seedVendor(t, db, 1, "20.00")
	seedVendor(t, db, 2, "25.00")
	seedProduct(t, db, 1, 1, "250.00")
	seedProduct(t, db, 2, 2, "200.00")
	seedAddress(t, db, 10, 12.97, 77.59, true)
	fillCart(t, cartSvc, 10, 1, 2)

	order, err := orderSvc.CreateOrder(ctx, CreateOrderInput{UserID: 10})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPendingPayment {
		t.Fatalf("unexpected status: %s", order.Status)
	}
	if order.ItemSubtotal.String() != "450.00" || order.DeliveryFee.String() != "45.00" {
		t.Fatalf("unexpected amounts: subtotal=%s fee=%s", order.ItemSubtotal, order.DeliveryFee)
	}
	if order.TotalAmount.String() != "495.00" {
		t.Fatalf("expected total 495.00, got: %s", order.TotalAmount)
	}
	if len(order.Items) != 2 || len(order.DeliveryFees) != 2 {
		t.Fatalf("order should snapshot items and vendor fees: %+v", order)
	}
	if order.ExpiresAt == nil {
		t.Fatalf("pending order should carry an expiry")
	}

	// 下单后购物车被清空
	state, err := cartSvc.State(10)
	if err != nil {
		t.Fatalf("cart state failed: %v", err)
	}
	if len(state.Lines) != 0 {
		t.Fatalf("cart should be cleared after checkout: %+v", state.Lines)
	}
}

func TestOrderServiceCreateOrderRequiresAddress(t *testing.T) {
	orderSvc, _, cartSvc, db := setupOrderServiceTest(t)
	seedVendor(t, db, 1, "20.00")
	seedProduct(t, db, 1, 1, "100.00")
	fillCart(t, cartSvc, 10, 1)

	if _, err := orderSvc.CreateOrder(context.Background(), CreateOrderInput{UserID: 10}); err != ErrAddressRequired {
		t.Fatalf("expected ErrAddressRequired, got: %v", err)
	}
}

func TestOrderServiceCreateOrderEmptyCart(t *testing.T) {
	orderSvc, _, _, db := setupOrderServiceTest(t)
	seedAddress(t, db, 10, 12.97, 77.59, true)

	if _, err := orderSvc.CreateOrder(context.Background(), CreateOrderInput{UserID: 10}); err != ErrCartEmpty {
		t.Fatalf("expected ErrCartEmpty, got: %v", err)
	}
}

func TestOrderServiceCreateOrderWithCoupon(t *testing.T) {
	orderSvc, couponSvc, cartSvc, db := setupOrderServiceTest(t)
	ctx := context.Background()
	seedVendor(t, db, 1, "20.00")
	seedProduct(t, db, 1, 1, "400.00")
	seedAddress(t, db, 10, 12.97, 77.59, true)
	coupon := seedLiveCoupon(t, db, "FLAT100", constants.CouponTypeFlat, "100.00", "300.00")
	fillCart(t, cartSvc, 10, 1)

	if _, err := couponSvc.Apply(ctx, 10, "FLAT100"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	order, err := orderSvc.CreateOrder(ctx, CreateOrderInput{UserID: 10})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.CouponCode != "FLAT100" || order.DiscountAmount.String() != "100.00" {
		t.Fatalf("unexpected coupon snapshot: %+v", order)
	}
	// 400 − 100 + 20
	if order.TotalAmount.String() != "320.00" {
		t.Fatalf("expected total 320.00, got: %s", order.TotalAmount)
	}

	got, err := repository.NewCouponRepository(db).GetByID(coupon.ID)
	if err != nil || got == nil {
		t.Fatalf("get coupon failed: %v", err)
	}
	if got.UsageCount != 1 {
		t.Fatalf("usage count should be incremented, got: %d", got.UsageCount)
	}

	var usages []models.CouponUsage
	if err := db.Where("order_id = ?", order.ID).Find(&usages).Error; err != nil {
		t.Fatalf("query usages failed: %v", err)
	}
	if len(usages) != 1 {
		t.Fatalf("expected a usage record, got: %d", len(usages))
	}
}

func TestOrderServiceCancelReleasesCoupon(t *testing.T) {
	orderSvc, couponSvc, cartSvc, db := setupOrderServiceTest(t)
	ctx := context.Background()
	seedVendor(t, db, 1, "20.00")
	seedProduct(t, db, 1, 1, "400.00")
	seedAddress(t, db, 10, 12.97, 77.59, true)
	coupon := seedLiveCoupon(t, db, "FLAT100", constants.CouponTypeFlat, "100.00", "300.00")
	fillCart(t, cartSvc, 10, 1)
	if _, err := couponSvc.Apply(ctx, 10, "FLAT100"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	order, err := orderSvc.CreateOrder(ctx, CreateOrderInput{UserID: 10})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := orderSvc.Cancel(order.ID, 10); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	got, _ := repository.NewCouponRepository(db).GetByID(coupon.ID)
	if got.UsageCount != 0 {
		t.Fatalf("cancel should release the coupon usage, got: %d", got.UsageCount)
	}
	canceled, err := orderSvc.GetForUser(order.ID, 10)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled || canceled.CanceledAt == nil {
		t.Fatalf("unexpected order after cancel: %+v", canceled)
	}

	// 已取消订单不可重复取消
	if err := orderSvc.Cancel(order.ID, 10); err != ErrOrderStateConflict {
		t.Fatalf("expected ErrOrderStateConflict, got: %v", err)
	}
}

func TestOrderServiceMarkPaid(t *testing.T) {
	orderSvc, _, cartSvc, db := setupOrderServiceTest(t)
	ctx := context.Background()
	seedVendor(t, db, 1, "20.00")
	seedProduct(t, db, 1, 1, "100.00")
	seedAddress(t, db, 10, 12.97, 77.59, true)
	fillCart(t, cartSvc, 10, 1)
	order, err := orderSvc.CreateOrder(ctx, CreateOrderInput{UserID: 10})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := orderSvc.MarkPaid(order.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	paid, _ := orderSvc.GetForUser(order.ID, 10)
	if paid.Status != constants.OrderStatusPaid || paid.PaidAt == nil {
		t.Fatalf("unexpected order after payment: %+v", paid)
	}

	// 支付后的超时取消应静默跳过
	if err := orderSvc.CancelExpired(order.ID); err != nil {
		t.Fatalf("cancel expired should be a no-op: %v", err)
	}
	still, _ := orderSvc.GetForUser(order.ID, 10)
	if still.Status != constants.OrderStatusPaid {
		t.Fatalf("paid order must not be canceled by timeout: %s", still.Status)
	}
}
