package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kirana-next/internal/constants"
	"github.com/kirana-next/internal/logger"
	"github.com/kirana-next/internal/models"
	"github.com/kirana-next/internal/queue"
	"github.com/kirana-next/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	UserID    uint
	AddressID uint // 0 表示使用默认地址
	ClientIP  string
}

// OrderService 订单服务：结算下单、状态流转与优惠回收
type OrderService struct {
	orderRepo       repository.OrderRepository
	couponRepo      repository.CouponRepository
	couponUsageRepo repository.CouponUsageRepository
	cartSvc         *CartService
	couponSvc       *CouponService
	quoteSvc        *QuoteService
	queueClient     *queue.Client
	expireMinutes   int
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	couponRepo repository.CouponRepository,
	couponUsageRepo repository.CouponUsageRepository,
	cartSvc *CartService,
	couponSvc *CouponService,
	quoteSvc *QuoteService,
	queueClient *queue.Client,
	expireMinutes int,
) *OrderService {
	if expireMinutes <= 0 {
		expireMinutes = 15
	}
	return &OrderService{
		orderRepo:       orderRepo,
		couponRepo:      couponRepo,
		couponUsageRepo: couponUsageRepo,
		cartSvc:         cartSvc,
		couponSvc:       couponSvc,
		quoteSvc:        quoteSvc,
		queueClient:     queueClient,
		expireMinutes:   expireMinutes,
	}
}

// generateOrderNo 生成订单编号（日期 + 随机段）
func generateOrderNo(now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("KN%s%s", now.Format("20060102150405"), random[:8])
}

// CreateOrder 结算下单。报价处于计算中状态（地址未解析）时拒绝下单。
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	quote, err := s.quoteSvc.Quote(ctx, input.UserID, input.AddressID)
	if err != nil {
		return nil, err
	}
	if len(quote.Lines) == 0 {
		return nil, ErrCartEmpty
	}
	if quote.IsCalculating {
		return nil, ErrAddressRequired
	}

	address, err := s.quoteSvc.resolveAddress(input.UserID, input.AddressID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressRequired
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(s.expireMinutes) * time.Minute)

	order := &models.Order{
		OrderNo:             generateOrderNo(now),
		UserID:              input.UserID,
		AddressID:           address.ID,
		Status:              constants.OrderStatusPendingPayment,
		Currency:            quote.Currency,
		ItemSubtotal:        quote.Subtotal,
		DeliveryFee:         quote.Delivery.TotalDeliveryFee,
		OriginalDeliveryFee: quote.Delivery.OriginalDeliveryFee,
		DiscountAmount:      quote.DiscountAmount,
		TotalAmount:         quote.GrandTotal,
		ClientIP:            input.ClientIP,
		ExpiresAt:           &expiresAt,
	}
	for _, line := range quote.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  line.ProductID,
			VendorID:   line.VendorID,
			CategoryID: line.CategoryID,
			Name:       line.Name,
			UnitPrice:  line.EffectiveUnitPrice(),
			Quantity:   line.Quantity,
			TotalPrice: line.LineTotal(),
			ImageRef:   line.ImageRef,
		})
	}
	for _, fee := range quote.Delivery.VendorDeliveryFees {
		order.DeliveryFees = append(order.DeliveryFees, models.OrderDeliveryFee{
			VendorID:    fee.VendorID,
			Fee:         fee.Fee,
			OriginalFee: fee.OriginalFee,
			IsFree:      fee.IsFree,
		})
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		// 会话优惠在落库前做一次权威校验，防止并发用尽
		if quote.Discount != nil {
			coupon, err := s.couponRepo.WithTx(tx).GetByID(quote.Discount.CouponID)
			if err != nil {
				return err
			}
			state, err := s.cartSvc.State(input.UserID)
			if err != nil {
				return err
			}
			if err := s.couponSvc.Validate(coupon, state, now); err != nil {
				return err
			}
			order.CouponID = &coupon.ID
			order.CouponCode = coupon.Code
		}

		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}

		if order.CouponID != nil {
			// 条件自增与 Validate 之间可能插入并发下单，最后一张以这里为准
			claimed, err := s.couponRepo.WithTx(tx).IncrementUsageCount(*order.CouponID, 1)
			if err != nil {
				return err
			}
			if !claimed {
				return ErrCouponExhausted
			}
			if err := s.couponUsageRepo.WithTx(tx).Create(&models.CouponUsage{
				CouponID:       *order.CouponID,
				UserID:         input.UserID,
				OrderID:        order.ID,
				DiscountAmount: order.DiscountAmount,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 下单成功后清理购物车与优惠会话，失败不回滚订单
	if err := s.cartSvc.Clear(input.UserID); err != nil {
		logger.Warnw("order_cart_clear_failed", "order_no", order.OrderNo, "error", err)
	}
	if err := s.couponSvc.Remove(ctx, input.UserID); err != nil {
		logger.Warnw("order_discount_clear_failed", "order_no", order.OrderNo, "error", err)
	}

	if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{
		OrderID: order.ID,
		OrderNo: order.OrderNo,
	}, time.Until(expiresAt)); err != nil {
		logger.Warnw("order_timeout_enqueue_failed", "order_no", order.OrderNo, "error", err)
	}

	logger.Infow("order_created",
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"total", order.TotalAmount.String(),
		"coupon_code", order.CouponCode,
	)
	return order, nil
}

// GetForUser 获取用户订单详情
func (s *OrderService) GetForUser(orderID, userID uint) (*models.Order, error) {
	if orderID == 0 || userID == 0 {
		return nil, ErrInvalidInput
	}
	order, err := s.orderRepo.GetByIDForUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListForUser 获取用户订单列表
func (s *OrderService) ListForUser(userID uint, status string, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrInvalidInput
	}
	return s.orderRepo.List(repository.OrderListFilter{
		UserID:   userID,
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
}

// Cancel 用户主动取消待支付订单，并回收已占用的优惠次数
func (s *OrderService) Cancel(orderID, userID uint) error {
	order, err := s.GetForUser(orderID, userID)
	if err != nil {
		return err
	}
	return s.cancel(order)
}

// CancelExpired 超时取消（worker 回调）。订单已流转时静默跳过。
func (s *OrderService) CancelExpired(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil || order.Status != constants.OrderStatusPendingPayment {
		return nil
	}
	return s.cancel(order)
}

func (s *OrderService) cancel(order *models.Order) error {
	if order.Status != constants.OrderStatusPendingPayment {
		return ErrOrderStateConflict
	}
	now := time.Now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		done, err := s.orderRepo.WithTx(tx).UpdateStatus(order.ID, constants.OrderStatusPendingPayment, constants.OrderStatusCanceled, now)
		if err != nil {
			return err
		}
		if !done {
			return ErrOrderStateConflict
		}
		if order.CouponID != nil {
			if err := s.couponRepo.WithTx(tx).DecrementUsageCount(*order.CouponID, 1); err != nil {
				return err
			}
			if err := s.couponUsageRepo.WithTx(tx).DeleteByOrder(order.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyStatus(order.ID, constants.OrderStatusCanceled)
	logger.Infow("order_canceled", "order_no", order.OrderNo, "order_id", order.ID)
	return nil
}

// MarkPaid 标记订单已支付。条件更新保证与超时取消互斥。
func (s *OrderService) MarkPaid(orderID uint) error {
	if orderID == 0 {
		return ErrInvalidInput
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	done, err := s.orderRepo.UpdateStatus(orderID, constants.OrderStatusPendingPayment, constants.OrderStatusPaid, time.Now())
	if err != nil {
		return err
	}
	if !done {
		return ErrOrderStateConflict
	}

	s.notifyStatus(orderID, constants.OrderStatusPaid)
	logger.Infow("order_paid", "order_no", order.OrderNo, "order_id", orderID)
	return nil
}

func (s *OrderService) notifyStatus(orderID uint, status string) {
	if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
		OrderID: orderID,
		Status:  status,
	}); err != nil {
		logger.Warnw("order_status_notify_enqueue_failed", "order_id", orderID, "error", err)
	}
}
