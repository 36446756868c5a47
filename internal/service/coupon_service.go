package service

import (
	"context"
	"strings"
	"time"

	"github.com/kirana-next/internal/cache"
	"github.com/kirana-next/internal/constants"
	"github.com/kirana-next/internal/logger"
	"github.com/kirana-next/internal/models"
	"github.com/kirana-next/internal/pricing"
	"github.com/kirana-next/internal/repository"
)

// CouponService 优惠券服务：目录评估 + 应用/移除会话优惠
type CouponService struct {
	couponRepo   repository.CouponRepository
	cartSvc      *CartService
	sessionStore *cache.DiscountSessionStore
	cacheTTL     time.Duration
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository, cartSvc *CartService, sessionStore *cache.DiscountSessionStore, cacheTTL time.Duration) *CouponService {
	return &CouponService{
		couponRepo:   couponRepo,
		cartSvc:      cartSvc,
		sessionStore: sessionStore,
		cacheTTL:     cacheTTL,
	}
}

// liveCoupons 获取当前有效优惠券目录，优先走缓存。
// 缓存失败只记日志不阻断，回退数据库。
func (s *CouponService) liveCoupons(ctx context.Context, now time.Time) ([]models.Coupon, error) {
	var cached []models.Coupon
	hit, err := cache.GetJSON(ctx, constants.CacheKeyCouponsLive, &cached)
	if err != nil {
		logger.Warnw("coupon_cache_read_failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	coupons, err := s.couponRepo.ListLive(now)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, constants.CacheKeyCouponsLive, coupons, s.cacheTTL); err != nil {
		logger.Warnw("coupon_cache_write_failed", "error", err)
	}
	return coupons, nil
}

// InvalidateCatalog 优惠券变更后失效目录缓存
func (s *CouponService) InvalidateCatalog(ctx context.Context) {
	if err := cache.Del(ctx, constants.CacheKeyCouponsLive); err != nil {
		logger.Warnw("coupon_cache_del_failed", "error", err)
	}
}

// EvaluateForCart 按用户当前购物车评估全部有效优惠券
func (s *CouponService) EvaluateForCart(ctx context.Context, userID uint) (pricing.CouponEvaluation, error) {
	if userID == 0 {
		return pricing.CouponEvaluation{}, ErrInvalidInput
	}
	state, err := s.cartSvc.State(userID)
	if err != nil {
		return pricing.CouponEvaluation{}, err
	}
	now := time.Now()
	coupons, err := s.liveCoupons(ctx, now)
	if err != nil {
		return pricing.CouponEvaluation{}, err
	}
	return pricing.EvaluateCoupons(coupons, state.Lines, state.TotalPrice, now), nil
}

// Validate 对单张券做权威校验（应用与下单共用）。
// 检查顺序：有效期 → 使用上限 → 最低订单金额 → 适用范围。
func (s *CouponService) Validate(coupon *models.Coupon, state pricing.CartState, now time.Time) error {
	if coupon == nil {
		return ErrCouponNotFound
	}
	if !coupon.IsActive || now.Before(coupon.StartDate) || now.After(coupon.EndDate) {
		return ErrCouponNotLive
	}
	if coupon.UsageLimit > 0 && coupon.UsageCount >= coupon.UsageLimit {
		return ErrCouponExhausted
	}
	if coupon.MinOrderAmount.IsPositive() && state.TotalPrice.LessThan(coupon.MinOrderAmount.Decimal) {
		return ErrCouponMinOrder
	}
	if len(pricing.ConflictingLines(*coupon, state.Lines)) > 0 {
		return ErrCouponScope
	}
	return nil
}

// ValidateCode 服务端权威校验：不落会话，返回按当前购物车计算的优惠金额。
// 客户端预筛过的优惠码也必须走这里复核。
func (s *CouponService) ValidateCode(_ context.Context, userID uint, code string) (models.Money, error) {
	code = strings.TrimSpace(code)
	if userID == 0 || code == "" {
		return models.Money{}, ErrInvalidInput
	}
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return models.Money{}, err
	}
	if coupon == nil {
		return models.Money{}, ErrCouponNotFound
	}
	state, err := s.cartSvc.State(userID)
	if err != nil {
		return models.Money{}, err
	}
	if err := s.Validate(coupon, state, time.Now()); err != nil {
		return models.Money{}, err
	}
	return pricing.ComputeDiscount(*coupon, state.TotalPrice), nil
}

// Apply 将优惠码应用到用户会话
func (s *CouponService) Apply(ctx context.Context, userID uint, code string) (pricing.DiscountState, error) {
	code = strings.TrimSpace(code)
	if userID == 0 || code == "" {
		return pricing.DiscountState{}, ErrInvalidInput
	}
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return pricing.DiscountState{}, err
	}
	if coupon == nil {
		return pricing.DiscountState{}, ErrCouponNotFound
	}

	state, err := s.cartSvc.State(userID)
	if err != nil {
		return pricing.DiscountState{}, err
	}
	if err := s.Validate(coupon, state, time.Now()); err != nil {
		return pricing.DiscountState{}, err
	}

	discount, ok := pricing.DiscountState{}.Apply(*coupon, state.TotalPrice)
	if !ok {
		return pricing.DiscountState{}, ErrCouponMinOrder
	}
	if err := s.sessionStore.Set(ctx, userID, *discount.Applied); err != nil {
		return pricing.DiscountState{}, err
	}
	logger.Infow("coupon_applied",
		"user_id", userID,
		"code", coupon.Code,
		"discount", discount.Amount().String(),
	)
	return discount, nil
}

// Remove 移除用户会话中的优惠
func (s *CouponService) Remove(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	return s.sessionStore.Clear(ctx, userID)
}

// Session 读取用户会话优惠并按当前小计重算。
// 小计跌破使用门槛时自动移除并同步存储。
func (s *CouponService) Session(ctx context.Context, userID uint, subtotal models.Money) (pricing.DiscountState, error) {
	applied, err := s.sessionStore.Get(ctx, userID)
	if err != nil {
		return pricing.DiscountState{}, err
	}
	if applied == nil {
		return pricing.DiscountState{}, nil
	}

	state := pricing.DiscountState{Applied: applied}.RecomputeForSubtotal(subtotal)
	if state.Applied == nil {
		if err := s.sessionStore.Clear(ctx, userID); err != nil {
			logger.Warnw("discount_session_clear_failed", "user_id", userID, "error", err)
		}
		logger.Infow("coupon_auto_removed",
			"user_id", userID,
			"code", applied.Code,
			"subtotal", subtotal.String(),
		)
	}
	return state, nil
}
