package public

import (
	"github.com/kirana-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ApplyCouponRequest 应用优惠码请求
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ListCoupons 按当前购物车评估全部有效优惠券（可用/不可用分组）
func (h *Handler) ListCoupons(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	result, err := h.CouponService.EvaluateForCart(c.Request.Context(), uid)
	if err != nil {
		respondWithMappedError(c, err, couponErrorRules, response.CodeInternal, "coupon list failed")
		return
	}
	response.Success(c, result)
}

// ValidateCoupon 权威校验优惠码（不应用到会话）
func (h *Handler) ValidateCoupon(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}
	discount, err := h.CouponService.ValidateCode(c.Request.Context(), uid, req.Code)
	if err != nil {
		respondWithMappedError(c, err, couponErrorRules, response.CodeInternal, "coupon validate failed")
		return
	}
	response.Success(c, gin.H{"code": req.Code, "discount": discount})
}

// ApplyCoupon 应用优惠码
func (h *Handler) ApplyCoupon(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}
	discount, err := h.CouponService.Apply(c.Request.Context(), uid, req.Code)
	if err != nil {
		respondWithMappedError(c, err, couponErrorRules, response.CodeInternal, "coupon apply failed")
		return
	}
	response.Success(c, discount.Applied)
}

// RemoveCoupon 移除已应用优惠
func (h *Handler) RemoveCoupon(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CouponService.Remove(c.Request.Context(), uid); err != nil {
		respondWithMappedError(c, err, couponErrorRules, response.CodeInternal, "coupon remove failed")
		return
	}
	response.Success(c, nil)
}
