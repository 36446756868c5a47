package service

import "errors"

// 服务层统一错误，handler 层据此映射响应码
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserDisabled        = errors.New("user disabled")
	ErrUserNotFound        = errors.New("user not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrAddressNotFound     = errors.New("address not found")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponNotLive       = errors.New("coupon not live")
	ErrCouponExhausted     = errors.New("coupon fully redeemed")
	ErrCouponMinOrder      = errors.New("minimum order amount not met")
	ErrCouponScope         = errors.New("cart contains items outside coupon scope")
	ErrAddressRequired     = errors.New("delivery address required")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderStateConflict  = errors.New("order state conflict")
)
