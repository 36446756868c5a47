package constants

// 订单状态常量
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusCanceled       = "canceled"
)

// 优惠券类型常量
const (
	CouponTypePercentage   = "percentage"
	CouponTypeFlat         = "flat"
	CouponTypeFreeShipping = "free_shipping"
)

// 优惠券适用范围常量
const (
	CouponScopeAll      = "all"
	CouponScopeVendor   = "vendor"
	CouponScopeCategory = "category"
)

// 用户角色常量
const (
	RoleCustomer        = "customer"
	RoleVendor          = "vendor"
	RoleDeliveryPartner = "delivery_partner"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列常量
const (
	QueueDefault           = "default"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
	TaskOrderStatusNotify  = "order:status_notify"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault  = "kn"
	CacheKeyCouponsLive = "coupons:live"
)

// 币种常量
const (
	SiteCurrencyDefault = "INR"
)
