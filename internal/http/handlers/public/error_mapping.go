package public

import (
	"errors"

	"github.com/kirana-next/internal/http/response"
	"github.com/kirana-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid request"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
}

var couponErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid request"},
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, msg: "coupon not found"},
	{target: service.ErrCouponNotLive, code: response.CodeBadRequest, msg: "coupon is not live"},
	{target: service.ErrCouponExhausted, code: response.CodeBadRequest, msg: "coupon fully redeemed"},
	{target: service.ErrCouponMinOrder, code: response.CodeBadRequest, msg: "minimum order amount not met"},
	{target: service.ErrCouponScope, code: response.CodeBadRequest, msg: "cart contains items outside coupon scope"},
}

var quoteErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid request"},
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, msg: "address not found"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid request"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrAddressRequired, code: response.CodeBadRequest, msg: "delivery address required"},
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, msg: "address not found"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderStateConflict, code: response.CodeConflict, msg: "order state conflict"},
	{target: service.ErrCouponNotLive, code: response.CodeBadRequest, msg: "coupon is not live"},
	{target: service.ErrCouponExhausted, code: response.CodeBadRequest, msg: "coupon fully redeemed"},
	{target: service.ErrCouponMinOrder, code: response.CodeBadRequest, msg: "minimum order amount not met"},
	{target: service.ErrCouponScope, code: response.CodeBadRequest, msg: "cart contains items outside coupon scope"},
}

var addressErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid request"},
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, msg: "address not found"},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid request"},
	{target: service.ErrEmailTaken, code: response.CodeBadRequest, msg: "email already registered"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid email or password"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, msg: "account disabled"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
}
