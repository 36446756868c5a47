package public

import (
	handlershared "github.com/kirana-next/internal/http/handlers/shared"
	"github.com/kirana-next/internal/http/response"
	"github.com/kirana-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算下单请求
type CheckoutRequest struct {
	AddressID uint `json:"address_id"` // 0 表示使用默认地址
}

// Checkout 结算下单
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}
	order, err := h.OrderService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		UserID:    uid,
		AddressID: req.AddressID,
		ClientIP:  c.ClientIP(),
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "checkout failed")
		return
	}
	response.Success(c, order)
}

// ListOrders 获取订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.NormalizePagination(parseIntQuery(c, "page"), parseIntQuery(c, "page_size"))
	orders, total, err := h.OrderService.ListForUser(uid, c.Query("status"), page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order list failed")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetForUser(orderID, uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消待支付订单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.OrderService.Cancel(orderID, uid); err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order cancel failed")
		return
	}
	response.Success(c, nil)
}
