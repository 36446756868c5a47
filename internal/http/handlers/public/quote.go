package public

import (
	"github.com/kirana-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetQuote 获取当前订单报价。
// address_id 缺省时使用默认地址；无可用地址返回计算中状态。
func (h *Handler) GetQuote(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	quote, err := h.QuoteService.Quote(c.Request.Context(), uid, parseUintQuery(c, "address_id"))
	if err != nil {
		respondWithMappedError(c, err, quoteErrorRules, response.CodeInternal, "quote failed")
		return
	}
	response.Success(c, quote)
}
