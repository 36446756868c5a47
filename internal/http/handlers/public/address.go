package public

import (
	"github.com/kirana-next/internal/http/response"
	"github.com/kirana-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 地址写入请求
type AddressRequest struct {
	Label     string  `json:"label"`
	Line1     string  `json:"line1" binding:"required"`
	City      string  `json:"city"`
	Pincode   string  `json:"pincode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsDefault bool    `json:"is_default"`
}

// ListAddresses 获取地址列表
func (h *Handler) ListAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.ListByUser(uid)
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "address list failed")
		return
	}
	response.Success(c, addresses)
}

// CreateAddress 新建地址
func (h *Handler) CreateAddress(c *gin.Context) {
	h.upsertAddress(c, 0)
}

// UpdateAddress 更新地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	addressID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	h.upsertAddress(c, addressID)
}

func (h *Handler) upsertAddress(c *gin.Context, addressID uint) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}
	address, err := h.AddressService.Upsert(service.UpsertAddressInput{
		UserID:    uid,
		AddressID: addressID,
		Label:     req.Label,
		Line1:     req.Line1,
		City:      req.City,
		Pincode:   req.Pincode,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "address save failed")
		return
	}
	response.Success(c, address)
}

// DeleteAddress 删除地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.AddressService.Delete(addressID, uid); err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "address delete failed")
		return
	}
	response.Success(c, nil)
}

// SetDefaultAddress 设置默认地址
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.AddressService.SetDefault(addressID, uid); err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "address update failed")
		return
	}
	response.Success(c, nil)
}
