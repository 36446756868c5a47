package public

import (
	handlershared "github.com/kirana-next/internal/http/handlers/shared"
	"github.com/kirana-next/internal/http/response"
	"github.com/kirana-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListVendors 获取商家列表
func (h *Handler) ListVendors(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(parseIntQuery(c, "page"), parseIntQuery(c, "page_size"))
	vendors, total, err := h.CatalogService.ListVendors(c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "vendor list failed", err)
		return
	}
	response.SuccessWithPage(c, vendors, response.NewPagination(page, pageSize, total))
}

// GetVendor 获取商家详情
func (h *Handler) GetVendor(c *gin.Context) {
	vendor, err := h.CatalogService.GetVendor(c.Param("slug"))
	if err != nil {
		if err == service.ErrVendorNotFound {
			response.NotFound(c, "vendor not found")
			return
		}
		respondError(c, response.CodeInternal, "vendor fetch failed", err)
		return
	}
	response.Success(c, vendor)
}

// ListCategories 获取分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories()
	if err != nil {
		respondError(c, response.CodeInternal, "category list failed", err)
		return
	}
	response.Success(c, categories)
}

// ListProducts 获取商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(parseIntQuery(c, "page"), parseIntQuery(c, "page_size"))
	products, total, err := h.CatalogService.ListProducts(service.ProductQuery{
		VendorID:   parseUintQuery(c, "vendor_id"),
		CategoryID: parseUintQuery(c, "category_id"),
		Search:     c.Query("search"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product list failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.CatalogService.GetProduct(c.Param("slug"))
	if err != nil {
		if err == service.ErrProductNotFound {
			response.NotFound(c, "product not found")
			return
		}
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.Success(c, product)
}
