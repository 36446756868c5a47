package service

import (
	"github.com/kirana-next/internal/models"
	"github.com/kirana-next/internal/repository"
)

// CatalogService 商品目录服务：商家、分类与商品的浏览接口
type CatalogService struct {
	vendorRepo   repository.VendorRepository
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(vendorRepo repository.VendorRepository, categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *CatalogService {
	return &CatalogService{
		vendorRepo:   vendorRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// ListVendors 获取营业中的商家列表
func (s *CatalogService) ListVendors(search string, page, pageSize int) ([]models.Vendor, int64, error) {
	return s.vendorRepo.List(repository.VendorListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     search,
		OnlyActive: true,
	})
}

// GetVendor 获取商家详情
func (s *CatalogService) GetVendor(slug string) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if vendor == nil || !vendor.IsActive {
		return nil, ErrVendorNotFound
	}
	return vendor, nil
}

// ListCategories 获取全部分类
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.List()
}

// ProductQuery 商品浏览过滤条件
type ProductQuery struct {
	VendorID   uint
	CategoryID uint
	Search     string
	Page       int
	PageSize   int
}

// ListProducts 获取上架商品列表
func (s *CatalogService) ListProducts(query ProductQuery) ([]models.Product, int64, error) {
	return s.productRepo.List(repository.ProductListFilter{
		Page:       query.Page,
		PageSize:   query.PageSize,
		VendorID:   query.VendorID,
		CategoryID: query.CategoryID,
		Search:     query.Search,
		OnlyActive: true,
		WithVendor: true,
	})
}

// GetProduct 获取商品详情
func (s *CatalogService) GetProduct(slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}
