package service

import (
	"github.com/kirana-next/internal/models"
	"github.com/kirana-next/internal/pricing"
	"github.com/kirana-next/internal/repository"
)

// CartService 购物车服务：持久化每用户购物车，并产出计价视图
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// State 获取用户购物车的计价视图。已下架商品在读取时顺手清出购物车。
func (s *CartService) State(userID uint) (pricing.CartState, error) {
	if userID == 0 {
		return pricing.CartState{}, ErrInvalidInput
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return pricing.CartState{}, err
	}

	lines := make([]pricing.CartLine, 0, len(items))
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return pricing.CartState{}, err
			}
			product = p
		}
		if product == nil || !product.IsActive {
			_ = s.cartRepo.DeleteByUserAndProduct(userID, item.ProductID)
			continue
		}
		lines = append(lines, pricing.CartLine{
			ProductID:     product.ID,
			Name:          product.Name,
			UnitPrice:     product.UnitPrice,
			DiscountPrice: product.DiscountPrice,
			Quantity:      item.Quantity,
			VendorID:      product.VendorID,
			CategoryID:    product.CategoryID,
			ImageRef:      product.ImageRef,
		})
	}
	return pricing.NewCartState(lines), nil
}

// AddItem 加入购物车：新商品以数量 1 插入，已存在时不做修改
func (s *CartService) AddItem(userID, productID uint) (pricing.CartState, error) {
	if userID == 0 || productID == 0 {
		return pricing.CartState{}, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return pricing.CartState{}, err
	}
	if product == nil || !product.IsActive {
		return pricing.CartState{}, ErrProductNotAvailable
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return pricing.CartState{}, err
	}
	if existing == nil {
		if err := s.cartRepo.Create(&models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  1,
		}); err != nil {
			return pricing.CartState{}, err
		}
	}
	return s.State(userID)
}

// UpdateQuantity 按增量调整数量，结果 ≤ 0 时删除该行；
// 商品不在购物车时静默忽略。
func (s *CartService) UpdateQuantity(userID, productID uint, delta int) (pricing.CartState, error) {
	if userID == 0 || productID == 0 {
		return pricing.CartState{}, ErrInvalidInput
	}
	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return pricing.CartState{}, err
	}
	if existing == nil {
		return s.State(userID)
	}

	quantity := existing.Quantity + delta
	if quantity <= 0 {
		if err := s.cartRepo.DeleteByUserAndProduct(userID, productID); err != nil {
			return pricing.CartState{}, err
		}
		return s.State(userID)
	}
	if err := s.cartRepo.UpdateQuantity(existing.ID, quantity); err != nil {
		return pricing.CartState{}, err
	}
	return s.State(userID)
}

// RemoveItem 删除购物车行
func (s *CartService) RemoveItem(userID, productID uint) (pricing.CartState, error) {
	if userID == 0 || productID == 0 {
		return pricing.CartState{}, ErrInvalidInput
	}
	if err := s.cartRepo.DeleteByUserAndProduct(userID, productID); err != nil {
		return pricing.CartState{}, err
	}
	return s.State(userID)
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	return s.cartRepo.ClearByUser(userID)
}
