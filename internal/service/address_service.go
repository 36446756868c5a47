package service

import (
	"strings"

	"github.com/kirana-next/internal/models"
	"github.com/kirana-next/internal/repository"
)

// UpsertAddressInput 地址写入输入
type UpsertAddressInput struct {
	UserID    uint
	AddressID uint // 0 表示新建
	Label     string
	Line1     string
	City      string
	Pincode   string
	Latitude  float64
	Longitude float64
	IsDefault bool
}

// AddressService 收货地址服务
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// ListByUser 获取用户地址列表
func (s *AddressService) ListByUser(userID uint) ([]models.Address, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.addressRepo.ListByUser(userID)
}

// Upsert 新建或更新地址。首个地址自动设为默认。
func (s *AddressService) Upsert(input UpsertAddressInput) (*models.Address, error) {
	if input.UserID == 0 || strings.TrimSpace(input.Line1) == "" {
		return nil, ErrInvalidInput
	}

	var address *models.Address
	if input.AddressID > 0 {
		existing, err := s.addressRepo.GetByIDForUser(input.AddressID, input.UserID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrAddressNotFound
		}
		address = existing
	} else {
		address = &models.Address{UserID: input.UserID}
		existing, err := s.addressRepo.ListByUser(input.UserID)
		if err != nil {
			return nil, err
		}
		if len(existing) == 0 {
			input.IsDefault = true
		}
	}

	address.Label = strings.TrimSpace(input.Label)
	address.Line1 = strings.TrimSpace(input.Line1)
	address.City = strings.TrimSpace(input.City)
	address.Pincode = strings.TrimSpace(input.Pincode)
	address.Latitude = input.Latitude
	address.Longitude = input.Longitude

	if address.ID == 0 {
		if err := s.addressRepo.Create(address); err != nil {
			return nil, err
		}
	} else {
		if err := s.addressRepo.Update(address); err != nil {
			return nil, err
		}
	}

	if input.IsDefault {
		if err := s.addressRepo.SetDefault(address.ID, input.UserID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}
	return address, nil
}

// Delete 删除用户地址
func (s *AddressService) Delete(id, userID uint) error {
	if id == 0 || userID == 0 {
		return ErrInvalidInput
	}
	existing, err := s.addressRepo.GetByIDForUser(id, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrAddressNotFound
	}
	return s.addressRepo.Delete(id, userID)
}

// SetDefault 设置默认地址
func (s *AddressService) SetDefault(id, userID uint) error {
	if id == 0 || userID == 0 {
		return ErrInvalidInput
	}
	if err := s.addressRepo.SetDefault(id, userID); err != nil {
		return ErrAddressNotFound
	}
	return nil
}
