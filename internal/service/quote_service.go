package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kirana-next/internal/cache"
	"github.com/kirana-next/internal/logger"
	"github.com/kirana-next/internal/models"
	"github.com/kirana-next/internal/pricing"
	"github.com/kirana-next/internal/repository"
)

const quoteSnapshotTTL = 30 * time.Minute

func quoteSnapshotKey(userID uint) string {
	return fmt.Sprintf("quote:user:%d", userID)
}

// QuoteService 报价服务：聚合购物车、配送费与会话优惠
type QuoteService struct {
	cartSvc     *CartService
	couponSvc   *CouponService
	vendorRepo  repository.VendorRepository
	addressRepo repository.AddressRepository
	strategy    pricing.FeeStrategy
	currency    string
	freeMin     models.Money

	mu   sync.Mutex
	seqs map[uint]uint64
}

// NewQuoteService 创建报价服务
func NewQuoteService(
	cartSvc *CartService,
	couponSvc *CouponService,
	vendorRepo repository.VendorRepository,
	addressRepo repository.AddressRepository,
	currency string,
	freeDeliveryMinimum models.Money,
) *QuoteService {
	return &QuoteService{
		cartSvc:     cartSvc,
		couponSvc:   couponSvc,
		vendorRepo:  vendorRepo,
		addressRepo: addressRepo,
		strategy:    pricing.DistanceFeeStrategy,
		currency:    currency,
		freeMin:     freeDeliveryMinimum,
		seqs:        make(map[uint]uint64),
	}
}

// nextSeq 领取用户的报价序号。同一用户并发报价时以序号最大的为准，
// 旧请求的结果不落快照。
func (s *QuoteService) nextSeq(userID uint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs[userID]++
	return s.seqs[userID]
}

func (s *QuoteService) isLatest(userID uint, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seqs[userID] == seq
}

// resolveAddress 解析本次报价使用的收货地址。
// addressID 为 0 时取默认地址；用户没有任何可用地址时返回 nil（计算中状态）。
func (s *QuoteService) resolveAddress(userID, addressID uint) (*models.Address, error) {
	if addressID > 0 {
		address, err := s.addressRepo.GetByIDForUser(addressID, userID)
		if err != nil {
			return nil, err
		}
		if address == nil {
			return nil, ErrAddressNotFound
		}
		return address, nil
	}
	return s.addressRepo.GetDefaultByUser(userID)
}

// Quote 产出用户当前订单报价
func (s *QuoteService) Quote(ctx context.Context, userID, addressID uint) (pricing.Quote, error) {
	if userID == 0 {
		return pricing.Quote{}, ErrInvalidInput
	}
	seq := s.nextSeq(userID)

	state, err := s.cartSvc.State(userID)
	if err != nil {
		return pricing.Quote{}, err
	}

	discount, err := s.couponSvc.Session(ctx, userID, state.TotalPrice)
	if err != nil {
		return pricing.Quote{}, err
	}

	address, err := s.resolveAddress(userID, addressID)
	if err != nil {
		return pricing.Quote{}, err
	}

	vendors, err := s.vendorRepo.ListByIDs(state.VendorIDs())
	if err != nil {
		return pricing.Quote{}, err
	}
	vendorSubtotals := state.VendorSubtotals()
	rates := make([]pricing.VendorRate, 0, len(vendors))
	for _, vendor := range vendors {
		rates = append(rates, pricing.VendorRate{
			VendorID:              vendor.ID,
			BaseFee:               vendor.BaseDeliveryFee,
			PerKmRate:             vendor.PerKmRate,
			FreeDeliveryThreshold: vendor.FreeDeliveryThreshold,
			Subtotal:              vendorSubtotals[vendor.ID],
			Latitude:              vendor.Latitude,
			Longitude:             vendor.Longitude,
		})
	}

	var deliveryAddr *pricing.DeliveryAddress
	if address != nil {
		deliveryAddr = &pricing.DeliveryAddress{
			Latitude:  address.Latitude,
			Longitude: address.Longitude,
		}
	}

	delivery := pricing.CalculateDelivery(pricing.DeliveryInput{
		Subtotal:            state.TotalPrice,
		Address:             deliveryAddr,
		Vendors:             rates,
		HasFreeDelivery:     discount.IncludesFreeDelivery(),
		FreeDeliveryMinimum: s.freeMin,
	}, s.strategy)

	quote := pricing.BuildQuote(state, delivery, discount, s.currency)

	if s.isLatest(userID, seq) {
		if err := cache.SetJSON(ctx, quoteSnapshotKey(userID), quote, quoteSnapshotTTL); err != nil {
			logger.Warnw("quote_snapshot_write_failed", "user_id", userID, "error", err)
		}
	} else {
		logger.Debugw("quote_superseded", "user_id", userID, "seq", seq)
	}
	return quote, nil
}
