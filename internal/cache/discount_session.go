package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kirana-next/internal/pricing"
)

const discountSessionTTL = 24 * time.Hour

func discountSessionKey(userID uint) string {
	return fmt.Sprintf("discount:user:%d", userID)
}

// DiscountSessionStore 每用户优惠会话存储。
// Redis 启用时以 Redis 为准（多实例共享），未启用时退化为进程内存。
type DiscountSessionStore struct {
	mu    sync.RWMutex
	local map[uint]pricing.AppliedDiscount
}

// NewDiscountSessionStore 创建优惠会话存储
func NewDiscountSessionStore() *DiscountSessionStore {
	return &DiscountSessionStore{
		local: make(map[uint]pricing.AppliedDiscount),
	}
}

// Get 获取用户当前生效的优惠，未应用时返回 nil
func (s *DiscountSessionStore) Get(ctx context.Context, userID uint) (*pricing.AppliedDiscount, error) {
	if userID == 0 {
		return nil, nil
	}
	if Enabled() {
		var applied pricing.AppliedDiscount
		hit, err := GetJSON(ctx, discountSessionKey(userID), &applied)
		if err != nil {
			return nil, err
		}
		if !hit {
			return nil, nil
		}
		return &applied, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	applied, ok := s.local[userID]
	if !ok {
		return nil, nil
	}
	return &applied, nil
}

// Set 写入用户优惠会话
func (s *DiscountSessionStore) Set(ctx context.Context, userID uint, applied pricing.AppliedDiscount) error {
	if userID == 0 {
		return nil
	}
	if Enabled() {
		return SetJSON(ctx, discountSessionKey(userID), applied, discountSessionTTL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.local[userID] = applied
	return nil
}

// Clear 清除用户优惠会话
func (s *DiscountSessionStore) Clear(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	if Enabled() {
		return Del(ctx, discountSessionKey(userID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.local, userID)
	return nil
}
