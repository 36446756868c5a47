package pricing

import (
	"github.com/kirana-next/internal/models"

	"github.com/shopspring/decimal"
)

// CartLine 购物车行（计价视图，字段均为下单时刻的商品快照）
type CartLine struct {
	ProductID     uint         `json:"product_id"`
	Name          string       `json:"name"`
	UnitPrice     models.Money `json:"unit_price"`
	DiscountPrice models.Money `json:"discount_price"` // 0 表示无折扣
	Quantity      int          `json:"quantity"`
	VendorID      uint         `json:"vendor_id"`
	CategoryID    uint         `json:"category_id"`
	ImageRef      string       `json:"image_ref"`
}

// EffectiveUnitPrice 生效单价：有折后价取折后价，否则取原价
func (l CartLine) EffectiveUnitPrice() models.Money {
	if l.DiscountPrice.IsPositive() {
		return l.DiscountPrice
	}
	return l.UnitPrice
}

// LineTotal 行小计（生效单价 × 数量）
func (l CartLine) LineTotal() models.Money {
	total := l.EffectiveUnitPrice().Decimal.Mul(decimal.NewFromInt(int64(l.Quantity)))
	return models.NewMoneyFromDecimal(total)
}

// CartState 购物车状态。TotalItems/TotalPrice 永远由行重新计算得出，
// 不做增量累加，避免累计误差。
type CartState struct {
	Lines      []CartLine   `json:"lines"`
	TotalItems int          `json:"total_items"`
	TotalPrice models.Money `json:"total_price"`
}

// NewCartState 从行列表构建购物车状态
func NewCartState(lines []CartLine) CartState {
	kept := make([]CartLine, 0, len(lines))
	items := 0
	total := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		kept = append(kept, line)
		items += line.Quantity
		total = total.Add(line.LineTotal().Decimal)
	}
	return CartState{
		Lines:      kept,
		TotalItems: items,
		TotalPrice: models.NewMoneyFromDecimal(total),
	}
}

// AddLine 加入购物车：新商品以数量 1 插入，已存在时不做任何修改
// （数量调整一律走 UpdateQuantity）。
func (s CartState) AddLine(line CartLine) CartState {
	for _, existing := range s.Lines {
		if existing.ProductID == line.ProductID {
			return s
		}
	}
	line.Quantity = 1
	next := make([]CartLine, 0, len(s.Lines)+1)
	next = append(next, s.Lines...)
	next = append(next, line)
	return NewCartState(next)
}

// UpdateQuantity 调整数量：delta 为增量，结果 ≤ 0 时删除该行；
// 商品不在购物车时静默忽略。
func (s CartState) UpdateQuantity(productID uint, delta int) CartState {
	next := make([]CartLine, 0, len(s.Lines))
	for _, line := range s.Lines {
		if line.ProductID == productID {
			line.Quantity += delta
		}
		next = append(next, line)
	}
	return NewCartState(next)
}

// RemoveLine 删除购物车行
func (s CartState) RemoveLine(productID uint) CartState {
	next := make([]CartLine, 0, len(s.Lines))
	for _, line := range s.Lines {
		if line.ProductID == productID {
			continue
		}
		next = append(next, line)
	}
	return NewCartState(next)
}

// Clear 清空购物车
func (s CartState) Clear() CartState {
	return NewCartState(nil)
}

// VendorSubtotals 按商家汇总的商品小计
func (s CartState) VendorSubtotals() map[uint]models.Money {
	subtotals := make(map[uint]models.Money, len(s.Lines))
	for _, line := range s.Lines {
		sum := subtotals[line.VendorID].Decimal.Add(line.LineTotal().Decimal)
		subtotals[line.VendorID] = models.NewMoneyFromDecimal(sum)
	}
	return subtotals
}

// VendorIDs 购物车中出现的商家ID（去重，保持首次出现顺序）
func (s CartState) VendorIDs() []uint {
	seen := make(map[uint]struct{}, len(s.Lines))
	ids := make([]uint, 0, len(s.Lines))
	for _, line := range s.Lines {
		if _, ok := seen[line.VendorID]; ok {
			continue
		}
		seen[line.VendorID] = struct{}{}
		ids = append(ids, line.VendorID)
	}
	return ids
}
