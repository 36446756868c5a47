package pricing

import (
	"testing"

	"github.com/kirana-next/internal/models"

	"github.com/shopspring/decimal"
)

func money(t *testing.T, s string) models.Money {
	t.Helper()
	return models.NewMoneyFromDecimal(decimal.RequireFromString(s))
}

func sampleLine(productID uint, price string, qty int) CartLine {
	return CartLine{
		ProductID: productID,
		Name:      "item",
		UnitPrice: models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		Quantity:  qty,
		VendorID:  1,
	}
}

func TestCartLineEffectiveUnitPrice(t *testing.T) {
	line := sampleLine(1, "80.00", 2)
	if got := line.EffectiveUnitPrice(); got.String() != "80.00" {
		t.Fatalf("expected unit price 80.00, got: %s", got)
	}
	line.DiscountPrice = money(t, "65.00")
	if got := line.EffectiveUnitPrice(); got.String() != "65.00" {
		t.Fatalf("expected discount price 65.00, got: %s", got)
	}
	if got := line.LineTotal(); got.String() != "130.00" {
		t.Fatalf("expected line total 130.00, got: %s", got)
	}
}

func TestCartStateAddLine(t *testing.T) {
	state := NewCartState(nil)
	state = state.AddLine(sampleLine(1, "50.00", 99))
	if len(state.Lines) != 1 || state.Lines[0].Quantity != 1 {
		t.Fatalf("new line should enter with quantity 1, got: %+v", state.Lines)
	}
	if state.TotalPrice.String() != "50.00" {
		t.Fatalf("expected total 50.00, got: %s", state.TotalPrice)
	}

	// 重复加入不改变数量
	state = state.AddLine(sampleLine(1, "50.00", 1))
	if state.TotalItems != 1 {
		t.Fatalf("duplicate add should be a no-op, got items: %d", state.TotalItems)
	}
}

func TestCartStateUpdateQuantity(t *testing.T) {
	state := NewCartState([]CartLine{sampleLine(1, "50.00", 2), sampleLine(2, "30.00", 1)})
	state = state.UpdateQuantity(1, 1)
	if state.TotalItems != 4 || state.TotalPrice.String() != "180.00" {
		t.Fatalf("unexpected state after increment: items=%d total=%s", state.TotalItems, state.TotalPrice)
	}

	// 减到 0 时该行被移除
	state = state.UpdateQuantity(2, -1)
	if len(state.Lines) != 1 {
		t.Fatalf("line with zero quantity should be removed, got: %+v", state.Lines)
	}

	// 未知商品静默忽略
	before := state.TotalItems
	state = state.UpdateQuantity(42, 5)
	if state.TotalItems != before {
		t.Fatalf("unknown product should be ignored, got items: %d", state.TotalItems)
	}
}

func TestCartStateRemoveAndClear(t *testing.T) {
	state := NewCartState([]CartLine{sampleLine(1, "50.00", 2), sampleLine(2, "30.00", 1)})
	state = state.RemoveLine(1)
	if len(state.Lines) != 1 || state.Lines[0].ProductID != 2 {
		t.Fatalf("unexpected lines after remove: %+v", state.Lines)
	}
	state = state.Clear()
	if len(state.Lines) != 0 || state.TotalItems != 0 || !state.TotalPrice.IsZero() {
		t.Fatalf("clear should reset state, got: %+v", state)
	}
}

func TestCartStateVendorIDs(t *testing.T) {
	a := sampleLine(1, "10.00", 1)
	a.VendorID = 7
	b := sampleLine(2, "10.00", 1)
	b.VendorID = 3
	c := sampleLine(3, "10.00", 1)
	c.VendorID = 7
	state := NewCartState([]CartLine{a, b, c})
	ids := state.VendorIDs()
	if len(ids) != 2 || ids[0] != 7 || ids[1] != 3 {
		t.Fatalf("unexpected vendor ids: %v", ids)
	}
}
