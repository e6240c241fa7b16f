// internal/domain/cart/reducer.go
package cart

import (
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/coupon"
)

// Reducer is the pure state machine at the heart of the cart engine. Reduce
// maps (state, command) to a new state without touching its input; the
// current time is injected so transitions stay deterministic under test.
//
// Reduce never returns an error for structural misses (unknown item ids,
// out-of-range quantities) — those are clamped or ignored. The only errors
// are coupon rejections, and on rejection the returned state is the input
// state unchanged; the rejection reason is for the Store to surface, it is
// never embedded in the state itself.
type Reducer struct {
	Rules Rules
}

// NewReducer creates a reducer with the given engine rules.
func NewReducer(rules Rules) Reducer {
	return Reducer{Rules: rules}
}

// Reduce applies a command to a cart state and returns the next state.
func (r Reducer) Reduce(state CartState, cmd Command, now time.Time) (CartState, error) {
	switch c := cmd.(type) {
	case AddItem:
		return r.addItem(state, c, now), nil
	case RemoveItem:
		return r.removeItem(state, c.ItemID, now), nil
	case UpdateQuantity:
		if c.Quantity <= 0 {
			return r.removeItem(state, c.ItemID, now), nil
		}
		return r.updateQuantity(state, c, now), nil
	case ClearCart:
		return NewCartState(state.SessionID, now), nil
	case ApplyCoupon:
		return r.applyCoupon(state, c.Coupon, now)
	case RemoveCoupon:
		return r.removeCoupon(state, c.Code, now), nil
	default:
		return state, nil
	}
}

func (r Reducer) addItem(state CartState, cmd AddItem, now time.Time) CartState {
	quantity := clampQuantity(cmd.Quantity, r.Rules.MaxQuantityPerItem)
	itemID := LineItemID(cmd.Product.ID, cmd.Variant)

	items := cloneItems(state.Items)
	merged := false
	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		// Existing line: bump quantity, keep the frozen unit price even if
		// the incoming snapshot carries a newer catalog price.
		items[i].Quantity = clampQuantity(items[i].Quantity+quantity, r.Rules.MaxQuantityPerItem)
		items[i].TotalPrice = items[i].UnitPrice * int64(items[i].Quantity)
		merged = true
		break
	}

	if !merged {
		unitPrice := cmd.Product.Price
		if cmd.Variant != nil {
			unitPrice += cmd.Variant.PriceDelta
		}
		items = append(items, LineItem{
			ID:              itemID,
			ProductID:       cmd.Product.ID,
			Product:         cmd.Product,
			Quantity:        quantity,
			SelectedVariant: cmd.Variant,
			UnitPrice:       unitPrice,
			TotalPrice:      unitPrice * int64(quantity),
			AddedAt:         now,
			Notes:           cmd.Notes,
		})
	}

	// Cap enforcement by truncation: once full, further distinct additions
	// are silently dropped. Nothing already in the cart is evicted.
	if len(items) > r.Rules.MaxItems {
		items = items[:r.Rules.MaxItems]
	}

	return r.next(state, items, state.AppliedCoupons, now)
}

func (r Reducer) removeItem(state CartState, itemID string, now time.Time) CartState {
	items := make([]LineItem, 0, len(state.Items))
	for _, item := range state.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	// Unknown id: exact no-op, LastUpdated included.
	if len(items) == len(state.Items) {
		return state
	}
	return r.next(state, items, state.AppliedCoupons, now)
}

func (r Reducer) updateQuantity(state CartState, cmd UpdateQuantity, now time.Time) CartState {
	items := cloneItems(state.Items)
	for i := range items {
		if items[i].ID != cmd.ItemID {
			continue
		}
		items[i].Quantity = clampQuantity(cmd.Quantity, r.Rules.MaxQuantityPerItem)
		items[i].TotalPrice = items[i].UnitPrice * int64(items[i].Quantity)
		return r.next(state, items, state.AppliedCoupons, now)
	}
	// Unknown id: exact no-op, LastUpdated included.
	return state
}

func (r Reducer) applyCoupon(state CartState, c coupon.Coupon, now time.Time) (CartState, error) {
	subtotal := state.Summary.Subtotal
	app := coupon.Apply(c, subtotal, shippingFor(subtotal, r.Rules), now)
	if !app.Accepted {
		return state, app.Reason
	}

	coupons := append(cloneCoupons(state.AppliedCoupons), c)
	return r.next(state, state.Items, coupons, now), nil
}

func (r Reducer) removeCoupon(state CartState, code string, now time.Time) CartState {
	coupons := make([]coupon.Coupon, 0, len(state.AppliedCoupons))
	for _, c := range state.AppliedCoupons {
		if !strings.EqualFold(c.Code, code) {
			coupons = append(coupons, c)
		}
	}
	return r.next(state, state.Items, coupons, now)
}

// next assembles the successor state, recomputing the summary exactly once
// per transition.
func (r Reducer) next(state CartState, items []LineItem, coupons []coupon.Coupon, now time.Time) CartState {
	return CartState{
		Items:          items,
		Summary:        ComputeSummary(items, coupons, r.Rules, now),
		AppliedCoupons: coupons,
		LastUpdated:    now,
		SessionID:      state.SessionID,
	}
}

func clampQuantity(quantity, max int) int {
	if quantity < 1 {
		return 1
	}
	if quantity > max {
		return max
	}
	return quantity
}
