package cart

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/domain/coupon"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

func testProduct(id uint, price int64) product.Product {
	return product.Product{
		ID:    id,
		Name:  fmt.Sprintf("Product %d", id),
		Price: price,
	}
}

func mustReduce(t *testing.T, r Reducer, state CartState, cmd Command) CartState {
	t.Helper()
	next, err := r.Reduce(state, cmd, testNow)
	require.NoError(t, err)
	return next
}

func TestReducerAddItem(t *testing.T) {
	r := NewReducer(DefaultRules())
	empty := NewCartState("session-1", testNow)

	t.Run("New Line Item", func(t *testing.T) {
		state := mustReduce(t, r, empty, AddItem{Product: testProduct(1, 50000), Quantity: 2})

		require.Len(t, state.Items, 1)
		item := state.Items[0]
		assert.Equal(t, uint(1), item.ProductID)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, int64(50000), item.UnitPrice)
		assert.Equal(t, int64(100000), item.TotalPrice)
		assert.Equal(t, LineItemID(1, nil), item.ID)
		assert.Equal(t, int64(100000), state.Summary.Subtotal)
	})

	t.Run("Identity Merge", func(t *testing.T) {
		state := mustReduce(t, r, empty, AddItem{Product: testProduct(1, 50000), Quantity: 2})
		state = mustReduce(t, r, state, AddItem{Product: testProduct(1, 50000), Quantity: 3})

		require.Len(t, state.Items, 1)
		assert.Equal(t, 5, state.Items[0].Quantity)
		assert.Equal(t, int64(250000), state.Items[0].TotalPrice)
	})

	t.Run("Variant Creates Distinct Line", func(t *testing.T) {
		variant := &product.Variant{ID: 7, Name: "Large", PriceDelta: 5000}
		state := mustReduce(t, r, empty, AddItem{Product: testProduct(1, 50000), Quantity: 1})
		state = mustReduce(t, r, state, AddItem{Product: testProduct(1, 50000), Quantity: 1, Variant: variant})

		require.Len(t, state.Items, 2)
		assert.Equal(t, int64(50000), state.Items[0].UnitPrice)
		assert.Equal(t, int64(55000), state.Items[1].UnitPrice)
	})

	t.Run("Unit Price Frozen On Merge", func(t *testing.T) {
		state := mustReduce(t, r, empty, AddItem{Product: testProduct(1, 50000), Quantity: 1})
		// Catalog price changed between adds; the frozen price wins.
		state = mustReduce(t, r, state, AddItem{Product: testProduct(1, 99999), Quantity: 1})

		require.Len(t, state.Items, 1)
		assert.Equal(t, int64(50000), state.Items[0].UnitPrice)
		assert.Equal(t, int64(100000), state.Items[0].TotalPrice)
	})

	t.Run("Merge Clamps At Max Quantity", func(t *testing.T) {
		state := mustReduce(t, r, empty, AddItem{Product: testProduct(1, 1000), Quantity: 98})
		state = mustReduce(t, r, state, AddItem{Product: testProduct(1, 1000), Quantity: 10})

		require.Len(t, state.Items, 1)
		assert.Equal(t, 99, state.Items[0].Quantity)
	})

	t.Run("Cap Enforcement Drops Distinct Additions", func(t *testing.T) {
		state := empty
		for i := 1; i <= 51; i++ {
			state = mustReduce(t, r, state, AddItem{Product: testProduct(uint(i), 1000), Quantity: 1})
		}

		assert.Len(t, state.Items, 50)
		// The 51st product never made it in
		for _, item := range state.Items {
			assert.NotEqual(t, uint(51), item.ProductID)
		}
	})
}

func TestReducerRemoveAndUpdate(t *testing.T) {
	r := NewReducer(DefaultRules())
	empty := NewCartState("session-1", testNow)
	state := mustReduce(t, r, empty, AddItem{Product: testProduct(1, 50000), Quantity: 2})
	itemID := state.Items[0].ID

	t.Run("Remove Item", func(t *testing.T) {
		next := mustReduce(t, r, state, RemoveItem{ItemID: itemID})

		assert.Empty(t, next.Items)
		assert.Equal(t, CartSummary{}, next.Summary)
	})

	t.Run("Remove Is Idempotent", func(t *testing.T) {
		once := mustReduce(t, r, state, RemoveItem{ItemID: itemID})
		twice := mustReduce(t, r, once, RemoveItem{ItemID: itemID})

		assert.Equal(t, once.Items, twice.Items)
		assert.Equal(t, once.Summary, twice.Summary)
	})

	t.Run("Remove Unknown Id Is Noop", func(t *testing.T) {
		// Later clock: an exact no-op must not even bump LastUpdated.
		next, err := r.Reduce(state, RemoveItem{ItemID: "missing"}, testNow.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, state, next)
	})

	t.Run("Update Unknown Id Is Noop", func(t *testing.T) {
		next, err := r.Reduce(state, UpdateQuantity{ItemID: "missing", Quantity: 3}, testNow.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, state, next)
	})

	t.Run("Update Quantity", func(t *testing.T) {
		next := mustReduce(t, r, state, UpdateQuantity{ItemID: itemID, Quantity: 7})

		require.Len(t, next.Items, 1)
		assert.Equal(t, 7, next.Items[0].Quantity)
		assert.Equal(t, int64(350000), next.Items[0].TotalPrice)
	})

	t.Run("Update Quantity Clamps To Max", func(t *testing.T) {
		next := mustReduce(t, r, state, UpdateQuantity{ItemID: itemID, Quantity: 500})

		require.Len(t, next.Items, 1)
		assert.Equal(t, 99, next.Items[0].Quantity)
	})

	t.Run("Update Quantity Zero Removes", func(t *testing.T) {
		next := mustReduce(t, r, state, UpdateQuantity{ItemID: itemID, Quantity: 0})

		assert.Empty(t, next.Items)
	})

	t.Run("Original State Untouched", func(t *testing.T) {
		_ = mustReduce(t, r, state, UpdateQuantity{ItemID: itemID, Quantity: 7})

		assert.Equal(t, 2, state.Items[0].Quantity)
	})
}

func TestReducerCoupons(t *testing.T) {
	r := NewReducer(DefaultRules())
	empty := NewCartState("session-1", testNow)
	state := mustReduce(t, r, empty, AddItem{Product: testProduct(1, 50000), Quantity: 2})

	save10 := coupon.Coupon{Code: "SAVE10", Kind: coupon.KindPercentage, Value: 10, Active: true}

	t.Run("Apply Accepted Coupon", func(t *testing.T) {
		next := mustReduce(t, r, state, ApplyCoupon{Coupon: save10})

		require.Len(t, next.AppliedCoupons, 1)
		assert.Equal(t, int64(10000), next.Summary.CouponDiscount)
	})

	t.Run("Rejected Coupon Leaves State Unchanged", func(t *testing.T) {
		inactive := coupon.Coupon{Code: "OLD", Kind: coupon.KindPercentage, Value: 10, Active: false}

		next, err := r.Reduce(state, ApplyCoupon{Coupon: inactive}, testNow)

		assert.ErrorIs(t, err, coupon.ErrInactiveCoupon)
		assert.Equal(t, state, next)
	})

	t.Run("Minimum Purchase Rejection", func(t *testing.T) {
		demanding := coupon.Coupon{Code: "BIG", Kind: coupon.KindPercentage, Value: 10, Active: true, MinPurchaseAmount: 500000}

		_, err := r.Reduce(state, ApplyCoupon{Coupon: demanding}, testNow)

		assert.ErrorIs(t, err, coupon.ErrMinimumPurchaseNotMet)
	})

	t.Run("Remove Coupon Case Insensitive", func(t *testing.T) {
		applied := mustReduce(t, r, state, ApplyCoupon{Coupon: save10})
		next := mustReduce(t, r, applied, RemoveCoupon{Code: "save10"})

		assert.Empty(t, next.AppliedCoupons)
		assert.Zero(t, next.Summary.CouponDiscount)
	})

	t.Run("Coupon Survives Item Mutations", func(t *testing.T) {
		applied := mustReduce(t, r, state, ApplyCoupon{Coupon: save10})
		next := mustReduce(t, r, applied, AddItem{Product: testProduct(2, 100000), Quantity: 1})

		require.Len(t, next.AppliedCoupons, 1)
		// 10% of the new 200000 subtotal
		assert.Equal(t, int64(20000), next.Summary.CouponDiscount)
	})
}

func TestReducerClearCart(t *testing.T) {
	r := NewReducer(DefaultRules())
	empty := NewCartState("session-1", testNow)
	state := mustReduce(t, r, empty, AddItem{Product: testProduct(1, 50000), Quantity: 2})
	state = mustReduce(t, r, state, ApplyCoupon{Coupon: coupon.Coupon{Code: "SAVE10", Kind: coupon.KindPercentage, Value: 10, Active: true}})

	next := mustReduce(t, r, state, ClearCart{})

	assert.Empty(t, next.Items)
	assert.Empty(t, next.AppliedCoupons)
	assert.Equal(t, CartSummary{}, next.Summary)
	assert.Equal(t, "session-1", next.SessionID)
}

func TestLineItemID(t *testing.T) {
	variant := &product.Variant{ID: 7}

	assert.Equal(t, LineItemID(1, nil), LineItemID(1, nil))
	assert.Equal(t, LineItemID(1, variant), LineItemID(1, &product.Variant{ID: 7, Name: "ignored"}))
	assert.NotEqual(t, LineItemID(1, nil), LineItemID(2, nil))
	assert.NotEqual(t, LineItemID(1, nil), LineItemID(1, variant))
}
