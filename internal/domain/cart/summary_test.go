package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/storefront-backend/internal/domain/coupon"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testItem(id string, unitPrice int64, quantity int) LineItem {
	return LineItem{
		ID:         id,
		ProductID:  1,
		Product:    product.Product{ID: 1, Name: "Test Product", Price: unitPrice},
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice * int64(quantity),
		AddedAt:    testNow,
	}
}

func TestComputeSummary(t *testing.T) {
	rules := DefaultRules()

	t.Run("Empty Cart", func(t *testing.T) {
		summary := ComputeSummary(nil, nil, rules, testNow)

		assert.Equal(t, CartSummary{}, summary)
	})

	t.Run("Single Item Below Free Shipping", func(t *testing.T) {
		items := []LineItem{testItem("a", 50000, 2)}

		summary := ComputeSummary(items, nil, rules, testNow)

		assert.Equal(t, int64(100000), summary.Subtotal)
		assert.Equal(t, int64(15000), summary.Shipping)
		assert.Equal(t, int64(19000), summary.Tax)
		assert.Equal(t, int64(134000), summary.Total)
		assert.Equal(t, 2, summary.ItemCount)
		assert.Equal(t, 1, summary.UniqueItems)
	})

	t.Run("Free Shipping At Threshold", func(t *testing.T) {
		items := []LineItem{testItem("a", 150000, 1)}

		summary := ComputeSummary(items, nil, rules, testNow)

		assert.Equal(t, int64(150000), summary.Subtotal)
		assert.Zero(t, summary.Shipping)
	})

	t.Run("Flat Fee Just Below Threshold", func(t *testing.T) {
		items := []LineItem{testItem("a", 149999, 1)}

		summary := ComputeSummary(items, nil, rules, testNow)

		assert.Equal(t, int64(149999), summary.Subtotal)
		assert.Equal(t, int64(15000), summary.Shipping)
	})

	t.Run("Coupon Discounts Stack", func(t *testing.T) {
		items := []LineItem{testItem("a", 100000, 1)}
		coupons := []coupon.Coupon{
			{Code: "SAVE10", Kind: coupon.KindPercentage, Value: 10, Active: true},
			{Code: "FLAT5K", Kind: coupon.KindFixedAmount, Value: 5000, Active: true},
		}

		summary := ComputeSummary(items, coupons, rules, testNow)

		assert.Equal(t, int64(15000), summary.CouponDiscount)
		assert.Equal(t, int64(15000), summary.Savings)
		// subtotal + tax + shipping - couponDiscount
		assert.Equal(t, int64(100000+19000+15000-15000), summary.Total)
	})

	t.Run("Inapplicable Coupon Contributes Nothing", func(t *testing.T) {
		items := []LineItem{testItem("a", 50000, 1)}
		coupons := []coupon.Coupon{
			{Code: "BIG", Kind: coupon.KindPercentage, Value: 10, Active: true, MinPurchaseAmount: 100000},
		}

		summary := ComputeSummary(items, coupons, rules, testNow)

		assert.Zero(t, summary.CouponDiscount)
	})

	t.Run("Total Floored At Zero", func(t *testing.T) {
		items := []LineItem{testItem("a", 10000, 1)}
		coupons := []coupon.Coupon{
			{Code: "HUGE", Kind: coupon.KindFixedAmount, Value: 1000000, Active: true},
		}

		summary := ComputeSummary(items, coupons, rules, testNow)

		assert.Equal(t, int64(1000000), summary.CouponDiscount)
		assert.Zero(t, summary.Total)
	})

	t.Run("Totals Invariant", func(t *testing.T) {
		items := []LineItem{
			testItem("a", 33333, 3),
			testItem("b", 120000, 1),
		}
		coupons := []coupon.Coupon{
			{Code: "SAVE10", Kind: coupon.KindPercentage, Value: 10, Active: true},
		}

		summary := ComputeSummary(items, coupons, rules, testNow)

		expected := summary.Subtotal + summary.Tax + summary.Shipping - summary.Discount - summary.CouponDiscount
		if expected < 0 {
			expected = 0
		}
		assert.Equal(t, expected, summary.Total)
		assert.Equal(t, 4, summary.ItemCount)
		assert.Equal(t, 2, summary.UniqueItems)
	})
}
