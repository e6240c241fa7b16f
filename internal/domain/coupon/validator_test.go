package coupon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	t.Run("Inactive Coupon", func(t *testing.T) {
		c := Coupon{Code: "OFF", Kind: KindPercentage, Value: 10, Active: false}

		app := Apply(c, 100000, 15000, now)

		assert.False(t, app.Accepted)
		assert.Equal(t, ErrInactiveCoupon, app.Reason)
		assert.Zero(t, app.DiscountAmount)
	})

	t.Run("Before Validity Window", func(t *testing.T) {
		c := Coupon{Code: "SOON", Kind: KindPercentage, Value: 10, Active: true, ValidFrom: &future}

		app := Apply(c, 100000, 15000, now)

		assert.False(t, app.Accepted)
		assert.Equal(t, ErrInactiveCoupon, app.Reason)
	})

	t.Run("After Validity Window", func(t *testing.T) {
		c := Coupon{Code: "LATE", Kind: KindPercentage, Value: 10, Active: true, ValidUntil: &past}

		app := Apply(c, 100000, 15000, now)

		assert.False(t, app.Accepted)
		assert.Equal(t, ErrInactiveCoupon, app.Reason)
	})

	t.Run("Minimum Purchase Not Met", func(t *testing.T) {
		c := Coupon{Code: "BIG", Kind: KindPercentage, Value: 10, Active: true, MinPurchaseAmount: 200000}

		app := Apply(c, 100000, 15000, now)

		assert.False(t, app.Accepted)
		assert.Equal(t, ErrMinimumPurchaseNotMet, app.Reason)
	})

	t.Run("Percentage Discount", func(t *testing.T) {
		c := Coupon{Code: "SAVE10", Kind: KindPercentage, Value: 10, Active: true}

		app := Apply(c, 100000, 15000, now)

		assert.True(t, app.Accepted)
		assert.Equal(t, int64(10000), app.DiscountAmount)
	})

	t.Run("Percentage Discount Capped", func(t *testing.T) {
		c := Coupon{Code: "SAVE10", Kind: KindPercentage, Value: 10, Active: true, MaxDiscountAmount: 5000}

		app := Apply(c, 100000, 15000, now)

		assert.True(t, app.Accepted)
		assert.Equal(t, int64(5000), app.DiscountAmount)
	})

	t.Run("Fixed Amount Exceeding Subtotal", func(t *testing.T) {
		// Not clamped to the subtotal; the summary floors the total at 0
		c := Coupon{Code: "FLAT", Kind: KindFixedAmount, Value: 500000, Active: true}

		app := Apply(c, 100000, 15000, now)

		assert.True(t, app.Accepted)
		assert.Equal(t, int64(500000), app.DiscountAmount)
	})

	t.Run("Free Shipping", func(t *testing.T) {
		c := Coupon{Code: "FREESHIP", Kind: KindFreeShipping, Active: true}

		app := Apply(c, 100000, 15000, now)

		assert.True(t, app.Accepted)
		assert.Equal(t, int64(15000), app.DiscountAmount)
	})

	t.Run("Free Shipping When Already Free", func(t *testing.T) {
		c := Coupon{Code: "FREESHIP", Kind: KindFreeShipping, Active: true}

		app := Apply(c, 200000, 0, now)

		assert.True(t, app.Accepted)
		assert.Zero(t, app.DiscountAmount)
	})

	t.Run("Validity Window Boundaries Inclusive", func(t *testing.T) {
		c := Coupon{Code: "EDGE", Kind: KindPercentage, Value: 10, Active: true, ValidFrom: &now, ValidUntil: &now}

		app := Apply(c, 100000, 15000, now)

		assert.True(t, app.Accepted)
	})
}
