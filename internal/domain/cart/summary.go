// internal/domain/cart/summary.go
package cart

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/coupon"
)

// ComputeSummary derives the full monetary breakdown from the cart's line
// items and applied coupons. Pure; no I/O. Coupons are re-evaluated in full
// on every call, so a coupon whose minimum purchase is no longer met simply
// contributes nothing until the cart qualifies again.
func ComputeSummary(items []LineItem, coupons []coupon.Coupon, rules Rules, now time.Time) CartSummary {
	if len(items) == 0 {
		return CartSummary{}
	}

	var summary CartSummary
	summary.UniqueItems = len(items)
	for _, item := range items {
		summary.ItemCount += item.Quantity
		summary.Subtotal += item.TotalPrice
	}

	summary.Shipping = shippingFor(summary.Subtotal, rules)
	// Shipping is not taxed.
	summary.Tax = int64(float64(summary.Subtotal) * rules.TaxRate)

	// Discount is reserved for non-coupon promotions.
	summary.Discount = 0
	for _, c := range coupons {
		app := coupon.Apply(c, summary.Subtotal, summary.Shipping, now)
		if app.Accepted {
			summary.CouponDiscount += app.DiscountAmount
		}
	}

	summary.Total = summary.Subtotal + summary.Tax + summary.Shipping - summary.Discount - summary.CouponDiscount
	if summary.Total < 0 {
		summary.Total = 0
	}
	summary.Savings = summary.Discount + summary.CouponDiscount

	return summary
}

// shippingFor returns the flat shipping fee, or 0 once the subtotal reaches
// the free-shipping threshold.
func shippingFor(subtotal int64, rules Rules) int64 {
	if subtotal >= rules.FreeShippingThreshold {
		return 0
	}
	return rules.ShippingFee
}
