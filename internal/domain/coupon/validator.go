// internal/domain/coupon/validator.go
package coupon

import (
	"errors"
	"time"
)

// Rejection reasons surfaced to the caller when a coupon cannot be applied.
var (
	ErrInactiveCoupon        = errors.New("coupon is inactive or expired")
	ErrMinimumPurchaseNotMet = errors.New("minimum purchase amount not met")
	ErrUnknownCoupon         = errors.New("unknown coupon code")
)

// Application is the result of validating a coupon against a cart subtotal.
type Application struct {
	Accepted       bool  `json:"accepted"`
	DiscountAmount int64 `json:"discountAmount"`
	Reason         error `json:"-"`
}

// Apply validates a coupon and computes its discount contribution.
//
// subtotal is the current cart subtotal and shippingFee the shipping charge
// that would apply to that subtotal (0 when the order already ships free);
// a free-shipping coupon is worth exactly that charge. Fixed-amount
// discounts are deliberately not clamped to the subtotal — the summary
// calculation floors the final total at zero instead.
func Apply(c Coupon, subtotal, shippingFee int64, now time.Time) Application {
	if !c.Active {
		return Application{Reason: ErrInactiveCoupon}
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return Application{Reason: ErrInactiveCoupon}
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return Application{Reason: ErrInactiveCoupon}
	}
	if c.MinPurchaseAmount > 0 && subtotal < c.MinPurchaseAmount {
		return Application{Reason: ErrMinimumPurchaseNotMet}
	}

	var discount int64
	switch c.Kind {
	case KindPercentage:
		discount = int64(float64(subtotal) * float64(c.Value) / 100)
		if c.MaxDiscountAmount > 0 && discount > c.MaxDiscountAmount {
			discount = c.MaxDiscountAmount
		}
	case KindFixedAmount:
		discount = c.Value
	case KindFreeShipping:
		discount = shippingFee
	}

	return Application{Accepted: true, DiscountAmount: discount}
}
