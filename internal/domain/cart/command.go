// internal/domain/cart/command.go
package cart

import (
	"github.com/your-org/storefront-backend/internal/domain/coupon"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

// Command is the closed set of cart mutations understood by the Reducer.
// Every command is valid in every state; a command that finds nothing to
// do returns the state unchanged rather than failing.
type Command interface {
	isCommand()
}

// AddItem puts a product (with an optional selected variant) into the cart,
// merging into an existing line when the same product+variant is already
// present.
type AddItem struct {
	Product  product.Product  `json:"product" binding:"required"`
	Quantity int              `json:"quantity" binding:"required,min=1"`
	Variant  *product.Variant `json:"variant,omitempty"`
	Notes    string           `json:"notes,omitempty"`
}

// RemoveItem drops a line item by id. Absent ids are a no-op.
type RemoveItem struct {
	ItemID string
}

// UpdateQuantity sets a line item's quantity. Zero or negative removes the
// item; values above the per-item cap are clamped.
type UpdateQuantity struct {
	ItemID   string
	Quantity int
}

// ClearCart empties items and coupons while preserving the session.
type ClearCart struct{}

// ApplyCoupon validates a coupon against the current subtotal and, when
// accepted, stacks it onto the applied set.
type ApplyCoupon struct {
	Coupon coupon.Coupon
}

// RemoveCoupon drops an applied coupon by code, case-insensitively.
type RemoveCoupon struct {
	Code string
}

func (AddItem) isCommand()        {}
func (RemoveItem) isCommand()     {}
func (UpdateQuantity) isCommand() {}
func (ClearCart) isCommand()      {}
func (ApplyCoupon) isCommand()    {}
func (RemoveCoupon) isCommand()   {}
