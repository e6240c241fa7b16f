// internal/domain/cart/entity.go
package cart

import (
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/coupon"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

// JSON field names throughout this file match the storefront web client's
// persisted cart blobs; the backend must keep reading carts the client
// saved before this service existed.

// LineItem is one product (plus optional variant) and its quantity in a cart.
// UnitPrice is frozen at add time and never re-read from the catalog.
type LineItem struct {
	ID              string           `json:"id"`
	ProductID       uint             `json:"productId"`
	Product         product.Product  `json:"product"`
	Quantity        int              `json:"quantity"`
	SelectedVariant *product.Variant `json:"selectedVariant,omitempty"`
	UnitPrice       int64            `json:"unitPrice"`
	TotalPrice      int64            `json:"totalPrice"`
	AddedAt         time.Time        `json:"addedAt"`
	Notes           string           `json:"notes,omitempty"`
}

// CartSummary is the derived monetary breakdown for the current cart
// contents. It is always recomputed in full from (items, appliedCoupons),
// never patched incrementally. Monetary values are minor currency units.
type CartSummary struct {
	Subtotal       int64 `json:"subtotal"`
	Shipping       int64 `json:"shipping"`
	Tax            int64 `json:"tax"`
	Discount       int64 `json:"discount"`
	CouponDiscount int64 `json:"couponDiscount"`
	Total          int64 `json:"total"`
	Savings        int64 `json:"savings"`
	ItemCount      int   `json:"itemCount"`
	UniqueItems    int   `json:"uniqueItems"`
}

// CartState is the aggregate root. Item order is insertion order; it carries
// no meaning but must stay stable for rendering.
type CartState struct {
	Items          []LineItem      `json:"items"`
	Summary        CartSummary     `json:"summary"`
	AppliedCoupons []coupon.Coupon `json:"appliedCoupons"`
	LastUpdated    time.Time       `json:"lastUpdated"`
	SessionID      string          `json:"sessionId"`
}

// Rules holds the cart engine constants. Monetary values are minor
// currency units.
type Rules struct {
	MaxItems              int
	MaxQuantityPerItem    int
	TaxRate               float64
	FreeShippingThreshold int64
	ShippingFee           int64
}

// DefaultRules returns the rules the storefront ships with.
func DefaultRules() Rules {
	return Rules{
		MaxItems:              50,
		MaxQuantityPerItem:    99,
		TaxRate:               0.19,
		FreeShippingThreshold: 150000,
		ShippingFee:           15000,
	}
}

// RulesFromConfig maps the loaded configuration onto engine rules.
func RulesFromConfig(cfg config.CartConfig) Rules {
	return Rules{
		MaxItems:              cfg.MaxItems,
		MaxQuantityPerItem:    cfg.MaxQuantityPerItem,
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		ShippingFee:           cfg.ShippingFee,
	}
}

// NewCartState creates an empty cart bound to a session.
func NewCartState(sessionID string, now time.Time) CartState {
	return CartState{
		Items:          []LineItem{},
		AppliedCoupons: []coupon.Coupon{},
		LastUpdated:    now,
		SessionID:      sessionID,
	}
}

// LineItemID derives the stable identity of a line item from its product
// and selected variant. The same (product, variant) pair always yields the
// same id, so repeated adds merge into one line instead of duplicating it.
func LineItemID(productID uint, variant *product.Variant) string {
	var variantID uint
	if variant != nil {
		variantID = variant.ID
	}
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%d|%d", productID, variantID)))
	return hex.EncodeToString(sum[:8])
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func cloneCoupons(coupons []coupon.Coupon) []coupon.Coupon {
	out := make([]coupon.Coupon, len(coupons))
	copy(out, coupons)
	return out
}
