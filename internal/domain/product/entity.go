// internal/domain/product/entity.go
package product

// The catalog lives in a separate service. The cart only ever sees the
// snapshot the storefront sends along with an add-to-cart request, and that
// snapshot is frozen into the line item at add time.

// Product is the catalog snapshot carried into the cart.
// Price is in minor currency units.
type Product struct {
	ID        uint   `json:"id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Price     int64  `json:"price" binding:"min=0"`
}

// Variant is a selected product variant. PriceDelta adjusts the base
// product price and may be negative.
type Variant struct {
	ID         uint   `json:"id" binding:"required"`
	Name       string `json:"name"`
	PriceDelta int64  `json:"priceDelta"`
}
