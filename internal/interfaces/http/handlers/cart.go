// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/coupon"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	carts *cart.Manager
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Manager) *CartHandler {
	return &CartHandler{carts: carts}
}

// UpdateQuantityRequest represents an update quantity request. Zero removes
// the item.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// ApplyCouponRequest represents a coupon application request
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store := h.store(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    store.State(),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddItem
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := h.store(c)
	store.AddToCart(req)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    store.State(),
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := h.store(c)
	store.UpdateQuantity(c.Param("id"), req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    store.State(),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	store := h.store(c)
	store.RemoveFromCart(c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    store.State(),
	})
}

// ClearCart handles DELETE /cart. With ?reset=true the session is abandoned
// and a fresh one issued.
func (h *CartHandler) ClearCart(c *gin.Context) {
	store := h.store(c)
	store.ClearCart(c.Query("reset") == "true")

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    store.State(),
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	store := h.store(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": store.GetTotalItems(),
		},
	})
}

// ApplyCoupon handles POST /cart/coupons
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := h.store(c)
	if err := store.ApplyCoupon(c.Request.Context(), req.Code); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, coupon.ErrUnknownCoupon) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
			"data":  store.State(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon applied successfully",
		"data":    store.State(),
	})
}

// RemoveCoupon handles DELETE /cart/coupons/:code
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	store := h.store(c)
	store.RemoveCoupon(c.Param("code"))

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon removed successfully",
		"data":    store.State(),
	})
}

// MergeGuestCart handles POST /cart/merge - called when a guest logs in
func (h *CartHandler) MergeGuestCart(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	sessionID := h.getOrCreateSessionID(c)
	userKey := cart.UserKey(userID)

	h.carts.MergeGuestCart(c.Request.Context(), cart.SessionKey(sessionID), userKey)

	c.JSON(http.StatusOK, gin.H{
		"message": "Guest cart merged successfully",
		"data":    h.carts.Store(c.Request.Context(), userKey).State(),
	})
}

// store resolves the cart store for the caller: authenticated users get a
// per-user cart, guests ride the session cookie.
func (h *CartHandler) store(c *gin.Context) *cart.Store {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return h.carts.Store(c.Request.Context(), cart.UserKey(userID))
	}
	return h.carts.Store(c.Request.Context(), cart.SessionKey(h.getOrCreateSessionID(c)))
}

// getOrCreateSessionID gets session ID from cookie or creates a new one
func (h *CartHandler) getOrCreateSessionID(c *gin.Context) string {
	// Try to get session ID from cookie
	sessionID, err := c.Cookie("session_id")
	if err != nil || sessionID == "" {
		// Generate new session ID
		sessionID = uuid.New().String()

		// Set session cookie (30 days, matching cart TTL)
		c.SetCookie("session_id", sessionID, 2592000, "/", "", false, true)
	}

	return sessionID
}
