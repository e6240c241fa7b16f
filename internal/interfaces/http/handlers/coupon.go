// internal/interfaces/http/handlers/coupon.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/coupon"
)

// CouponHandler handles coupon catalog endpoints
type CouponHandler struct {
	coupons *coupon.Service
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(coupons *coupon.Service) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// GetCoupon handles GET /coupons/:code - public coupon preview
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	cpn, err := h.coupons.FindByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, coupon.ErrUnknownCoupon) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Coupon not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve coupon",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon retrieved successfully",
		"data":    cpn,
	})
}

// ListCoupons handles GET /admin/coupons
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.coupons.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list coupons",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupons retrieved successfully",
		"data":    coupons,
	})
}

// CreateCoupon handles POST /admin/coupons
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req coupon.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	validFrom, err := parseTimestamp(req.ValidFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid validFrom timestamp",
		})
		return
	}
	validUntil, err := parseTimestamp(req.ValidUntil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid validUntil timestamp",
		})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	cpn := &coupon.Coupon{
		Code:              req.Code,
		Kind:              req.Kind,
		Value:             req.Value,
		Description:       req.Description,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		ValidFrom:         validFrom,
		ValidUntil:        validUntil,
		Active:            active,
	}

	if err := h.coupons.Create(c.Request.Context(), cpn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Coupon created successfully",
		"data":    cpn,
	})
}

// DeactivateCoupon handles DELETE /admin/coupons/:code
func (h *CouponHandler) DeactivateCoupon(c *gin.Context) {
	err := h.coupons.Deactivate(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, coupon.ErrUnknownCoupon) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Coupon not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to deactivate coupon",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon deactivated successfully",
	})
}

func parseTimestamp(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
