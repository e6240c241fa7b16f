// internal/domain/coupon/service.go
package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Service handles coupon catalog lookups and management
type Service struct {
	db *gorm.DB
}

// NewService creates a new coupon service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateCouponRequest represents a coupon creation request
type CreateCouponRequest struct {
	Code              string `json:"code" binding:"required,max=50"`
	Kind              Kind   `json:"kind" binding:"required,oneof=percentage fixed-amount free-shipping"`
	Value             int64  `json:"value" binding:"required,min=0"`
	Description       string `json:"description"`
	MinPurchaseAmount int64  `json:"minPurchaseAmount" binding:"min=0"`
	MaxDiscountAmount int64  `json:"maxDiscountAmount" binding:"min=0"`
	ValidFrom         string `json:"validFrom,omitempty"`
	ValidUntil        string `json:"validUntil,omitempty"`
	Active            *bool  `json:"active"`
}

// FindByCode looks up a coupon by its code, case-insensitively.
// Returns ErrUnknownCoupon when no such code exists.
func (s *Service) FindByCode(ctx context.Context, code string) (*Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrUnknownCoupon
	}

	var c Coupon
	err := s.db.WithContext(ctx).
		Where("LOWER(code) = LOWER(?)", code).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownCoupon
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}

	return &c, nil
}

// Create stores a new coupon. Codes are stored as given but matched
// case-insensitively, so "save10" and "SAVE10" collide.
func (s *Service) Create(ctx context.Context, c *Coupon) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Coupon{}).
		Where("LOWER(code) = LOWER(?)", c.Code).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check coupon code: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("coupon code %q already exists", c.Code)
	}

	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

// Deactivate flips a coupon's active flag off without deleting it.
func (s *Service) Deactivate(ctx context.Context, code string) error {
	result := s.db.WithContext(ctx).Model(&Coupon{}).
		Where("LOWER(code) = LOWER(?)", code).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUnknownCoupon
	}

	return nil
}

// List returns all coupons, active first, newest first within each group.
func (s *Service) List(ctx context.Context) ([]Coupon, error) {
	var coupons []Coupon
	err := s.db.WithContext(ctx).
		Order("active DESC, created_at DESC").
		Find(&coupons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}

	return coupons, nil
}
