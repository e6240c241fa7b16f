// internal/domain/coupon/entity.go
package coupon

import (
	"time"

	"gorm.io/gorm"
)

// Kind enumerates the supported discount strategies.
type Kind string

const (
	KindPercentage   Kind = "percentage"
	KindFixedAmount  Kind = "fixed-amount"
	KindFreeShipping Kind = "free-shipping"
)

// Coupon is a named, time-bounded, conditionally-applicable discount rule.
// Codes match case-insensitively. Monetary fields are minor currency units;
// for percentage coupons Value is the percentage (10 = 10%).
//
// JSON field names match the storefront web client's persisted cart blobs,
// which embed applied coupons verbatim.
type Coupon struct {
	ID                uint           `gorm:"primaryKey" json:"-"`
	Code              string         `gorm:"size:50;not null;uniqueIndex" json:"code"`
	Kind              Kind           `gorm:"size:20;not null" json:"kind"`
	Value             int64          `gorm:"not null" json:"value"`
	Description       string         `gorm:"size:255" json:"description"`
	MinPurchaseAmount int64          `gorm:"default:0" json:"minPurchaseAmount,omitempty"`
	MaxDiscountAmount int64          `gorm:"default:0" json:"maxDiscountAmount,omitempty"`
	ValidFrom         *time.Time     `json:"validFrom,omitempty"`
	ValidUntil        *time.Time     `json:"validUntil,omitempty"`
	Active            bool           `gorm:"default:true" json:"active"`
	CreatedAt         time.Time      `json:"-"`
	UpdatedAt         time.Time      `json:"-"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Coupon) TableName() string {
	return "coupons"
}
