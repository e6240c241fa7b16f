// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/coupon"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	models := []interface{}{
		// Coupon catalog
		&coupon.Coupon{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Coupon codes match case-insensitively
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code_lower ON coupons(LOWER(code)) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_coupons_active_window ON coupons(active, valid_from, valid_until)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// SeedInitialData seeds development data
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedCoupons(); err != nil {
		return fmt.Errorf("failed to seed coupons: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedCoupons creates sample coupons for development
func (m *Migration) seedCoupons() error {
	log.Println("🏷️ Seeding coupons...")

	var count int64
	if err := m.db.Model(&coupon.Coupon{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Coupons already seeded, skipping")
		return nil
	}

	nextYear := time.Now().UTC().AddDate(1, 0, 0)

	coupons := []coupon.Coupon{
		{
			Code:              "WELCOME10",
			Kind:              coupon.KindPercentage,
			Value:             10,
			Description:       "10% off your first order",
			MinPurchaseAmount: 50000,
			MaxDiscountAmount: 25000,
			ValidUntil:        &nextYear,
			Active:            true,
		},
		{
			Code:              "SAVE20",
			Kind:              coupon.KindPercentage,
			Value:             20,
			Description:       "20% off orders over 100k",
			MinPurchaseAmount: 100000,
			MaxDiscountAmount: 50000,
			ValidUntil:        &nextYear,
			Active:            true,
		},
		{
			Code:              "FLAT15K",
			Kind:              coupon.KindFixedAmount,
			Value:             15000,
			Description:       "15k off orders over 75k",
			MinPurchaseAmount: 75000,
			ValidUntil:        &nextYear,
			Active:            true,
		},
		{
			Code:        "FREESHIP",
			Kind:        coupon.KindFreeShipping,
			Value:       0,
			Description: "Free shipping on any order",
			ValidUntil:  &nextYear,
			Active:      true,
		},
	}

	for _, c := range coupons {
		if err := m.db.Create(&c).Error; err != nil {
			return fmt.Errorf("failed to seed coupon %s: %w", c.Code, err)
		}
		log.Printf("Seeded coupon: %s", c.Code)
	}

	return nil
}

// GetTableInfo logs row counts for all public tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		log.Printf("  %s: %d records", table, count)
	}

	return nil
}
