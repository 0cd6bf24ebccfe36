// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/order-inventory-backend/internal/domain/delivery"
	"github.com/your-org/order-inventory-backend/internal/domain/order"
	"github.com/your-org/order-inventory-backend/internal/domain/product"
	"github.com/your-org/order-inventory-backend/internal/domain/stock"
	"github.com/your-org/order-inventory-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
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

	// Models in dependency order
	models := []interface{}{
		&user.User{},
		&product.Product{},
		&stock.StockRecord{},
		&stock.StockMovement{},
		&order.Order{},
		&order.OrderItem{},
		&delivery.Delivery{},
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
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_model ON products(model)",

		// Stock indexes: the movement log is replayed per product in
		// creation order
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created ON stock_movements(product_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_date ON stock_movements(date)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// SeedInitialData seeds a development admin user when none exists
func (m *Migration) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	var count int64
	if err := m.db.Model(&user.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	admin := user.User{
		Name:     "Administrator",
		Email:    "admin@example.com",
		Password: string(hashed),
		IsActive: true,
		IsAdmin:  true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// GetTableInfo logs row counts for the main tables, useful in development
func (m *Migration) GetTableInfo() {
	tables := []string{"users", "products", "stock_records", "stock_movements", "orders", "order_items", "deliveries"}
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("Table %s: error counting rows: %v", table, err)
			continue
		}
		log.Printf("Table %s: %d rows", table, count)
	}
}
