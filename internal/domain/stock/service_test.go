package stock

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/order-inventory-backend/internal/config"
	"github.com/your-org/order-inventory-backend/internal/domain/product"
	"github.com/your-org/order-inventory-backend/internal/domain/user"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB connects to the database named by TEST_DATABASE_DSN and
// resets the tables this package touches. Skips when the variable is unset.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set; skipping database-backed test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&product.Product{},
		&StockRecord{},
		&StockMovement{},
	))
	require.NoError(t, db.Exec(
		"TRUNCATE TABLE stock_movements, stock_records, products, users RESTART IDENTITY CASCADE",
	).Error)

	return db
}

func seedVendor(t *testing.T, db *gorm.DB) *user.User {
	t.Helper()
	u := &user.User{
		Name:     "Vendor",
		Email:    "vendor@example.com",
		Password: "not-a-real-hash",
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProduct(t *testing.T, db *gorm.DB) *product.Product {
	t.Helper()
	p := &product.Product{
		Name:     "Widget",
		Model:    "WDG-1",
		Price:    2000,
		IsActive: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestRecordStockMovementInboundCreatesRecord(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	vendor := seedVendor(t, db)
	p := seedProduct(t, db)

	result, err := svc.RecordStockMovement(&MovementRequest{
		VendorID:  vendor.ID,
		ProductID: p.ID,
		Type:      MovementInbound,
		Date:      "2026-08-15",
		Amount:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, result.NewQuantity)
	require.NotNil(t, result.Movement)
	assert.Equal(t, 0, result.Movement.QuantityBefore)
	assert.Equal(t, 10, result.Movement.QuantityAfter)
	assert.Equal(t, vendor.ID, result.Movement.ActorID)

	quantity, err := svc.GetQuantity(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, quantity)
}

func TestRecordStockMovementOutbound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	vendor := seedVendor(t, db)
	p := seedProduct(t, db)

	_, err := svc.RecordStockMovement(&MovementRequest{
		VendorID: vendor.ID, ProductID: p.ID,
		Type: MovementInbound, Date: "2026-08-15", Amount: 10,
	})
	require.NoError(t, err)

	result, err := svc.RecordStockMovement(&MovementRequest{
		VendorID: vendor.ID, ProductID: p.ID,
		Type: MovementOutbound, Date: "2026-08-16", Amount: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, result.NewQuantity)
	assert.Equal(t, 10, result.Movement.QuantityBefore)
	assert.Equal(t, 6, result.Movement.QuantityAfter)
}

func TestRecordStockMovementInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	vendor := seedVendor(t, db)
	p := seedProduct(t, db)

	_, err := svc.RecordStockMovement(&MovementRequest{
		VendorID: vendor.ID, ProductID: p.ID,
		Type: MovementOutbound, Date: "2026-08-15", Amount: 1,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing persisted, not even the lazily created record's movement
	var movementCount int64
	require.NoError(t, db.Model(&StockMovement{}).Count(&movementCount).Error)
	assert.Zero(t, movementCount)
}

func TestRecordStockMovementValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	vendor := seedVendor(t, db)
	p := seedProduct(t, db)

	_, err := svc.RecordStockMovement(&MovementRequest{
		VendorID: vendor.ID, ProductID: p.ID,
		Type: MovementInbound, Date: "15/08/2026", Amount: 5,
	})
	require.Error(t, err)

	_, err = svc.RecordStockMovement(&MovementRequest{
		VendorID: vendor.ID, ProductID: p.ID,
		Type: MovementType("ADJUST"), Date: "2026-08-15", Amount: 5,
	})
	require.ErrorIs(t, err, ErrInvalidMovementType)

	_, err = svc.RecordStockMovement(&MovementRequest{
		VendorID: vendor.ID, ProductID: p.ID,
		Type: MovementInbound, Date: "2026-08-15", Amount: -2,
	})
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRecordStockMovementUnknownVendor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	p := seedProduct(t, db)

	_, err := svc.RecordStockMovement(&MovementRequest{
		VendorID: 9999, ProductID: p.ID,
		Type: MovementInbound, Date: "2026-08-15", Amount: 5,
	})
	require.ErrorIs(t, err, ErrVendorNotFound)
}

func TestRecordStockMovementUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	vendor := seedVendor(t, db)

	_, err := svc.RecordStockMovement(&MovementRequest{
		VendorID: vendor.ID, ProductID: 9999,
		Type: MovementInbound, Date: "2026-08-15", Amount: 5,
	})
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestGetQuantityUnknownProductIsZero(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	quantity, err := svc.GetQuantity(12345)
	require.NoError(t, err)
	assert.Zero(t, quantity)
}

func TestListMovementsFilteredByProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	vendor := seedVendor(t, db)
	p := seedProduct(t, db)
	other := &product.Product{Name: "Gadget", Model: "GDG-1", Price: 1000, IsActive: true}
	require.NoError(t, db.Create(other).Error)

	for _, req := range []*MovementRequest{
		{VendorID: vendor.ID, ProductID: p.ID, Type: MovementInbound, Date: "2026-08-15", Amount: 5},
		{VendorID: vendor.ID, ProductID: other.ID, Type: MovementInbound, Date: "2026-08-15", Amount: 3},
		{VendorID: vendor.ID, ProductID: p.ID, Type: MovementOutbound, Date: "2026-08-16", Amount: 2},
	} {
		_, err := svc.RecordStockMovement(req)
		require.NoError(t, err)
	}

	all, err := svc.ListMovements(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.ListMovements(&p.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	// Creation order so the trail replays front to back
	assert.Equal(t, MovementInbound, filtered[0].Type)
	assert.Equal(t, MovementOutbound, filtered[1].Type)
	assert.Equal(t, 5, filtered[1].QuantityBefore)
	assert.Equal(t, 3, filtered[1].QuantityAfter)
}
