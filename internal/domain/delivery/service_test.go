package delivery

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/order-inventory-backend/internal/config"
	"github.com/your-org/order-inventory-backend/internal/domain/order"
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
		&order.Order{},
		&Delivery{},
	))
	require.NoError(t, db.Exec(
		"TRUNCATE TABLE deliveries, orders, users RESTART IDENTITY CASCADE",
	).Error)

	return db
}

func seedOrder(t *testing.T, db *gorm.DB) *order.Order {
	t.Helper()
	u := &user.User{
		Name:     "Buyer",
		Email:    "buyer@example.com",
		Password: "not-a-real-hash",
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)

	o := &order.Order{UserID: u.ID}
	require.NoError(t, db.Create(o).Error)
	return o
}

func validRequest(orderID uint) *CreateDeliveryRequest {
	return &CreateDeliveryRequest{
		OrderID:    orderID,
		PostalCode: "13040-000",
		Street:     "Rua das Flores",
		Number:     "120",
		District:   "Centro",
		City:       "Campinas",
		State:      "SP",
	}
}

func TestCreateDeliveryAndGetByOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	o := seedOrder(t, db)

	created, err := svc.CreateDelivery(validRequest(o.ID))
	require.NoError(t, err)
	assert.Equal(t, o.ID, created.OrderID)
	assert.Equal(t, "Campinas", created.City)

	found, err := svc.GetDeliveryByOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestCreateDeliveryUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	_, err := svc.CreateDelivery(validRequest(9999))
	require.ErrorIs(t, err, order.ErrOrderNotFound)
}

// One delivery per order; a second create surfaces the mapped error, not a
// raw unique-index violation.
func TestCreateDeliveryDuplicateOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	o := seedOrder(t, db)

	_, err := svc.CreateDelivery(validRequest(o.ID))
	require.NoError(t, err)

	_, err = svc.CreateDelivery(validRequest(o.ID))
	require.ErrorIs(t, err, ErrAlreadyExists)

	var count int64
	require.NoError(t, db.Model(&Delivery{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetDeliveryByOrderNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	_, err := svc.GetDeliveryByOrder(9999)
	require.ErrorIs(t, err, ErrNotFound)
}
