package order

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/order-inventory-backend/internal/config"
	"github.com/your-org/order-inventory-backend/internal/domain/product"
	"github.com/your-org/order-inventory-backend/internal/domain/stock"
	"github.com/your-org/order-inventory-backend/internal/domain/user"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB connects to the database named by TEST_DATABASE_DSN and
// resets all tables. Tests that need real transactions and row locks skip
// when the variable is unset.
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
		&stock.StockRecord{},
		&stock.StockMovement{},
		&Order{},
		&OrderItem{},
	))
	require.NoError(t, db.Exec(
		"TRUNCATE TABLE order_items, orders, stock_movements, stock_records, products, users RESTART IDENTITY CASCADE",
	).Error)

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Order: config.OrderConfig{DefaultFreight: 0},
	}
}

func seedUser(t *testing.T, db *gorm.DB) *user.User {
	t.Helper()
	u := &user.User{
		Name:     "Test Buyer",
		Email:    "buyer@example.com",
		Password: "not-a-real-hash",
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, quantity int) *product.Product {
	t.Helper()
	p := &product.Product{
		Name:     name,
		Model:    name + "-MDL",
		Price:    price,
		IsActive: true,
	}
	require.NoError(t, db.Create(p).Error)
	if quantity > 0 {
		require.NoError(t, db.Create(&stock.StockRecord{
			ProductID:       p.ID,
			QuantityCurrent: quantity,
		}).Error)
	}
	return p
}

func currentQuantity(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var record stock.StockRecord
	err := db.Where("product_id = ?", productID).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return record.QuantityCurrent
}

func TestCreateOrderDebitsStockAndComputesTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	buyer := seedUser(t, db)
	widget := seedProduct(t, db, "Widget", 2000, 10)

	created, err := svc.CreateOrder(&CreateOrderRequest{
		UserID: buyer.ID,
		Items:  []LineRequest{{ProductID: widget.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6000), created.Subtotal)
	assert.Equal(t, int64(6000), created.Total)
	require.Len(t, created.Items, 1)
	assert.Equal(t, int64(2000), created.Items[0].UnitPrice)
	assert.Equal(t, int64(6000), created.Items[0].LineTotal)

	assert.Equal(t, 7, currentQuantity(t, db, widget.ID))

	var movements []stock.StockMovement
	require.NoError(t, db.Where("product_id = ?", widget.ID).Order("id").Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, stock.MovementOutbound, movements[0].Type)
	assert.Equal(t, 3, movements[0].Amount)
	assert.Equal(t, 10, movements[0].QuantityBefore)
	assert.Equal(t, 7, movements[0].QuantityAfter)
	assert.Equal(t, buyer.ID, movements[0].ActorID)
}

func TestCreateOrderMultipleLines(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	buyer := seedUser(t, db)
	widget := seedProduct(t, db, "Widget", 2000, 10)
	gadget := seedProduct(t, db, "Gadget", 1500, 4)

	created, err := svc.CreateOrder(&CreateOrderRequest{
		UserID: buyer.ID,
		Items: []LineRequest{
			{ProductID: widget.ID, Quantity: 2},
			{ProductID: gadget.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2*2000+4*1500), created.Subtotal)
	require.Len(t, created.Items, 2)
	// Lines come back in insertion order
	assert.Equal(t, widget.ID, created.Items[0].ProductID)
	assert.Equal(t, gadget.ID, created.Items[1].ProductID)

	assert.Equal(t, 8, currentQuantity(t, db, widget.ID))
	assert.Equal(t, 0, currentQuantity(t, db, gadget.ID))
}

func TestCreateOrderEmptyItems(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	buyer := seedUser(t, db)

	_, err := svc.CreateOrder(&CreateOrderRequest{UserID: buyer.ID})
	require.ErrorIs(t, err, ErrEmptyOrder)

	var count int64
	require.NoError(t, db.Model(&Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrderUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	widget := seedProduct(t, db, "Widget", 2000, 10)

	_, err := svc.CreateOrder(&CreateOrderRequest{
		UserID: 9999,
		Items:  []LineRequest{{ProductID: widget.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, user.ErrNotFound)

	assert.Equal(t, 10, currentQuantity(t, db, widget.ID))
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	buyer := seedUser(t, db)

	_, err := svc.CreateOrder(&CreateOrderRequest{
		UserID: buyer.ID,
		Items:  []LineRequest{{ProductID: 9999, Quantity: 1}},
	})
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestCreateOrderInsufficientStockPersistsNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	buyer := seedUser(t, db)
	widget := seedProduct(t, db, "Widget", 2000, 2)

	_, err := svc.CreateOrder(&CreateOrderRequest{
		UserID: buyer.ID,
		Items:  []LineRequest{{ProductID: widget.ID, Quantity: 3}},
	})
	require.ErrorIs(t, err, stock.ErrInsufficientStock)

	assert.Equal(t, 2, currentQuantity(t, db, widget.ID))

	var orderCount, itemCount, movementCount int64
	require.NoError(t, db.Model(&Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&OrderItem{}).Count(&itemCount).Error)
	require.NoError(t, db.Model(&stock.StockMovement{}).Count(&movementCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
	assert.Zero(t, movementCount)
}

// A failure on the second line must roll back the first line's stock debit
// and movement row along with everything else.
func TestCreateOrderRollsBackEarlierLines(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	buyer := seedUser(t, db)
	widget := seedProduct(t, db, "Widget", 2000, 10)
	gadget := seedProduct(t, db, "Gadget", 1500, 1)

	_, err := svc.CreateOrder(&CreateOrderRequest{
		UserID: buyer.ID,
		Items: []LineRequest{
			{ProductID: widget.ID, Quantity: 2},
			{ProductID: gadget.ID, Quantity: 5},
		},
	})
	require.ErrorIs(t, err, stock.ErrInsufficientStock)

	assert.Equal(t, 10, currentQuantity(t, db, widget.ID))
	assert.Equal(t, 1, currentQuantity(t, db, gadget.ID))

	var movementCount int64
	require.NoError(t, db.Model(&stock.StockMovement{}).Count(&movementCount).Error)
	assert.Zero(t, movementCount)
}

func TestAddItemDebitsStockAndUpdatesTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	buyer := seedUser(t, db)
	widget := seedProduct(t, db, "Widget", 2000, 10)
	gadget := seedProduct(t, db, "Gadget", 1500, 5)

	created, err := svc.CreateOrder(&CreateOrderRequest{
		UserID: buyer.ID,
		Items:  []LineRequest{{ProductID: widget.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	item, updated, err := svc.AddItem(&AddItemRequest{
		OrderID:   created.ID,
		ProductID: gadget.ID,
		Quantity:  2,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3000), item.LineTotal)
	assert.Equal(t, int64(2000+3000), updated.Subtotal)
	assert.Equal(t, updated.Subtotal+updated.Freight, updated.Total)
	assert.Equal(t, 3, currentQuantity(t, db, gadget.ID))
}

func TestAddItemUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	widget := seedProduct(t, db, "Widget", 2000, 10)

	_, _, err := svc.AddItem(&AddItemRequest{OrderID: 9999, ProductID: widget.ID, Quantity: 1})
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRemoveItemRestoresStockAndTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	buyer := seedUser(t, db)
	widget := seedProduct(t, db, "Widget", 2000, 10)

	created, err := svc.CreateOrder(&CreateOrderRequest{
		UserID: buyer.ID,
		Items:  []LineRequest{{ProductID: widget.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Len(t, created.Items, 1)
	assert.Equal(t, 7, currentQuantity(t, db, widget.ID))

	updated, err := svc.RemoveItem(created.Items[0].ID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), updated.Subtotal)
	assert.Equal(t, updated.Freight, updated.Total)
	assert.Empty(t, updated.Items)
	assert.Equal(t, 10, currentQuantity(t, db, widget.ID))

	// Both the debit and the compensating credit stay in the audit trail
	var movements []stock.StockMovement
	require.NoError(t, db.Where("product_id = ?", widget.ID).Order("id").Find(&movements).Error)
	require.Len(t, movements, 2)
	assert.Equal(t, stock.MovementOutbound, movements[0].Type)
	assert.Equal(t, stock.MovementInbound, movements[1].Type)
	assert.Equal(t, 7, movements[1].QuantityBefore)
	assert.Equal(t, 10, movements[1].QuantityAfter)
}

func TestRemoveItemUnknownItem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.RemoveItem(9999)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateOrderFreightKeepsTotalsConsistent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	buyer := seedUser(t, db)
	widget := seedProduct(t, db, "Widget", 2000, 10)

	created, err := svc.CreateOrder(&CreateOrderRequest{
		UserID: buyer.ID,
		Items:  []LineRequest{{ProductID: widget.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	freight := int64(750)
	updated, err := svc.UpdateOrder(created.ID, &UpdateOrderRequest{Freight: &freight})
	require.NoError(t, err)

	assert.Equal(t, int64(4000), updated.Subtotal)
	assert.Equal(t, int64(750), updated.Freight)
	assert.Equal(t, int64(4750), updated.Total)
}

func TestDeleteOrderKeepsStockAndMovements(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	buyer := seedUser(t, db)
	widget := seedProduct(t, db, "Widget", 2000, 10)

	created, err := svc.CreateOrder(&CreateOrderRequest{
		UserID: buyer.ID,
		Items:  []LineRequest{{ProductID: widget.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(created.ID))

	_, err = svc.GetOrder(created.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)

	// Deleting the order releases nothing back to stock
	assert.Equal(t, 7, currentQuantity(t, db, widget.ID))

	var movementCount int64
	require.NoError(t, db.Model(&stock.StockMovement{}).Count(&movementCount).Error)
	assert.Equal(t, int64(1), movementCount)
}

// Two orders race for 5 units, each wanting 3. The row lock on the stock
// record serializes them, so exactly one commits.
func TestConcurrentOrdersOneWinner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	buyer := seedUser(t, db)
	widget := seedProduct(t, db, "Widget", 2000, 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(&CreateOrderRequest{
				UserID: buyer.ID,
				Items:  []LineRequest{{ProductID: widget.ID, Quantity: 3}},
			})
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, stock.ErrInsufficientStock)
			failed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)

	assert.Equal(t, 2, currentQuantity(t, db, widget.ID))

	var orderCount int64
	require.NoError(t, db.Model(&Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(1), orderCount)
}

// Two concurrent adds of different products to the same order never collide
// on a stock row, so only the order-row lock serializes them. Both lines and
// both line totals must survive in the committed subtotal.
func TestConcurrentAddItemsSameOrderKeepTotalsConsistent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	buyer := seedUser(t, db)
	widget := seedProduct(t, db, "Widget", 2000, 10)
	gadget := seedProduct(t, db, "Gadget", 1500, 10)
	gizmo := seedProduct(t, db, "Gizmo", 900, 10)

	created, err := svc.CreateOrder(&CreateOrderRequest{
		UserID: buyer.ID,
		Items:  []LineRequest{{ProductID: widget.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, productID := range []uint{gadget.ID, gizmo.ID} {
		wg.Add(1)
		go func(i int, productID uint) {
			defer wg.Done()
			_, _, errs[i] = svc.AddItem(&AddItemRequest{
				OrderID:   created.ID,
				ProductID: productID,
				Quantity:  2,
			})
		}(i, productID)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	final, err := svc.GetOrder(created.ID)
	require.NoError(t, err)
	require.Len(t, final.Items, 3)

	var wantSubtotal int64
	for _, item := range final.Items {
		wantSubtotal += item.LineTotal
	}
	assert.Equal(t, int64(2000+2*1500+2*900), wantSubtotal)
	assert.Equal(t, wantSubtotal, final.Subtotal)
	assert.Equal(t, wantSubtotal+final.Freight, final.Total)
}
