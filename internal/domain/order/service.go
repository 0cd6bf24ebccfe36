// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/order-inventory-backend/internal/config"
	"github.com/your-org/order-inventory-backend/internal/domain/product"
	"github.com/your-org/order-inventory-backend/internal/domain/stock"
	"github.com/your-org/order-inventory-backend/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Order errors. Callers match with errors.Is.
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrItemNotFound  = errors.New("order item not found")
	ErrEmptyOrder    = errors.New("order must contain at least one item")
)

// Service coordinates order operations. Every multi-step operation runs
// inside a single database transaction: the stock checks, ledger writes,
// item rows and order totals either all commit or all roll back.
type Service struct {
	db     *gorm.DB
	config *config.Config
	ledger *stock.Ledger
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
		ledger: stock.NewLedger(),
	}
}

// LineRequest represents one requested order line
type LineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	UserID uint          `json:"user_id" binding:"required"`
	Items  []LineRequest `json:"items" binding:"required"`
}

// AddItemRequest represents data for adding a line to an existing order
type AddItemRequest struct {
	OrderID   uint `json:"order_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// UpdateOrderRequest represents mutable order header fields
type UpdateOrderRequest struct {
	Freight *int64 `json:"freight"`
}

// CreateOrder creates an order with its line items as one atomic unit.
// Lines are processed in request order, so a later line observes the stock
// debits of earlier lines in the same request; the first failure aborts the
// whole operation and no stock change or row survives.
func (s *Service) CreateOrder(req *CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var orderID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := tx.First(&u, req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", user.ErrNotFound, req.UserID)
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		// Order shell with zero totals; recomputed once all lines are in.
		order := Order{
			UserID:  req.UserID,
			Freight: s.config.Order.DefaultFreight,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]OrderItem, 0, len(req.Items))
		movementDate := time.Now().UTC()

		for _, line := range req.Items {
			var p product.Product
			if err := tx.First(&p, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: id %d", product.ErrNotFound, line.ProductID)
				}
				return fmt.Errorf("failed to load product: %w", err)
			}

			item, err := NewOrderItem(&p, line.Quantity)
			if err != nil {
				return err
			}
			item.OrderID = order.ID

			// Reserve stock. The ledger locks the record row, so the
			// sufficiency check and the decrement are isolated from
			// concurrent orders for the same product.
			if _, _, err := s.ledger.ApplyMovement(tx, stock.Movement{
				ProductID: p.ID,
				ActorID:   req.UserID,
				Type:      stock.MovementOutbound,
				Amount:    line.Quantity,
				Date:      movementDate,
			}); err != nil {
				return err
			}

			if err := tx.Create(item).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			items = append(items, *item)
		}

		order.RecomputeTotals(items)
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"subtotal": order.Subtotal,
			"freight":  order.Freight,
			"total":    order.Total,
		}).Error; err != nil {
			return fmt.Errorf("failed to persist order totals: %w", err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(orderID)
}

// AddItem adds one line to an existing order, debiting stock and
// recomputing totals over the full item set in the same transaction.
func (s *Service) AddItem(req *AddItemRequest) (*OrderItem, *Order, error) {
	var created OrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, req.OrderID)
		if err != nil {
			return err
		}

		var p product.Product
		if err := tx.First(&p, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", product.ErrNotFound, req.ProductID)
			}
			return fmt.Errorf("failed to load product: %w", err)
		}

		item, err := NewOrderItem(&p, req.Quantity)
		if err != nil {
			return err
		}
		item.OrderID = order.ID

		if _, _, err := s.ledger.ApplyMovement(tx, stock.Movement{
			ProductID: p.ID,
			ActorID:   order.UserID,
			Type:      stock.MovementOutbound,
			Amount:    req.Quantity,
			Date:      time.Now().UTC(),
		}); err != nil {
			return err
		}

		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}

		if err := s.recomputeAndPersistTotals(tx, order); err != nil {
			return err
		}

		created = *item
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	order, err := s.GetOrder(created.OrderID)
	if err != nil {
		return nil, nil, err
	}
	return &created, order, nil
}

// RemoveItem deletes an order line and releases exactly its stock
// reservation back to the ledger as a compensating inbound movement.
func (s *Service) RemoveItem(itemID uint) (*Order, error) {
	var orderID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item OrderItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrItemNotFound, itemID)
			}
			return fmt.Errorf("failed to load order item: %w", err)
		}

		order, err := lockOrder(tx, item.OrderID)
		if err != nil {
			return err
		}

		// Compensating credit; inbound never fails on sufficiency.
		if _, _, err := s.ledger.ApplyMovement(tx, stock.Movement{
			ProductID: item.ProductID,
			ActorID:   order.UserID,
			Type:      stock.MovementInbound,
			Amount:    item.Quantity,
			Date:      time.Now().UTC(),
		}); err != nil {
			return err
		}

		if err := tx.Delete(&item).Error; err != nil {
			return fmt.Errorf("failed to delete order item: %w", err)
		}

		if err := s.recomputeAndPersistTotals(tx, order); err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(orderID)
}

// UpdateOrder updates mutable order header fields, keeping totals
// consistent with the unchanged item set.
func (s *Service) UpdateOrder(id uint, req *UpdateOrderRequest) (*Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, id)
		if err != nil {
			return err
		}

		if req.Freight != nil {
			if *req.Freight < 0 {
				return fmt.Errorf("freight must not be negative, got %d", *req.Freight)
			}
			order.Freight = *req.Freight
		}

		return s.recomputeAndPersistTotals(tx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(id)
}

// DeleteOrder removes an order and its items. Stock is intentionally NOT
// restored: auditing downstream assumes deleted orders keep their movement
// history as-is. Use RemoveItem per line when the reservation must be
// released.
func (s *Service) DeleteOrder(id uint) error {
	order, err := s.GetOrder(id)
	if err != nil {
		return err
	}

	if err := s.db.Select("Items").Delete(order).Error; err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return nil
}

// GetOrder retrieves a fully hydrated order with its items in insertion
// order and its user.
func (s *Service) GetOrder(id uint) (*Order, error) {
	var order Order
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Items.Product").
		Preload("User").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// GetOrders retrieves all orders with items and users
func (s *Service) GetOrders() ([]Order, error) {
	var orders []Order
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Items.Product").
		Preload("User").
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// GetItems retrieves order items, optionally filtered by order
func (s *Service) GetItems(orderID *uint) ([]OrderItem, error) {
	query := s.db.Preload("Product").Order("id")
	if orderID != nil {
		query = query.Where("order_id = ?", *orderID)
	}

	var items []OrderItem
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve order items: %w", err)
	}
	return items, nil
}

// lockOrder loads an order row with SELECT ... FOR UPDATE so concurrent
// mutations of the same order serialize before any item write or totals
// recompute, the same way the ledger locks stock records.
func lockOrder(tx *gorm.DB, id uint) (*Order, error) {
	var order Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// recomputeAndPersistTotals reloads the order's current items inside the
// transaction and persists the recomputed totals.
func (s *Service) recomputeAndPersistTotals(tx *gorm.DB, order *Order) error {
	var items []OrderItem
	if err := tx.Where("order_id = ?", order.ID).Order("id").Find(&items).Error; err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	order.RecomputeTotals(items)
	if err := tx.Model(order).Updates(map[string]interface{}{
		"subtotal": order.Subtotal,
		"freight":  order.Freight,
		"total":    order.Total,
	}).Error; err != nil {
		return fmt.Errorf("failed to persist order totals: %w", err)
	}
	return nil
}
