// internal/domain/order/entity.go
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/order-inventory-backend/internal/domain/product"
	"github.com/your-org/order-inventory-backend/internal/domain/user"
	"gorm.io/gorm"
)

// ErrInvalidQuantity is returned when an item quantity is not positive
var ErrInvalidQuantity = errors.New("item quantity must be positive")

// Order represents the order aggregate root. Totals are denormalized and
// recomputed after every item-level mutation; total = subtotal + freight
// must hold after every committed operation.
type Order struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	UserID   uint  `gorm:"not null;index" json:"user_id"`
	Subtotal int64 `gorm:"not null;default:0" json:"subtotal"` // In cents
	Freight  int64 `gorm:"not null;default:0" json:"freight"`
	Total    int64 `gorm:"not null;default:0" json:"total"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User  user.User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem represents one line of an order. UnitPrice is a snapshot of the
// product price at creation time; items are never mutated in place (a
// quantity change is a delete followed by a new item).
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"` // Price snapshot in cents
	LineTotal int64     `gorm:"not null" json:"line_total"` // UnitPrice * Quantity
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Product product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// NewOrderItem builds an order line from a product reference and a requested
// quantity, fixing the unit price to the product's current price.
func NewOrderItem(p *product.Product, quantity int) (*OrderItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d for product %d", ErrInvalidQuantity, quantity, p.ID)
	}
	return &OrderItem{
		ProductID: p.ID,
		Quantity:  quantity,
		UnitPrice: p.Price,
		LineTotal: p.Price * int64(quantity),
	}, nil
}

// RecomputeTotals recalculates subtotal and total from the given item set.
// Pure with respect to storage; callers persist the updated order.
func (o *Order) RecomputeTotals(items []OrderItem) {
	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotal
	}
	o.Subtotal = subtotal
	o.Total = subtotal + o.Freight
}

// GetFormattedTotal returns the order total as a float
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.Total) / 100
}
