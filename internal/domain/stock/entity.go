// internal/domain/stock/entity.go
package stock

import (
	"time"

	"github.com/your-org/order-inventory-backend/internal/domain/product"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementInbound  MovementType = "INBOUND"  // Restock, return, adjustment increase
	MovementOutbound MovementType = "OUTBOUND" // Sale, shrinkage, adjustment decrease
)

// IsValid reports whether the movement type is one of the known directions
func (t MovementType) IsValid() bool {
	return t == MovementInbound || t == MovementOutbound
}

// StockRecord holds the current quantity for a single product.
// One record per product, created lazily on first movement and never deleted.
type StockRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProductID       uint      `gorm:"uniqueIndex;not null" json:"product_id"`
	QuantityCurrent int       `gorm:"not null;default:0" json:"quantity_current"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	Product product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// StockMovement is one immutable audit entry per ledger mutation.
// Rows are only ever inserted; creation order is significant for audit replay.
type StockMovement struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	ProductID      uint         `gorm:"not null;index" json:"product_id"`
	ActorID        uint         `gorm:"not null;index" json:"actor_id"`
	Type           MovementType `gorm:"not null;size:10" json:"type"`
	Date           time.Time    `gorm:"not null;type:date;index" json:"date"`
	Amount         int          `gorm:"not null" json:"amount"`
	QuantityBefore int          `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int          `gorm:"not null" json:"quantity_after"`
	CreatedAt      time.Time    `json:"created_at"`

	// Relationships
	Product product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName overrides
func (StockRecord) TableName() string   { return "stock_records" }
func (StockMovement) TableName() string { return "stock_movements" }

// CanDebit reports whether the record holds at least amount units
func (r *StockRecord) CanDebit(amount int) bool {
	return r.QuantityCurrent >= amount
}
