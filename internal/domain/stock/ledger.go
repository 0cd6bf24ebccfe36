// internal/domain/stock/ledger.go
package stock

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger errors. Callers match with errors.Is.
var (
	ErrInvalidAmount       = errors.New("movement amount must be positive")
	ErrInvalidMovementType = errors.New("invalid movement type")
	ErrInsufficientStock   = errors.New("insufficient stock")
)

// Movement describes a single requested stock change
type Movement struct {
	ProductID uint
	ActorID   uint
	Type      MovementType
	Amount    int
	Date      time.Time
}

// Ledger owns all quantity changes for stock records. Every mutation goes
// through ApplyMovement inside a transaction supplied by the caller; the
// ledger itself never begins or commits one.
type Ledger struct{}

// NewLedger creates a new stock ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// GetOrCreate returns the stock record for a product, creating it with
// quantity zero when the product has never moved. The record row is read
// with SELECT ... FOR UPDATE so concurrent movements against the same
// product serialize on it for the remainder of the transaction.
func (l *Ledger) GetOrCreate(tx *gorm.DB, productID uint) (*StockRecord, error) {
	var record StockRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = StockRecord{ProductID: productID, QuantityCurrent: 0}
		if err := tx.Create(&record).Error; err != nil {
			// A concurrent first movement may win the insert race on the
			// unique product_id index; the caller's transaction aborts and
			// can be retried.
			return nil, fmt.Errorf("failed to create stock record: %w", err)
		}
		return &record, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stock record: %w", err)
	}
	return &record, nil
}

// ApplyMovement validates and applies one stock change, updating the
// record's current quantity and appending exactly one movement row with
// before/after snapshots. It participates in the caller's transaction so
// the sufficiency check and the write observe the same locked row.
func (l *Ledger) ApplyMovement(tx *gorm.DB, mv Movement) (*StockRecord, *StockMovement, error) {
	if mv.Amount <= 0 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, mv.Amount)
	}
	if !mv.Type.IsValid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidMovementType, mv.Type)
	}

	record, err := l.GetOrCreate(tx, mv.ProductID)
	if err != nil {
		return nil, nil, err
	}

	before := record.QuantityCurrent
	after, err := nextQuantity(before, mv.Amount, mv.Type)
	if err != nil {
		return nil, nil, fmt.Errorf("%w for product %d: available %d, requested %d",
			ErrInsufficientStock, mv.ProductID, before, mv.Amount)
	}

	record.QuantityCurrent = after
	if err := tx.Save(record).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to update stock record: %w", err)
	}

	movement := &StockMovement{
		ProductID:      mv.ProductID,
		ActorID:        mv.ActorID,
		Type:           mv.Type,
		Date:           mv.Date,
		Amount:         mv.Amount,
		QuantityBefore: before,
		QuantityAfter:  after,
	}
	if err := tx.Create(movement).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to append stock movement: %w", err)
	}

	return record, movement, nil
}

// nextQuantity computes the post-movement quantity. Outbound movements may
// not drive the quantity negative; inbound has no upper bound.
func nextQuantity(current, amount int, t MovementType) (int, error) {
	switch t {
	case MovementInbound:
		return current + amount, nil
	case MovementOutbound:
		if current < amount {
			return 0, ErrInsufficientStock
		}
		return current - amount, nil
	default:
		return 0, ErrInvalidMovementType
	}
}
