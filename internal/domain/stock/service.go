// internal/domain/stock/service.go
package stock

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/order-inventory-backend/internal/config"
	"github.com/your-org/order-inventory-backend/internal/domain/product"
	"github.com/your-org/order-inventory-backend/internal/domain/user"
	"gorm.io/gorm"
)

// ErrVendorNotFound is returned when the movement's actor does not exist
var ErrVendorNotFound = errors.New("vendor not found")

// Service handles stock business logic outside an order context
type Service struct {
	db     *gorm.DB
	config *config.Config
	ledger *Ledger
}

// NewService creates a new stock service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
		ledger: NewLedger(),
	}
}

// MovementRequest represents a direct stock movement request
type MovementRequest struct {
	VendorID  uint         `json:"vendor_id" binding:"required"`
	ProductID uint         `json:"product_id" binding:"required"`
	Type      MovementType `json:"type" binding:"required"`
	Date      string       `json:"date" binding:"required"` // YYYY-MM-DD
	Amount    int          `json:"amount" binding:"required"`
}

// MovementResult represents the outcome of a recorded movement
type MovementResult struct {
	NewQuantity int            `json:"new_quantity"`
	Movement    *StockMovement `json:"movement"`
}

// RecordStockMovement records a manual ledger entry (restock or shrinkage)
// with no order involvement. Validation and the ledger write run inside a
// single transaction; nothing is persisted on failure.
func (s *Service) RecordStockMovement(req *MovementRequest) (*MovementResult, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid movement date %q: %w", req.Date, err)
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMovementType, req.Type)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, req.Amount)
	}

	var result MovementResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var p product.Product
		if err := tx.First(&p, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", product.ErrNotFound, req.ProductID)
			}
			return fmt.Errorf("failed to load product: %w", err)
		}

		var vendor user.User
		if err := tx.First(&vendor, req.VendorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrVendorNotFound, req.VendorID)
			}
			return fmt.Errorf("failed to load vendor: %w", err)
		}

		record, movement, err := s.ledger.ApplyMovement(tx, Movement{
			ProductID: req.ProductID,
			ActorID:   req.VendorID,
			Type:      req.Type,
			Amount:    req.Amount,
			Date:      date,
		})
		if err != nil {
			return err
		}

		result.NewQuantity = record.QuantityCurrent
		result.Movement = movement
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ListStock retrieves all stock records with their products
func (s *Service) ListStock() ([]StockRecord, error) {
	var records []StockRecord
	if err := s.db.Preload("Product").Order("product_id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stock records: %w", err)
	}
	return records, nil
}

// ListMovements retrieves the movement history, optionally filtered by
// product, in creation order so the audit trail replays deterministically.
func (s *Service) ListMovements(productID *uint) ([]StockMovement, error) {
	query := s.db.Model(&StockMovement{}).Order("id")
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}

	var movements []StockMovement
	if err := query.Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stock movements: %w", err)
	}
	return movements, nil
}

// GetQuantity returns the current quantity for a product, zero when the
// product has never moved.
func (s *Service) GetQuantity(productID uint) (int, error) {
	var record StockRecord
	err := s.db.Where("product_id = ?", productID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load stock record: %w", err)
	}
	return record.QuantityCurrent, nil
}
