// internal/domain/delivery/service.go
package delivery

import (
	"errors"
	"fmt"

	"github.com/your-org/order-inventory-backend/internal/config"
	"github.com/your-org/order-inventory-backend/internal/domain/order"
	"gorm.io/gorm"
)

// Delivery errors. Callers match with errors.Is.
var (
	ErrNotFound      = errors.New("delivery not found")
	ErrAlreadyExists = errors.New("order already has a delivery")
)

// Service handles delivery business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new delivery service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateDeliveryRequest represents delivery registration data
type CreateDeliveryRequest struct {
	OrderID    uint   `json:"order_id" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Street     string `json:"street" binding:"required"`
	Number     string `json:"number" binding:"required"`
	Complement string `json:"complement"`
	District   string `json:"district" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
}

// CreateDelivery registers the shipping address for an order. The existence
// checks and the insert share one transaction; the unique index on order_id
// backstops races between concurrent creates.
func (s *Service) CreateDelivery(req *CreateDeliveryRequest) (*Delivery, error) {
	delivery := &Delivery{
		OrderID:    req.OrderID,
		PostalCode: req.PostalCode,
		Street:     req.Street,
		Number:     req.Number,
		Complement: req.Complement,
		District:   req.District,
		City:       req.City,
		State:      req.State,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var o order.Order
		if err := tx.First(&o, req.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", order.ErrOrderNotFound, req.OrderID)
			}
			return fmt.Errorf("failed to load order: %w", err)
		}

		var existing Delivery
		err := tx.Where("order_id = ?", req.OrderID).First(&existing).Error
		if err == nil {
			return fmt.Errorf("%w: order %d", ErrAlreadyExists, req.OrderID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing delivery: %w", err)
		}

		if err := tx.Create(delivery).Error; err != nil {
			return fmt.Errorf("failed to create delivery: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return delivery, nil
}

// GetDeliveryByOrder retrieves the delivery recorded for an order
func (s *Service) GetDeliveryByOrder(orderID uint) (*Delivery, error) {
	var delivery Delivery
	if err := s.db.Where("order_id = ?", orderID).First(&delivery).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to retrieve delivery: %w", err)
	}
	return &delivery, nil
}
