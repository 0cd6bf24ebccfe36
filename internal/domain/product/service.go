// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"

	"github.com/your-org/order-inventory-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a product does not exist
var ErrNotFound = errors.New("product not found")

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Model       string `json:"model" binding:"required"`
	Price       int64  `json:"price" binding:"required,gt=0"` // In cents
	ImageURL    string `json:"image_url"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateProductRequest represents a partial product update; nil fields are
// left untouched.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Model       *string `json:"model"`
	Price       *int64  `json:"price"`
	ImageURL    *string `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(req *CreateProductRequest) (*Product, error) {
	product := &Product{
		Name:        req.Name,
		Description: req.Description,
		Model:       req.Model,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetProducts retrieves all products
func (s *Service) GetProducts() ([]Product, error) {
	var products []Product
	if err := s.db.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// GetProduct retrieves a product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// UpdateProduct applies a partial update to a product
func (s *Service) UpdateProduct(id uint, req *UpdateProductRequest) (*Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("product price must be positive, got %d", *req.Price)
		}
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return product, nil
	}

	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// ReplaceProduct overwrites every mutable field of a product
func (s *Service) ReplaceProduct(id uint, req *CreateProductRequest) (*Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Model = req.Model
	product.Price = req.Price
	product.ImageURL = req.ImageURL
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct soft-deletes a product
func (s *Service) DeleteProduct(id uint) error {
	product, err := s.GetProduct(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
