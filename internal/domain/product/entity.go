// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents the product catalog entry. The engine treats it as
// read-only reference data; its price is snapshotted into order items at
// creation time and never re-read afterward.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Model       string         `gorm:"not null;size:100" json:"model"`
	Price       int64          `gorm:"not null" json:"price"` // Price in cents
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// GetFormattedPrice returns the unit price as a float
func (p *Product) GetFormattedPrice() float64 {
	return float64(p.Price) / 100
}
