// internal/domain/delivery/entity.go
package delivery

import (
	"time"
)

// Delivery holds the shipping address recorded for an order. The order
// engine treats it as opaque data; no rate or route computation happens
// here.
type Delivery struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;uniqueIndex" json:"order_id"`
	PostalCode string    `gorm:"not null;size:20" json:"postal_code"`
	Street     string    `gorm:"not null;size:255" json:"street"`
	Number     string    `gorm:"not null;size:20" json:"number"`
	Complement string    `gorm:"size:100" json:"complement"`
	District   string    `gorm:"not null;size:100" json:"district"`
	City       string    `gorm:"not null;size:100" json:"city"`
	State      string    `gorm:"not null;size:2" json:"state"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName overrides the table name for Delivery
func (Delivery) TableName() string {
	return "deliveries"
}
