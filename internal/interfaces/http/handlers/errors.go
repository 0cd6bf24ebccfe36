// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/order-inventory-backend/internal/domain/delivery"
	"github.com/your-org/order-inventory-backend/internal/domain/order"
	"github.com/your-org/order-inventory-backend/internal/domain/product"
	"github.com/your-org/order-inventory-backend/internal/domain/stock"
	"github.com/your-org/order-inventory-backend/internal/domain/user"
)

// respondError maps domain errors to HTTP statuses. Every coordinator
// operation rolls back before its error reaches this point, so mapping
// never has partial state to worry about.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrItemNotFound),
		errors.Is(err, delivery.ErrNotFound),
		errors.Is(err, stock.ErrVendorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, stock.ErrInvalidAmount),
		errors.Is(err, stock.ErrInvalidMovementType),
		errors.Is(err, stock.ErrInsufficientStock),
		errors.Is(err, delivery.ErrAlreadyExists):
		status = http.StatusBadRequest
	case errors.Is(err, user.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, user.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		// Don't leak storage internals to the client
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
