// internal/interfaces/http/handlers/order_item.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/order-inventory-backend/internal/config"
	"github.com/your-org/order-inventory-backend/internal/domain/order"
	"gorm.io/gorm"
)

// OrderItemHandler handles order line item endpoints
type OrderItemHandler struct {
	orderService *order.Service
	config       *config.Config
}

// NewOrderItemHandler creates a new order item handler
func NewOrderItemHandler(db *gorm.DB, cfg *config.Config) *OrderItemHandler {
	return &OrderItemHandler{
		orderService: order.NewService(db, cfg),
		config:       cfg,
	}
}

// ListItems handles GET /order-items?order_id=
func (h *OrderItemHandler) ListItems(c *gin.Context) {
	var orderID *uint
	if raw := c.Query("order_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid order_id parameter",
			})
			return
		}
		id := uint(parsed)
		orderID = &id
	}

	items, err := h.orderService.GetItems(orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
	})
}

// AddItem handles POST /order-items
func (h *OrderItemHandler) AddItem(c *gin.Context) {
	var req order.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, updated, err := h.orderService.AddItem(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added successfully",
		"data": gin.H{
			"item":  item,
			"order": updated,
		},
	})
}

// RemoveItem handles DELETE /order-items/:id. Removing a line releases
// exactly its stock reservation and recomputes the order totals.
func (h *OrderItemHandler) RemoveItem(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	updated, err := h.orderService.RemoveItem(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed successfully",
		"data": gin.H{
			"order": updated,
		},
	})
}
