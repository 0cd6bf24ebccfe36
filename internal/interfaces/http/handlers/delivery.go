// internal/interfaces/http/handlers/delivery.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/order-inventory-backend/internal/config"
	"github.com/your-org/order-inventory-backend/internal/domain/delivery"
	"gorm.io/gorm"
)

// DeliveryHandler handles delivery endpoints
type DeliveryHandler struct {
	deliveryService *delivery.Service
	config          *config.Config
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(db *gorm.DB, cfg *config.Config) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: delivery.NewService(db, cfg),
		config:          cfg,
	}
}

// CreateDelivery handles POST /deliveries
func (h *DeliveryHandler) CreateDelivery(c *gin.Context) {
	var req delivery.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.deliveryService.CreateDelivery(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Delivery registered successfully",
		"data":    created,
	})
}

// GetDeliveryByOrder handles GET /deliveries/:orderId
func (h *DeliveryHandler) GetDeliveryByOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "orderId")
	if err != nil {
		return
	}

	d, err := h.deliveryService.GetDeliveryByOrder(orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": d,
	})
}
