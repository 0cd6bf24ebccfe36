// internal/interfaces/http/handlers/stock.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/order-inventory-backend/internal/config"
	"github.com/your-org/order-inventory-backend/internal/domain/stock"
	"gorm.io/gorm"
)

// StockHandler handles stock ledger endpoints
type StockHandler struct {
	stockService *stock.Service
	config       *config.Config
}

// NewStockHandler creates a new stock handler
func NewStockHandler(db *gorm.DB, cfg *config.Config) *StockHandler {
	return &StockHandler{
		stockService: stock.NewService(db, cfg),
		config:       cfg,
	}
}

// RecordMovement handles POST /stock
func (h *StockHandler) RecordMovement(c *gin.Context) {
	var req stock.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.stockService.RecordStockMovement(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Stock movement recorded successfully",
		"data":    result,
	})
}

// ListStock handles GET /stock
func (h *StockHandler) ListStock(c *gin.Context) {
	records, err := h.stockService.ListStock()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": records,
	})
}

// ListMovements handles GET /stock/movements?product_id=
func (h *StockHandler) ListMovements(c *gin.Context) {
	var productID *uint
	if raw := c.Query("product_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid product_id parameter",
			})
			return
		}
		id := uint(parsed)
		productID = &id
	}

	movements, err := h.stockService.ListMovements(productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": movements,
	})
}
