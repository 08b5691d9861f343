package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/vendly/pos-api/internal/application/service"
	"github.com/vendly/pos-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles store settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings handles getting the store settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings handles updating the store settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req struct {
		StoreName         *string `json:"store_name"`
		Currency          *string `json:"currency"`
		Timezone          *string `json:"timezone"`
		DateFormat        *string `json:"date_format"`
		DefaultTaxPercent *int    `json:"default_tax_percent"`
		ReceiptFooter     *string `json:"receipt_footer"`
		LowStockAlerts    *bool   `json:"low_stock_alerts"`
		SaleAlerts        *bool   `json:"sale_alerts"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		StoreName:         req.StoreName,
		Currency:          req.Currency,
		Timezone:          req.Timezone,
		DateFormat:        req.DateFormat,
		DefaultTaxPercent: req.DefaultTaxPercent,
		ReceiptFooter:     req.ReceiptFooter,
		LowStockAlerts:    req.LowStockAlerts,
		SaleAlerts:        req.SaleAlerts,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
