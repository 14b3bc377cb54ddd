package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pricecomparator/price-service/internal/types"
)

// RegisterAlert handles POST /alerts
// @Summary Register a price alert
// @Tags alerts
// @Accept json
// @Produce json
// @Param request body RegisterAlertRequest true "Alert"
// @Success 201 {object} Alert
// @Failure 400 {object} map[string]string "Invalid alert"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [post]
func RegisterAlert(c *gin.Context) {
	var req RegisterAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	a, err := service.RegisterAlert(c.Request.Context(), req.ProductID, decimal.NewFromFloat(req.TargetPrice), req.Store)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAlert(a))
}

// ListAlerts handles GET /alerts
// @Summary List registered price alerts
// @Tags alerts
// @Produce json
// @Success 200 {array} Alert
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [get]
func ListAlerts(c *gin.Context) {
	registered, err := service.Alerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]Alert, len(registered))
	for i, a := range registered {
		out[i] = toAlert(a)
	}
	c.JSON(http.StatusOK, out)
}

// CheckAlerts handles GET /alerts/check
// @Summary Check alerts against every product snapshot
// @Tags alerts
// @Produce json
// @Success 200 {object} CheckAlertsResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/check [get]
func CheckAlerts(c *gin.Context) {
	messages, err := service.CheckAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckAlertsResponse{Messages: nonNil(messages)})
}

// CheckAlertsAgainst handles POST /alerts/check
// @Summary Check alerts against supplied products
// @Tags alerts
// @Accept json
// @Produce json
// @Param request body []Product true "Products to check"
// @Success 200 {object} CheckAlertsResponse
// @Failure 400 {object} map[string]string "Invalid products"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/check [post]
func CheckAlertsAgainst(c *gin.Context) {
	var body []Product
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}

	products := make([]types.Product, len(body))
	for i, p := range body {
		if p.ProductID == "" {
			badRequest(c, "productId is required")
			return
		}
		products[i] = types.Product{
			ProductID:       p.ProductID,
			Name:            p.ProductName,
			Category:        p.ProductCategory,
			Brand:           p.Brand,
			PackageQuantity: decimal.NewFromFloat(p.PackageQuantity),
			PackageUnit:     p.PackageUnit,
			Price:           decimal.NewFromFloat(p.Price),
			Currency:        p.Currency,
			Store:           p.Store,
		}
	}

	messages, err := service.CheckAlertsAgainst(c.Request.Context(), products)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckAlertsResponse{Messages: nonNil(messages)})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
