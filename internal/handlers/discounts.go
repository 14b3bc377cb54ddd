package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pricecomparator/price-service/internal/history"
)

// GetStoreDiscounts handles GET /discounts/:store/:date
// @Summary Get a store's discount snapshot
// @Tags discounts
// @Produce json
// @Param store path string true "Store name"
// @Param date path string true "Snapshot date (yyyy-mm-dd)"
// @Success 200 {array} Discount
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /discounts/{store}/{date} [get]
func GetStoreDiscounts(c *gin.Context) {
	date, ok := dateParam(c, "date", c.Param("date"))
	if !ok {
		return
	}

	discounts, err := service.DiscountsFor(c.Request.Context(), c.Param("store"), date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDiscounts(discounts))
}

// GetBestGlobalDiscounts handles GET /discounts/best-global
// @Summary Best active discount per product
// @Description For each product, the highest discount active today across all stores.
// @Tags discounts
// @Produce json
// @Success 200 {array} Discount
// @Success 204 "No active discounts"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /discounts/best-global [get]
func GetBestGlobalDiscounts(c *gin.Context) {
	discounts, err := service.BestGlobalDiscounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if len(discounts) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, toDiscounts(discounts))
}

// GetNewDiscounts handles GET /discounts/new
// @Summary Discounts published since yesterday
// @Tags discounts
// @Produce json
// @Success 200 {array} Discount
// @Success 204 "No new discounts"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /discounts/new [get]
func GetNewDiscounts(c *gin.Context) {
	discounts, err := service.NewDiscounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if len(discounts) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, toDiscounts(discounts))
}

// GetPriceHistory handles GET /discounts/price-history
// @Summary Discount history of a product
// @Tags discounts
// @Produce json
// @Param productId query string true "Product ID"
// @Param store query string false "Store filter"
// @Param brand query string false "Brand filter"
// @Param category query string false "Category filter"
// @Param from query string false "First snapshot date, inclusive (yyyy-mm-dd)"
// @Param to query string false "Last snapshot date, inclusive (yyyy-mm-dd)"
// @Success 200 {array} PriceHistoryEntry
// @Success 204 "No history"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /discounts/price-history [get]
func GetPriceHistory(c *gin.Context) {
	productID := strings.TrimSpace(c.Query("productId"))
	if productID == "" {
		badRequest(c, "productId is required")
		return
	}

	from, ok := optionalDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := optionalDateQuery(c, "to")
	if !ok {
		return
	}

	filter := history.Filter{
		Store:    c.Query("store"),
		Brand:    c.Query("brand"),
		Category: c.Query("category"),
		From:     from,
		To:       to,
	}

	entries, err := service.PriceHistory(c.Request.Context(), productID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(entries) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, toHistory(entries))
}
