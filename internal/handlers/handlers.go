// Package handlers exposes the catalog service over HTTP.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pricecomparator/price-service/internal/alerts"
	"github.com/pricecomparator/price-service/internal/catalog"
	"github.com/pricecomparator/price-service/internal/history"
	"github.com/pricecomparator/price-service/internal/optimizer"
	"github.com/pricecomparator/price-service/internal/ranking"
	"github.com/pricecomparator/price-service/internal/types"
)

const (
	defaultBestValueTop   = 5
	defaultSubstitutesTop = 3
)

var service *catalog.Service

// Init sets the catalog service used by all handlers
func Init(svc *catalog.Service) {
	service = svc
}

// RegisterRoutes mounts every API endpoint on router.
func RegisterRoutes(router gin.IRouter) {
	router.GET("/health", HealthCheck)

	products := router.Group("/products")
	{
		products.GET("/best-value", GetBestValue)
		// Also serves /products/{productId}/substitutes.
		products.GET("/:store/:date", GetStoreProducts)
	}

	router.POST("/basket/optimise", OptimizeBasket)

	discounts := router.Group("/discounts")
	{
		discounts.GET("/best-global", GetBestGlobalDiscounts)
		discounts.GET("/new", GetNewDiscounts)
		discounts.GET("/price-history", GetPriceHistory)
		discounts.GET("/:store/:date", GetStoreDiscounts)
	}

	alertRoutes := router.Group("/alerts")
	{
		alertRoutes.POST("", RegisterAlert)
		alertRoutes.GET("", ListAlerts)
		alertRoutes.GET("/check", CheckAlerts)
		alertRoutes.POST("/check", CheckAlertsAgainst)
	}

	router.GET("/compare/:store1/:date1/:store2/:date2", CompareStores)
}

// respondError maps domain errors to status codes.
func respondError(c *gin.Context, err error) {
	var invalid optimizer.ErrInvalidRequest
	switch {
	case errors.As(err, &invalid),
		errors.Is(err, ranking.ErrInvalidTop),
		errors.Is(err, history.ErrInvalidRange),
		errors.Is(err, alerts.ErrInvalidAlert):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ranking.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("component", "handlers").Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// dateParam parses a yyyy-mm-dd path or query value, writing a 400 on failure.
func dateParam(c *gin.Context, name, value string) (types.Date, bool) {
	d, err := types.ParseDate(value)
	if err != nil {
		badRequest(c, "invalid "+name+": expected yyyy-mm-dd")
		return types.Date{}, false
	}
	return d, true
}

// optionalDateQuery parses an optional date query parameter.
func optionalDateQuery(c *gin.Context, name string) (types.Date, bool) {
	v := c.Query(name)
	if v == "" {
		return types.Date{}, true
	}
	return dateParam(c, name, v)
}

// topQuery parses a positive result size, falling back to def.
func topQuery(c *gin.Context, def int) (int, bool) {
	v := c.Query("top")
	if v == "" {
		return def, true
	}
	top, err := strconv.Atoi(v)
	if err != nil || top <= 0 {
		badRequest(c, "top must be a positive integer")
		return 0, false
	}
	return top, true
}
