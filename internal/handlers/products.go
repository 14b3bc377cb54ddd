package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetStoreProducts handles GET /products/:store/:date
// @Summary Get a store's product snapshot
// @Description Returns the products of one store on one date. A missing snapshot yields an empty list.
// @Tags products
// @Produce json
// @Param store path string true "Store name"
// @Param date path string true "Snapshot date (yyyy-mm-dd)"
// @Success 200 {array} Product
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{store}/{date} [get]
func GetStoreProducts(c *gin.Context) {
	if c.Param("date") == "substitutes" {
		GetSubstitutes(c)
		return
	}

	date, ok := dateParam(c, "date", c.Param("date"))
	if !ok {
		return
	}

	products, err := service.ProductsFor(c.Request.Context(), c.Param("store"), date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProducts(products))
}

// GetBestValue handles GET /products/best-value
// @Summary Rank a category by value for money
// @Description Returns the products of a category with the lowest list price per kg, l or piece.
// @Tags products
// @Produce json
// @Param category query string true "Product category"
// @Param top query int false "Number of products" default(5)
// @Success 200 {object} BestValueResponse
// @Success 204 "No products in category"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/best-value [get]
func GetBestValue(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		badRequest(c, "category is required")
		return
	}
	top, ok := topQuery(c, defaultBestValueTop)
	if !ok {
		return
	}

	bv, err := service.BestValue(c.Request.Context(), category, top)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(bv.Products) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, toBestValue(bv))
}

// GetSubstitutes handles GET /products/:productId/substitutes
// @Summary Find cheaper substitutes
// @Description Ranks products of the same category by discounted price per base unit.
// @Tags products
// @Produce json
// @Param productId path string true "Product ID"
// @Param top query int false "Number of substitutes" default(3)
// @Param sameBrand query bool false "Only products of the same brand" default(false)
// @Success 200 {array} ProductValue
// @Success 204 "No substitutes"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Unknown product"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{productId}/substitutes [get]
func GetSubstitutes(c *gin.Context) {
	productID := c.Param("store")
	top, ok := topQuery(c, defaultSubstitutesTop)
	if !ok {
		return
	}

	sameBrand := false
	if v := c.Query("sameBrand"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "sameBrand must be true or false")
			return
		}
		sameBrand = b
	}

	subs, err := service.Substitutes(c.Request.Context(), productID, top, sameBrand)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(subs) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, toSubstitutes(subs))
}
