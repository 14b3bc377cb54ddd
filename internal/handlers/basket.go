package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pricecomparator/price-service/internal/optimizer"
)

// OptimizeBasket handles POST /basket/optimise
// @Summary Split a shopping list across stores
// @Description Buys every product at the store with the lowest discounted price today.
// @Tags basket
// @Accept json
// @Produce json
// @Param request body []BasketItemRequest true "Shopping list"
// @Success 200 {object} OptimizeResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /basket/optimise [post]
func OptimizeBasket(c *gin.Context) {
	var items []BasketItemRequest
	if err := c.ShouldBindJSON(&items); err != nil {
		badRequest(c, err.Error())
		return
	}

	req := &optimizer.OptimizeRequest{Items: make([]*optimizer.BasketItem, len(items))}
	for i, item := range items {
		req.Items[i] = &optimizer.BasketItem{
			ProductID: item.ProductID,
			Quantity:  decimal.NewFromFloat(item.Quantity),
		}
	}

	res, err := service.OptimizeBasket(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOptimizeResponse(res))
}
