package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricecomparator/price-service/internal/database"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string `json:"status"`
	SnapshotFiles int    `json:"snapshotFiles"`
	Database      string `json:"database"`
}

// HealthCheck handles the health check endpoint
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status: "ok",
	}

	files, err := service.Files(c.Request.Context())
	if err != nil {
		response.Status = "snapshots unavailable"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	response.SnapshotFiles = len(files)

	// The pool only exists with the postgres alert backend
	if database.Pool() != nil {
		if err := database.Status(c.Request.Context()); err != nil {
			response.Database = "disconnected"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		response.Database = "connected"
	} else {
		response.Database = "not configured"
	}

	c.JSON(http.StatusOK, response)
}
