package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CompareStores handles GET /compare/:store1/:date1/:store2/:date2
// @Summary Compare two product snapshots
// @Description Lists the products present in both snapshots and which store sells each cheaper.
// @Tags compare
// @Produce json
// @Param store1 path string true "First store"
// @Param date1 path string true "First snapshot date (yyyy-mm-dd)"
// @Param store2 path string true "Second store"
// @Param date2 path string true "Second snapshot date (yyyy-mm-dd)"
// @Success 200 {array} CompareRow
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /compare/{store1}/{date1}/{store2}/{date2} [get]
func CompareStores(c *gin.Context) {
	date1, ok := dateParam(c, "date1", c.Param("date1"))
	if !ok {
		return
	}
	date2, ok := dateParam(c, "date2", c.Param("date2"))
	if !ok {
		return
	}

	rows, err := service.Compare(c.Request.Context(), c.Param("store1"), date1, c.Param("store2"), date2)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCompareRows(rows))
}
