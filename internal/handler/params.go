package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/nba-stats-manager/internal/service"
)

// queryLimit reads ?limit=, falling back to service.DefaultLimit when absent.
// Range checks are left to the service.
func queryLimit(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return service.DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, service.NewInvalidInputError([]service.FieldError{{Field: "limit", Message: "must be an integer"}})
	}
	return n, nil
}
