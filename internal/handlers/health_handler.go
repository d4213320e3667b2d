package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agenda-academica/academic-service/internal/utils"
)

// HealthChecker pings one backing dependency
type HealthChecker func(ctx context.Context) error

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

type HealthHandler struct {
	BaseHandler
	version  string
	database HealthChecker
	cache    HealthChecker
}

// NewHealthHandler builds the health endpoint. A nil cache checker reports
// the cache as disabled.
func NewHealthHandler(version string, database, cache HealthChecker, logger utils.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: NewBaseHandler(logger),
		version:     version,
		database:    database,
		cache:       cache,
	}
}

// Health reports the service version and the state of its dependencies
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Database: "ok",
		Cache:    "disabled",
	}
	status := http.StatusOK

	if err := h.database(ctx); err != nil {
		h.LogError(c, err, "Database health check failed")
		resp.Status = "unhealthy"
		resp.Database = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		resp.Cache = "ok"
		if err := h.cache(ctx); err != nil {
			// Requests fall back to the database without the cache
			h.LogError(c, err, "Cache health check failed")
			resp.Cache = "unavailable"
		}
	}

	c.JSON(status, resp)
}
