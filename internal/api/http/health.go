package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gate2way/gate2way-backend/internal/gateway"
)

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RemoteAPIStats struct {
	Calls            int64   `json:"calls"`
	Errors           int64   `json:"errors"`
	AverageLatencyMs float64 `json:"average_latency_ms"`
	ErrorRate        float64 `json:"error_rate"`
}

type HealthResponse struct {
	Status       string          `json:"status"`
	Timestamp    time.Time       `json:"timestamp"`
	Service      string          `json:"service"`
	Version      string          `json:"version"`
	SessionStore string          `json:"session_store,omitempty"`
	RemoteAPI    *RemoteAPIStats `json:"remote_api,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	store       Pinger
}

func NewHealthHandler(serviceName, version string, store Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		store:       store,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	storeStatus := "disabled"
	if h.store != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.store.Ping(pingCtx); err != nil {
			storeStatus = "down"
			status = "degraded"
		} else {
			storeStatus = "up"
		}
	}

	m := gateway.GetMetrics()
	c.JSON(http.StatusOK, HealthResponse{
		Status:       status,
		Timestamp:    time.Now().UTC(),
		Service:      h.serviceName,
		Version:      h.version,
		SessionStore: storeStatus,
		RemoteAPI: &RemoteAPIStats{
			Calls:            m.Calls,
			Errors:           m.Errors,
			AverageLatencyMs: m.AverageLatency(),
			ErrorRate:        m.ErrorRate(),
		},
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
