package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"goodwish-chatbot/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "WishChat API V1"
	HealthVersion = "1.0.0"
	ServiceName   = "goodwish-chatbot"

	readyCheckTimeout = 3 * time.Second
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// readyCheck runs the dependency checks and reports 503 when any fails.
// @Summary Readiness Check
// @Description Check if the API and its dependencies are ready to serve traffic
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is ready"
// @Failure 503 {object} map[string]interface{} "A dependency is unavailable"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyCheckTimeout)
	defer cancel()

	deps := make(map[string]string, len(srv.checks))
	ready := true
	for name, check := range srv.checks {
		if err := check(ctx); err != nil {
			srv.l.Warnf(ctx, "httpserver.readyCheck: %s: %v", name, err)
			deps[name] = "unavailable"
			ready = false
			continue
		}
		deps[name] = "ok"
	}

	body := gin.H{
		"status":       "ready",
		"message":      HealthMessage,
		"version":      HealthVersion,
		"service":      ServiceName,
		"dependencies": deps,
	}
	if !ready {
		body["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, response.NewOKResp(body))
		return
	}
	response.OK(c, body)
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}
