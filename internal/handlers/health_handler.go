package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"card-classifier-api/internal/models"
	"card-classifier-api/pkg/lambda"

	"github.com/gin-gonic/gin"
)

// Service identification reported by the health endpoint
const (
	ServiceName    = "card-classifier-api"
	ServiceVersion = "1.0.0"
	WelcomeMessage = "Welcome to the card classifier API"
)

// HealthChecker reports component states and whether the service can serve traffic
type HealthChecker interface {
	HealthCheck(ctx context.Context) (map[string]string, bool)
}

// HealthHandler serves the welcome and health endpoints
type HealthHandler struct {
	checker        HealthChecker
	deploymentMode string
}

// NewHealthHandler creates a new health handler. checker may be nil.
func NewHealthHandler(checker HealthChecker, deploymentMode string) *HealthHandler {
	return &HealthHandler{
		checker:        checker,
		deploymentMode: deploymentMode,
	}
}

func (h *HealthHandler) check(ctx context.Context) (int, models.HealthCheck) {
	health := models.HealthCheck{
		Status:         "healthy",
		Service:        ServiceName,
		Version:        ServiceVersion,
		DeploymentMode: h.deploymentMode,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}

	if h.checker == nil {
		return http.StatusOK, health
	}

	checks, healthy := h.checker.HealthCheck(ctx)
	health.Checks = checks
	if !healthy {
		health.Status = "unhealthy"
		return http.StatusServiceUnavailable, health
	}
	return http.StatusOK, health
}

// Root godoc
// @Summary Welcome message
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": WelcomeMessage})
}

// Health godoc
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthCheck
// @Failure 503 {object} models.HealthCheck
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status, health := h.check(c.Request.Context())
	c.JSON(status, health)
}

// HandleRoot is the serverless binding of Root
func (h *HealthHandler) HandleRoot(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	body, err := json.Marshal(map[string]string{"message": WelcomeMessage})
	if err != nil {
		return nil, err
	}
	return lambda.JSONResponse(http.StatusOK, body), nil
}

// HandleHealth is the serverless binding of Health
func (h *HealthHandler) HandleHealth(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	status, health := h.check(ctx)
	body, err := json.Marshal(health)
	if err != nil {
		return nil, err
	}
	return lambda.JSONResponse(status, body), nil
}
