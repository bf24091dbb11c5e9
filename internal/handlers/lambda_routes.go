package handlers

import (
	"context"
	"net/http"
	"strings"

	"card-classifier-api/pkg/lambda"
)

var notFoundBody = []byte(`{"error":"` + MsgNotFound + `"}`)

// LambdaRouter dispatches serverless requests to the same handlers the gin router uses
type LambdaRouter struct {
	card   *CardHandler
	health *HealthHandler
	prefix string
}

// NewLambdaRouter creates a router for serverless requests
func NewLambdaRouter(cfg *RouterConfig) *LambdaRouter {
	return &LambdaRouter{
		card:   NewCardHandler(cfg.CardService, cfg.Logger),
		health: NewHealthHandler(cfg.Health, cfg.DeploymentMode),
		prefix: cfg.RoutePrefix,
	}
}

// Handle routes a single request
func (r *LambdaRouter) Handle(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	path := req.Path
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	switch {
	case req.Method == http.MethodPost && (path == ClassifierPath || path == r.prefix+ClassifierPath):
		return r.card.HandleClassify(ctx, req)
	case req.Method == http.MethodGet && path == r.prefix+"/health":
		return r.health.HandleHealth(ctx, req)
	case req.Method == http.MethodGet && (path == "/" || path == ""):
		return r.health.HandleRoot(ctx, req)
	}

	return lambda.JSONResponse(http.StatusNotFound, notFoundBody), nil
}
