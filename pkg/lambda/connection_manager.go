package lambda

import (
	"context"
	"fmt"
	"sync"

	"card-classifier-api/internal/config"
	"card-classifier-api/pkg/server"
)

// ConnectionManager builds the dependency container once per execution
// environment and hands the same container to every warm invocation
type ConnectionManager struct {
	mu        sync.Mutex
	load      func() (*config.Config, error)
	container *server.Container
	reuses    int
}

var defaultManager = NewConnectionManager(config.GetOptimizedConfig)

// GetConnectionManager returns the manager shared by the Lambda entry points
func GetConnectionManager() *ConnectionManager {
	return defaultManager
}

// NewConnectionManager creates a manager that reads its configuration through load
func NewConnectionManager(load func() (*config.Config, error)) *ConnectionManager {
	return &ConnectionManager{load: load}
}

// GetContainer returns the cached container, building it on the first call
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		cm.reuses++
		return cm.container, nil
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	container, err := server.NewContainer(cfg)
	if err != nil {
		return nil, err
	}

	cm.container = container
	return container, nil
}

// Reuses reports how many GetContainer calls were served from the cache
func (cm *ConnectionManager) Reuses() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.reuses
}

// Shutdown closes the container. A later GetContainer builds a fresh one.
func (cm *ConnectionManager) Shutdown() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		return nil
	}

	err := cm.container.Close()
	cm.container = nil
	cm.reuses = 0
	return err
}
