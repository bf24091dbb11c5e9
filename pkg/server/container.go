package server

import (
	"context"
	"fmt"
	"time"

	"card-classifier-api/internal/config"
	"card-classifier-api/internal/database"
	"card-classifier-api/internal/repositories"
	"card-classifier-api/internal/repositories/cache"
	"card-classifier-api/internal/repositories/sqlite"
	"card-classifier-api/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Component health states
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusDown     = "down"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *logrus.Logger
	CardService    services.CardService
	Institutions   repositories.InstitutionRepository
	Serverless     *config.ServerlessConfig
	DeploymentMode string

	// Internal dependencies
	dbManager *database.ConnectionManager
	redis     *redis.Client
	services  *services.ServiceContainer
}

// NewContainer creates a new dependency injection container with a logger built from cfg
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithLogger(cfg, config.NewLogger(cfg.Log))
}

// NewContainerWithLogger creates a new dependency injection container
func NewContainerWithLogger(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	serverless := config.GetServerlessConfig()
	c := &Container{
		Config:         cfg,
		Logger:         logger,
		Serverless:     serverless,
		DeploymentMode: serverless.DeploymentMode(),
	}

	institutions, err := c.newInstitutionRepository()
	if err != nil {
		c.Close()
		return nil, err
	}

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		c.redis = redis.NewClient(opts)
		institutions = cache.NewCachedInstitutionRepository(institutions, c.redis, cfg.Redis.CacheTTL, logger)
		logger.WithField("ttl", cfg.Redis.CacheTTL).Info("Institution lookup cache enabled")
	}

	repos := &repositories.RepositoryContainer{InstitutionRepo: institutions}
	serviceContainer, err := services.NewServiceContainer(repos, &services.ServiceConfig{
		Card: &services.CardServiceConfig{
			NextAgent: cfg.Card.NextAgent,
			PageSize:  cfg.Card.PageSize,
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	c.Institutions = institutions
	c.CardService = serviceContainer.CardService
	c.services = serviceContainer
	return c, nil
}

func (c *Container) newInstitutionRepository() (repositories.InstitutionRepository, error) {
	switch c.Config.Institutions.Source {
	case config.InstitutionSourceSQLite:
		c.dbManager = database.NewConnectionManager(database.ConnectionConfig{
			DatabasePath:    c.Config.Database.ConnectionString,
			MaxOpenConns:    c.Config.Database.MaxOpenConns,
			MaxIdleConns:    c.Config.Database.MaxIdleConns,
			ConnMaxLifetime: time.Hour,
			AutoMigrate:     true,
			Logger:          c.Logger,
		})
		if err := c.dbManager.Connect(); err != nil {
			return nil, repositories.ConnectionError(err)
		}
		return sqlite.NewInstitutionRepository(c.dbManager.GetDB(), c.Logger), nil
	case config.InstitutionSourceStatic, "":
		return repositories.NewStaticInstitutionRepository(nil), nil
	}
	return nil, fmt.Errorf("unknown institution source %q", c.Config.Institutions.Source)
}

// HealthCheck reports the state of each backing component. The result is
// healthy unless the database is down; a cache outage only degrades lookups.
func (c *Container) HealthCheck(ctx context.Context) (map[string]string, bool) {
	checks := map[string]string{"institutions": c.Config.Institutions.Source}
	healthy := true

	if c.dbManager != nil {
		if err := c.dbManager.HealthCheck(ctx); err != nil {
			c.Logger.WithError(err).Error("Database health check failed")
			checks["database"] = StatusDown
			healthy = false
		} else {
			checks["database"] = StatusOK
		}
	}

	if c.redis != nil {
		if err := c.redis.Ping(ctx).Err(); err != nil {
			c.Logger.WithError(err).Warn("Cache health check failed")
			checks["cache"] = StatusDegraded
		} else {
			checks["cache"] = StatusOK
		}
	}

	return checks, healthy
}

// Close cleans up all resources
func (c *Container) Close() error {
	var firstErr error

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close redis client: %w", err)
		}
		c.redis = nil
	}

	if c.dbManager != nil {
		if err := c.dbManager.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close database: %w", err)
		}
		c.dbManager = nil
	}

	return firstErr
}
