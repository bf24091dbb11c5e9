package services

import (
	"fmt"

	"card-classifier-api/internal/repositories"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	CardService CardService
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	Card *CardServiceConfig
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(repos *repositories.RepositoryContainer, config *ServiceConfig) (*ServiceContainer, error) {
	if repos == nil {
		return nil, fmt.Errorf("repository container cannot be nil")
	}
	if err := repos.Validate(); err != nil {
		return nil, fmt.Errorf("invalid repository container: %w", err)
	}

	if config == nil {
		config = &ServiceConfig{}
	}

	return &ServiceContainer{
		CardService: NewCardService(repos.InstitutionRepo, config.Card),
	}, nil
}
