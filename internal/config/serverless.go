package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Deployment modes
const (
	DeploymentServer = "server"
	DeploymentLambda = "lambda"
	DeploymentAzure  = "azure_functions"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	IsAzure      bool
	FunctionName string
	Region       string
	Stage        string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration detected at first use
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = DetectServerless()
	})
	return serverlessConfig
}

// DetectServerless inspects the environment for a serverless host
func DetectServerless() *ServerlessConfig {
	sc := &ServerlessConfig{
		IsLambda: os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",
		IsAzure:  os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT") != "" || os.Getenv("FUNCTIONS_WORKER_RUNTIME") != "",
		Stage:    GetEnv("STAGE", "dev"),
	}

	switch {
	case sc.IsLambda:
		sc.FunctionName = os.Getenv("AWS_LAMBDA_FUNCTION_NAME")
		sc.Region = os.Getenv("AWS_REGION")
	case sc.IsAzure:
		sc.FunctionName = os.Getenv("WEBSITE_SITE_NAME")
		sc.Region = os.Getenv("REGION_NAME")
	}

	return sc
}

// DeploymentMode returns the deployment mode the configuration describes
func (sc *ServerlessConfig) DeploymentMode() string {
	switch {
	case sc.IsLambda:
		return DeploymentLambda
	case sc.IsAzure:
		return DeploymentAzure
	}
	return DeploymentServer
}

// LogFields describes the host for startup log entries
func (sc *ServerlessConfig) LogFields() logrus.Fields {
	fields := logrus.Fields{
		"deployment_mode": sc.DeploymentMode(),
		"stage":           sc.Stage,
	}
	if sc.FunctionName != "" {
		fields["function_name"] = sc.FunctionName
	}
	if sc.Region != "" {
		fields["region"] = sc.Region
	}
	return fields
}

// AdaptConfigForServerless modifies configuration for the given serverless host
func AdaptConfigForServerless(sc *ServerlessConfig, config *Config) *Config {
	if sc.IsLambda {
		// Only /tmp is writable inside a Lambda container
		if config.Institutions.Source == InstitutionSourceSQLite && !filepath.IsAbs(config.Database.ConnectionString) {
			config.Database.ConnectionString = filepath.Join("/tmp", filepath.Base(config.Database.ConnectionString))
		}
		// One invocation at a time per container
		config.Database.MaxOpenConns = 1
		config.Database.MaxIdleConns = 1
	}

	if sc.IsAzure {
		if port := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT"); port != "" {
			config.Port = port
		}
	}

	return config
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	return AdaptConfigForServerless(GetServerlessConfig(), config), nil
}
