package server

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"card-classifier-api/internal/config"
	"card-classifier-api/internal/models"

	"github.com/sirupsen/logrus"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:  "test",
		Port:         "8080",
		RoutePrefix:  "/api",
		Card:         config.CardConfig{NextAgent: "test_agent", PageSize: 5},
		Institutions: config.InstitutionConfig{Source: config.InstitutionSourceStatic},
		Log:          config.LogConfig{Level: "error", Format: "json"},
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewContainer_Static(t *testing.T) {
	container, err := NewContainerWithLogger(testConfig(), quietLogger())
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}
	defer container.Close()

	if container.CardService == nil {
		t.Fatal("CardService is nil")
	}
	if container.Institutions == nil {
		t.Fatal("Institutions is nil")
	}

	req := &models.RequestMSG{RequestID: "1", SourceSystem: 46, SessionID: "s1", Query: "json"}
	resp, err := container.CardService.Classify(context.Background(), req)
	if err != nil {
		t.Fatalf("Classify() failed: %v", err)
	}
	if resp.NextAgent() != "test_agent" {
		t.Errorf("Expected configured next agent, got %q", resp.NextAgent())
	}
	if resp.JSONCard().CardList.PageSize != 5 {
		t.Errorf("Expected configured page size, got %d", resp.JSONCard().CardList.PageSize)
	}

	checks, healthy := container.HealthCheck(context.Background())
	if !healthy {
		t.Errorf("Expected a healthy container, got %v", checks)
	}
	if _, ok := checks["database"]; ok {
		t.Error("Static source should not report a database")
	}

	if err := container.Close(); err != nil {
		t.Errorf("Failed to close container: %v", err)
	}
}

func TestNewContainer_SQLite(t *testing.T) {
	cfg := testConfig()
	cfg.Institutions.Source = config.InstitutionSourceSQLite
	cfg.Database = config.DatabaseConfig{
		ConnectionString: filepath.Join(t.TempDir(), "institutions.db"),
		MaxOpenConns:     1,
		MaxIdleConns:     1,
	}

	container, err := NewContainerWithLogger(cfg, quietLogger())
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}
	defer container.Close()

	lookup, err := container.Institutions.Lookup(context.Background(), 46)
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if lookup.Location != nil || len(lookup.Institutions) != 0 {
		t.Errorf("Expected an empty lookup from a fresh database, got %+v", lookup)
	}

	checks, healthy := container.HealthCheck(context.Background())
	if !healthy || checks["database"] != StatusOK {
		t.Errorf("Expected a healthy database, got %v", checks)
	}
}

func TestNewContainer_RedisDegradesGracefully(t *testing.T) {
	cfg := testConfig()
	cfg.Redis = config.RedisConfig{
		URL:      "redis://127.0.0.1:1/0?dial_timeout=50ms&read_timeout=50ms&max_retries=-1",
		CacheTTL: time.Minute,
	}

	container, err := NewContainerWithLogger(cfg, quietLogger())
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}
	defer container.Close()

	req := &models.RequestMSG{RequestID: "1", SourceSystem: 46, SessionID: "s1", Query: "json"}
	if _, err := container.CardService.Classify(context.Background(), req); err != nil {
		t.Fatalf("Classify() should fall through to the static source: %v", err)
	}

	checks, healthy := container.HealthCheck(context.Background())
	if !healthy || checks["cache"] != StatusDegraded {
		t.Errorf("Expected a degraded cache on a healthy container, got %v", checks)
	}
}

func TestNewContainer_Invalid(t *testing.T) {
	if _, err := NewContainerWithLogger(nil, quietLogger()); err == nil {
		t.Error("Expected an error for a nil configuration")
	}

	cfg := testConfig()
	cfg.Redis.URL = "not-a-redis-url"
	if _, err := NewContainerWithLogger(cfg, quietLogger()); err == nil {
		t.Error("Expected an error for an invalid redis URL")
	}

	cfg = testConfig()
	cfg.Institutions.Source = "postgres"
	if _, err := NewContainerWithLogger(cfg, quietLogger()); err == nil {
		t.Error("Expected an error for an unknown institution source")
	}
}
