package lambda

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"card-classifier-api/internal/config"

	"github.com/aws/aws-lambda-go/events"
)

func TestFromAPIGatewayProxyRequest(t *testing.T) {
	body := `{"request_id":"1","source_system":46,"session_id":"s1","query":"text"}`

	t.Run("Plain", func(t *testing.T) {
		event := events.APIGatewayProxyRequest{
			HTTPMethod: "POST",
			Path:       "/classifier_endpoint",
			Body:       body,
			Headers:    map[string]string{"Content-Type": "application/json"},
		}
		event.RequestContext.RequestID = "req-1"

		req, err := FromAPIGatewayProxyRequest(event)
		if err != nil {
			t.Fatalf("FromAPIGatewayProxyRequest() failed: %v", err)
		}
		if req.Method != "POST" || req.Path != "/classifier_endpoint" || string(req.Body) != body {
			t.Errorf("Unexpected request: %+v", req)
		}
		if req.RequestID != "req-1" {
			t.Errorf("Expected request ID req-1, got %q", req.RequestID)
		}
	})

	t.Run("Base64", func(t *testing.T) {
		event := events.APIGatewayProxyRequest{
			HTTPMethod:      "POST",
			Path:            "/classifier_endpoint",
			Body:            base64.StdEncoding.EncodeToString([]byte(body)),
			IsBase64Encoded: true,
		}

		req, err := FromAPIGatewayProxyRequest(event)
		if err != nil {
			t.Fatalf("FromAPIGatewayProxyRequest() failed: %v", err)
		}
		if string(req.Body) != body {
			t.Errorf("Expected decoded body, got %s", req.Body)
		}
	})

	t.Run("InvalidBase64", func(t *testing.T) {
		event := events.APIGatewayProxyRequest{Body: "%%%", IsBase64Encoded: true}
		if _, err := FromAPIGatewayProxyRequest(event); err == nil {
			t.Error("Expected an error for an invalid base64 body")
		}
	})
}

func TestResponseConversion(t *testing.T) {
	resp := JSONResponse(400, []byte(`{"error":"Invalid JSON format"}`)).ToAPIGatewayProxyResponse()

	if resp.StatusCode != 400 {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("Expected JSON content type, got %v", resp.Headers)
	}
	if resp.Body != `{"error":"Invalid JSON format"}` {
		t.Errorf("Unexpected body: %s", resp.Body)
	}
}

func TestConnectionManager(t *testing.T) {
	loads := 0
	cm := NewConnectionManager(func() (*config.Config, error) {
		loads++
		return &config.Config{
			Card:         config.CardConfig{NextAgent: "agent", PageSize: 10},
			Institutions: config.InstitutionConfig{Source: config.InstitutionSourceStatic},
			Log:          config.LogConfig{Level: "error", Format: "json"},
		}, nil
	})
	ctx := context.Background()

	first, err := cm.GetContainer(ctx)
	if err != nil {
		t.Fatalf("GetContainer() failed: %v", err)
	}
	second, err := cm.GetContainer(ctx)
	if err != nil {
		t.Fatalf("GetContainer() failed: %v", err)
	}
	if first != second {
		t.Error("Expected the container to be reused across invocations")
	}
	if loads != 1 || cm.Reuses() != 1 {
		t.Errorf("Expected 1 load and 1 reuse, got %d and %d", loads, cm.Reuses())
	}

	if err := cm.Shutdown(); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}
	if err := cm.Shutdown(); err != nil {
		t.Errorf("Second Shutdown() failed: %v", err)
	}

	third, err := cm.GetContainer(ctx)
	if err != nil {
		t.Fatalf("GetContainer() after shutdown failed: %v", err)
	}
	if third == first {
		t.Error("Expected a new container after shutdown")
	}
	if loads != 2 || cm.Reuses() != 0 {
		t.Errorf("Expected a second load and no reuses, got %d and %d", loads, cm.Reuses())
	}
	cm.Shutdown()
}

func TestConnectionManager_Errors(t *testing.T) {
	t.Run("ConfigError", func(t *testing.T) {
		cm := NewConnectionManager(func() (*config.Config, error) {
			return nil, errors.New("bad environment")
		})
		if _, err := cm.GetContainer(context.Background()); err == nil {
			t.Error("Expected the configuration error to be returned")
		}
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cm := NewConnectionManager(func() (*config.Config, error) {
			t.Error("Configuration should not load for a canceled context")
			return nil, nil
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := cm.GetContainer(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}
