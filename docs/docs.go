// Package docs registers the OpenAPI document served at /swagger/doc.json
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/classifier_endpoint": {
            "post": {
                "description": "Validates a request envelope and returns the card selected by its query",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["classifier"],
                "summary": "Build a response card",
                "parameters": [
                    {
                        "description": "Request envelope",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.RequestMSG"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ResponseMSG"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthCheck"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.HealthCheck"}}
                }
            }
        }
    },
    "definitions": {
        "models.RequestMSG": {
            "type": "object",
            "required": ["request_id", "source_system", "session_id", "query"],
            "properties": {
                "request_id": {"type": "string"},
                "source_system": {"type": "integer", "example": 46},
                "session_id": {"type": "string"},
                "query": {"type": "string", "enum": ["text", "options", "json"]}
            }
        },
        "models.ResponseMSG": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "source_system": {"type": "integer"},
                "session_id": {"type": "string"},
                "next_agent": {"type": "string"},
                "card_type": {"type": "string", "enum": ["text", "options", "json"]},
                "card_sub_type": {"type": "string"},
                "text_card": {"$ref": "#/definitions/models.TextCard"},
                "options_card": {"$ref": "#/definitions/models.OptionsCard"},
                "json_card": {"$ref": "#/definitions/models.JSONCard"}
            }
        },
        "models.TextCard": {
            "type": "object",
            "properties": {"txt": {"type": "string"}}
        },
        "models.OptionsCard": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.JSONCard": {
            "type": "object",
            "properties": {
                "txt": {"type": "string"},
                "card_list": {"$ref": "#/definitions/models.CardList"},
                "location_longitude": {"type": "number"},
                "location_latitude": {"type": "number"}
            }
        },
        "models.CardList": {
            "type": "object",
            "properties": {
                "total_pages": {"type": "integer"},
                "current_page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "json_content": {"type": "string"}
            }
        },
        "models.ValidationError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "tag": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.HealthCheck": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "service": {"type": "string"},
                "version": {"type": "string"},
                "deployment_mode": {"type": "string"},
                "timestamp": {"type": "string"},
                "checks": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/models.ValidationError"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Card Classifier API",
	Description:      "Returns typed response cards (text, options or json) for front-end renderers",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
