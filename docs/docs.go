package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Reply Draft API",
    "description": "Drafts personalized customer-support replies from a template library and a generative text provider",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/healthz": {
      "get": {"tags": ["health"], "summary": "Health check", "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}, "503": {"description": "Database unavailable"}}}
    },
    "/api/responses/generate": {
      "post": {"tags": ["responses"], "summary": "Generate a draft reply", "consumes": ["application/json"], "produces": ["application/json"],
        "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/GenerateRequest"}}],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/GeneratedResponse"}}, "400": {"description": "Invalid request"}, "503": {"description": "Draft unavailable"}}}
    },
    "/api/responses/batch": {
      "post": {"tags": ["responses"], "summary": "Generate drafts in parallel", "consumes": ["application/json"], "produces": ["application/json"],
        "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"type": "object", "properties": {"items": {"type": "array", "maxItems": 50, "items": {"$ref": "#/definitions/GenerateRequest"}}}}}],
        "responses": {"200": {"description": "Per-item results"}, "400": {"description": "Invalid request"}}}
    },
    "/api/responses/score": {
      "post": {"tags": ["responses"], "summary": "Score a reply", "consumes": ["application/json"], "produces": ["application/json"],
        "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"type": "object", "required": ["content"], "properties": {"content": {"type": "string"}, "ticket": {"$ref": "#/definitions/TicketContext"}, "personalization": {"type": "object"}}}}],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseQualityMetrics"}}, "400": {"description": "Invalid request"}}}
    },
    "/api/templates": {
      "get": {"tags": ["templates"], "summary": "List templates", "produces": ["application/json"],
        "parameters": [{"in": "query", "name": "category", "type": "string", "enum": ["acknowledgment", "progress", "solution", "escalation", "custom"]}],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Unknown category"}}},
      "post": {"tags": ["templates"], "summary": "Add a template", "consumes": ["application/json"], "produces": ["application/json"],
        "parameters": [{"in": "header", "name": "X-Admin-Key", "type": "string"}, {"in": "body", "name": "template", "required": true, "schema": {"type": "object"}}],
        "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid template"}, "401": {"description": "Invalid admin key"}}}
    },
    "/api/templates/{id}/outcome": {
      "post": {"tags": ["templates"], "summary": "Record a template outcome", "consumes": ["application/json"], "produces": ["application/json"],
        "parameters": [{"in": "header", "name": "X-Admin-Key", "type": "string"}, {"in": "path", "name": "id", "required": true, "type": "string"},
          {"in": "body", "name": "request", "required": true, "schema": {"type": "object", "required": ["success"], "properties": {"success": {"type": "boolean"}}}}],
        "responses": {"200": {"description": "Updated template"}, "404": {"description": "Template not found"}}}
    },
    "/api/debug/selection": {
      "post": {"tags": ["debug"], "summary": "Debug template selection", "consumes": ["application/json"], "produces": ["application/json"],
        "parameters": [{"in": "header", "name": "X-Admin-Key", "type": "string"}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/GenerateRequest"}}],
        "responses": {"200": {"description": "Per-candidate score breakdown"}}}
    }
  },
  "definitions": {
    "TicketContext": {"type": "object", "required": ["id"], "properties": {
      "id": {"type": "string"}, "title": {"type": "string"}, "category": {"type": "string"}, "priority": {"type": "string"},
      "type": {"type": "string"}, "description": {"type": "string"}, "symptoms": {"type": "array", "items": {"type": "string"}},
      "urgency": {"type": "string"}, "impact": {"type": "string"}, "previous_attempts": {"type": "integer"}}},
    "GenerateRequest": {"type": "object", "required": ["ticket", "response_type"], "properties": {
      "ticket": {"$ref": "#/definitions/TicketContext"}, "personalization": {"type": "object"},
      "response_type": {"type": "string", "enum": ["acknowledgment", "progress", "solution", "escalation", "custom"]},
      "with_quality": {"type": "boolean"}}},
    "ResponseQualityMetrics": {"type": "object", "properties": {
      "clarity": {"type": "integer"}, "empathy": {"type": "integer"}, "technical_accuracy": {"type": "integer"},
      "completeness": {"type": "integer"}, "appropriateness": {"type": "integer"}, "overall_score": {"type": "integer"}}},
    "GeneratedResponse": {"type": "object", "properties": {
      "id": {"type": "string"}, "ticket_id": {"type": "string"}, "content": {"type": "string"}, "tone": {"type": "string"},
      "confidence": {"type": "integer"}, "template_used": {"type": "string"}, "variables": {"type": "object", "additionalProperties": {"type": "string"}},
      "personalization_level": {"type": "integer"}, "estimated_read_time": {"type": "integer"}, "language": {"type": "string"},
      "suggestions": {"type": "array", "items": {"type": "object"}}, "created_at": {"type": "string", "format": "date-time"},
      "quality": {"$ref": "#/definitions/ResponseQualityMetrics"}}}
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
