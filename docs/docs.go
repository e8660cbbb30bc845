// Package docs registers the gateway's OpenAPI document with swag so that
// echo-swagger can serve it under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Current session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}
            }
        },
        "/session/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Register a new user",
                "parameters": [{"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/session/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Login",
                "parameters": [{"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/session/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Logout",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}
            }
        },
        "/session/profile": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Update cached profile",
                "parameters": [{"description": "Fields to merge", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.profilePatchRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/session/error": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Clear session error",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}
            }
        },
        "/session/menu": {
            "get": {
                "produces": ["application/json"],
                "tags": ["navigation"],
                "summary": "Navigation menu",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.menuResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/session/routes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["navigation"],
                "summary": "Route table",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.routesResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/navigate": {
            "get": {
                "produces": ["application/json"],
                "tags": ["navigation"],
                "summary": "Guard a destination",
                "parameters": [{"type": "string", "description": "Destination path", "name": "to", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Decision"}},
                    "202": {"description": "Session still resuming", "schema": {"$ref": "#/definitions/domain.Decision"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.Decision"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/domain.Decision"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.Decision"}}
                }
            }
        },
        "/health": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "definitions": {
        "domain.Decision": {
            "type": "object",
            "properties": {
                "outcome": {"type": "string", "enum": ["allow", "pending", "redirect_login", "redirect_unauthorized", "not_found"]},
                "destination": {"type": "string"},
                "redirect": {"type": "string"}
            }
        },
        "domain.NavigationItem": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "destination": {"type": "string"},
                "required_roles": {"type": "array", "items": {"type": "string"}},
                "children": {"type": "array", "items": {"$ref": "#/definitions/domain.NavigationItem"}}
            }
        },
        "domain.Route": {
            "type": "object",
            "properties": {
                "pattern": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "public": {"type": "boolean"}
            }
        },
        "domain.UserProfile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}}}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "redirect": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "role": {"type": "string"}
            }
        },
        "handler.profilePatchRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}}
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["unauthenticated", "resuming", "authenticated", "auth_error"]},
                "user": {"$ref": "#/definitions/domain.UserProfile"},
                "role": {"type": "string"},
                "error": {"type": "string"},
                "loading": {"type": "boolean"},
                "redirect": {"type": "string"},
                "token_expires_at": {"type": "string", "format": "date-time"}
            }
        },
        "handler.menuResponse": {
            "type": "object",
            "properties": {
                "role": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.NavigationItem"}}
            }
        },
        "handler.routesResponse": {
            "type": "object",
            "properties": {"routes": {"type": "array", "items": {"$ref": "#/definitions/domain.Route"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Back-office Gateway API",
	Description:      "Session, navigation and backend proxy surface of the real-estate back office.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
