// Package docs registers the OpenAPI document of the service with swag
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/test-db": {
            "get": {
                "description": "Returns every registered spam number, ordered by id",
                "produces": ["application/json"],
                "tags": ["Spam Numbers"],
                "summary": "List spam numbers",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.SpamNumberDTO"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/verificar-numero": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Decisions"],
                "summary": "Verify number",
                "parameters": [
                    {"type": "string", "description": "Phone number", "name": "numero", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Flagged number", "schema": {"$ref": "#/definitions/dto.SpamVerdictResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/agregar-numero": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Spam Numbers"],
                "summary": "Register spam number",
                "parameters": [
                    {"description": "Number to flag", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterSpamNumberRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RegisterSpamNumberResponse"}},
                    "400": {"description": "Number already registered", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/eliminar-numero": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["Spam Numbers"],
                "summary": "Unregister spam number",
                "parameters": [
                    {"type": "string", "description": "Phone number", "name": "numero", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/registrar-evento": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Call Events"],
                "summary": "Record call event",
                "parameters": [
                    {"description": "Call event", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RecordCallEventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/issabel-hook": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Decisions"],
                "summary": "PBX routing decision",
                "parameters": [
                    {"type": "string", "description": "Caller number", "name": "numero", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RouteDecisionResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/exportar-numeros": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv"],
                "tags": ["Spam Numbers"],
                "summary": "Export spam numbers",
                "parameters": [
                    {"type": "string", "description": "xlsx (default) or csv", "name": "formato", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "detail": {"type": "string"},
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}}
        },
        "dto.MessageResponse": {
            "type": "object",
            "properties": {"mensaje": {"type": "string"}}
        },
        "dto.RegisterSpamNumberRequest": {
            "type": "object",
            "required": ["numero"],
            "properties": {
                "nota": {"type": "string"},
                "numero": {"type": "string", "maxLength": 32},
                "quienagrego": {"type": "string", "maxLength": 100}
            }
        },
        "dto.RegisterSpamNumberResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "mensaje": {"type": "string"}
            }
        },
        "dto.SpamNumberDTO": {
            "type": "object",
            "properties": {
                "fecharegistro": {"type": "string"},
                "id": {"type": "integer"},
                "nota": {"type": "string"},
                "numero": {"type": "string"},
                "quienagrego": {"type": "string"}
            }
        },
        "dto.SpamVerdictResponse": {
            "type": "object",
            "properties": {
                "es_spam": {"type": "boolean"},
                "fecha_registro": {"type": "string"},
                "nota": {"type": "string"},
                "numero": {"type": "string"},
                "quien_agrego": {"type": "string"}
            }
        },
        "dto.CleanVerdictResponse": {
            "type": "object",
            "properties": {
                "es_spam": {"type": "boolean"},
                "numero": {"type": "string"}
            }
        },
        "dto.RecordCallEventRequest": {
            "type": "object",
            "required": ["fuente", "numero", "tipoevento"],
            "properties": {
                "detalles": {"type": "object"},
                "fuente": {"type": "string", "maxLength": 64},
                "numero": {"type": "string", "maxLength": 32},
                "tipoevento": {"type": "string", "maxLength": 32}
            }
        },
        "dto.RouteDecisionResponse": {
            "type": "object",
            "properties": {
                "a_numero_virtual": {"type": "string"},
                "accion": {"type": "string"},
                "motivo": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Spam Guard API",
	Description:      "Lookup and registration service for phone numbers flagged as spam callers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
