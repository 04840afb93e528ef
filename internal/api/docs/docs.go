// Package docs registers the OpenAPI description of the ops HTTP surface with
// swag so that echo-swagger can serve it under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "process is alive"}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe; pings MongoDB and Redis when configured",
                "responses": {
                    "200": {"description": "all dependencies answered", "schema": {"$ref": "#/definitions/readiness"}},
                    "503": {"description": "at least one dependency is down", "schema": {"$ref": "#/definitions/readiness"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["metrics"],
                "summary": "Prometheus exposition",
                "responses": {
                    "200": {"description": "metrics in text format"}
                }
            }
        }
    },
    "definitions": {
        "dependency": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "error": {"type": "string"}
            }
        },
        "readiness": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "degraded"},
                "dependencies": {
                    "type": "object",
                    "additionalProperties": {"$ref": "#/definitions/dependency"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Storefront accounts ops API",
	Description:      "Health and metrics endpoints of the identity and account services.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
