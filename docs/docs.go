// Package docs registers the API document served at /swagger/doc.json
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
        "/api/submit_diagnosis": {
            "post": {
                "description": "Stores the survey answers and returns the report address",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Submit a diagnosis",
                "parameters": [
                    {
                        "description": "identity, SWOT and q-<dimension>-<n> scores",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/submitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/relatorio/{ref}": {
            "get": {
                "produces": ["text/html"],
                "summary": "Render a diagnosis report",
                "parameters": [
                    {"type": "string", "description": "report reference", "name": "ref", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "HTML page"},
                    "404": {"description": "HTML page"},
                    "500": {"description": "HTML page"},
                    "503": {"description": "HTML page"}
                }
            }
        },
        "/api/schedule_meeting": {
            "post": {
                "produces": ["application/json"],
                "summary": "Disabled meeting booking",
                "responses": {
                    "410": {"description": "Gone", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/webhook/cal": {
            "post": {
                "produces": ["application/json"],
                "summary": "Disabled booking webhook",
                "responses": {
                    "410": {"description": "Gone", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "submitResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "success"},
                "report_url": {"type": "string"}
            }
        },
        "errorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"}
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
	Title:            "Descontamina Diagnosis API",
	Description:      "Organizational culture diagnosis: survey submission and report rendering",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
