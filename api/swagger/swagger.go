package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EduControl API",
        "description": "Discipline reports and outstanding service hours for prefects, orientation staff and students",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Login and session"},
        {"name": "Students", "description": "Student lookups and report buckets"},
        {"name": "Reports", "description": "Report creation and hour updates"},
        {"name": "Orientation", "description": "Hours board and exports"}
    ],
    "paths": {
        "/health": {"get": {"summary": "Liveness check", "responses": {"200": {"description": "OK"}}}},
        "/ready": {"get": {"summary": "Database, cache and schema check", "responses": {"200": {"description": "Ready"}, "503": {"description": "Unavailable"}}}},
        "/metrics": {"get": {"summary": "Prometheus metrics", "produces": ["text/plain"], "responses": {"200": {"description": "Metrics"}}}},
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in with a username or matricula",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "Token and landing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Inactive account", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/auth/me": {
            "get": {"tags": ["Auth"], "summary": "Current session", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/students": {
            "get": {
                "tags": ["Students"],
                "summary": "Students with active report counts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "grado", "type": "string"},
                    {"in": "query", "name": "grupo", "type": "string"},
                    {"in": "query", "name": "q", "type": "string"}
                ],
                "responses": {"200": {"description": "Students", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/students/{matricula}": {
            "get": {
                "tags": ["Students"],
                "summary": "Student profile",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "matricula", "type": "string", "required": true}],
                "responses": {"200": {"description": "Profile"}, "403": {"description": "Not your matricula"}, "404": {"description": "Unknown student"}}
            }
        },
        "/api/v1/students/{matricula}/reports": {
            "get": {
                "tags": ["Students"],
                "summary": "Outstanding and completed reports of a student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "matricula", "type": "string", "required": true}],
                "responses": {"200": {"description": "Profile and reports"}, "404": {"description": "Unknown student"}}
            }
        },
        "/api/v1/groups": {
            "get": {"tags": ["Students"], "summary": "Group catalog", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Groups"}}}
        },
        "/api/v1/orientation/totals": {
            "get": {
                "tags": ["Orientation"],
                "summary": "Per-student active report totals",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "grado", "type": "string"},
                    {"in": "query", "name": "grupo", "type": "string"},
                    {"in": "query", "name": "q", "type": "string"}
                ],
                "responses": {"200": {"description": "Rows and summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/orientation/totals/export": {
            "get": {
                "tags": ["Orientation"],
                "summary": "Download the hours board",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf", "xlsx"]}],
                "responses": {"200": {"description": "File"}, "400": {"description": "Unsupported format"}}
            }
        },
        "/api/v1/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Apply a report to a student",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateReportRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "404": {"description": "Unknown student"}}
            }
        },
        "/api/v1/reports/actions": {
            "post": {
                "tags": ["Reports"],
                "summary": "Legacy form endpoint (action=update_report)",
                "consumes": ["application/x-www-form-urlencoded"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "formData", "name": "action", "type": "string", "required": true},
                    {"in": "formData", "name": "id", "type": "string", "required": true},
                    {"in": "formData", "name": "horas", "type": "integer", "required": true},
                    {"in": "formData", "name": "nota", "type": "string"}
                ],
                "responses": {"200": {"description": "Updated"}, "400": {"description": "Validation error"}}
            }
        },
        "/api/v1/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report detail",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Report"}, "404": {"description": "Unknown report"}}
            },
            "put": {
                "tags": ["Reports"],
                "summary": "Change the outstanding hours of a report",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpdateHoursRequest"}}
                ],
                "responses": {"200": {"description": "Previous and new hours"}, "400": {"description": "Validation error"}, "404": {"description": "Unknown report"}}
            }
        },
        "/api/v1/reports/{id}/history": {
            "get": {
                "tags": ["Reports"],
                "summary": "Hour change history",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "History entries"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["usuario", "password"],
            "properties": {"usuario": {"type": "string"}, "password": {"type": "string"}}
        },
        "CreateReportRequest": {
            "type": "object",
            "required": ["tipo"],
            "properties": {
                "alumno_id": {"type": "integer"},
                "matricula": {"type": "string"},
                "tipo": {"type": "string"},
                "descripcion": {"type": "string"},
                "horas": {"type": "integer", "minimum": 0}
            }
        },
        "UpdateHoursRequest": {
            "type": "object",
            "required": ["horas"],
            "properties": {
                "horas": {"type": "integer", "minimum": 0},
                "descripcion": {"type": "string"},
                "nota": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
