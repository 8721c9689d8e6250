// Package docs Journey Planner API.
//
// Оркестратор поиска маршрутов: разрешает места отправления и назначения,
// считает фоллбэки до остановок, опрашивает planner backend по каждой паре
// режимов и обогащает поездки live-данными внешних провайдеров.
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
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/regions/{region}/journeys": {
            "get": {
                "produces": ["application/json"],
                "tags": ["journeys"],
                "summary": "Plan journeys",
                "parameters": [
                    {"type": "string", "description": "Region", "name": "region", "in": "path", "required": true},
                    {"type": "string", "description": "Origin URI or lon;lat", "name": "from", "in": "query", "required": true},
                    {"type": "string", "description": "Destination URI or lon;lat, empty for isochrone", "name": "to", "in": "query"},
                    {"type": "string", "description": "YYYYMMDDThhmmss", "name": "datetime", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Fallback modes at the origin", "name": "first_section_mode", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Fallback modes at the destination", "name": "last_section_mode", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/api/v1/regions/{region}/departures": {
            "get": {
                "produces": ["application/json"],
                "tags": ["departures"],
                "summary": "Next departures at a stop",
                "parameters": [
                    {"type": "string", "description": "Region", "name": "region", "in": "path", "required": true},
                    {"type": "string", "description": "Stop point URI", "name": "stop", "in": "query", "required": true},
                    {"type": "string", "description": "Line URI", "name": "line", "in": "query"},
                    {"type": "integer", "description": "Max departures", "name": "count", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/providers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["providers"],
                "summary": "List live-data providers",
                "parameters": [
                    {"type": "string", "description": "bss, car_park, ridesharing, equipment or realtime", "name": "kind", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Journey Planner API",
	Description:      "Journey planning orchestration over planner backends and live-data providers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
