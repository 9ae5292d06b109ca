package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Class Routine API",
        "description": "Weekly class routine management with conflict-aware placement",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Batches", "description": "Batch grid management"},
        {"name": "Routine", "description": "Grid cell placement and deletion"},
        {"name": "Teachers", "description": "Teacher roster management"}
    ],
    "paths": {
        "/batches": {
            "get": {
                "tags": ["Batches"],
                "summary": "List batches",
                "parameters": [
                    {"name": "year", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Batches"],
                "summary": "Create batch with empty grids",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBatchRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batches/{id}": {
            "get": {
                "tags": ["Batches"],
                "summary": "Get batch",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Batches"],
                "summary": "Update batch name/color",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Batches"],
                "summary": "Delete batch and its whole grid",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/batches/{id}/cells": {
            "put": {
                "tags": ["Routine"],
                "summary": "Place course entries into a cell",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CellEditRequest"}}
                ],
                "responses": {
                    "200": {"description": "Committed or recorded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Teacher double-booked across sections"},
                    "422": {"description": "Validation violations"}
                }
            },
            "delete": {
                "tags": ["Routine"],
                "summary": "Clear a cell (whole block when targeting a sessional start)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CellDeleteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Create teacher",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTeacherRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{id}": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Teachers"],
                "summary": "Update teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTeacherRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Teachers"],
                "summary": "Delete teacher (no schedule cascade)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "CourseAssignment": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "teachers": {"type": "array", "items": {"type": "string"}},
                "rooms": {"type": "array", "items": {"type": "string"}},
                "isSessional": {"type": "boolean"},
                "startPeriod": {"type": "integer"}
            }
        },
        "ConflictRecord": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "teachers": {"type": "array", "items": {"type": "string"}},
                "rooms": {"type": "array", "items": {"type": "string"}},
                "sections": {"type": "array", "items": {"type": "string"}},
                "originalPeriod": {"type": "integer"}
            }
        },
        "Batch": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "year": {"type": "string"},
                "semester": {"type": "string"},
                "name": {"type": "string"},
                "color": {"type": "string"},
                "schedule": {"type": "object"},
                "conflicts": {"type": "object"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "Teacher": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "full_name": {"type": "string"},
                "short_name": {"type": "string"},
                "designation": {"type": "string"},
                "department": {"type": "string"},
                "university": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "CreateBatchRequest": {
            "type": "object",
            "properties": {
                "year": {"type": "string", "enum": ["1st", "2nd", "3rd", "4th"]},
                "semester": {"type": "string", "enum": ["Odd", "Even"]},
                "name": {"type": "string"},
                "color": {"type": "string"}
            },
            "required": ["year", "semester", "name"]
        },
        "UpdateBatchRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string"}
            },
            "required": ["name"]
        },
        "CourseEntryRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "teachers": {"type": "array", "items": {"type": "string"}},
                "rooms": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["code", "teachers", "rooms"]
        },
        "CellEditRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "string", "enum": ["sat", "sun", "mon", "tue", "wed"]},
                "section": {"type": "string", "enum": ["A", "B", "C"]},
                "period": {"type": "integer", "minimum": 1, "maximum": 9},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseEntryRequest"}},
                "occupied_rooms": {"type": "object"}
            },
            "required": ["day", "section", "period", "courses"]
        },
        "CellDeleteRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "section": {"type": "string"},
                "period": {"type": "integer"}
            },
            "required": ["day", "section", "period"]
        },
        "CreateTeacherRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "short_name": {"type": "string"},
                "designation": {"type": "string"},
                "department": {"type": "string"},
                "university": {"type": "string"}
            },
            "required": ["full_name", "short_name", "designation", "department", "university"]
        },
        "UpdateTeacherRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "short_name": {"type": "string"},
                "designation": {"type": "string"},
                "department": {"type": "string"},
                "university": {"type": "string"}
            },
            "required": ["full_name", "short_name", "designation", "department", "university"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
