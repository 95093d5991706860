package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "HarmonySync API Documentation",
        "title": "HarmonySync API",
        "version": "1.0"
    },
    "host": "localhost:5000",
    "basePath": "/",
    "schemes": ["http"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/login": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Start Google Login",
                "description": "Redirects the browser to the Google authorization page",
                "responses": {
                    "302": {
                        "description": "Redirect to Google"
                    }
                }
            }
        },
        "/api/auth/check": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Check Session",
                "description": "Reports whether the session holds a Google credential",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Authenticated"
                    },
                    "401": {
                        "description": "Not authenticated"
                    }
                }
            }
        },
        "/api/calendar/events": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Upcoming Events",
                "description": "Primary calendar events for the next 30 days, times in the configured zone",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "List of events"
                    },
                    "401": {
                        "description": "Not authenticated"
                    }
                }
            }
        },
        "/api/tasklists": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List Task Lists",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "List of task lists"
                    }
                }
            }
        },
        "/api/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List Tasks",
                "description": "Tasks of the list named by the list_id query parameter",
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "query",
                        "name": "list_id",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "List of tasks"
                    },
                    "400": {
                        "description": "Missing list_id"
                    }
                }
            },
            "post": {
                "tags": ["Tasks"],
                "summary": "Create Task",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "task",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "title": {
                                    "type": "string",
                                    "example": "Buy groceries"
                                },
                                "due": {
                                    "type": "string",
                                    "example": "2025-02-03"
                                },
                                "time": {
                                    "type": "string",
                                    "example": "12:00"
                                },
                                "list_id": {
                                    "type": "string"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Task created"
                    },
                    "400": {
                        "description": "Invalid input"
                    }
                }
            }
        },
        "/api/tasks/{id}": {
            "put": {
                "tags": ["Tasks"],
                "summary": "Update Task",
                "description": "Applies the present fields only",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Task updated"
                    },
                    "404": {
                        "description": "Task not found"
                    }
                }
            },
            "delete": {
                "tags": ["Tasks"],
                "summary": "Delete Task",
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Task deleted"
                    },
                    "404": {
                        "description": "Task not found"
                    }
                }
            }
        },
        "/api/completed_tasks_count": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Completed Task Count",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Counter of completed tasks"
                    }
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "HarmonySync API",
	Description:      "HarmonySync API Documentation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
