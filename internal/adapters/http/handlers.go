// Package http contains the echo handlers that make up the API surface.
// Handlers bind and validate requests, delegate to the application services
// and let the central error handler translate the error taxonomy to statuses.
package http

import (
	"github.com/harmonysync/backend/internal/domain/entities"
)

// MessageResponse is the envelope for mutation acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
}

// TaskResponse pairs an acknowledgement with the affected task.
type TaskResponse struct {
	Message string         `json:"message"`
	Task    *entities.Task `json:"task"`
}

// AuthCheckResponse reports whether the session holds a credential.
type AuthCheckResponse struct {
	Authenticated bool `json:"authenticated"`
}

// CompletedCountResponse carries the completed-task counter.
type CompletedCountResponse struct {
	CompletedTasksCount int `json:"completed_tasks_count"`
}

// createTaskRequest is the POST /api/tasks body. The "due" key carries the
// calendar date and "time" the clock time, matching the original wire format.
type createTaskRequest struct {
	Title  string `json:"title" validate:"required"`
	Due    string `json:"due" validate:"omitempty,datetime=2006-01-02"`
	Time   string `json:"time" validate:"omitempty,datetime=15:04"`
	ListID string `json:"list_id" validate:"required"`
}

// updateTaskRequest is the PUT /api/tasks/:id body; any subset of the fields
// may be present and only present fields are applied.
type updateTaskRequest struct {
	Title  *string `json:"title"`
	Due    *string `json:"due"`
	Time   *string `json:"time"`
	Status *string `json:"status"`
}
