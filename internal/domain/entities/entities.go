package entities

import (
	"strings"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// IsValid reports whether the status is one of the known values.
func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusPending, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// Task represents a single to-do item scoped to a task list.
//
// DueDate ("2006-01-02") and DueTime ("15:04") are the raw civil components
// the client supplied; Due is the resolved instant in the application's fixed
// timezone. The three fields only ever change together.
type Task struct {
	ID        string     `json:"id" db:"id" bson:"id"`
	Title     string     `json:"title" db:"title" bson:"title"`
	DueDate   *string    `json:"due_date,omitempty" db:"due_date" bson:"due_date,omitempty"`
	DueTime   *string    `json:"due_time,omitempty" db:"due_time" bson:"due_time,omitempty"`
	Due       *time.Time `json:"due,omitempty" db:"due" bson:"due,omitempty"`
	Status    TaskStatus `json:"status" db:"status" bson:"status"`
	ListID    string     `json:"list_id" db:"list_id" bson:"list_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

// IsCompleted reports whether the task has been marked done.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// HasDue reports whether a resolved due instant is set.
func (t *Task) HasDue() bool {
	return t.Due != nil
}

// SetDue replaces the due-triplet as a unit. The components and the resolved
// instant must come from the same resolution pass.
func (t *Task) SetDue(dueDate, dueTime *string, due *time.Time) {
	t.DueDate = dueDate
	t.DueTime = dueTime
	t.Due = due
}

// Validate checks the invariants a task must hold before persistence.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title must not be empty")
	}
	if t.ListID == "" {
		return NewValidationError("list_id is required")
	}
	if !t.Status.IsValid() {
		return NewValidationError("invalid status: " + string(t.Status))
	}
	if t.Due == nil && (t.DueDate != nil || t.DueTime != nil) {
		return NewValidationError("due components present without resolved due")
	}
	return nil
}

// TaskList groups tasks under a title.
type TaskList struct {
	ID    string `json:"id" db:"id" bson:"id"`
	Title string `json:"title" db:"title" bson:"title"`
}

// ArchivedTask is a frozen copy of a task taken when it aged out of the live
// store. It is appended to the archive log and never mutated afterwards.
type ArchivedTask struct {
	Task       `bson:",inline"`
	ArchivedAt time.Time `json:"archived_at" db:"archived_at" bson:"archived_at"`
}

// Archive freezes the task into an archive record.
func (t *Task) Archive(at time.Time) ArchivedTask {
	return ArchivedTask{Task: *t, ArchivedAt: at}
}
