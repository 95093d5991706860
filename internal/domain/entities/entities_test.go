package entities

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskValidate(t *testing.T) {
	due := time.Now()
	date := "2025-02-03"

	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{
			name: "valid minimal task",
			task: Task{Title: "Task", Status: TaskStatusPending, ListID: "list-1"},
		},
		{
			name: "valid task with due",
			task: Task{Title: "Task", Status: TaskStatusCompleted, ListID: "list-1", DueDate: &date, Due: &due},
		},
		{
			name:    "blank title",
			task:    Task{Title: "  ", Status: TaskStatusPending, ListID: "list-1"},
			wantErr: true,
		},
		{
			name:    "missing list",
			task:    Task{Title: "Task", Status: TaskStatusPending},
			wantErr: true,
		},
		{
			name:    "unknown status",
			task:    Task{Title: "Task", Status: "done", ListID: "list-1"},
			wantErr: true,
		},
		{
			name:    "due component without resolved instant",
			task:    Task{Title: "Task", Status: TaskStatusPending, ListID: "list-1", DueDate: &date},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskArchive(t *testing.T) {
	task := Task{ID: "task-1", Title: "Task", Status: TaskStatusCompleted, ListID: "list-1"}
	at := time.Date(2025, 2, 3, 3, 0, 0, 0, time.UTC)

	record := task.Archive(at)

	assert.Equal(t, "task-1", record.ID)
	assert.True(t, at.Equal(record.ArchivedAt))

	// The record is a copy, not an alias.
	task.Title = "mutated"
	assert.Equal(t, "Task", record.Title)
}

func TestErrorTaxonomy(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", NewNotFoundError("task", "t-1"))

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "validation", err: NewValidationError("bad"), check: IsValidation},
		{name: "not found", err: NewNotFoundError("task", "t-1"), check: IsNotFound},
		{name: "wrapped not found", err: wrapped, check: IsNotFound},
		{name: "auth", err: NewAuthError("nope"), check: IsAuth},
		{name: "upstream", err: NewUpstreamError("call", fmt.Errorf("boom")), check: IsUpstream},
		{name: "store", err: NewStoreError("insert", fmt.Errorf("boom")), check: IsStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.False(t, tt.check(fmt.Errorf("unrelated")))
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, TaskStatusPending.IsValid())
	assert.True(t, TaskStatusCompleted.IsValid())
	assert.False(t, TaskStatus("done").IsValid())
	assert.False(t, TaskStatus("").IsValid())
}
