package google

import (
	"context"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/harmonysync/backend/internal/domain/entities"
)

// Google Tasks status values.
const (
	remoteStatusPending   = "needsAction"
	remoteStatusCompleted = "completed"
)

// TasksClient wraps the Google Tasks service for one authenticated user.
type TasksClient struct {
	svc *tasks.Service
	loc *time.Location
}

// NewTasksClient creates a Tasks client using the given token source.
func NewTasksClient(ctx context.Context, ts oauth2.TokenSource, loc *time.Location) (*TasksClient, error) {
	svc, err := tasks.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, entities.NewUpstreamError("create tasks service", err)
	}

	return &TasksClient{svc: svc, loc: loc}, nil
}

// ListTaskLists returns all remote task lists.
func (c *TasksClient) ListTaskLists(ctx context.Context) ([]*entities.TaskList, error) {
	result, err := c.svc.Tasklists.List().Context(ctx).Do()
	if err != nil {
		return nil, entities.NewUpstreamError("list tasklists", err)
	}

	lists := make([]*entities.TaskList, 0, len(result.Items))
	for _, tl := range result.Items {
		lists = append(lists, &entities.TaskList{ID: tl.Id, Title: tl.Title})
	}

	return lists, nil
}

// CreateTaskList creates a remote task list.
func (c *TasksClient) CreateTaskList(ctx context.Context, title string) (*entities.TaskList, error) {
	created, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, entities.NewUpstreamError("create tasklist", err)
	}

	return &entities.TaskList{ID: created.Id, Title: created.Title}, nil
}

// ListTasks returns the tasks of one remote list, completed ones included.
func (c *TasksClient) ListTasks(ctx context.Context, listID string) ([]*entities.Task, error) {
	result, err := c.svc.Tasks.List(listID).ShowCompleted(true).ShowHidden(true).Context(ctx).Do()
	if err != nil {
		return nil, entities.NewUpstreamError("list tasks", err)
	}

	out := make([]*entities.Task, 0, len(result.Items))
	for _, t := range result.Items {
		out = append(out, c.toEntity(t, listID))
	}

	return out, nil
}

// InsertTask creates a task in a remote list and returns the stored copy.
func (c *TasksClient) InsertTask(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	created, err := c.svc.Tasks.Insert(task.ListID, c.fromEntity(task)).Context(ctx).Do()
	if err != nil {
		return nil, entities.NewUpstreamError("insert task", err)
	}

	return c.toEntity(created, task.ListID), nil
}

// UpdateTask replaces a remote task.
func (c *TasksClient) UpdateTask(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	updated, err := c.svc.Tasks.Update(task.ListID, task.ID, c.fromEntity(task)).Context(ctx).Do()
	if err != nil {
		return nil, entities.NewUpstreamError("update task", err)
	}

	return c.toEntity(updated, task.ListID), nil
}

// DeleteTask removes a remote task.
func (c *TasksClient) DeleteTask(ctx context.Context, listID, taskID string) error {
	if err := c.svc.Tasks.Delete(listID, taskID).Context(ctx).Do(); err != nil {
		return entities.NewUpstreamError("delete task", err)
	}
	return nil
}

func (c *TasksClient) toEntity(t *tasks.Task, listID string) *entities.Task {
	if t == nil {
		return &entities.Task{ListID: listID}
	}

	task := &entities.Task{
		ID:     t.Id,
		Title:  t.Title,
		Status: entities.TaskStatusPending,
		ListID: listID,
	}
	if t.Status == remoteStatusCompleted {
		task.Status = entities.TaskStatusCompleted
	}

	if t.Due != "" {
		if due, err := time.Parse(time.RFC3339, t.Due); err == nil {
			local := due.In(c.loc)
			task.Due = &local
		}
	}

	if t.Updated != "" {
		if updated, err := time.Parse(time.RFC3339, t.Updated); err == nil {
			task.UpdatedAt = updated.In(c.loc)
			task.CreatedAt = task.UpdatedAt
		}
	}

	return task
}

func (c *TasksClient) fromEntity(task *entities.Task) *tasks.Task {
	remote := &tasks.Task{
		Id:     task.ID,
		Title:  task.Title,
		Status: remoteStatusPending,
	}
	if task.Status == entities.TaskStatusCompleted {
		remote.Status = remoteStatusCompleted
	}
	if task.Due != nil {
		remote.Due = task.Due.UTC().Format(time.RFC3339)
	}

	return remote
}
