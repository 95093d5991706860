package repository

import (
	"context"
	"errors"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/harmonysync/backend/internal/domain/entities"
	"github.com/harmonysync/backend/internal/google"
	"github.com/harmonysync/backend/internal/ports"
)

// TasksClientProvider builds a Google Tasks client for the request's session.
// The provider fails with AuthError when the session has no credential.
type TasksClientProvider func(ctx context.Context) (*google.TasksClient, error)

// GoogleTasksRepository implements ports.TaskRepository against the remote
// Google Tasks service. The remote API scopes every task operation by list,
// so id-only operations scan the user's lists first.
type GoogleTasksRepository struct {
	clients TasksClientProvider
}

// NewGoogleTasksRepository creates a remote task repository
func NewGoogleTasksRepository(clients TasksClientProvider) ports.TaskRepository {
	return &GoogleTasksRepository{clients: clients}
}

func (r *GoogleTasksRepository) List(ctx context.Context, listID string) ([]*entities.Task, error) {
	client, err := r.clients(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := client.ListTasks(ctx, listID)
	if err != nil {
		if isRemoteNotFound(err) {
			return nil, entities.NewNotFoundError("tasklist", listID)
		}
		return nil, err
	}

	return tasks, nil
}

func (r *GoogleTasksRepository) Get(ctx context.Context, id string) (*entities.Task, error) {
	client, err := r.clients(ctx)
	if err != nil {
		return nil, err
	}

	task, _, err := findRemoteTask(ctx, client, id)
	return task, err
}

func (r *GoogleTasksRepository) Create(ctx context.Context, task *entities.Task) error {
	client, err := r.clients(ctx)
	if err != nil {
		return err
	}

	created, err := client.InsertTask(ctx, task)
	if err != nil {
		if isRemoteNotFound(err) {
			return entities.NewNotFoundError("tasklist", task.ListID)
		}
		return err
	}

	// The remote service owns identifier assignment.
	task.ID = created.ID
	return nil
}

func (r *GoogleTasksRepository) Update(ctx context.Context, task *entities.Task) error {
	client, err := r.clients(ctx)
	if err != nil {
		return err
	}

	if _, err := client.UpdateTask(ctx, task); err != nil {
		if isRemoteNotFound(err) {
			return entities.NewNotFoundError("task", task.ID)
		}
		return err
	}

	return nil
}

func (r *GoogleTasksRepository) Delete(ctx context.Context, id string) error {
	client, err := r.clients(ctx)
	if err != nil {
		return err
	}

	_, listID, err := findRemoteTask(ctx, client, id)
	if err != nil {
		return err
	}

	if err := client.DeleteTask(ctx, listID, id); err != nil {
		if isRemoteNotFound(err) {
			return entities.NewNotFoundError("task", id)
		}
		return err
	}

	return nil
}

func (r *GoogleTasksRepository) ListCompletedBefore(ctx context.Context, cutoff time.Time) ([]*entities.Task, error) {
	client, err := r.clients(ctx)
	if err != nil {
		return nil, err
	}

	var out []*entities.Task
	if err := eachRemoteTask(ctx, client, func(task *entities.Task) {
		if task.IsCompleted() && task.UpdatedAt.Before(cutoff) {
			out = append(out, task)
		}
	}); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *GoogleTasksRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	client, err := r.clients(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		_, listID, err := findRemoteTask(ctx, client, id)
		if err != nil {
			if entities.IsNotFound(err) {
				continue // already gone, idempotent
			}
			return err
		}
		if err := client.DeleteTask(ctx, listID, id); err != nil && !isRemoteNotFound(err) {
			return err
		}
	}

	return nil
}

func (r *GoogleTasksRepository) CountCompleted(ctx context.Context) (int, error) {
	client, err := r.clients(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	if err := eachRemoteTask(ctx, client, func(task *entities.Task) {
		if task.IsCompleted() {
			count++
		}
	}); err != nil {
		return 0, err
	}

	return count, nil
}

// GoogleTaskListRepository implements ports.TaskListRepository against the
// remote Google Tasks service.
type GoogleTaskListRepository struct {
	clients TasksClientProvider
}

// NewGoogleTaskListRepository creates a remote task list repository
func NewGoogleTaskListRepository(clients TasksClientProvider) ports.TaskListRepository {
	return &GoogleTaskListRepository{clients: clients}
}

func (r *GoogleTaskListRepository) List(ctx context.Context) ([]*entities.TaskList, error) {
	client, err := r.clients(ctx)
	if err != nil {
		return nil, err
	}

	return client.ListTaskLists(ctx)
}

func (r *GoogleTaskListRepository) Create(ctx context.Context, list *entities.TaskList) error {
	client, err := r.clients(ctx)
	if err != nil {
		return err
	}

	created, err := client.CreateTaskList(ctx, list.Title)
	if err != nil {
		return err
	}

	list.ID = created.ID
	return nil
}

func (r *GoogleTaskListRepository) GetByTitle(ctx context.Context, title string) (*entities.TaskList, error) {
	client, err := r.clients(ctx)
	if err != nil {
		return nil, err
	}

	lists, err := client.ListTaskLists(ctx)
	if err != nil {
		return nil, err
	}

	for _, list := range lists {
		if list.Title == title {
			return list, nil
		}
	}

	return nil, entities.NewNotFoundError("tasklist", title)
}

func findRemoteTask(ctx context.Context, client *google.TasksClient, id string) (*entities.Task, string, error) {
	lists, err := client.ListTaskLists(ctx)
	if err != nil {
		return nil, "", err
	}

	for _, list := range lists {
		tasks, err := client.ListTasks(ctx, list.ID)
		if err != nil {
			return nil, "", err
		}
		for _, task := range tasks {
			if task.ID == id {
				return task, list.ID, nil
			}
		}
	}

	return nil, "", entities.NewNotFoundError("task", id)
}

func eachRemoteTask(ctx context.Context, client *google.TasksClient, fn func(*entities.Task)) error {
	lists, err := client.ListTaskLists(ctx)
	if err != nil {
		return err
	}

	for _, list := range lists {
		tasks, err := client.ListTasks(ctx, list.ID)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			fn(task)
		}
	}

	return nil
}

func isRemoteNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}
