package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonysync/backend/internal/application/services"
	"github.com/harmonysync/backend/internal/domain/entities"
	"github.com/harmonysync/backend/internal/infrastructure/logger"
	"github.com/harmonysync/backend/internal/timeutil"
)

// memTaskRepo is a minimal in-memory TaskRepository for handler tests.
type memTaskRepo struct {
	tasks map[string]*entities.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]*entities.Task)}
}

func (r *memTaskRepo) List(_ context.Context, listID string) ([]*entities.Task, error) {
	var out []*entities.Task
	for _, task := range r.tasks {
		if task.ListID == listID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *memTaskRepo) Get(_ context.Context, id string) (*entities.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, entities.NewNotFoundError("task", id)
	}
	return task, nil
}

func (r *memTaskRepo) Create(_ context.Context, task *entities.Task) error {
	r.tasks[task.ID] = task
	return nil
}

func (r *memTaskRepo) Update(_ context.Context, task *entities.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return entities.NewNotFoundError("task", task.ID)
	}
	r.tasks[task.ID] = task
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return entities.NewNotFoundError("task", id)
	}
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) ListCompletedBefore(_ context.Context, cutoff time.Time) ([]*entities.Task, error) {
	return nil, nil
}

func (r *memTaskRepo) DeleteByIDs(_ context.Context, ids []string) error {
	for _, id := range ids {
		delete(r.tasks, id)
	}
	return nil
}

func (r *memTaskRepo) CountCompleted(_ context.Context) (int, error) {
	count := 0
	for _, task := range r.tasks {
		if task.IsCompleted() {
			count++
		}
	}
	return count, nil
}

// memListRepo is a minimal in-memory TaskListRepository for handler tests.
type memListRepo struct {
	lists []*entities.TaskList
}

func (r *memListRepo) List(_ context.Context) ([]*entities.TaskList, error) {
	return r.lists, nil
}

func (r *memListRepo) Create(_ context.Context, list *entities.TaskList) error {
	r.lists = append(r.lists, list)
	return nil
}

func (r *memListRepo) GetByTitle(_ context.Context, title string) (*entities.TaskList, error) {
	for _, list := range r.lists {
		if list.Title == title {
			return list, nil
		}
	}
	return nil, entities.NewNotFoundError("tasklist", title)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestHandler(t *testing.T) (*TaskHandler, *memTaskRepo, *echo.Echo) {
	t.Helper()

	loc, err := timeutil.LoadZone(timeutil.DefaultZone)
	require.NoError(t, err)

	repo := newMemTaskRepo()
	svc := services.NewTaskService(repo, &memListRepo{}, loc, logger.NewNop())

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	return NewTaskHandler(svc, logger.NewNop()), repo, e
}

func TestCreateTaskHandler(t *testing.T) {
	handler, repo, e := newTestHandler(t)

	body := `{"title":"Buy groceries","due":"2025-02-03","time":"12:00","list_id":"list-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.CreateTask(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Task created successfully", resp.Message)
	require.NotNil(t, resp.Task)
	assert.Equal(t, "Buy groceries", resp.Task.Title)
	assert.Equal(t, entities.TaskStatusPending, resp.Task.Status)

	assert.Len(t, repo.tasks, 1)
}

func TestCreateTaskHandlerValidation(t *testing.T) {
	handler, _, e := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"list_id":"list-1"}`},
		{name: "missing list id", body: `{"title":"Task"}`},
		{name: "bad due format", body: `{"title":"Task","list_id":"list-1","due":"03.02.2025"}`},
		{name: "bad time format", body: `{"title":"Task","list_id":"list-1","time":"noon"}`},
		{name: "not json", body: `title=Task`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler.CreateTask(c)
			require.Error(t, err)
			assert.True(t, entities.IsValidation(err))
		})
	}
}

func TestListTasksHandler(t *testing.T) {
	handler, _, e := newTestHandler(t)

	t.Run("missing list id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.ListTasks(c)
		require.Error(t, err)
		assert.True(t, entities.IsValidation(err))
	})

	t.Run("empty list serializes as array", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks?list_id=list-1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler.ListTasks(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})
}

func TestUpdateTaskHandler(t *testing.T) {
	handler, repo, e := newTestHandler(t)

	repo.tasks["task-1"] = &entities.Task{
		ID:     "task-1",
		Title:  "Write report",
		Status: entities.TaskStatusPending,
		ListID: "list-1",
	}

	body := `{"status":"completed"}`
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/task-1", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("task-1")

	require.NoError(t, handler.UpdateTask(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Task updated successfully", resp.Message)
	require.NotNil(t, resp.Task)
	assert.Equal(t, entities.TaskStatusCompleted, resp.Task.Status)
	assert.Equal(t, "Write report", resp.Task.Title)
}

func TestUpdateTaskHandlerNotFound(t *testing.T) {
	handler, _, e := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/ghost", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	err := handler.UpdateTask(c)
	require.Error(t, err)
	assert.True(t, entities.IsNotFound(err))
}

func TestDeleteTaskHandler(t *testing.T) {
	handler, repo, e := newTestHandler(t)

	repo.tasks["task-1"] = &entities.Task{
		ID:     "task-1",
		Title:  "Write report",
		Status: entities.TaskStatusPending,
		ListID: "list-1",
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/tasks/task-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("task-1")

	require.NoError(t, handler.DeleteTask(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	// Deleting the same task again is a 404.
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("task-1")

	err := handler.DeleteTask(c)
	require.Error(t, err)
	assert.True(t, entities.IsNotFound(err))
}

func TestCompletedCountHandler(t *testing.T) {
	handler, repo, e := newTestHandler(t)

	repo.tasks["a"] = &entities.Task{ID: "a", Title: "A", Status: entities.TaskStatusCompleted, ListID: "l"}
	repo.tasks["b"] = &entities.Task{ID: "b", Title: "B", Status: entities.TaskStatusPending, ListID: "l"}

	req := httptest.NewRequest(http.MethodGet, "/api/completed_tasks_count", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.CompletedCount(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp CompletedCountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.CompletedTasksCount)
}
