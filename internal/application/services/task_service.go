package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harmonysync/backend/internal/domain/entities"
	"github.com/harmonysync/backend/internal/infrastructure/logger"
	"github.com/harmonysync/backend/internal/ports"
	"github.com/harmonysync/backend/internal/timeutil"
)

// Titles of the two lists seeded at startup.
var defaultListTitles = []string{"Мои задачи", "💸"}

// TaskService handles task and task list operations over whichever backing
// store was configured.
type TaskService struct {
	taskRepo ports.TaskRepository
	listRepo ports.TaskListRepository
	logger   *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, listRepo ports.TaskListRepository, loc *time.Location, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		listRepo: listRepo,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Tests use it to pin "today".
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// ListTasks returns the tasks of one list.
func (s *TaskService) ListTasks(ctx context.Context, listID string) ([]*entities.Task, error) {
	if listID == "" {
		return nil, entities.NewValidationError("missing list_id parameter")
	}

	tasks, err := s.taskRepo.List(ctx, listID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*entities.Task{}
	}

	return tasks, nil
}

// CreateTask creates a new task. The id and pending status are always
// assigned here, never taken from the client.
func (s *TaskService) CreateTask(ctx context.Context, in ports.CreateTaskInput) (*entities.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, entities.NewValidationError("missing title parameter")
	}
	if in.ListID == "" {
		return nil, entities.NewValidationError("missing list_id parameter")
	}

	now := s.now()
	due, err := timeutil.ResolveDue(in.DueDate, in.DueTime, now, s.loc)
	if err != nil {
		return nil, err
	}

	task := &entities.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    entities.TaskStatusPending,
		ListID:    in.ListID,
		CreatedAt: now.In(s.loc),
		UpdatedAt: now.In(s.loc),
	}
	task.SetDue(optional(in.DueDate), optional(in.DueTime), due)

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Infow("Task created", "task_id", task.ID, "list_id", task.ListID)
	return task, nil
}

// UpdateTask applies a partial update. Only fields present in the input
// change; the due-triplet is re-resolved as a unit whenever either component
// is supplied; updated_at is always refreshed.
func (s *TaskService) UpdateTask(ctx context.Context, id string, in ports.UpdateTaskInput) (*entities.Task, error) {
	task, err := s.taskRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, entities.NewValidationError("title must not be empty")
		}
		task.Title = title
	}

	if in.Status != nil {
		status := entities.TaskStatus(*in.Status)
		if !status.IsValid() {
			return nil, entities.NewValidationError("invalid status: " + *in.Status)
		}
		task.Status = status
	}

	if in.HasDueChange() {
		dueDate := stringValue(in.DueDate)
		dueTime := stringValue(in.DueTime)

		due, err := timeutil.ResolveDue(dueDate, dueTime, s.now(), s.loc)
		if err != nil {
			return nil, err
		}
		task.SetDue(optional(dueDate), optional(dueTime), due)
	}

	task.UpdatedAt = s.now().In(s.loc)

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Infow("Task updated", "task_id", task.ID)
	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Task deleted", "task_id", id)
	return nil
}

// ListTaskLists returns every task list.
func (s *TaskService) ListTaskLists(ctx context.Context) ([]*entities.TaskList, error) {
	lists, err := s.listRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []*entities.TaskList{}
	}

	return lists, nil
}

// CompletedCount returns the number of completed tasks across all lists.
func (s *TaskService) CompletedCount(ctx context.Context) (int, error) {
	return s.taskRepo.CountCompleted(ctx)
}

// SeedDefaultLists creates the well-known lists when they are absent.
// Safe to run on every startup.
func (s *TaskService) SeedDefaultLists(ctx context.Context) error {
	for _, title := range defaultListTitles {
		_, err := s.listRepo.GetByTitle(ctx, title)
		if err == nil {
			continue
		}
		if !entities.IsNotFound(err) {
			return err
		}

		list := &entities.TaskList{ID: uuid.New().String(), Title: title}
		if err := s.listRepo.Create(ctx, list); err != nil {
			return err
		}
		s.logger.Infow("Seeded task list", "title", title, "list_id", list.ID)
	}

	return nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
