package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/harmonysync/backend/internal/domain/entities"
	"github.com/harmonysync/backend/internal/ports"
)

// SQLTaskRepository implements ports.TaskRepository over a relational store.
// Queries are written with ? placeholders and rebound, so the same code runs
// against postgres and sqlite.
type SQLTaskRepository struct {
	db *sqlx.DB
}

// NewSQLTaskRepository creates a new relational task repository
func NewSQLTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &SQLTaskRepository{db: db}
}

func (r *SQLTaskRepository) List(ctx context.Context, listID string) ([]*entities.Task, error) {
	query := r.db.Rebind(`
		SELECT id, title, due_date, due_time, due, status, list_id, created_at, updated_at
		FROM tasks
		WHERE list_id = ?
		ORDER BY created_at`)

	var tasks []*entities.Task
	if err := r.db.SelectContext(ctx, &tasks, query, listID); err != nil {
		return nil, entities.NewStoreError("list tasks", err)
	}

	return tasks, nil
}

func (r *SQLTaskRepository) Get(ctx context.Context, id string) (*entities.Task, error) {
	query := r.db.Rebind(`
		SELECT id, title, due_date, due_time, due, status, list_id, created_at, updated_at
		FROM tasks
		WHERE id = ?`)

	var task entities.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.NewNotFoundError("task", id)
		}
		return nil, entities.NewStoreError("get task", err)
	}

	return &task, nil
}

func (r *SQLTaskRepository) Create(ctx context.Context, task *entities.Task) error {
	query := r.db.Rebind(`
		INSERT INTO tasks (id, title, due_date, due_time, due, status, list_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.DueDate, task.DueTime, task.Due,
		task.Status, task.ListID, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return entities.NewStoreError("create task", err)
	}

	return nil
}

func (r *SQLTaskRepository) Update(ctx context.Context, task *entities.Task) error {
	query := r.db.Rebind(`
		UPDATE tasks
		SET title = ?, due_date = ?, due_time = ?, due = ?, status = ?, updated_at = ?
		WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		task.Title, task.DueDate, task.DueTime, task.Due,
		task.Status, task.UpdatedAt, task.ID,
	)
	if err != nil {
		return entities.NewStoreError("update task", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return entities.NewStoreError("update task", err)
	}
	if rows == 0 {
		return entities.NewNotFoundError("task", task.ID)
	}

	return nil
}

func (r *SQLTaskRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM tasks WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return entities.NewStoreError("delete task", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return entities.NewStoreError("delete task", err)
	}
	if rows == 0 {
		return entities.NewNotFoundError("task", id)
	}

	return nil
}

func (r *SQLTaskRepository) ListCompletedBefore(ctx context.Context, cutoff time.Time) ([]*entities.Task, error) {
	query := r.db.Rebind(`
		SELECT id, title, due_date, due_time, due, status, list_id, created_at, updated_at
		FROM tasks
		WHERE status = ? AND updated_at < ?
		ORDER BY updated_at`)

	var tasks []*entities.Task
	if err := r.db.SelectContext(ctx, &tasks, query, entities.TaskStatusCompleted, cutoff); err != nil {
		return nil, entities.NewStoreError("list completed tasks", err)
	}

	return tasks, nil
}

func (r *SQLTaskRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM tasks WHERE id IN (?)`, ids)
	if err != nil {
		return entities.NewStoreError("delete tasks by ids", err)
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return entities.NewStoreError("delete tasks by ids", err)
	}

	return nil
}

func (r *SQLTaskRepository) CountCompleted(ctx context.Context) (int, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM tasks WHERE status = ?`)

	var count int
	if err := r.db.GetContext(ctx, &count, query, entities.TaskStatusCompleted); err != nil {
		return 0, entities.NewStoreError("count completed tasks", err)
	}

	return count, nil
}

// SQLTaskListRepository implements ports.TaskListRepository over a relational store.
type SQLTaskListRepository struct {
	db *sqlx.DB
}

// NewSQLTaskListRepository creates a new relational task list repository
func NewSQLTaskListRepository(db *sqlx.DB) ports.TaskListRepository {
	return &SQLTaskListRepository{db: db}
}

func (r *SQLTaskListRepository) List(ctx context.Context) ([]*entities.TaskList, error) {
	var lists []*entities.TaskList
	if err := r.db.SelectContext(ctx, &lists, `SELECT id, title FROM tasklists ORDER BY title`); err != nil {
		return nil, entities.NewStoreError("list tasklists", err)
	}

	return lists, nil
}

func (r *SQLTaskListRepository) Create(ctx context.Context, list *entities.TaskList) error {
	query := r.db.Rebind(`INSERT INTO tasklists (id, title) VALUES (?, ?)`)

	if _, err := r.db.ExecContext(ctx, query, list.ID, list.Title); err != nil {
		return entities.NewStoreError("create tasklist", err)
	}

	return nil
}

func (r *SQLTaskListRepository) GetByTitle(ctx context.Context, title string) (*entities.TaskList, error) {
	query := r.db.Rebind(`SELECT id, title FROM tasklists WHERE title = ?`)

	var list entities.TaskList
	if err := r.db.GetContext(ctx, &list, query, title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.NewNotFoundError("tasklist", title)
		}
		return nil, entities.NewStoreError("get tasklist by title", err)
	}

	return &list, nil
}
