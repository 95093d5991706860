package ports

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/harmonysync/backend/internal/domain/entities"
)

// TaskRepository is the single contract over all task backing stores
// (relational, document, or the remote Google Tasks service). Callers never
// see which implementation is behind it; the backend is picked by
// configuration.
type TaskRepository interface {
	// List returns all tasks in the given list.
	List(ctx context.Context, listID string) ([]*entities.Task, error)
	// Get returns the task with the given id or NotFoundError.
	Get(ctx context.Context, id string) (*entities.Task, error)
	// Create persists a new task. The caller has already assigned the id.
	Create(ctx context.Context, task *entities.Task) error
	// Update replaces the stored task or returns NotFoundError.
	Update(ctx context.Context, task *entities.Task) error
	// Delete removes the task or returns NotFoundError.
	Delete(ctx context.Context, id string) error

	// ListCompletedBefore returns completed tasks last updated strictly
	// before cutoff. Used by the archival sweeper.
	ListCompletedBefore(ctx context.Context, cutoff time.Time) ([]*entities.Task, error)
	// DeleteByIDs removes exactly the given identifier set. Missing ids are
	// ignored so the operation stays idempotent.
	DeleteByIDs(ctx context.Context, ids []string) error
	// CountCompleted returns the number of completed tasks across all lists.
	CountCompleted(ctx context.Context) (int, error)
}

// TaskListRepository manages task lists.
type TaskListRepository interface {
	List(ctx context.Context) ([]*entities.TaskList, error)
	Create(ctx context.Context, list *entities.TaskList) error
	// GetByTitle returns the list with the given title or NotFoundError.
	// Seeding uses it for its upsert-if-missing check.
	GetByTitle(ctx context.Context, title string) (*entities.TaskList, error)
}

// ArchiveStore is the append-only log completed tasks age into.
type ArchiveStore interface {
	// Append adds records to the log, creating it if absent.
	Append(ctx context.Context, records []entities.ArchivedTask) error
	// ReadAll returns every record in the log, oldest first.
	ReadAll(ctx context.Context) ([]entities.ArchivedTask, error)
}

// CredentialStore holds OAuth tokens keyed by an opaque session key.
//
// Load returns (nil, false, nil) both when no credential exists and when the
// stored representation fails to parse; in the latter case the corrupt record
// is discarded so the user is forced back through the OAuth flow. Parse
// failures are never surfaced as errors.
type CredentialStore interface {
	Load(ctx context.Context, key string) (*oauth2.Token, bool, error)
	Save(ctx context.Context, key string, token *oauth2.Token) error
	Clear(ctx context.Context, key string) error
}

// CreateTaskInput carries the fields accepted when creating a task.
type CreateTaskInput struct {
	Title   string
	DueDate string
	DueTime string
	ListID  string
}

// UpdateTaskInput carries a partial update; nil fields are left untouched.
// DueDate and DueTime are applied together as one resolution pass.
type UpdateTaskInput struct {
	Title   *string
	DueDate *string
	DueTime *string
	Status  *string
}

// HasDueChange reports whether the update touches the due-triplet.
func (in UpdateTaskInput) HasDueChange() bool {
	return in.DueDate != nil || in.DueTime != nil
}
