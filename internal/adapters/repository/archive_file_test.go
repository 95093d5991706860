package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonysync/backend/internal/domain/entities"
)

func archivedTask(id string, at time.Time) entities.ArchivedTask {
	return entities.ArchivedTask{
		Task: entities.Task{
			ID:        id,
			Title:     "Task " + id,
			Status:    entities.TaskStatusCompleted,
			ListID:    "list-1",
			CreatedAt: at,
			UpdatedAt: at,
		},
		ArchivedAt: at,
	}
}

func TestFileArchiveStoreEmptyLog(t *testing.T) {
	store, err := NewFileArchiveStore(t.TempDir())
	require.NoError(t, err)

	records, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestFileArchiveStoreAppend(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileArchiveStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Date(2025, 2, 3, 3, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, []entities.ArchivedTask{archivedTask("a", now)}))
	require.NoError(t, store.Append(ctx, []entities.ArchivedTask{
		archivedTask("b", now.Add(time.Hour)),
		archivedTask("c", now.Add(2*time.Hour)),
	}))

	records, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Oldest first, later appends after earlier ones.
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, "c", records[2].ID)
	assert.True(t, now.Equal(records[0].ArchivedAt))
}

func TestFileArchiveStoreAppendNothing(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileArchiveStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Append(context.Background(), nil))

	// An empty append must not create the log file.
	_, err = os.Stat(filepath.Join(dir, archiveFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestFileArchiveStoreCorruptLog(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileArchiveStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, archiveFileName), []byte("{broken"), 0o644))

	_, err = store.ReadAll(context.Background())
	require.Error(t, err)
	assert.True(t, entities.IsStore(err))
}
