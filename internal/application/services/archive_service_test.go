package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonysync/backend/internal/domain/entities"
	"github.com/harmonysync/backend/internal/infrastructure/logger"
)

// fakeArchiveStore records appended batches in memory.
type fakeArchiveStore struct {
	mu        sync.Mutex
	records   []entities.ArchivedTask
	appendErr error
}

func (s *fakeArchiveStore) Append(_ context.Context, records []entities.ArchivedTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appendErr != nil {
		return s.appendErr
	}
	s.records = append(s.records, records...)
	return nil
}

func (s *fakeArchiveStore) ReadAll(_ context.Context) ([]entities.ArchivedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.ArchivedTask, len(s.records))
	copy(out, s.records)
	return out, nil
}

func seedTask(repo *fakeTaskRepo, id string, status entities.TaskStatus, updatedAt time.Time) {
	repo.tasks[id] = &entities.Task{
		ID:        id,
		Title:     "Task " + id,
		Status:    status,
		ListID:    "list-1",
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
}

func TestSweepNow(t *testing.T) {
	repo := newFakeTaskRepo()
	archive := &fakeArchiveStore{}

	now := time.Date(2025, 2, 3, 3, 0, 0, 0, time.UTC)
	retention := 30 * 24 * time.Hour

	// Completed 31 days ago: swept. Completed 29 days ago and pending from
	// 40 days ago: kept.
	seedTask(repo, "old-done", entities.TaskStatusCompleted, now.Add(-31*24*time.Hour))
	seedTask(repo, "fresh-done", entities.TaskStatusCompleted, now.Add(-29*24*time.Hour))
	seedTask(repo, "old-pending", entities.TaskStatusPending, now.Add(-40*24*time.Hour))

	svc := NewArchiveService(repo, archive, retention, time.Hour, logger.NewNop()).
		WithClock(func() time.Time { return now })

	archived, err := svc.SweepNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, archived)

	records, err := archive.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "old-done", records[0].ID)
	assert.Equal(t, entities.TaskStatusCompleted, records[0].Status)
	assert.True(t, now.Equal(records[0].ArchivedAt))

	_, err = repo.Get(context.Background(), "old-done")
	assert.True(t, entities.IsNotFound(err))

	_, err = repo.Get(context.Background(), "fresh-done")
	assert.NoError(t, err)
	_, err = repo.Get(context.Background(), "old-pending")
	assert.NoError(t, err)
}

func TestSweepNowEmpty(t *testing.T) {
	repo := newFakeTaskRepo()
	archive := &fakeArchiveStore{}

	svc := NewArchiveService(repo, archive, 30*24*time.Hour, time.Hour, logger.NewNop())

	archived, err := svc.SweepNow(context.Background())
	require.NoError(t, err)
	assert.Zero(t, archived)

	records, err := archive.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSweepNowAppendFailureKeepsTasks(t *testing.T) {
	repo := newFakeTaskRepo()
	archive := &fakeArchiveStore{appendErr: errors.New("disk full")}

	now := time.Now()
	seedTask(repo, "old-done", entities.TaskStatusCompleted, now.Add(-31*24*time.Hour))

	svc := NewArchiveService(repo, archive, 30*24*time.Hour, time.Hour, logger.NewNop()).
		WithClock(func() time.Time { return now })

	_, err := svc.SweepNow(context.Background())
	require.Error(t, err)

	// The task must survive a failed append; deletion only follows a
	// successful archive write.
	_, err = repo.Get(context.Background(), "old-done")
	assert.NoError(t, err)
}

func TestSweepNowListFailure(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.listErr = errors.New("connection reset")

	svc := NewArchiveService(repo, &fakeArchiveStore{}, 30*24*time.Hour, time.Hour, logger.NewNop())

	_, err := svc.SweepNow(context.Background())
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewArchiveService(repo, &fakeArchiveStore{}, 30*24*time.Hour, time.Hour, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}

func TestRunSurvivesSweepErrors(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.listErr = errors.New("connection reset")

	svc := NewArchiveService(repo, &fakeArchiveStore{}, 30*24*time.Hour, 10*time.Millisecond, logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	// Several failing ticks must pass without the loop exiting early.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after deadline")
	}
}

func TestCollectors(t *testing.T) {
	svc := NewArchiveService(newFakeTaskRepo(), &fakeArchiveStore{}, time.Hour, time.Hour, logger.NewNop())
	assert.Len(t, svc.Collectors(), 3)
}
