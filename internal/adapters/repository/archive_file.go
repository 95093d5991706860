package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harmonysync/backend/internal/domain/entities"
	"github.com/harmonysync/backend/internal/ports"
)

const archiveFileName = "archived_tasks.json"

// FileArchiveStore keeps the archive as one JSON array file under the archive
// directory. Records are only ever appended.
type FileArchiveStore struct {
	path string
}

// NewFileArchiveStore creates the archive directory if needed and returns a
// store writing to the single archive log inside it.
func NewFileArchiveStore(dir string) (ports.ArchiveStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &FileArchiveStore{path: filepath.Join(dir, archiveFileName)}, nil
}

func (s *FileArchiveStore) ReadAll(ctx context.Context) ([]entities.ArchivedTask, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, entities.NewStoreError("read archive log", err)
	}

	var records []entities.ArchivedTask
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, entities.NewStoreError("decode archive log", err)
	}

	return records, nil
}

func (s *FileArchiveStore) Append(ctx context.Context, records []entities.ArchivedTask) error {
	if len(records) == 0 {
		return nil
	}

	existing, err := s.ReadAll(ctx)
	if err != nil {
		return err
	}

	combined := append(existing, records...)
	data, err := json.MarshalIndent(combined, "", "  ")
	if err != nil {
		return entities.NewStoreError("encode archive log", err)
	}

	// Write through a temp file so a crash mid-write cannot truncate the log.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return entities.NewStoreError("write archive log", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return entities.NewStoreError("replace archive log", err)
	}

	return nil
}
