package json

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mfilipek/codechat"
)

// Interface compliance check.
var _ codechat.Store = (*FileStore)(nil)

// FileStore is a [codechat.Store] backed by a single JSON file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore creates a FileStore persisting to path. A nil logger falls
// back to slog.Default().
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Load reads the history file. A missing file is an empty history; an
// unparseable file degrades to an empty history and is logged, never
// returned as an error.
func (s *FileStore) Load(ctx context.Context) ([]codechat.Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	sessions, err := UnmarshalHistory(data)
	if err != nil {
		s.logger.Warn("history file is corrupt, starting empty",
			"path", s.path, "error", err)
		return nil, nil
	}
	return sessions, nil
}

// Save rewrites the history file atomically (temp file + rename), creating
// parent directories as needed.
func (s *FileStore) Save(ctx context.Context, sessions []codechat.Session) error {
	data, err := MarshalHistory(sessions)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
