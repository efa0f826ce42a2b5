package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"obitcheck/internal/logging"
)

// State is the durable progress record for one input file.
type State struct {
	LastProcessedIndex int       `json:"last_processed_index"`
	Timestamp          time.Time `json:"timestamp"`
	FilePath           string    `json:"file_path"`
	TotalFound         int       `json:"total_found"`
	TotalProcessed     int       `json:"total_processed"`
	Completed          bool      `json:"completed,omitempty"`
	LastError          string    `json:"error,omitempty"`
}

// Snapshot pairs a checkpoint key with its stored state.
type Snapshot struct {
	Key   string
	State State
}

const fileSuffix = "_progress.json"

// Store reads and writes progress documents under a single state directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// first save.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "checkpoint"),
	}
}

// KeyFor derives the checkpoint key from an input file path: the basename
// without its extension. Runs on different inputs therefore never collide.
func KeyFor(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Path returns the on-disk location of the progress document for key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+fileSuffix)
}

// Load returns the stored state for key, or a zero state when none exists or
// the stored document is unreadable. It never fails the caller.
func (s *Store) Load(key string) State {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("checkpoint unreadable, starting fresh",
				logging.String(logging.FieldInputKey, key),
				logging.Error(err))
		}
		return State{}
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("checkpoint corrupt, starting fresh",
			logging.String(logging.FieldInputKey, key),
			logging.Error(err))
		return State{}
	}
	return state
}

// Save atomically overwrites the progress document for key. A crash mid-save
// leaves either the previous document or the new one, never a torn write.
func (s *Store) Save(key string, state State) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("ensure state directory: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	path := s.Path(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace checkpoint: %w", err)
	}
	return nil
}

// Clear removes the progress document for key. Clearing a key that has no
// checkpoint is not an error.
func (s *Store) Clear(key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	return nil
}

// List returns all stored checkpoints sorted by key.
func (s *Store) List() ([]Snapshot, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+fileSuffix))
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	snapshots := make([]Snapshot, 0, len(matches))
	for _, match := range matches {
		key := strings.TrimSuffix(filepath.Base(match), fileSuffix)
		snapshots = append(snapshots, Snapshot{Key: key, State: s.Load(key)})
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Key < snapshots[j].Key })
	return snapshots, nil
}
