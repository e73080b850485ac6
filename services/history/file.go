package history

import (
	"encoding/json"
	"os"

	"cruisescanner/logger"
	"cruisescanner/pkg/errors"
)

// FileStore persists the identity set as a JSON array in a single file.
// The file is the sole durable state of the scanner; it is written by one
// process at a time (concurrent runs are out of scope, no locking).
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed history store
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the history file. A missing or unparseable file is treated as
// an empty history and logged, never returned as an error.
func (f *FileStore) Load() *Set {
	log := logger.ForHistory()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", f.path).Msg("Failed to read history file, starting empty")
		}
		return NewSet()
	}

	set := NewSet()
	if err := json.Unmarshal(data, set); err != nil {
		log.Warn().Err(err).Str("path", f.path).Msg("Corrupt history file, starting empty")
		return NewSet()
	}
	return set
}

// Save writes the full identity set back to the history file.
func (f *FileStore) Save(set *Set) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return errors.NewHistory("file", "failed to encode history", err)
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return errors.NewHistory("file", "failed to write history file", err)
	}
	return nil
}
