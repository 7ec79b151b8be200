// Package history provides local conversation history storage.
package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	apierrors "github.com/hardy/onion/internal/errors"
)

// CurrentVersion is the schema version of the persisted history file.
const CurrentVersion = 1

// DefaultLimit caps retained entries; the oldest are evicted beyond it.
const DefaultLimit = 200

const historyFileName = "history.json"

// Entry is one persisted prompt/response exchange. Entries are immutable
// after creation. The JSON field names match the original web client's
// localStorage records.
type Entry struct {
	ID       int64  `json:"id"`
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
	FileName string `json:"fileName,omitempty"`
}

// envelope is the versioned on-disk record.
type envelope struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// Store manages the ordered, most-recent-first exchange history in a single
// JSON file. A Store has one writer (the conversation pane); other readers
// observe changes through the Watcher or the bus.
type Store struct {
	path  string
	limit int
	mu    sync.Mutex
}

// NewStore creates a store persisting under dir. limit <= 0 uses
// DefaultLimit.
func NewStore(dir string, limit int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, apierrors.NewStorageError("mkdir", err)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		path:  filepath.Join(dir, historyFileName),
		limit: limit,
	}, nil
}

// DefaultStore creates a store in the default config directory.
func DefaultStore(limit int) (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, apierrors.NewStorageError("home", err)
	}
	return NewStore(filepath.Join(home, ".onion"), limit)
}

// Path returns the location of the underlying history file.
func (s *Store) Path() string {
	return s.path
}

// Append creates a new entry for a completed exchange and prepends it, so
// the store stays most-recent-first. IDs are time-derived and strictly
// increasing within the store; they are never reused.
func (s *Store) Append(prompt, response, fileName string) (Entry, error) {
	if strings.TrimSpace(prompt) == "" {
		return Entry{}, apierrors.NewInputError("prompt must be a non-empty string")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		// Corrupt or unreadable store: start over rather than lose the
		// new exchange.
		entries = nil
	}

	id := time.Now().UnixMilli()
	if len(entries) > 0 && id <= entries[0].ID {
		id = entries[0].ID + 1
	}

	entry := Entry{
		ID:       id,
		Prompt:   prompt,
		Response: response,
		FileName: fileName,
	}

	entries = append([]Entry{entry}, entries...)
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}

	if err := s.save(entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns all entries, most-recent-first.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return apierrors.NewStorageError("clear", err)
	}
	return nil
}

// load reads and validates the history file. A missing file is an empty
// store; a malformed one is a storage error the caller may treat as empty.
func (s *Store) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apierrors.NewStorageError("read", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	// Legacy layout: a bare JSON array, as written by the original web
	// client. Coerced on load, rewritten versioned on next append.
	if trimmed[0] == '[' {
		var entries []Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, apierrors.NewStorageError("parse", err)
		}
		return validEntries(entries), nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, apierrors.NewStorageError("parse", err)
	}
	if env.Version != CurrentVersion {
		return nil, apierrors.NewStorageError("parse",
			fmt.Errorf("unknown history version %d", env.Version))
	}
	return validEntries(env.Entries), nil
}

// validEntries drops records that lost required fields, keeping order.
func validEntries(entries []Entry) []Entry {
	valid := entries[:0]
	for _, e := range entries {
		if e.ID == 0 || strings.TrimSpace(e.Prompt) == "" {
			continue
		}
		valid = append(valid, e)
	}
	return valid
}

func (s *Store) save(entries []Entry) error {
	env := envelope{
		Version: CurrentVersion,
		Entries: entries,
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return apierrors.NewStorageError("marshal", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return apierrors.NewStorageError("write", err)
	}
	return nil
}
