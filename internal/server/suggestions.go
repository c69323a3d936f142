package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// SuggestionEntry is one piece of player feedback.
type SuggestionEntry struct {
	Name      string    `json:"name,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// SuggestionBox persists feedback as one JSON file per day under a
// directory. Low volume, human-readable, no database needed.
type SuggestionBox struct {
	dir string
	mu  sync.Mutex
}

// NewSuggestionBox creates the store, making the directory if needed.
func NewSuggestionBox(dir string) (*SuggestionBox, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create suggestions dir: %w", err)
	}
	return &SuggestionBox{dir: dir}, nil
}

// Add appends an entry to today's file.
func (b *SuggestionBox) Add(entry SuggestionEntry) error {
	entry.Message = strings.TrimSpace(entry.Message)
	if entry.Message == "" {
		return fmt.Errorf("empty suggestion")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	path := b.fileFor(entry.CreatedAt)
	entries, err := readEntries(path)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// List returns all stored entries, oldest first.
func (b *SuggestionBox) List() ([]SuggestionEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	paths, err := filepath.Glob(filepath.Join(b.dir, "suggestions-*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var all []SuggestionEntry
	for _, path := range paths {
		entries, err := readEntries(path)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	if all == nil {
		all = []SuggestionEntry{}
	}
	return all, nil
}

func (b *SuggestionBox) fileFor(t time.Time) string {
	return filepath.Join(b.dir, "suggestions-"+t.Format("2006-01-02")+".json")
}

func readEntries(path string) ([]SuggestionEntry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []SuggestionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("corrupt suggestions file %s: %w", path, err)
	}
	return entries, nil
}
