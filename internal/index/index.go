// Package index caches document embeddings keyed by vault path, so
// repeated searches only re-embed documents that changed on disk.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Entry is one cached embedding and the document mtime it was
// computed at. The mtime decides reuse: equal means fresh, anything
// else means stale.
type Entry struct {
	Embedding []float64 `json:"embedding"`
	Mtime     int64     `json:"mtime"`
}

// Index is the embedding cache. It persists as a single JSON file.
// Concurrent executions sharing the file can overwrite each other's
// flush; last writer wins.
type Index struct {
	path string

	mu      sync.Mutex
	entries map[string]Entry
}

// New returns an empty Index that will persist to path.
func New(path string) *Index {
	return &Index{path: path, entries: make(map[string]Entry)}
}

// Load reads the index at path. A missing file yields an empty index.
func Load(path string) (*Index, error) {
	idx := New(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}
	if err := json.Unmarshal(data, &idx.entries); err != nil {
		return nil, fmt.Errorf("parsing index: %w", err)
	}
	return idx, nil
}

// Save writes the index to its file, creating parent directories as
// needed.
func (i *Index) Save() error {
	i.mu.Lock()
	data, err := json.MarshalIndent(i.entries, "", "  ")
	i.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	if dir := filepath.Dir(i.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("saving index: %w", err)
		}
	}
	if err := os.WriteFile(i.path, data, 0o644); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}
	return nil
}

// Get returns the entry for path, if cached.
func (i *Index) Get(path string) (Entry, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	e, ok := i.entries[path]
	return e, ok
}

// Put stores the entry for path.
func (i *Index) Put(path string, e Entry) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries[path] = e
}

// Delete removes the entry for path.
func (i *Index) Delete(path string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.entries, path)
}

// Len returns the number of cached entries.
func (i *Index) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.entries)
}

// Paths returns the cached paths, sorted.
func (i *Index) Paths() []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	paths := make([]string, 0, len(i.entries))
	for p := range i.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Clear drops every entry.
func (i *Index) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = make(map[string]Entry)
}
