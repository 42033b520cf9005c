// Package runner orchestrates single flow executions: autorun
// registration, run-history recording, the executor itself, lastRun
// stamping and failure logging.
package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// registryFile is the on-disk shape of the autorun registry.
type registryFile struct {
	Version int      `json:"version"`
	Flows   []string `json:"flows"`
}

const registryVersion = 1

// Registry is the persisted list of flow paths registered for
// autorun. Paths keep their registration order.
type Registry struct {
	path string

	mu    sync.Mutex
	flows []string
}

// NewRegistry returns an empty registry persisting to path.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// LoadRegistry reads the registry at path. A missing file yields an
// empty registry.
func LoadRegistry(path string) (*Registry, error) {
	r := NewRegistry(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading autorun registry: %w", err)
	}

	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing autorun registry: %w", err)
	}
	r.flows = file.Flows
	return r, nil
}

// Add registers flowPath, persisting the change. Adding an already
// registered path is a no-op; the bool reports whether anything was
// added.
func (r *Registry) Add(flowPath string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.flows {
		if f == flowPath {
			return false, nil
		}
	}
	r.flows = append(r.flows, flowPath)

	if err := r.save(); err != nil {
		r.flows = r.flows[:len(r.flows)-1]
		return false, err
	}
	return true, nil
}

// Remove drops flowPath from the registry, persisting the change.
func (r *Registry) Remove(flowPath string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, f := range r.flows {
		if f != flowPath {
			continue
		}
		removed := append(r.flows[:i:i], r.flows[i+1:]...)
		old := r.flows
		r.flows = removed
		if err := r.save(); err != nil {
			r.flows = old
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Contains reports whether flowPath is registered.
func (r *Registry) Contains(flowPath string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.flows {
		if f == flowPath {
			return true
		}
	}
	return false
}

// Flows returns the registered paths in registration order.
func (r *Registry) Flows() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.flows))
	copy(out, r.flows)
	return out
}

func (r *Registry) save() error {
	file := registryFile{Version: registryVersion, Flows: r.flows}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding autorun registry: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("saving autorun registry: %w", err)
		}
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("saving autorun registry: %w", err)
	}
	return nil
}
