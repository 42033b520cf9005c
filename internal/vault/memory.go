package vault

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Store for tests. Mtimes are a logical clock
// advanced on every mutation, so staleness checks behave the same as
// on disk.
type Memory struct {
	mu      sync.Mutex
	files   map[string]memoryFile
	folders map[string]bool
	clock   int64
}

type memoryFile struct {
	content string
	mtime   int64
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		files:   make(map[string]memoryFile),
		folders: make(map[string]bool),
	}
}

// Put sets the content of path, creating it when absent and bumping
// its mtime either way.
func (m *Memory) Put(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock++
	m.files[path] = memoryFile{content: content, mtime: m.clock}
	m.markParents(path)
}

// PutFolder records an empty folder at path.
func (m *Memory) PutFolder(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folders[path] = true
}

func (m *Memory) markParents(path string) {
	for {
		i := strings.LastIndex(path, "/")
		if i < 0 {
			return
		}
		path = path[:i]
		m.folders[path] = true
	}
}

func (m *Memory) List(prefix string) ([]DocRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var refs []DocRef
	for path, f := range m.files {
		if prefix != "" && path != prefix && !strings.HasPrefix(path, prefix+"/") {
			continue
		}
		refs = append(refs, DocRef{Path: path, Mtime: f.mtime})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })
	return refs, nil
}

func (m *Memory) Read(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("reading %s: file does not exist", path)
	}
	return f.content, nil
}

func (m *Memory) Stat(path string) (Info, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.files[path]; ok {
		return Info{Kind: KindFile, Mtime: f.mtime}, true
	}
	if m.folders[path] {
		return Info{Kind: KindFolder}, true
	}
	return Info{}, false
}

func (m *Memory) Create(path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; ok {
		return fmt.Errorf("creating %s: file exists", path)
	}
	m.clock++
	m.files[path] = memoryFile{content: content, mtime: m.clock}
	m.markParents(path)
	return nil
}

func (m *Memory) Append(path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clock++
	f := m.files[path]
	m.files[path] = memoryFile{content: f.content + content, mtime: m.clock}
	m.markParents(path)
	return nil
}

func (m *Memory) Write(path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clock++
	m.files[path] = memoryFile{content: content, mtime: m.clock}
	m.markParents(path)
	return nil
}

func (m *Memory) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.folders[path] = true
	m.markParents(path + "/x")
	return nil
}
