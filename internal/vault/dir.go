package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Dir is a Store over a directory on disk. Entries whose name starts
// with a dot are invisible to it, which keeps .obsidian, .git and
// similar out of flow runs.
type Dir struct {
	root string
}

var _ Store = (*Dir)(nil)

// NewDir returns a Dir rooted at root. The directory must exist.
func NewDir(root string) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening vault: %s is not a directory", root)
	}
	return &Dir{root: root}, nil
}

// Root returns the directory the store is rooted at.
func (d *Dir) Root() string { return d.root }

// abs maps a slash-separated store path to a filesystem path.
func (d *Dir) abs(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(path))
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func (d *Dir) List(prefix string) ([]DocRef, error) {
	base := d.root
	if prefix != "" {
		base = d.abs(prefix)
	}

	var refs []DocRef
	err := filepath.WalkDir(base, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if hidden(entry.Name()) && p != base {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		refs = append(refs, DocRef{
			Path:  filepath.ToSlash(rel),
			Mtime: info.ModTime().UnixMilli(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", prefix, err)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })
	return refs, nil
}

func (d *Dir) Read(path string) (string, error) {
	data, err := os.ReadFile(d.abs(path))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func (d *Dir) Stat(path string) (Info, bool) {
	info, err := os.Stat(d.abs(path))
	if err != nil {
		return Info{}, false
	}
	if info.IsDir() {
		return Info{Kind: KindFolder, Mtime: info.ModTime().UnixMilli()}, true
	}
	return Info{Kind: KindFile, Mtime: info.ModTime().UnixMilli()}, true
}

func (d *Dir) Create(path, content string) error {
	f, err := os.OpenFile(d.abs(path), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (d *Dir) Append(path, content string) error {
	f, err := os.OpenFile(d.abs(path), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("appending %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("appending %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("appending %s: %w", path, err)
	}
	return nil
}

func (d *Dir) Write(path, content string) error {
	if err := os.WriteFile(d.abs(path), []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (d *Dir) MkdirAll(path string) error {
	if err := os.MkdirAll(d.abs(path), 0o755); err != nil {
		return fmt.Errorf("creating folder %s: %w", path, err)
	}
	return nil
}
