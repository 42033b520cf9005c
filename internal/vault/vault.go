// Package vault abstracts the note store that flows read from and
// write into. Paths are slash-separated and relative to the vault
// root regardless of platform.
package vault

import "errors"

// Kind distinguishes files from folders.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

// Info describes an entry in the store.
type Info struct {
	Kind  Kind
	Mtime int64
}

// DocRef identifies a document and its modification time at listing.
type DocRef struct {
	Path  string
	Mtime int64
}

// ErrIsFolder is returned when a file operation targets a folder.
var ErrIsFolder = errors.New("path is a folder")

// Store is the document store flows operate on.
type Store interface {
	// List returns every document under prefix, sorted by path.
	// Folders themselves are not listed. An empty prefix lists the
	// whole store.
	List(prefix string) ([]DocRef, error)

	// Read returns the content of the document at path.
	Read(path string) (string, error)

	// Stat reports whether path exists and what it is.
	Stat(path string) (Info, bool)

	// Create writes a new document at path. Parent folders must
	// already exist.
	Create(path, content string) error

	// Append appends content to the document at path, creating it
	// when absent.
	Append(path, content string) error

	// Write replaces the document at path, creating it when absent.
	Write(path, content string) error

	// MkdirAll creates the folder at path and any missing parents.
	MkdirAll(path string) error
}
