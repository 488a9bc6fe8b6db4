package ports

import (
	"io"
	"io/fs"
)

// FilesystemService abstracts the host filesystem so the storage layer
// can run against a real tree or an in-memory one in tests.
type FilesystemService interface {
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(path string) ([]fs.DirEntry, error)

	// WriteFile commits the full content of r to path. The write must be
	// atomic: a concurrent reader sees either the previous content or
	// the complete new content, never an interleaving.
	WriteFile(path string, r io.Reader, perm fs.FileMode) error

	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}
