package ports

import (
	"io"
	"time"
)

// DirectoryEntry is one row of a listing, computed on each request.
type DirectoryEntry struct {
	Name         string `json:"name"`
	IsDir        bool   `json:"is_dir"`
	RelativePath string `json:"relative_path"`
}

// FileMetadata describes a file opened for download.
type FileMetadata struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// VaultStorageService confines every operation to the owning user's
// root directory (base/username/rootFolder). Each method resolves the
// client-supplied sub-path through the sandbox before any filesystem
// access; a path that escapes the root yields ErrInvalidPath and no
// observable effect.
type VaultStorageService interface {
	EnsureRoot(owner User) error
	Upload(owner User, subPath, filename string, content io.Reader) error
	List(owner User, subPath string) ([]DirectoryEntry, error)
	CreateFolder(owner User, parentSubPath, name string) error
	DeleteFile(owner User, subPath string) error
	OpenFile(owner User, subPath string) (io.ReadCloser, FileMetadata, error)
}
