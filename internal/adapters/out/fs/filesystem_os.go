package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"file-vault-api/internal/app/ports"
)

// OsFilesystemService is the real-disk implementation.
type OsFilesystemService struct{}

var _ ports.FilesystemService = (*OsFilesystemService)(nil)

func NewOsFilesystemService() *OsFilesystemService {
	return &OsFilesystemService{}
}

func (OsFilesystemService) Stat(p string) (fs.FileInfo, error) { return os.Stat(p) }

func (OsFilesystemService) MkdirAll(p string, perm fs.FileMode) error {
	return os.MkdirAll(p, perm)
}

func (OsFilesystemService) ReadDir(p string) ([]fs.DirEntry, error) { return os.ReadDir(p) }

// WriteFile stages the content in a temp file next to the target and
// renames it into place, so a reader never observes a partial write and
// racing writers resolve to whichever rename lands last.
func (OsFilesystemService) WriteFile(p string, r io.Reader, perm fs.FileMode) error {
	dir := filepath.Dir(p)
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("stage upload: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("stage upload: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("stage upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("stage upload: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("commit upload: %w", err)
	}
	return nil
}

func (OsFilesystemService) Open(p string) (io.ReadCloser, error) { return os.Open(p) }

func (OsFilesystemService) Remove(p string) error { return os.Remove(p) }
