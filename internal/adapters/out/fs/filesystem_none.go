package fs

import (
	"io"
	"io/fs"

	"file-vault-api/internal/app/ports"
)

// NoneFilesystemService accepts everything and stores nothing; useful
// for wiring checks and dry runs.
type NoneFilesystemService struct{}

var _ ports.FilesystemService = (*NoneFilesystemService)(nil)

func NewNoneFilesystemService() *NoneFilesystemService {
	return &NoneFilesystemService{}
}

func (NoneFilesystemService) Stat(_ string) (fs.FileInfo, error) { return nil, fs.ErrNotExist }

func (NoneFilesystemService) MkdirAll(_ string, _ fs.FileMode) error { return nil }

func (NoneFilesystemService) ReadDir(_ string) ([]fs.DirEntry, error) { return []fs.DirEntry{}, nil }

func (NoneFilesystemService) WriteFile(_ string, r io.Reader, _ fs.FileMode) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

func (NoneFilesystemService) Open(_ string) (io.ReadCloser, error) {
	return nil, fs.ErrNotExist
}

func (NoneFilesystemService) Remove(_ string) error { return nil }
