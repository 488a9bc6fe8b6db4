package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"file-vault-api/internal/app/config"
	"file-vault-api/internal/app/ports"
)

// Conform to the storage port.
var _ ports.VaultStorageService = (*DefaultVaultStorageService)(nil)

// DefaultVaultStorageService confines every operation to the owning
// user's root under the configured base directory. Each method resolves
// the requested sub-path through ResolveUnder before any filesystem
// access; that ordering is the component's safety property.
type DefaultVaultStorageService struct {
	fs  ports.FilesystemService
	cfg config.StorageConfig
}

func NewDefaultVaultStorageService(cfg config.StorageConfig, fsys ports.FilesystemService, bootstrap bool) (*DefaultVaultStorageService, error) {
	baseDir := filepath.Clean(cfg.BaseDir)
	if bootstrap && cfg.CreateBaseDir {
		if err := fsys.MkdirAll(baseDir, 0o750); err != nil {
			return nil, fmt.Errorf("cannot create base directory %q: %w", baseDir, err)
		}
	}
	// Verify baseDir exists and is a directory by attempting ReadDir.
	if _, err := fsys.ReadDir(baseDir); err != nil {
		return nil, fmt.Errorf("base directory invalid %q: %w", baseDir, err)
	}
	return &DefaultVaultStorageService{fs: fsys, cfg: cfg}, nil
}

func (c *DefaultVaultStorageService) rootOf(owner ports.User) (string, error) {
	if !isSafeToken(owner.Username) || !isSafeToken(owner.RootFolder) {
		return "", fmt.Errorf("%w: malformed storage root tokens", ports.ErrInvalidPath)
	}
	return owner.AbsoluteRootDir(filepath.Clean(c.cfg.BaseDir)), nil
}

// EnsureRoot lazily creates base/username/rootFolder.
func (c *DefaultVaultStorageService) EnsureRoot(owner ports.User) error {
	root, err := c.rootOf(owner)
	if err != nil {
		return err
	}
	return c.fs.MkdirAll(root, 0o750)
}

func (c *DefaultVaultStorageService) Upload(owner ports.User, subPath, filename string, content io.Reader) error {
	root, err := c.rootOf(owner)
	if err != nil {
		return err
	}
	dir, err := ResolveUnder(root, subPath)
	if err != nil {
		return err
	}
	if filename == "" || content == nil {
		return fmt.Errorf("%w: missing file", ports.ErrNoContent)
	}
	name, err := SanitizeName(filename)
	if err != nil {
		return fmt.Errorf("%w: unusable filename", ports.ErrNoContent)
	}
	if err := c.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("prepare upload directory: %w", err)
	}
	// Last write wins; WriteFile commits atomically so racing uploads
	// never interleave bytes.
	if err := c.fs.WriteFile(filepath.Join(dir, name), content, 0o640); err != nil {
		return fmt.Errorf("upload %q: %w", name, err)
	}
	return nil
}

func (c *DefaultVaultStorageService) List(owner ports.User, subPath string) ([]ports.DirectoryEntry, error) {
	root, err := c.rootOf(owner)
	if err != nil {
		return nil, err
	}
	dir, err := ResolveUnder(root, subPath)
	if err != nil {
		return nil, err
	}
	return ListEntries(c.fs, dir)
}

func (c *DefaultVaultStorageService) CreateFolder(owner ports.User, parentSubPath, name string) error {
	root, err := c.rootOf(owner)
	if err != nil {
		return err
	}
	parent, err := ResolveUnder(root, parentSubPath)
	if err != nil {
		return err
	}
	folder, err := SanitizeName(name)
	if err != nil {
		return fmt.Errorf("%w: unusable folder name", ports.ErrInvalidPath)
	}
	// MkdirAll keeps this idempotent: creating an existing folder is fine.
	if err := c.fs.MkdirAll(filepath.Join(parent, folder), 0o750); err != nil {
		return fmt.Errorf("create folder %q: %w", folder, err)
	}
	return nil
}

func (c *DefaultVaultStorageService) DeleteFile(owner ports.User, subPath string) error {
	root, err := c.rootOf(owner)
	if err != nil {
		return err
	}
	target, err := ResolveUnder(root, subPath)
	if err != nil {
		return err
	}
	fi, err := c.fs.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ports.ErrNotFound
		}
		return fmt.Errorf("delete: %w", err)
	}
	if fi.IsDir() {
		return ports.ErrIsDirectory
	}
	if err := c.fs.Remove(target); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func (c *DefaultVaultStorageService) OpenFile(owner ports.User, subPath string) (io.ReadCloser, ports.FileMetadata, error) {
	root, err := c.rootOf(owner)
	if err != nil {
		return nil, ports.FileMetadata{}, err
	}
	target, err := ResolveUnder(root, subPath)
	if err != nil {
		return nil, ports.FileMetadata{}, err
	}
	fi, err := c.fs.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ports.FileMetadata{}, ports.ErrNotFound
		}
		return nil, ports.FileMetadata{}, fmt.Errorf("open: %w", err)
	}
	if fi.IsDir() {
		return nil, ports.FileMetadata{}, ports.ErrIsDirectory
	}
	rc, err := c.fs.Open(target)
	if err != nil {
		return nil, ports.FileMetadata{}, fmt.Errorf("open: %w", err)
	}
	return rc, ports.FileMetadata{Name: fi.Name(), Size: fi.Size(), ModTime: fi.ModTime()}, nil
}
