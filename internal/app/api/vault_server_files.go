package api

import (
	"io"

	"file-vault-api/internal/app/ports"
)

// Storage operations bind the authenticated identity to its root and
// delegate to the sandboxed storage service. The identity is opaque
// here: no credential ever reaches this layer.

func (s *DefaultVaultServer) owner(identity ports.Identity) ports.User {
	return ports.User{Username: identity.Username, RootFolder: identity.RootFolder}
}

func (s *DefaultVaultServer) Upload(identity ports.Identity, subPath, filename string, content io.Reader) error {
	return s.storage.Upload(s.owner(identity), subPath, filename, content)
}

func (s *DefaultVaultServer) List(identity ports.Identity, subPath string) ([]ports.DirectoryEntry, error) {
	return s.storage.List(s.owner(identity), subPath)
}

func (s *DefaultVaultServer) CreateFolder(identity ports.Identity, parentSubPath, name string) error {
	return s.storage.CreateFolder(s.owner(identity), parentSubPath, name)
}

func (s *DefaultVaultServer) DeleteFile(identity ports.Identity, subPath string) error {
	return s.storage.DeleteFile(s.owner(identity), subPath)
}

func (s *DefaultVaultServer) DownloadFile(identity ports.Identity, subPath string) (io.ReadCloser, ports.FileMetadata, error) {
	return s.storage.OpenFile(s.owner(identity), subPath)
}
