package ports

import "io"

// VaultServer is the application service the HTTP layer talks to. It
// returns structured results and sentinel error kinds; mapping those to
// status codes and messages is the HTTP layer's job.
type VaultServer interface {
	HealthCheck() error

	Register(username, password, rootFolderRequest string) (User, error)
	AuthenticateUser(username, password string) (Identity, error)
	AuthenticateAdmin(username, password string) (AdminIdentity, error)

	Upload(identity Identity, subPath, filename string, content io.Reader) error
	List(identity Identity, subPath string) ([]DirectoryEntry, error)
	CreateFolder(identity Identity, parentSubPath, name string) error
	DeleteFile(identity Identity, subPath string) error
	DownloadFile(identity Identity, subPath string) (io.ReadCloser, FileMetadata, error)

	ListUsers() ([]User, error)
}
