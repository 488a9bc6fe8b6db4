package ports

import "path/filepath"

// User is a single registry record: who may log in and which folder
// under the vault base directory their files live in.
type User struct {
	Username     string `yaml:"username" json:"username"`
	PasswordHash string `yaml:"password_hash" json:"-"`
	RootFolder   string `yaml:"root_folder" json:"root_folder"`
}

// AbsoluteRootDir returns base/username/rootFolder without touching disk.
func (u *User) AbsoluteRootDir(baseDir string) string {
	return filepath.Clean(filepath.Join(baseDir, u.Username, u.RootFolder))
}

// Identity is an authenticated reference to a registry user. It carries
// no credentials, only what the storage layer needs to bind a root.
type Identity struct {
	Username   string `json:"username"`
	RootFolder string `json:"root_folder"`
}

// AdminIdentity is deliberately disjoint from Identity: an administrator
// has no vault root and a user has no administrative rights.
type AdminIdentity struct {
	Username string `json:"username"`
}
