package api

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"file-vault-api/internal/adapters/out/fs"
	"file-vault-api/internal/app/ports"
)

// DefaultRootFolder is assigned when registration does not request one.
const DefaultRootFolder = "files"

// Register creates a new user: hashes the password, sanitizes the
// requested root folder into a filesystem-safe token, persists the
// record and lazily creates base/username/rootFolder.
func (s *DefaultVaultServer) Register(username, password, rootFolderRequest string) (ports.User, error) {
	if err := validateUsername(username); err != nil {
		return ports.User{}, err
	}
	if strings.TrimSpace(password) == "" {
		return ports.User{}, fmt.Errorf("%w: password is required", ports.ErrInvalidInput)
	}

	rootFolder := DefaultRootFolder
	if strings.TrimSpace(rootFolderRequest) != "" {
		sanitized, err := fs.SanitizeName(rootFolderRequest)
		if err != nil {
			return ports.User{}, fmt.Errorf("%w: unusable root folder name", ports.ErrInvalidInput)
		}
		rootFolder = sanitized
	}

	hash, err := s.hasher.DefaultHash(password)
	if err != nil {
		return ports.User{}, fmt.Errorf("cannot hash password: %w", err)
	}

	user, err := s.registry.AddUser(ports.User{
		Username:     username,
		PasswordHash: hash,
		RootFolder:   rootFolder,
	})
	if err != nil {
		return ports.User{}, err
	}

	if err := s.storage.EnsureRoot(user); err != nil {
		return ports.User{}, fmt.Errorf("cannot prepare storage root: %w", err)
	}
	return user, nil
}

// AuthenticateUser checks a user credential against the registry.
// Unknown usernames and wrong passwords are indistinguishable.
func (s *DefaultVaultServer) AuthenticateUser(username, password string) (ports.Identity, error) {
	if username == "" || password == "" {
		return ports.Identity{}, ports.ErrInvalidCredentials
	}
	u, err := s.registry.GetUser(username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ports.Identity{}, ports.ErrInvalidCredentials
		}
		return ports.Identity{}, fmt.Errorf("cannot read user: %w", err)
	}
	ok, err := s.hasher.Verify(u.PasswordHash, password)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("password verifier error: %w", err)
	}
	if !ok {
		return ports.Identity{}, ports.ErrInvalidCredentials
	}
	return ports.Identity{Username: u.Username, RootFolder: u.RootFolder}, nil
}

// AuthenticateAdmin checks the fixed administrator credential. The
// admin is never a registry user and the comparison goes through the
// same hashed, constant-time verification as user credentials.
func (s *DefaultVaultServer) AuthenticateAdmin(username, password string) (ports.AdminIdentity, error) {
	if username == "" || password == "" {
		return ports.AdminIdentity{}, ports.ErrInvalidCredentials
	}
	nameOk := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passOk, err := s.hasher.Verify(s.adminPasswordHash, password)
	if err != nil {
		return ports.AdminIdentity{}, fmt.Errorf("password verifier error: %w", err)
	}
	if !nameOk || !passOk {
		return ports.AdminIdentity{}, ports.ErrInvalidCredentials
	}
	return ports.AdminIdentity{Username: s.adminUsername}, nil
}

func validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", ports.ErrInvalidInput)
	}
	if username == "." || username == ".." || strings.ContainsAny(username, "/\\") {
		return fmt.Errorf("%w: unusable username", ports.ErrInvalidInput)
	}
	for _, r := range username {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: unusable username", ports.ErrInvalidInput)
		}
	}
	return nil
}
