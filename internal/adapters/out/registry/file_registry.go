package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"file-vault-api/internal/app/ports"
)

// CorruptBackupSuffix is appended to an unreadable registry record when
// it is quarantined. A previous backup is overwritten.
const CorruptBackupSuffix = ".corrupt"

// Enforce compile-time conformance to the interface
var _ ports.UserRegistry = (*FileUserRegistry)(nil)

// FileUserRegistry persists the whole user mapping as one YAML record.
// Writes go through a temp file and rename, so a crash mid-save leaves
// either the old record or the new one, never a half-written mix.
// A mutex serializes every read-modify-write; plain reads work against
// the last fully written snapshot without coordinating with writers.
type FileUserRegistry struct {
	path string
	mu   sync.Mutex
}

type registryRecord struct {
	Users map[string]ports.User `yaml:"users"`
}

func NewFileUserRegistry(filePath string, bootstrap bool) (*FileUserRegistry, error) {
	if filePath == "" {
		return nil, errors.New("registry file path is required")
	}
	if bootstrap {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
			return nil, fmt.Errorf("cannot create registry directory: %w", err)
		}
	}
	return &FileUserRegistry{path: filePath}, nil
}

func (s *FileUserRegistry) HealthCheck() error {
	_, err := s.Load()
	return err
}

func (s *FileUserRegistry) GetInfo() (string, error) {
	return fmt.Sprintf("yaml file (%s)", s.path), nil
}

// Load reads the persisted record. An absent file yields an empty
// mapping; an unparsable file is renamed aside and also yields an empty
// mapping. Availability wins over durability of unreadable state.
func (s *FileUserRegistry) Load() (map[string]ports.User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]ports.User{}, nil
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var record registryRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		s.quarantine(err)
		return map[string]ports.User{}, nil
	}
	if record.Users == nil {
		return map[string]ports.User{}, nil
	}
	for name, u := range record.Users {
		u.Username = name
		record.Users[name] = u
	}
	return record.Users, nil
}

func (s *FileUserRegistry) Save(users map[string]ports.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(users)
}

func (s *FileUserRegistry) GetUser(username string) (ports.User, error) {
	users, err := s.Load()
	if err != nil {
		return ports.User{}, err
	}
	u, ok := users[username]
	if !ok {
		return ports.User{}, ports.ErrNotFound
	}
	return u, nil
}

func (s *FileUserRegistry) AddUser(user ports.User) (ports.User, error) {
	if user.Username == "" {
		return ports.User{}, errors.New("user name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.Load()
	if err != nil {
		return ports.User{}, err
	}
	if _, exists := users[user.Username]; exists {
		return ports.User{}, ports.ErrUsernameTaken
	}
	users[user.Username] = user
	if err := s.saveLocked(users); err != nil {
		return ports.User{}, err
	}
	return user, nil
}

// saveLocked writes temp-then-rename; callers hold s.mu.
func (s *FileUserRegistry) saveLocked(users map[string]ports.User) error {
	data, err := yaml.Marshal(registryRecord{Users: users})
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("stage registry: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit registry: %w", err)
	}
	return nil
}

func (s *FileUserRegistry) quarantine(cause error) {
	backup := s.path + CorruptBackupSuffix
	if err := os.Rename(s.path, backup); err != nil {
		log.Printf("registry record unreadable (%v) and quarantine failed: %v", cause, err)
		return
	}
	log.Printf("registry record unreadable (%v), moved aside to %s; continuing with an empty registry", cause, filepath.Base(backup))
}
