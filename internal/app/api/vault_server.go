package api

import (
	"errors"
	"sort"

	"file-vault-api/internal/app/config"
	"file-vault-api/internal/app/ports"
)

// Enforce compile-time conformance to the interface
var _ ports.VaultServer = (*DefaultVaultServer)(nil)

type DefaultVaultServer struct {
	storageCfg config.StorageConfig
	hasher     ports.Hasher
	registry   ports.UserRegistry
	storage    ports.VaultStorageService

	adminUsername     string
	adminPasswordHash string
}

func NewDefaultVaultServer(cfg config.StorageConfig, hasher ports.Hasher, registry ports.UserRegistry, storage ports.VaultStorageService, adminUsername, adminPasswordHash string) (*DefaultVaultServer, error) {
	if hasher == nil {
		return nil, errors.New("hasher is nil")
	}
	if registry == nil {
		return nil, errors.New("registry is nil")
	}
	if storage == nil {
		return nil, errors.New("storage service is nil")
	}
	if adminUsername == "" || adminPasswordHash == "" {
		return nil, errors.New("admin credential is required")
	}
	return &DefaultVaultServer{
		storageCfg:        cfg,
		hasher:            hasher,
		registry:          registry,
		storage:           storage,
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
	}, nil
}

func (s *DefaultVaultServer) HealthCheck() error {
	return s.registry.HealthCheck()
}

// ListUsers returns registry records for the admin surface; password
// hashes never serialize (json:"-").
func (s *DefaultVaultServer) ListUsers() ([]ports.User, error) {
	users, err := s.registry.Load()
	if err != nil {
		return nil, err
	}
	out := make([]ports.User, 0, len(users))
	for _, u := range users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
