package app

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"file-vault-api/internal/adapters/in/rest"
	"file-vault-api/internal/adapters/out/fs"
	"file-vault-api/internal/adapters/out/registry"
	"file-vault-api/internal/adapters/out/security"
	"file-vault-api/internal/app/api"
	"file-vault-api/internal/app/config"
	"file-vault-api/internal/app/docs"
	"file-vault-api/internal/app/ports"
)

func BuildVaultServer(cfg *config.ProgramConfig, bootstrap bool) (ports.VaultServer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	hasher, err := security.NewDefaultHasherFromConfig(cfg.Security.Hasher)
	if err != nil {
		return nil, fmt.Errorf("cannot create hasher: %v", err)
	}

	userRegistry, err := createUserRegistry(cfg, bootstrap)
	if err != nil {
		return nil, err
	}

	fsService, err := CreateFilesystemService(cfg.Storage.Implementation)
	if err != nil {
		return nil, fmt.Errorf("cannot create filesystem service: %v", err)
	}

	storageService, err := fs.NewDefaultVaultStorageService(cfg.Storage, fsService, bootstrap)
	if err != nil {
		return nil, fmt.Errorf("cannot create storage service: %v", err)
	}

	adminHash := cfg.Security.Admin.PasswordHash
	if adminHash == "" {
		// Plaintext admin passwords never stay in memory unhashed.
		adminHash, err = hasher.DefaultHash(cfg.Security.Admin.Password)
		if err != nil {
			return nil, fmt.Errorf("cannot hash admin credential: %v", err)
		}
	}

	vaultServer, err := api.NewDefaultVaultServer(cfg.Storage, hasher, userRegistry, storageService, cfg.Security.Admin.Username, adminHash)
	if err != nil {
		return nil, fmt.Errorf("cannot create vault server: %v", err)
	}
	return vaultServer, nil
}

func CreateFilesystemService(implementation string) (ports.FilesystemService, error) {
	switch implementation {
	case "none":
		return fs.NewNoneFilesystemService(), nil
	case "inmem":
		return fs.NewInMemFilesystemService(), nil
	case "unix", "os":
		return fs.NewOsFilesystemService(), nil
	default:
		return nil, fmt.Errorf("unsupported filesystem implementation: '%s'", implementation)
	}
}

func BuildRestServer(cfg *config.ProgramConfig, bootstrap bool, actionMetrics ports.ActionMetrics) (*rest.DefaultRestServer, error) {
	vaultServer, err := BuildVaultServer(cfg, bootstrap)
	if err != nil {
		return nil, fmt.Errorf("cannot create vault server: %v", err)
	}

	sessions := security.NewInMemSessionStore(cfg.Security.Session)
	authenticator := security.NewSessionAuthenticator(sessions)

	restServer, err := rest.NewRestServer(cfg.HttpServer, vaultServer, authenticator, sessions, actionMetrics)
	if err != nil {
		return nil, fmt.Errorf("cannot create rest server: %v", err)
	}
	return restServer, nil
}

func createUserRegistry(cfg *config.ProgramConfig, bootstrap bool) (userRegistry ports.UserRegistry, err error) {
	switch cfg.Registry.Type {
	case "file":
		userRegistry, err = registry.NewFileUserRegistry(cfg.RegistryFilePath(), bootstrap)
	case "inmem":
		userRegistry = registry.NewInMemUserRegistry()
	case "sqlite":
		userRegistry, err = registry.NewSQLiteUserRegistry(cfg.Registry.Sqlite, bootstrap)
	case "mysql":
		userRegistry, err = registry.NewMySQLUserRegistry(cfg.Registry.MySQL, bootstrap)
	default:
		return nil, fmt.Errorf("unsupported registry type: %s", cfg.Registry.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot create registry with type '%s': %v", cfg.Registry.Type, err)
	}
	info, err := userRegistry.GetInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry ('%s') info: %v", cfg.Registry.Type, err)
	}
	log.Printf("User registry info: %s", info)
	return userRegistry, nil
}

func BuildRouter(server *rest.DefaultRestServer) *chi.Mux {
	// Router CHI
	r := chi.NewRouter()

	// Standard middlewares: request correlation, real client IP, logging, recovery, and server-side request timeout
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	r.Post("/api/register", server.Register)
	r.Post("/api/login", server.Login)
	r.Post("/api/admin/login", server.AdminLogin)
	r.Post("/api/logout", server.Logout)

	r.Get("/api/files", server.ListFiles)
	r.Post("/api/files", server.UploadFile)
	r.Delete("/api/files", server.DeleteFile)
	r.Get("/api/files/download", server.DownloadFile)
	r.Post("/api/folders", server.CreateFolder)

	r.Get("/api/admin/users", server.AdminListUsers)

	// Health and readiness probes
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", server.Health)

	// Index page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(docs.IndexHTML)
	})

	// API documentation
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(docs.RedocHTML)
	})
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(docs.OpenAPIYAML)
	})
	return r
}
