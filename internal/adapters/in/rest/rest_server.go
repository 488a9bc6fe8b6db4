package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"file-vault-api/internal/app/config"
	"file-vault-api/internal/app/ports"
)

type DefaultRestServer struct {
	apis          ports.VaultServer
	restCfg       config.HttpServerConfig
	authenticator ports.Authenticator
	sessions      ports.SessionStore
	actionMetrics ports.ActionMetrics
	startTime     time.Time
}

func NewRestServer(cfg config.HttpServerConfig, vaultServer ports.VaultServer, authenticator ports.Authenticator, sessions ports.SessionStore, metrics ports.ActionMetrics) (*DefaultRestServer, error) {
	return &DefaultRestServer{
		restCfg:       cfg,
		apis:          vaultServer,
		authenticator: authenticator,
		sessions:      sessions,
		actionMetrics: metrics,
		startTime:     time.Now().UTC(),
	}, nil
}

type healthStatusBody struct {
	Banner    string    `json:"banner"`
	Reason    *string   `json:"reason,omitempty"`
	StartedAt time.Time `json:"started_at"`
	Healthy   bool      `json:"healthy"`
	UptimeSec int64     `json:"uptime_sec"`
}

func (s *DefaultRestServer) Health(w http.ResponseWriter, _ *http.Request) {
	err := s.apis.HealthCheck()
	if err == nil {
		writeJSON(w, http.StatusOK, healthStatusBody{
			Banner:    s.restCfg.Banner,
			StartedAt: s.startTime,
			Healthy:   true,
			UptimeSec: int64(time.Since(s.startTime).Seconds()),
		})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, healthStatusBody{
		Banner:    s.restCfg.Banner,
		Reason:    ptr(err.Error()),
		StartedAt: s.startTime,
		Healthy:   false,
		UptimeSec: int64(time.Since(s.startTime).Seconds()),
	})
}

// "Auth" endpoints: rest_server_auth.go
// "Files" endpoints: rest_server_files.go

// helpers:

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	// accept "application/json" with optional charset
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ct)), "application/json")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{
		Code:    http.StatusText(status),
		Message: msg,
	})
}

func writeAuthError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusUnauthorized, err.Error())
}

// writeKindError maps the service error taxonomy onto status codes.
// Messages stay generic; absolute filesystem locations never leave the
// storage layer in the first place.
func writeKindError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrInvalidPath):
		writeError(w, http.StatusBadRequest, "invalid path")
	case errors.Is(err, ports.ErrNoContent):
		writeError(w, http.StatusBadRequest, "no file content")
	case errors.Is(err, ports.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, ports.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ports.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username already taken")
	case errors.Is(err, ports.ErrIsDirectory):
		writeError(w, http.StatusConflict, "target is a directory")
	default:
		writeError(w, http.StatusInternalServerError, "storage failure")
	}
}

func ptr[T any](v T) *T { return &v }
