package security

import (
	"fmt"
	"net/http"
	"strings"

	"file-vault-api/internal/app/ports"
)

const (
	hdrAuthz     = "Authorization"
	bearerScheme = "Bearer"
)

// SessionAuthenticator resolves `Authorization: Bearer <token>` headers
// against the session store.
type SessionAuthenticator struct {
	sessions ports.SessionStore
}

// Enforce compile-time conformance to the interface
var _ ports.Authenticator = (*SessionAuthenticator)(nil)

func NewSessionAuthenticator(sessions ports.SessionStore) *SessionAuthenticator {
	return &SessionAuthenticator{sessions: sessions}
}

func (s *SessionAuthenticator) Supports(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get(hdrAuthz), bearerScheme+" ")
}

// Verify does pure auth logic; no writes to ResponseWriter.
func (s *SessionAuthenticator) Verify(r *http.Request) (ports.Principal, error) {
	authz := r.Header.Get(hdrAuthz)
	if authz == "" {
		return ports.Principal{}, fmt.Errorf("missing '" + hdrAuthz + "' header")
	}
	if !strings.HasPrefix(authz, bearerScheme+" ") {
		return ports.Principal{}, fmt.Errorf("invalid auth scheme")
	}
	token := strings.TrimSpace(strings.TrimPrefix(authz, bearerScheme+" "))
	if token == "" {
		return ports.Principal{}, fmt.Errorf("empty session token")
	}
	return s.sessions.Get(token)
}

// TokenFromRequest extracts the raw bearer token, for logout.
func TokenFromRequest(r *http.Request) string {
	authz := r.Header.Get(hdrAuthz)
	if !strings.HasPrefix(authz, bearerScheme+" ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, bearerScheme+" "))
}
