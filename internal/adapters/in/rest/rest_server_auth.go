package rest

import (
	"encoding/json"
	"net/http"

	"file-vault-api/internal/adapters/out/metrics"
	"file-vault-api/internal/adapters/out/security"
	"file-vault-api/internal/app/ports"
)

type registerRequestBody struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RootFolder string `json:"root_folder"`
}

type loginRequestBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponseBody struct {
	Token string `json:"token"`
}

func (s *DefaultRestServer) Register(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	var in registerRequestBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	action := metrics.NewVaultAction("register", in.Username)
	user, err := s.apis.Register(in.Username, in.Password, in.RootFolder)
	s.actionMetrics.OnActionDone(action.DoneFromError(err))
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *DefaultRestServer) Login(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	var in loginRequestBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	action := metrics.NewVaultAction("login", in.Username)
	identity, err := s.apis.AuthenticateUser(in.Username, in.Password)
	s.actionMetrics.OnActionDone(action.DoneFromError(err))
	if err != nil {
		writeKindError(w, err)
		return
	}
	token, err := s.sessions.Put(ports.Principal{User: &identity})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cannot create session")
		return
	}
	writeJSON(w, http.StatusOK, loginResponseBody{Token: token})
}

func (s *DefaultRestServer) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	var in loginRequestBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	action := metrics.NewVaultAction("admin-login", in.Username)
	admin, err := s.apis.AuthenticateAdmin(in.Username, in.Password)
	s.actionMetrics.OnActionDone(action.DoneFromError(err))
	if err != nil {
		writeKindError(w, err)
		return
	}
	token, err := s.sessions.Put(ports.Principal{Admin: &admin})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cannot create session")
		return
	}
	writeJSON(w, http.StatusOK, loginResponseBody{Token: token})
}

func (s *DefaultRestServer) Logout(w http.ResponseWriter, r *http.Request) {
	if token := security.TokenFromRequest(r); token != "" {
		s.sessions.Delete(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireUser resolves the request to a user identity. Admin sessions
// are rejected: an administrator has no vault root.
func (s *DefaultRestServer) requireUser(w http.ResponseWriter, r *http.Request) (ports.Identity, bool) {
	principal, err := s.authenticator.Verify(r)
	if err != nil {
		writeAuthError(w, err)
		return ports.Identity{}, false
	}
	if principal.User == nil {
		writeError(w, http.StatusForbidden, "a user session is required")
		return ports.Identity{}, false
	}
	return *principal.User, true
}

func (s *DefaultRestServer) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	principal, err := s.authenticator.Verify(r)
	if err != nil {
		writeAuthError(w, err)
		return false
	}
	if !principal.IsAdmin() {
		writeError(w, http.StatusForbidden, "an admin session is required")
		return false
	}
	return true
}

func (s *DefaultRestServer) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	users, err := s.apis.ListUsers()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cannot list users: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, users)
}
