package ports

import (
	"net/http"
)

// Authenticator resolves the principal behind an inbound request.
type Authenticator interface {
	Verify(request *http.Request) (Principal, error)
	Supports(request *http.Request) bool
}
