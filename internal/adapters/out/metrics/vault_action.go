package metrics

import (
	"errors"
	"time"

	"file-vault-api/internal/app/ports"
)

type VaultAction struct {
	start           time.Time
	Action          string
	Username        string
	Result          string
	DurationFloat64 float64
}

// Enforce compile-time conformance to the interface
var _ ports.MeasuredAction = (*VaultAction)(nil)

func NewVaultAction(action, username string) *VaultAction {
	return &VaultAction{
		start:    time.Now(),
		Action:   action,
		Username: username,
		Result:   "unknown",
	}
}

func (a *VaultAction) Duration() float64 {
	return a.DurationFloat64
}

func (a *VaultAction) Done(result ports.MeasuredActionResult) ports.MeasuredAction {
	a.Result = string(result)
	a.DurationFloat64 = time.Since(a.start).Seconds()
	return a
}

func (a *VaultAction) DoneFromError(err error) ports.MeasuredAction {
	a.Result = string(measuredFromError(err))
	a.DurationFloat64 = time.Since(a.start).Seconds()
	return a
}

func (a *VaultAction) Labels() map[ports.MeasuredActionLabel]string {
	return map[ports.MeasuredActionLabel]string{
		ports.MALabelAction:   a.Action,
		ports.MALabelUsername: a.Username,
		ports.MALabelResult:   a.Result,
	}
}

func measuredFromError(err error) ports.MeasuredActionResult {
	if err == nil {
		return ports.MAResultSuccess
	}
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return ports.MAResultNotFound
	case errors.Is(err, ports.ErrInvalidPath):
		return ports.MAResultInvalidPath
	case errors.Is(err, ports.ErrInvalidCredentials):
		return ports.MAResultUnauthorized
	case errors.Is(err, ports.ErrUsernameTaken),
		errors.Is(err, ports.ErrIsDirectory):
		return ports.MAResultConflict
	default:
		return ports.MAResultFailure
	}
}
