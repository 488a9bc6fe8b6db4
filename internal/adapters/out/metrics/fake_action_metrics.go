package metrics

import (
	"log"

	"file-vault-api/internal/app/ports"
)

type FakeActionMetrics struct {
}

// Enforce compile-time conformance to the interface
var _ ports.ActionMetrics = (*FakeActionMetrics)(nil)

// OnActionDone logs instead of recording; for tests.
func (m *FakeActionMetrics) OnActionDone(ma ports.MeasuredAction) {
	mal := ma.Labels()
	log.Printf("FakeActionMetrics.OnActionDone: %v", mal)
}
