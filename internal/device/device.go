// Package device resolves a stable per-machine identifier, used to name
// the per-session mutex the orchestrator acquires at startup (C10 step 2).
package device

import (
	"sync"

	"github.com/denisbrodbeck/machineid"
)

var (
	id      string
	once    sync.Once
	initErr error
)

// SessionID returns the protected per-machine id (lazily computed once).
func SessionID() (string, error) {
	once.Do(func() {
		id, initErr = machineid.ProtectedID("seelencore")
	})
	return id, initErr
}
