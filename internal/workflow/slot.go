// SPDX-License-Identifier: MPL-2.0

package workflow

import "sync"

// Slot is the application-wide exclusive execution gate. At most one
// invocation may hold it; a second execute intent arriving while one is in
// flight is refused, never interleaved.
type Slot struct {
	mu   sync.Mutex
	busy bool
}

// NewSlot creates an unoccupied execution slot.
func NewSlot() *Slot {
	return &Slot{}
}

// TryAcquire claims the slot if it is free and reports whether it succeeded.
// It never blocks.
func (s *Slot) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// Release frees the slot. Releasing a free slot is a no-op.
func (s *Slot) Release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Busy reports whether an invocation currently holds the slot.
func (s *Slot) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
