// Package session models a comparison session: up to three dataset slots
// whose contents are compared against each other on demand.
package session

import (
	"fmt"
	"time"

	"github.com/scandelta/api/pkg/domain/dataset"
	"github.com/scandelta/api/pkg/domain/shared"
)

// MaxSlots is the maximum number of datasets a session can hold. The
// comparison policy is baseline-relative (slot 0 against each later slot),
// which only stays meaningful for a small, fixed number of datasets.
const MaxSlots = 3

// Session is one comparison session. Slot 0 is the comparison baseline.
type Session struct {
	ID        shared.ID                  `json:"id"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
	Slots     [MaxSlots]*dataset.Dataset `json:"slots"`
}

// New creates an empty session.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        shared.NewID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// validSlot checks a slot index against the session capacity.
func validSlot(slot int) error {
	if slot < 0 || slot >= MaxSlots {
		return fmt.Errorf("%w: slot %d, capacity %d", shared.ErrSlotOutOfRange, slot, MaxSlots)
	}
	return nil
}

// PutDataset places a dataset into a slot, replacing any previous occupant.
func (s *Session) PutDataset(slot int, ds *dataset.Dataset) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	s.Slots[slot] = ds
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// ClearSlot removes the dataset in a slot, if any.
func (s *Session) ClearSlot(slot int) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	s.Slots[slot] = nil
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Reset empties all slots.
func (s *Session) Reset() {
	for i := range s.Slots {
		s.Slots[i] = nil
	}
	s.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy of the session, slot contents included.
// Stores that hand sessions to concurrent callers return clones so that no
// two callers share a mutable slot array.
func (s *Session) Clone() *Session {
	out := &Session{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for i, ds := range s.Slots {
		if ds != nil {
			out.Slots[i] = ds.Clone()
		}
	}
	return out
}

// Datasets returns the occupied slots in slot order. The first occupied slot
// is the comparison baseline.
func (s *Session) Datasets() []*dataset.Dataset {
	var out []*dataset.Dataset
	for _, ds := range s.Slots {
		if ds != nil {
			out = append(out, ds)
		}
	}
	return out
}

// OccupiedSlots returns the indices of occupied slots, in order.
func (s *Session) OccupiedSlots() []int {
	var out []int
	for i, ds := range s.Slots {
		if ds != nil {
			out = append(out, i)
		}
	}
	return out
}

// IsEmpty reports whether the session holds no datasets.
func (s *Session) IsEmpty() bool {
	return len(s.OccupiedSlots()) == 0
}
