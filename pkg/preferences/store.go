package preferences

import (
	"context"
	"strings"
	"sync"

	"github.com/matzehuels/sociogram/pkg/errors"
)

// Store collects submissions for one session. Each submission replaces the
// participant's previous answer in a single step, so readers never see a
// half-applied write. Nothing is ever deleted while the store is alive.
//
// The zero value is not usable - use NewStore.
type Store struct {
	mu  sync.RWMutex
	set *Set
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{set: &Set{}}
}

// Submit validates and records a participant's preferences. The participant
// ID is trimmed and peers are normalized with [Normalize] before storing.
//
// Returns an INVALID_PARTICIPANT error if the ID is empty or malformed, or an
// INVALID_INPUT error if a peer name is malformed.
func (s *Store) Submit(ctx context.Context, participant string, peers []string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	participant = strings.TrimSpace(participant)
	if err := errors.ValidateParticipantID(participant); err != nil {
		return Entry{}, err
	}
	peers = Normalize(peers)
	for _, p := range peers {
		if err := errors.ValidatePeerName(p); err != nil {
			return Entry{}, err
		}
	}

	s.mu.Lock()
	s.set.Put(participant, peers)
	s.mu.Unlock()

	return Entry{Participant: participant, Peers: peers}, nil
}

// Snapshot returns a deep copy of the current preference set.
func (s *Store) Snapshot() *Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.Clone()
}

// Len returns the number of participants that have submitted.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.Len()
}
