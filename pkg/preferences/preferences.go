// Package preferences holds the submitted peer preferences that a sociogram
// is built from.
//
// A [Set] maps each participant to the ordered list of peers they would like
// to work with. Participants keep the position of their first submission, so
// iterating a Set is deterministic and matches the order in which people
// answered. Names are plain strings: [ParsePeers] and [Normalize] trim
// whitespace and drop empty entries, but never change case or merge
// near-duplicates.
//
// A [Store] wraps a Set for concurrent collection: every submission is applied
// atomically, and [Store.Snapshot] hands analysis code an independent copy.
package preferences

import (
	"encoding/json"
	"slices"
	"strings"
)

// Entry is a single participant's submission.
type Entry struct {
	Participant string   `json:"participant" yaml:"participant"`
	Peers       []string `json:"preferences" yaml:"preferences"`
}

// Set is an ordered mapping from participant ID to preferred peers.
//
// The zero value is an empty set ready to use.
// Set is not safe for concurrent use - wrap it in a [Store] for that.
type Set struct {
	entries []Entry
	index   map[string]int
}

// New creates a set from entries, applying them in order with [Set.Put].
func New(entries ...Entry) *Set {
	s := &Set{}
	for _, e := range entries {
		s.Put(e.Participant, e.Peers)
	}
	return s
}

// Put records the peers for a participant. If the participant already
// submitted, their peers are replaced but their position is kept.
// The peers slice is copied.
func (s *Set) Put(participant string, peers []string) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	cp := slices.Clone(peers)
	if cp == nil {
		cp = []string{}
	}
	if i, ok := s.index[participant]; ok {
		s.entries[i].Peers = cp
		return
	}
	s.index[participant] = len(s.entries)
	s.entries = append(s.entries, Entry{Participant: participant, Peers: cp})
}

// Get returns the peers recorded for participant.
func (s *Set) Get(participant string) ([]string, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[participant]
	if !ok {
		return nil, false
	}
	return slices.Clone(s.entries[i].Peers), true
}

// Len returns the number of participants.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Participants returns participant IDs in submission order.
func (s *Set) Participants() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.Participant
	}
	return ids
}

// Entries returns a deep copy of all entries in submission order.
func (s *Set) Entries() []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry{Participant: e.Participant, Peers: slices.Clone(e.Peers)}
	}
	return out
}

// Clone returns an independent deep copy.
func (s *Set) Clone() *Set {
	return New(s.Entries()...)
}

// MarshalJSON encodes the set as a JSON object whose keys appear in
// submission order. The encoding is canonical for a given set, which makes
// it suitable for content hashing.
func (s *Set) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range s.Entries() {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(e.Participant)
		if err != nil {
			return nil, err
		}
		peers := e.Peers
		if peers == nil {
			peers = []string{}
		}
		v, err := json.Marshal(peers)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// ParsePeers splits a comma-separated list of names as typed into a form,
// trimming surrounding whitespace and dropping empty entries.
func ParsePeers(raw string) []string {
	return Normalize(strings.Split(raw, ","))
}

// Normalize trims every name and drops the empty ones. Case and inner
// whitespace are preserved, so "Bob" and "bob" stay distinct.
func Normalize(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
