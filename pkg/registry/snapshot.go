package registry

import (
	"time"

	"github.com/relaymesh/relay/pkg/a2a"
	"github.com/relaymesh/relay/pkg/config"
)

// Snapshot is an immutable view of one discovery pass. All fields are fixed
// at construction; concurrent readers share snapshots freely.
type Snapshot struct {
	version uint64
	takenAt time.Time
	names   []string
	cards   map[string]*a2a.AgentCard
	urls    map[string]string
}

var emptySnapshot = &Snapshot{
	cards: map[string]*a2a.AgentCard{},
	urls:  map[string]string{},
}

// newSnapshot builds a snapshot from discovery results. cards is indexed by
// entry position; nil marks a failed fetch, which excludes the entry.
func newSnapshot(version uint64, entries []config.AgentEntry, cards []*a2a.AgentCard) *Snapshot {
	snap := &Snapshot{
		version: version,
		takenAt: time.Now(),
		names:   make([]string, 0, len(entries)),
		cards:   make(map[string]*a2a.AgentCard, len(entries)),
		urls:    make(map[string]string, len(entries)),
	}

	for i, entry := range entries {
		if cards[i] == nil {
			continue
		}
		snap.names = append(snap.names, entry.Name)
		snap.cards[entry.Name] = cards[i]
		snap.urls[entry.Name] = entry.URL
	}

	return snap
}

// Version returns the discovery pass number that produced this snapshot.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// TakenAt returns when this snapshot was published.
func (s *Snapshot) TakenAt() time.Time {
	return s.takenAt
}

// Len returns the number of discovered agents.
func (s *Snapshot) Len() int {
	return len(s.names)
}

// Names returns the discovered agent names in registration order. Callers
// must not modify the returned slice.
func (s *Snapshot) Names() []string {
	return s.names
}

// Card returns the capability card for a discovered agent.
func (s *Snapshot) Card(name string) (*a2a.AgentCard, bool) {
	card, ok := s.cards[name]
	return card, ok
}

// BaseURL returns the configured base URL for a discovered agent.
func (s *Snapshot) BaseURL(name string) (string, bool) {
	url, ok := s.urls[name]
	return url, ok
}

// First returns the first discovered agent in registration order.
func (s *Snapshot) First() (string, bool) {
	if len(s.names) == 0 {
		return "", false
	}
	return s.names[0], true
}

// Cards returns the discovered cards in registration order.
func (s *Snapshot) Cards() []*a2a.AgentCard {
	cards := make([]*a2a.AgentCard, 0, len(s.names))
	for _, name := range s.names {
		cards = append(cards, s.cards[name])
	}
	return cards
}
