package ws

import (
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
)

// Sink is anything the hub can push an encoded frame to.
// Send must not block; it reports false when the frame was dropped.
type Sink interface {
	Send(msg []byte) bool
}

type registryEntry struct {
	participant domain.Participant
	sink        Sink
}

// Registry is the ordered list of joined participants and their sinks.
// Mutations and snapshot reads are serialized by mu.
type Registry struct {
	mu      sync.RWMutex
	entries []registryEntry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) indexOf(connectionID string) int {
	_, idx, ok := lo.FindIndexOf(r.entries, func(e registryEntry) bool {
		return e.participant.ConnectionID == connectionID
	})
	if !ok {
		return -1
	}
	return idx
}

// Register appends a participant for connectionID.
// Returns ErrAlreadyRegistered if the connection already joined.
func (r *Registry) Register(connectionID, displayName string, sink Sink) (domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(connectionID) >= 0 {
		return domain.Participant{}, fmt.Errorf("%w: %s", domain.ErrAlreadyRegistered, connectionID)
	}

	p := domain.NewParticipant(connectionID, displayName)
	r.entries = append(r.entries, registryEntry{participant: p, sink: sink})
	return p, nil
}

// Unregister removes and returns the participant for connectionID.
// Returns ErrNotRegistered if the connection never joined.
func (r *Registry) Unregister(connectionID string) (domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(connectionID)
	if idx < 0 {
		return domain.Participant{}, fmt.Errorf("%w: %s", domain.ErrNotRegistered, connectionID)
	}

	p := r.entries[idx].participant
	r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
	return p, nil
}

// List returns a snapshot of participants in registration order
func (r *Registry) List() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.entries, func(e registryEntry, _ int) domain.Participant {
		return e.participant
	})
}

// Targets returns the sinks of every participant except exclude
func (r *Registry) Targets(exclude string) []Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.FilterMap(r.entries, func(e registryEntry, _ int) (Sink, bool) {
		return e.sink, e.participant.ConnectionID != exclude
	})
}

// Len returns the number of joined participants
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
