package ws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
)

// recordingSink stores every frame it accepts; a full sink rejects them all
type recordingSink struct {
	mu     sync.Mutex
	frames []domain.Envelope
	full   bool
}

func (s *recordingSink) Send(msg []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full {
		return false
	}
	var env domain.Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		panic(err)
	}
	s.frames = append(s.frames, env)
	return true
}

func (s *recordingSink) events() []domain.EventName {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.EventName, 0, len(s.frames))
	for _, f := range s.frames {
		out = append(out, f.Type)
	}
	return out
}

func (s *recordingSink) ofType(event domain.EventName) []domain.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Envelope
	for _, f := range s.frames {
		if f.Type == event {
			out = append(out, f)
		}
	}
	return out
}

func (s *recordingSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = nil
}

func lastOnlineUsers(t *testing.T, s *recordingSink) []string {
	t.Helper()
	frames := s.ofType(domain.EventOnlineUsers)
	require.NotEmpty(t, frames, "expected an online_users frame")

	var participants []domain.Participant
	require.NoError(t, json.Unmarshal(frames[len(frames)-1].Payload, &participants))
	names := make([]string, 0, len(participants))
	for _, p := range participants {
		names = append(names, p.DisplayName)
	}
	return names
}

func receivedMessages(t *testing.T, s *recordingSink) []domain.WireMessage {
	t.Helper()
	var out []domain.WireMessage
	for _, f := range s.ofType(domain.EventReceiveMessage) {
		var m domain.WireMessage
		require.NoError(t, json.Unmarshal(f.Payload, &m))
		out = append(out, m)
	}
	return out
}

func historyOf(t *testing.T, s *recordingSink) []domain.WireMessage {
	t.Helper()
	frames := s.ofType(domain.EventMessageHistory)
	require.Len(t, frames, 1, "history must be sent exactly once")

	var out []domain.WireMessage
	require.NoError(t, json.Unmarshal(frames[0].Payload, &out))
	return out
}
