package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
)

// DefaultMemoryCapacity bounds how many messages each room keeps in memory
const DefaultMemoryCapacity = 1000

// MemoryMessageRepository keeps the newest messages of each room in a ring buffer.
// Used for local development and tests; nothing survives a restart.
type MemoryMessageRepository struct {
	mu       sync.Mutex
	rooms    map[string]*RingBuffer
	capacity int
	last     time.Time
}

func NewMemoryMessageRepository(capacity int) *MemoryMessageRepository {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryMessageRepository{
		rooms:    make(map[string]*RingBuffer),
		capacity: capacity,
	}
}

func (r *MemoryMessageRepository) InsertMessage(_ context.Context, msg domain.NewMessage) (domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// created_at must be strictly increasing within the store
	now := time.Now().UTC()
	if !now.After(r.last) {
		now = r.last.Add(time.Microsecond)
	}
	r.last = now

	saved := domain.ChatMessage{
		ID:          uuid.NewString(),
		Text:        msg.Text,
		Sender:      msg.Sender,
		Room:        msg.Room,
		MessageType: msg.MessageType,
		CreatedAt:   now,
	}

	buf, ok := r.rooms[msg.Room]
	if !ok {
		buf = NewRingBuffer(r.capacity)
		r.rooms[msg.Room] = buf
	}
	buf.Add(saved)

	return saved, nil
}

func (r *MemoryMessageRepository) RecentMessages(_ context.Context, room string, limit int) ([]domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf, ok := r.rooms[room]
	if !ok || limit <= 0 {
		return []domain.ChatMessage{}, nil
	}
	msgs := buf.Last(limit)
	if msgs == nil {
		return []domain.ChatMessage{}, nil
	}
	return msgs, nil
}
