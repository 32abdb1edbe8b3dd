package repository

import "github.com/mmuslimabdulj/shop-chat-relay/internal/domain"

// RingBuffer is a fixed-size circular buffer of persisted messages.
// Once full, each Add overwrites the oldest entry.
type RingBuffer struct {
	data []domain.ChatMessage
	head int // next write position
	size int
	cap  int
}

// NewRingBuffer creates a new ring buffer with the given capacity
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingBuffer{
		data: make([]domain.ChatMessage, capacity),
		cap:  capacity,
	}
}

// Add appends a message, overwriting the oldest if full
func (rb *RingBuffer) Add(msg domain.ChatMessage) {
	rb.data[rb.head] = msg
	rb.head = (rb.head + 1) % rb.cap

	if rb.size < rb.cap {
		rb.size++
	}
}

// Last returns the newest n messages, oldest first
func (rb *RingBuffer) Last(n int) []domain.ChatMessage {
	if n > rb.size {
		n = rb.size
	}
	if n <= 0 {
		return nil
	}

	result := make([]domain.ChatMessage, n)
	// index of the oldest element we want
	start := (rb.head - n + rb.cap) % rb.cap
	for i := 0; i < n; i++ {
		result[i] = rb.data[(start+i)%rb.cap]
	}
	return result
}
