package ws

import "github.com/mmuslimabdulj/shop-chat-relay/internal/domain"

// Participants returns the current registry snapshot
func (h *Hub) Participants() []domain.Participant {
	return h.registry.List()
}

// OnlineCount returns the number of joined participants
func (h *Hub) OnlineCount() int {
	return h.registry.Len()
}

// Room returns the room this hub persists messages under
func (h *Hub) Room() string {
	return h.room
}
