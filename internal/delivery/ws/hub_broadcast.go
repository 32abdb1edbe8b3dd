package ws

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
)

// persistAndBroadcast inserts msg and, only once the store confirms it,
// sends receive_message to the participants registered at send time.
func (h *Hub) persistAndBroadcast(ctx context.Context, msg domain.NewMessage) error {
	saved, err := h.store.InsertMessage(ctx, msg)
	if err != nil {
		h.logger.Error("persist message failed",
			zap.String("sender", msg.Sender),
			zap.String("type", string(msg.MessageType)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", domain.ErrPersistFailed, err)
	}

	frame, err := domain.Encode(domain.EventReceiveMessage, saved.ToWire())
	if err != nil {
		return err
	}
	sent := h.broadcast(frame, "")
	h.logger.Debug("message broadcast",
		zap.String("id", saved.ID),
		zap.String("type", string(saved.MessageType)),
		zap.Int("recipients", sent),
	)
	return nil
}

// NotifyAll pushes the full participant list to every participant
func (h *Hub) NotifyAll() {
	participants := h.registry.List()
	frame, err := domain.Encode(domain.EventOnlineUsers, participants)
	if err != nil {
		h.logger.Error("encode online users", zap.Error(err))
		return
	}
	h.broadcast(frame, "")
}

// StartTyping tells everyone but the sender that username is typing
func (h *Hub) StartTyping(connID, username string) {
	h.relayTyping(connID, username, true)
}

// StopTyping tells everyone but the sender that username stopped typing
func (h *Hub) StopTyping(connID, username string) {
	h.relayTyping(connID, username, false)
}

func (h *Hub) relayTyping(connID, username string, isTyping bool) {
	frame, err := domain.Encode(domain.EventUserTyping, domain.UserTypingPayload{
		Username: username,
		IsTyping: isTyping,
	})
	if err != nil {
		h.logger.Error("encode typing", zap.Error(err))
		return
	}
	h.broadcast(frame, connID)
}

// broadcast sends frame to every registered sink except exclude and
// returns how many accepted it. Full buffers drop the frame.
func (h *Hub) broadcast(frame []byte, exclude string) int {
	sent := 0
	for _, sink := range h.registry.Targets(exclude) {
		if sink.Send(frame) {
			sent++
			continue
		}
		h.logger.Debug("frame dropped, send buffer full")
	}
	return sent
}
