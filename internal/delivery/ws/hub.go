package ws

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
	"github.com/mmuslimabdulj/shop-chat-relay/internal/repository"
)

// Hub relays chat events between joined participants.
// It owns the Registry; persistence is delegated to the repository.
type Hub struct {
	registry     *Registry
	store        repository.MessageRepository
	logger       *zap.Logger
	room         string
	systemSender string
	historyLimit int
}

// Option customises a Hub
type Option func(*Hub)

// WithRoom sets the room every message is persisted under
func WithRoom(room string) Option {
	return func(h *Hub) {
		if room != "" {
			h.room = room
		}
	}
}

// WithSystemSender sets the sender label of join/leave announcements
func WithSystemSender(sender string) Option {
	return func(h *Hub) {
		if sender != "" {
			h.systemSender = sender
		}
	}
}

// WithHistoryLimit sets how many messages a new connection replays
func WithHistoryLimit(limit int) Option {
	return func(h *Hub) {
		if limit > 0 {
			h.historyLimit = limit
		}
	}
}

// NewHub creates a Hub backed by store
func NewHub(store repository.MessageRepository, logger *zap.Logger, opts ...Option) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		registry:     NewRegistry(),
		store:        store,
		logger:       logger,
		room:         domain.DefaultRoom,
		systemSender: domain.SystemSender,
		historyLimit: domain.DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Welcome greets a fresh connection and replays history to it alone.
// It must complete before the connection's events are read, so that
// history always precedes live broadcasts.
func (h *Hub) Welcome(ctx context.Context, connID string, sink Sink) {
	frame, err := domain.Encode(domain.EventWelcome, domain.WelcomeText)
	if err != nil {
		h.logger.Error("encode welcome", zap.String("conn_id", connID), zap.Error(err))
	} else {
		sink.Send(frame)
	}
	h.SendHistory(ctx, connID, sink)
}

// SendHistory sends the most recent messages, oldest first, as one batch.
// A store failure degrades to an empty batch.
func (h *Hub) SendHistory(ctx context.Context, connID string, sink Sink) {
	history, err := h.store.RecentMessages(ctx, h.room, h.historyLimit)
	if err != nil {
		h.logger.Warn("history fetch failed",
			zap.String("conn_id", connID),
			zap.String("room", h.room),
			zap.Error(err),
		)
		history = nil
	}
	if len(history) > h.historyLimit {
		history = history[len(history)-h.historyLimit:]
	}

	wire := lo.Map(history, func(m domain.ChatMessage, _ int) domain.WireMessage {
		return m.ToWire()
	})
	frame, err := domain.Encode(domain.EventMessageHistory, wire)
	if err != nil {
		h.logger.Error("encode history", zap.Error(err))
		return
	}
	sink.Send(frame)
	h.logger.Debug("history sent", zap.String("conn_id", connID), zap.Int("count", len(wire)))
}

// Join registers the connection, announces it and refreshes presence.
// Presence is sent even when the announcement could not be persisted.
func (h *Hub) Join(ctx context.Context, connID string, sink Sink, username string) error {
	p, err := h.registry.Register(connID, username, sink)
	if err != nil {
		return err
	}
	h.logger.Info("participant joined",
		zap.String("conn_id", connID),
		zap.String("username", p.DisplayName),
	)

	persistErr := h.persistAndBroadcast(ctx, domain.JoinMessage(p.DisplayName, h.systemSender, h.room))
	h.NotifyAll()
	return persistErr
}

// Disconnect removes the connection. Connections that never joined are
// dropped silently; joined ones get a leave announcement and a presence update.
func (h *Hub) Disconnect(ctx context.Context, connID string) error {
	p, err := h.registry.Unregister(connID)
	if errors.Is(err, domain.ErrNotRegistered) {
		h.logger.Debug("disconnect before join", zap.String("conn_id", connID))
		return nil
	}
	if err != nil {
		return err
	}
	h.logger.Info("participant left",
		zap.String("conn_id", connID),
		zap.String("username", p.DisplayName),
	)

	persistErr := h.persistAndBroadcast(ctx, domain.LeaveMessage(p.DisplayName, h.systemSender, h.room))
	h.NotifyAll()
	return persistErr
}

// HandleIncoming persists a chat message and broadcasts it on success
func (h *Hub) HandleIncoming(ctx context.Context, in domain.SendMessagePayload) error {
	req := domain.NewMessage{
		Text:   in.Text,
		Sender: in.Sender,
	}.WithDefaults(h.room)

	if err := h.persistAndBroadcast(ctx, req); err != nil {
		return fmt.Errorf("send_message from %q: %w", in.Sender, err)
	}
	return nil
}
