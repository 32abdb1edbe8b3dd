package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
)

// Dispatch decodes one inbound frame and routes it to the matching handler.
// Missing payload fields decode as empty strings rather than being rejected.
func (h *Hub) Dispatch(ctx context.Context, connID string, sink Sink, frame []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic handling frame from %s: %v", connID, r)
		}
	}()

	var env domain.Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}

	switch env.Type {
	case domain.EventUserJoined:
		var p domain.JoinPayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		return h.Join(ctx, connID, sink, p.Username)

	case domain.EventSendMessage:
		var p domain.SendMessagePayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		return h.HandleIncoming(ctx, p)

	case domain.EventStartTyping, domain.EventStopTyping:
		var p domain.TypingPayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		if env.Type == domain.EventStartTyping {
			h.StartTyping(connID, p.Username)
		} else {
			h.StopTyping(connID, p.Username)
		}
		return nil
	}

	return fmt.Errorf("%w: %q", domain.ErrUnknownEvent, env.Type)
}

func decodePayload(env domain.Envelope, dst any) error {
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrMalformedEvent, env.Type, err)
	}
	return nil
}
