package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType records which template produced a persisted message
type MessageType string

const (
	MessageTypeMessage MessageType = "message"
	MessageTypeJoin    MessageType = "join"
	MessageTypeLeave   MessageType = "leave"
)

// EventName is the name carried in the "type" field of every frame
type EventName string

const (
	// server -> client
	EventWelcome        EventName = "welcome"
	EventMessageHistory EventName = "message_history"
	EventOnlineUsers    EventName = "online_users"
	EventReceiveMessage EventName = "receive_message"
	EventUserTyping     EventName = "user_typing"

	// client -> server
	EventUserJoined  EventName = "user_joined"
	EventSendMessage EventName = "send_message"
	EventStartTyping EventName = "start_typing"
	EventStopTyping  EventName = "stop_typing"
)

// ChatMessage is a message as stored by the external store
type ChatMessage struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	Sender      string      `json:"sender"`
	Room        string      `json:"room"`
	MessageType MessageType `json:"message_type"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewMessage is an insert request; the store assigns ID and CreatedAt
type NewMessage struct {
	Text        string
	Sender      string
	Room        string
	MessageType MessageType
}

// WithDefaults fills Room and MessageType when the caller left them empty
func (m NewMessage) WithDefaults(room string) NewMessage {
	if m.Room == "" {
		m.Room = room
	}
	if m.MessageType == "" {
		m.MessageType = MessageTypeMessage
	}
	return m
}

// JoinMessage builds the system announcement for a participant joining
func JoinMessage(displayName, systemSender, room string) NewMessage {
	return NewMessage{
		Text:        fmt.Sprintf("%s joined the chat! 👋", displayName),
		Sender:      systemSender,
		Room:        room,
		MessageType: MessageTypeJoin,
	}
}

// LeaveMessage builds the system announcement for a participant leaving
func LeaveMessage(displayName, systemSender, room string) NewMessage {
	return NewMessage{
		Text:        fmt.Sprintf("%s left the chat 👋", displayName),
		Sender:      systemSender,
		Room:        room,
		MessageType: MessageTypeLeave,
	}
}

// WireMessage is the payload of receive_message and of each history entry
type WireMessage struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Sender    string      `json:"sender"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type"`
}

// ToWire converts a persisted message into its broadcast form
func (m ChatMessage) ToWire() WireMessage {
	return WireMessage{
		ID:        m.ID,
		Text:      m.Text,
		Sender:    m.Sender,
		Timestamp: m.CreatedAt,
		Type:      m.MessageType,
	}
}

// Envelope is a single frame on the websocket
type Envelope struct {
	Type    EventName       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode marshals payload into a frame ready to send
func Encode(event EventName, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event, err)
	}
	return json.Marshal(Envelope{Type: event, Payload: raw})
}

// JoinPayload is the payload of user_joined
type JoinPayload struct {
	Username string `json:"username"`
}

// SendMessagePayload is the payload of send_message
type SendMessagePayload struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// TypingPayload is the payload of start_typing and stop_typing
type TypingPayload struct {
	Username string `json:"username"`
}

// UserTypingPayload is the payload of user_typing
type UserTypingPayload struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}
