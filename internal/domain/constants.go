package domain

import "time"

// ==== Room Constants ====

// DefaultRoom is the single logical channel every message belongs to
const DefaultRoom = "general"

// SystemSender is the sender label used for join/leave announcements
const SystemSender = "System"

// WelcomeText is sent to every connection right after the handshake
const WelcomeText = "Welcome! Connected to the chat server 🚀"

// ==== History Constants ====

// DefaultHistoryLimit is how many persisted messages a new connection replays
const DefaultHistoryLimit = 50

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed WebSocket frame size in bytes
const MaxMessageSize = 4096

// SendBufferSize is the per-connection outbound queue length
const SendBufferSize = 256

const (
	// WriteWait is the time allowed to write a frame to the peer
	WriteWait = 10 * time.Second

	// PongWait is the time allowed to read the next pong from the peer
	PongWait = 60 * time.Second

	// PingPeriod must be less than PongWait
	PingPeriod = (PongWait * 9) / 10
)

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitWS is the handshake rate per IP (req/sec)
	DefaultRateLimitWS = 5

	// DefaultBurstWS is the handshake burst per IP
	DefaultBurstWS = 10
)
