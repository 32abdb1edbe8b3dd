package ws

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
)

// Client represents a single websocket connection
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	maxMessageSize int64
	done           chan struct{}
	closeOnce      sync.Once
}

// NewClient creates a Client with a fresh connection id
func NewClient(hub *Hub, conn *websocket.Conn, bufferSize int, maxMessageSize int64) *Client {
	if bufferSize <= 0 {
		bufferSize = domain.SendBufferSize
	}
	if maxMessageSize <= 0 {
		maxMessageSize = domain.MaxMessageSize
	}
	return &Client{
		ID:             uuid.NewString(),
		hub:            hub,
		conn:           conn,
		send:           make(chan []byte, bufferSize),
		maxMessageSize: maxMessageSize,
		done:           make(chan struct{}),
	}
}

// Send queues a frame without blocking; it reports false if the frame
// was dropped because the buffer is full or the client is closed.
func (c *Client) Send(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Close stops the write pump; safe to call more than once
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Run greets the connection, then reads its events until it goes away.
// Events of one connection are handled strictly in arrival order.
// Cancelling ctx sends a close frame, which ends the read loop.
func (c *Client) Run(ctx context.Context) {
	stop := context.AfterFunc(ctx, c.Close)
	defer stop()

	c.hub.Welcome(ctx, c.ID, c)
	c.ReadPump(ctx)
}

// ReadPump pumps frames from the websocket connection into the hub
func (c *Client) ReadPump(ctx context.Context) {
	logger := c.hub.logger.With(zap.String("conn_id", c.ID))
	defer func() {
		// the leave announcement is still persisted during shutdown
		if err := c.hub.Disconnect(context.WithoutCancel(ctx), c.ID); err != nil {
			logger.Warn("disconnect handling failed", zap.Error(err))
		}
		c.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(domain.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(domain.PongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("unexpected close", zap.Error(err))
			}
			return
		}

		if err := c.hub.Dispatch(ctx, c.ID, c, frame); err != nil {
			logger.Warn("event handling failed", zap.Error(err))
		}
	}
}

// WritePump pumps frames from the send queue to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(domain.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(domain.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(domain.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(domain.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
