package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/config"
	"github.com/mmuslimabdulj/shop-chat-relay/internal/delivery/ws"
)

// isOriginAllowed checks the handshake origin against the single allowed origin
func isOriginAllowed(origin, allowed string) bool {
	// Empty origin is allowed (non-browser clients)
	if origin == "" {
		return true
	}
	return allowed == "*" || origin == allowed
}

type Handler struct {
	ctx      context.Context
	hub      *ws.Hub
	cfg      *config.Config
	logger   *zap.Logger
	upgrader websocket.Upgrader

	conns sync.WaitGroup
}

// NewHandler wires the hub into HTTP. ctx outlives individual requests and
// is handed to every connection's event loop.
func NewHandler(ctx context.Context, hub *ws.Hub, cfg *config.Config, logger *zap.Logger) *Handler {
	h := &Handler{
		ctx:    ctx,
		hub:    hub,
		cfg:    cfg,
		logger: logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return isOriginAllowed(r.Header.Get("Origin"), cfg.AllowedOrigin)
		},
	}
	return h
}

// HandleWebSocket upgrades HTTP to WebSocket and starts the connection pumps
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("origin", r.Header.Get("Origin")),
			zap.Error(err),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, h.cfg.SendBufferSize, h.cfg.MaxMessageSize)
	h.logger.Info("connection opened",
		zap.String("conn_id", client.ID),
		zap.String("remote_addr", r.RemoteAddr),
	)

	h.conns.Add(1)
	go client.WritePump()
	go func() {
		defer h.conns.Done()
		client.Run(h.ctx)
	}()
}

// Drain waits until every connection has finished its leave handling.
// Connections close once the ctx given to NewHandler is cancelled; call
// Drain after the server stops accepting new ones.
func (h *Handler) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleHealth reports liveness and the number of joined participants
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"online": h.hub.OnlineCount(),
		"room":   h.hub.Room(),
		"time":   time.Now().UTC(),
	})
}

// HandleStatus renders the HTML status page
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	component := StatusPage(h.hub.Room(), h.hub.Participants())
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.Error("render status page", zap.Error(err))
	}
}
