package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"exchange_chat/internal/service"

	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub runs the per-connection read loop and routes dispatch outcomes.
type Hub struct {
	registry        *Registry
	dispatcher      *service.Dispatcher
	maxMessageBytes int64

	mu       sync.Mutex
	draining bool
	sessions sync.WaitGroup
}

// NewHub creates a hub. maxMessageBytes <= 0 leaves gorilla's read limit unset.
func NewHub(registry *Registry, dispatcher *service.Dispatcher, maxMessageBytes int64) *Hub {
	return &Hub{
		registry:        registry,
		dispatcher:      dispatcher,
		maxMessageBytes: maxMessageBytes,
	}
}

// Registry returns the connection registry served by the hub.
func (h *Hub) Registry() *Registry {
	return h.registry
}

func (h *Hub) beginSession() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draining {
		return false
	}
	h.sessions.Add(1)
	return true
}

// Drain refuses new sessions and waits up to timeout for running ones, including
// commands still executing, to finish. It reports whether all sessions ended.
func (h *Hub) Drain(timeout time.Duration) bool {
	h.mu.Lock()
	h.draining = true
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Serve registers ws and processes its inbound frames in arrival order until the
// peer disconnects. The connection is always unregistered on return.
func (h *Hub) Serve(ctx context.Context, ws *websocket.Conn) {
	if !h.beginSession() {
		ws.Close()
		return
	}
	defer h.sessions.Done()

	conn := h.registry.Register(ws, ws.RemoteAddr().String())
	defer func() {
		h.registry.Unregister(conn)
		conn.Close()
	}()

	if h.maxMessageBytes > 0 {
		ws.SetReadLimit(h.maxMessageBytes)
	}
	extendReadDeadline(ws, conn)
	ws.SetPongHandler(func(string) error {
		extendReadDeadline(ws, conn)
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go keepAlive(ws, done)

	for {
		msgType, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				slog.Warn("WebSocket read failed",
					slog.String("id", conn.ID),
					slog.Any("error", err),
				)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		// Any inbound frame proves the peer is alive.
		extendReadDeadline(ws, conn)

		h.handle(ctx, conn, string(data))
	}
}

func extendReadDeadline(ws *websocket.Conn, conn *Connection) {
	if err := ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		slog.Debug("Read deadline not set", slog.String("id", conn.ID), slog.Any("error", err))
	}
}

func (h *Hub) handle(ctx context.Context, conn *Connection, line string) {
	out := h.dispatcher.Handle(ctx, conn.Name, line)

	switch out.Kind {
	case service.OutcomeBroadcast:
		h.registry.Broadcast(out.Text)
	case service.OutcomeReply:
		if err := h.registry.SendTo(conn, out.Text); err != nil {
			slog.Debug("Reply dropped",
				slog.String("id", conn.ID),
				slog.Any("error", err),
			)
		}
	}

	if out.Audit != nil {
		h.dispatcher.Record(ctx, *out.Audit)
	}
}

// keepAlive pings the peer until done is closed. WriteControl is safe to call
// concurrently with the writer guarded by Connection.
func keepAlive(ws *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}
}
