package chat

import (
	"log/slog"
	"sync"
	"time"

	"exchange_chat/internal/domain"
	"exchange_chat/internal/infra"

	"github.com/google/uuid"
)

// Registry tracks live connections and distributes messages to them.
type Registry struct {
	mu           sync.RWMutex
	conns        map[*Connection]struct{}
	names        domain.NameSource
	writeTimeout time.Duration
}

// NewRegistry creates an empty registry. names may be nil, in which case every
// connection gets a generated guest name.
func NewRegistry(names domain.NameSource, writeTimeout time.Duration) *Registry {
	return &Registry{
		conns:        make(map[*Connection]struct{}),
		names:        names,
		writeTimeout: writeTimeout,
	}
}

// Register wraps transport in a Connection, names it and adds it to the set.
func (r *Registry) Register(transport Transport, remoteAddr string) *Connection {
	id := uuid.NewString()
	conn := &Connection{
		ID:           id,
		Name:         r.displayName(id),
		RemoteAddr:   remoteAddr,
		transport:    transport,
		writeTimeout: r.writeTimeout,
	}

	r.mu.Lock()
	r.conns[conn] = struct{}{}
	r.mu.Unlock()

	infra.GlobalMetrics.IncrementConnections()
	slog.Info("Client connected",
		slog.String("remote", remoteAddr),
		slog.String("id", conn.ID),
		slog.String("name", conn.Name),
	)
	return conn
}

func (r *Registry) displayName(id string) string {
	if r.names != nil {
		name, err := r.names.NewName()
		if err == nil && name != "" {
			return name
		}
		slog.Warn("Display name generation failed, using placeholder", slog.Any("error", err))
	}
	return "Guest-" + id[:8]
}

// Unregister removes conn. It returns false, and does nothing else, when conn is not registered.
func (r *Registry) Unregister(conn *Connection) bool {
	r.mu.Lock()
	_, ok := r.conns[conn]
	delete(r.conns, conn)
	r.mu.Unlock()

	if !ok {
		return false
	}

	infra.GlobalMetrics.DecrementConnections()
	slog.Info("Client disconnected",
		slog.String("remote", conn.RemoteAddr),
		slog.String("id", conn.ID),
		slog.String("name", conn.Name),
	)
	return true
}

// Snapshot returns the connections registered at call time.
func (r *Registry) Snapshot() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*Connection, 0, len(r.conns))
	for c := range r.conns {
		conns = append(conns, c)
	}
	return conns
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// SendTo delivers text to a single connection. A failed delivery disconnects
// the recipient: its transport is closed and it leaves the registry.
func (r *Registry) SendTo(conn *Connection, text string) error {
	if err := conn.Send(text); err != nil {
		infra.GlobalMetrics.RecordDeliveryFailure()
		r.Unregister(conn)
		return err
	}
	return nil
}

// Broadcast delivers text to every connection registered at call time and returns
// the number of successful deliveries. A failed recipient does not stop the fan-out.
func (r *Registry) Broadcast(text string) int {
	delivered := 0
	for _, conn := range r.Snapshot() {
		if err := r.SendTo(conn, text); err != nil {
			slog.Debug("Broadcast delivery failed",
				slog.String("id", conn.ID),
				slog.Any("error", err),
			)
			continue
		}
		delivered++
	}
	infra.GlobalMetrics.RecordBroadcast()
	return delivered
}
