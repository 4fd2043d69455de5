package chat

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"exchange_chat/internal/domain"

	"github.com/gorilla/websocket"
)

// Transport is the part of *websocket.Conn a Connection writes through.
type Transport interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Connection is one registered client session.
// The identity lives here; the transport is never modified to carry it.
type Connection struct {
	ID         string
	Name       string
	RemoteAddr string

	transport    Transport
	writeTimeout time.Duration
	writeMu      sync.Mutex // gorilla supports one concurrent writer

	closed    atomic.Bool // no further writes are attempted
	broken    atomic.Bool // a write failed; the peer gets no close frame
	closeOnce sync.Once
	closeErr  error
}

// Send writes one text frame. A closed or broken connection yields a *domain.DeliveryError.
// A failed write closes the transport, which ends the session's read loop.
func (c *Connection) Send(text string) error {
	if c.closed.Load() {
		return &domain.DeliveryError{ConnID: c.ID, Err: domain.ErrConnectionClosed}
	}

	c.writeMu.Lock()
	err := c.write(websocket.TextMessage, []byte(text))
	c.writeMu.Unlock()

	if err != nil {
		c.broken.Store(true)
		c.Close()
		return &domain.DeliveryError{ConnID: c.ID, Err: err}
	}
	return nil
}

// write must be called with writeMu held.
func (c *Connection) write(messageType int, data []byte) error {
	if c.writeTimeout > 0 {
		if err := c.transport.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return c.transport.WriteMessage(messageType, data)
}

// Close sends a close frame (best effort, skipped after a failed write) and
// closes the transport exactly once.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		c.writeMu.Lock()
		defer c.writeMu.Unlock()

		if !c.broken.Load() {
			if err := c.transport.SetWriteDeadline(time.Now().Add(time.Second)); err != nil {
				slog.Debug("Close deadline not set", slog.String("id", c.ID), slog.Any("error", err))
			}
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			if err := c.transport.WriteMessage(websocket.CloseMessage, msg); err != nil {
				slog.Debug("Close frame not sent", slog.String("id", c.ID), slog.Any("error", err))
			}
		}
		c.closeErr = c.transport.Close()
	})
	return c.closeErr
}

// IsClosed reports whether the connection can no longer be written to.
func (c *Connection) IsClosed() bool {
	return c.closed.Load()
}
