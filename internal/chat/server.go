package chat

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"exchange_chat/internal/domain"
	"exchange_chat/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500

	drainTimeout = 15 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server exposes the chat over WebSocket plus health, metrics and audit endpoints.
type Server struct {
	addr    string
	hub     *Hub
	audit   domain.AuditQuery
	engine  *gin.Engine
	baseCtx context.Context
}

// NewServer builds the gin engine. Call Start to listen or Handler to mount it elsewhere.
// audit may be nil, in which case /api/audit is not served.
func NewServer(cfg *infra.Config, hub *Hub, audit domain.AuditQuery) *Server {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		addr:    cfg.Addr(),
		hub:     hub,
		audit:   audit,
		engine:  gin.New(),
		baseCtx: context.Background(),
	}
	s.engine.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/metrics", s.getMetrics)
	s.engine.GET("/ws", s.handleWebSocket)
	if s.audit != nil {
		s.engine.GET("/api/audit", s.getAudit)
	}
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on the configured address until ctx is cancelled, then shuts down.
// Commands still executing when ctx ends run with the cancelled context.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.baseCtx = ctx
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Chat server listening", slog.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown incomplete", slog.Any("error", err))
	}

	// Hijacked WebSocket connections are not tracked by http.Server.
	for _, conn := range s.hub.Registry().Snapshot() {
		conn.Close()
	}
	if !s.hub.Drain(drainTimeout) {
		slog.Warn("Sessions still running after shutdown", slog.Duration("waited", drainTimeout))
	}
	return nil
}

func (s *Server) handleWebSocket(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed",
			slog.String("remote", c.Request.RemoteAddr),
			slog.Any("error", err),
		)
		return
	}
	s.hub.Serve(s.baseCtx, ws)
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": s.hub.Registry().Len(),
	})
}

func (s *Server) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, infra.GlobalMetrics.Snapshot())
}

// getAudit lists recorded commands, newest last for ?requester= and newest first otherwise.
func (s *Server) getAudit(c *gin.Context) {
	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxAuditLimit)
	}

	ctx := c.Request.Context()
	var (
		entries []domain.AuditEntry
		err     error
	)
	if requester := c.Query("requester"); requester != "" {
		entries, err = s.audit.ListByRequester(ctx, requester)
		if len(entries) > limit {
			entries = entries[len(entries)-limit:]
		}
	} else {
		entries, err = s.audit.Recent(ctx, limit)
	}
	if err != nil {
		slog.Error("Audit query failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "audit query failed"})
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}

	c.JSON(http.StatusOK, entries)
}
