package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"exchange_chat/internal/chat"
	"exchange_chat/internal/domain"
	"exchange_chat/internal/infra"
	"exchange_chat/internal/infra/storage"
	"exchange_chat/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config *infra.Config
	Audit  domain.AuditLogger
	Server *chat.Server
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration and wires every component. configPath may be empty.
func (b *Bootstrap) Initialize(configPath string) error {
	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	// 2. Setup Logger
	slog.SetDefault(infra.NewLogger(cfg))
	slog.Info("🚀 Bootstrapping exchange chat...",
		slog.String("version", cfg.App.Version),
		slog.String("config", configPath),
	)

	// 3. Audit Trail
	audit, err := OpenAudit(cfg.Audit)
	if err != nil {
		return err
	}
	b.Audit = audit
	slog.Info("✅ Audit trail ready", slog.String("driver", cfg.Audit.Driver), slog.String("path", cfg.Audit.Path))

	// 4. Exchange Pipeline
	fetcher := infra.NewExchangeRateClientWithConfig(cfg.Exchange)
	rates := service.NewExchangeService(fetcher, nil, cfg.Exchange.ConcurrentFetch)
	dispatcher := service.NewDispatcher(rates, audit, cfg.Exchange.DefaultCurrencies)

	// 5. Chat Server
	registry := chat.NewRegistry(infra.NewRandomNames(), time.Duration(cfg.Server.WriteTimeoutMS)*time.Millisecond)
	hub := chat.NewHub(registry, dispatcher, cfg.Server.MaxMessageBytes)
	query, _ := audit.(domain.AuditQuery)
	b.Server = chat.NewServer(cfg, hub, query)

	return nil
}

// OpenAudit opens the audit logger selected by cfg.Driver.
func OpenAudit(cfg infra.AuditConfig) (domain.AuditLogger, error) {
	switch cfg.Driver {
	case "file":
		audit, err := infra.NewFileAuditLogger(cfg.Path)
		if err != nil {
			return nil, err
		}
		return audit, nil
	case "sqlite":
		store, err := storage.NewStorage(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, &domain.ConfigError{Field: "audit.driver", Err: fmt.Errorf("unsupported driver %q", cfg.Driver)}
	}
}

// Run serves until ctx is cancelled and releases resources afterwards.
// The audit trail is closed only after the server has drained its sessions.
func (b *Bootstrap) Run(ctx context.Context) error {
	if b.Server == nil {
		return errors.New("bootstrap not initialized")
	}

	serveErr := b.Server.Start(ctx)

	if b.Audit != nil {
		if err := b.Audit.Close(); err != nil {
			slog.Warn("Failed to close audit trail", slog.Any("error", err))
		}
	}
	return serveErr
}
