package domain

import (
	"context"
	"time"
)

// RateFetcher loads the archive rates published for a single DD.MM.YYYY date.
type RateFetcher interface {
	FetchRates(ctx context.Context, date string) (*RatePayload, error)
}

// AuditRecord describes one executed exchange command.
type AuditRecord struct {
	Time      time.Time
	Requester string
	Command   string
	Result    string // raw pipeline result (JSON report or message)
	Reply     string
}

// AuditLogger durably records executed exchange commands.
type AuditLogger interface {
	Record(ctx context.Context, rec AuditRecord) error
	Close() error
}

// NameSource generates display names for anonymous users.
type NameSource interface {
	NewName() (string, error)
}

// AuditQuery reads back recorded commands. Only stores that keep entries queryable implement it.
type AuditQuery interface {
	ListByRequester(ctx context.Context, requester string) ([]AuditEntry, error)
	Recent(ctx context.Context, limit int) ([]AuditEntry, error)
}
