package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"exchange_chat/internal/domain"
	"exchange_chat/internal/infra"
)

// OutcomeKind tells the session where a dispatched line goes.
type OutcomeKind int

const (
	// OutcomeBroadcast is ordinary chat, fanned out to every connection.
	OutcomeBroadcast OutcomeKind = iota
	// OutcomeReply is a command result, sent to the requester only.
	OutcomeReply
)

// Outcome is the result of dispatching one inbound line.
type Outcome struct {
	Kind OutcomeKind
	Text string

	// Audit is set for commands. The caller delivers Text first, then passes it to Record.
	Audit *domain.AuditRecord
}

// Dispatcher separates chat traffic from exchange commands and runs the latter.
type Dispatcher struct {
	rates    *ExchangeService
	audit    domain.AuditLogger
	defaults []string
}

// NewDispatcher creates a dispatcher. audit may be nil to disable auditing.
func NewDispatcher(rates *ExchangeService, audit domain.AuditLogger, defaultCurrencies []string) *Dispatcher {
	return &Dispatcher{
		rates:    rates,
		audit:    audit,
		defaults: defaultCurrencies,
	}
}

// Handle classifies line sent by sender. Chat lines come back prefixed with the sender's
// name; exchange commands are executed and their reply returned with the audit record.
func (d *Dispatcher) Handle(ctx context.Context, sender, line string) Outcome {
	if !domain.IsCommand(line) {
		return Outcome{Kind: OutcomeBroadcast, Text: sender + ": " + line}
	}

	started := d.rates.clock.Now()
	reply, result := d.execute(ctx, line)
	infra.GlobalMetrics.RecordCommand(d.rates.clock.Since(started).Nanoseconds())

	return Outcome{
		Kind: OutcomeReply,
		Text: reply,
		Audit: &domain.AuditRecord{
			Time:      started,
			Requester: sender,
			Command:   line,
			Result:    result,
			Reply:     reply,
		},
	}
}

// execute returns the reply text and the raw pipeline result for the audit trail.
func (d *Dispatcher) execute(ctx context.Context, line string) (string, string) {
	req, err := domain.ParseCommand(line, d.defaults)
	if err != nil {
		infra.GlobalMetrics.RecordValidationFailure()
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return ve.Message, ve.Message
		}
		return err.Error(), err.Error()
	}

	report, err := d.rates.Report(ctx, req)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("Exchange pipeline failed", slog.String("command", line), slog.Any("error", err))
		}
		return NotFoundMessage, NotFoundMessage
	}

	raw, err := json.Marshal(report)
	if err != nil {
		slog.Error("Failed to marshal exchange report", slog.Any("error", err))
	}
	return RenderReport(report), string(raw)
}

// Record writes rec to the audit trail. Failures are logged, never returned.
func (d *Dispatcher) Record(ctx context.Context, rec domain.AuditRecord) {
	if d.audit == nil {
		return
	}
	// The requester may already be gone; the audit trail is still written.
	if err := d.audit.Record(context.WithoutCancel(ctx), rec); err != nil {
		slog.Error("Failed to write audit record",
			slog.String("requester", rec.Requester),
			slog.Any("error", err),
		)
	}
}
