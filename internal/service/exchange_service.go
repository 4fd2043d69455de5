package service

import (
	"context"
	"log/slog"

	"exchange_chat/internal/domain"
	"exchange_chat/internal/infra"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"
)

// maxParallelFetches bounds the concurrent fetch mode.
const maxParallelFetches = 4

// DatedPayload pairs a period date with its payload; Payload is nil when the fetch failed.
type DatedPayload struct {
	Date    string
	Payload *domain.RatePayload
}

// ExchangeService runs the exchange pipeline: period -> fetch -> aggregate.
type ExchangeService struct {
	fetcher    domain.RateFetcher
	clock      clock.Clock
	concurrent bool
}

// NewExchangeService creates the pipeline over fetcher.
// A nil clock means wall-clock time.
func NewExchangeService(fetcher domain.RateFetcher, clk clock.Clock, concurrent bool) *ExchangeService {
	if clk == nil {
		clk = clock.New()
	}
	return &ExchangeService{
		fetcher:    fetcher,
		clock:      clk,
		concurrent: concurrent,
	}
}

// Report builds the exchange report for a validated request.
// It returns domain.ErrNotFound when no date produced a requested currency.
func (s *ExchangeService) Report(ctx context.Context, req domain.CommandRequest) (domain.Report, error) {
	period := BuildPeriod(s.clock.Now(), req.Days)
	dated := s.Fetch(ctx, period)
	return Aggregate(dated, req.Currencies)
}

// Fetch loads one payload per date. Failed dates are logged and kept with a nil payload;
// the result always has the period's order and length.
func (s *ExchangeService) Fetch(ctx context.Context, period Period) []DatedPayload {
	results := make([]DatedPayload, len(period))

	if !s.concurrent {
		for i, date := range period {
			results[i] = s.fetchOne(ctx, date)
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, date := range period {
		i, date := i, date
		g.Go(func() error {
			results[i] = s.fetchOne(gctx, date)
			return nil
		})
	}
	g.Wait()

	return results
}

func (s *ExchangeService) fetchOne(ctx context.Context, date string) DatedPayload {
	payload, err := s.fetcher.FetchRates(ctx, date)
	if err != nil {
		infra.GlobalMetrics.RecordFetchFailure()
		slog.Warn("Exchange rate fetch failed, skipping date",
			slog.String("date", date),
			slog.Any("error", err),
		)
		return DatedPayload{Date: date}
	}
	return DatedPayload{Date: date, Payload: payload}
}
