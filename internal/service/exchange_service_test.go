package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"exchange_chat/internal/domain"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
)

// stubFetcher serves canned payloads per date and counts calls.
type stubFetcher struct {
	mu       sync.Mutex
	payloads map[string]*domain.RatePayload
	calls    []string
}

func newStubFetcher(payloads map[string]*domain.RatePayload) *stubFetcher {
	return &stubFetcher{payloads: payloads}
}

func (f *stubFetcher) FetchRates(_ context.Context, date string) (*domain.RatePayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, date)

	p, ok := f.payloads[date]
	if !ok {
		return nil, domain.NewNetworkError("fetch "+date, errors.New("connection reset"))
	}
	return p, nil
}

func (f *stubFetcher) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func rate(code, sale, purchase string) domain.CurrencyRate {
	return domain.CurrencyRate{
		Currency:     code,
		SaleRate:     decimal.NewNullDecimal(decimal.RequireFromString(sale)),
		PurchaseRate: decimal.NewNullDecimal(decimal.RequireFromString(purchase)),
	}
}

func mockClock(t time.Time) *clock.Mock {
	clk := clock.NewMock()
	clk.Set(t)
	return clk
}

func TestExchangeService_FetchKeepsOrder(t *testing.T) {
	period := Period{"05.03.2024", "04.03.2024", "03.03.2024", "02.03.2024"}
	payloads := map[string]*domain.RatePayload{
		"05.03.2024": {Date: "05.03.2024", ExchangeRate: []domain.CurrencyRate{}},
		"03.03.2024": {Date: "03.03.2024", ExchangeRate: []domain.CurrencyRate{}},
	}

	for _, concurrent := range []bool{false, true} {
		fetcher := newStubFetcher(payloads)
		svc := NewExchangeService(fetcher, nil, concurrent)

		got := svc.Fetch(context.Background(), period)

		if len(got) != len(period) {
			t.Fatalf("concurrent=%v: expected %d results, got %d", concurrent, len(period), len(got))
		}
		for i, d := range got {
			if d.Date != period[i] {
				t.Errorf("concurrent=%v: result[%d].Date = %s, want %s", concurrent, i, d.Date, period[i])
			}
			_, ok := payloads[d.Date]
			if ok != (d.Payload != nil) {
				t.Errorf("concurrent=%v: result[%d] payload presence = %v, want %v", concurrent, i, d.Payload != nil, ok)
			}
		}
		if fetcher.CallCount() != len(period) {
			t.Errorf("concurrent=%v: expected %d calls, got %d", concurrent, len(period), fetcher.CallCount())
		}
	}
}

func TestExchangeService_SequentialOrder(t *testing.T) {
	fetcher := newStubFetcher(nil)
	svc := NewExchangeService(fetcher, nil, false)

	period := Period{"05.03.2024", "04.03.2024", "03.03.2024"}
	svc.Fetch(context.Background(), period)

	for i, date := range fetcher.calls {
		if date != period[i] {
			t.Errorf("call %d fetched %s, want %s", i, date, period[i])
		}
	}
}

func TestExchangeService_Report(t *testing.T) {
	clk := mockClock(time.Date(2024, 3, 6, 12, 0, 0, 0, time.Local))
	fetcher := newStubFetcher(map[string]*domain.RatePayload{
		"05.03.2024": {Date: "05.03.2024", ExchangeRate: []domain.CurrencyRate{
			rate("USD", "27.5", "27.0"),
			rate("EUR", "30.1", "29.6"),
		}},
	})
	svc := NewExchangeService(fetcher, clk, false)

	report, err := svc.Report(context.Background(), domain.CommandRequest{Days: 2, Currencies: []string{"USD"}})
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if len(report) != 1 || report[0].Date != "05.03.2024" {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report[0].Quotes) != 1 || report[0].Quotes[0].Currency != "USD" {
		t.Errorf("unexpected quotes %+v", report[0].Quotes)
	}
	if fetcher.CallCount() != 2 {
		t.Errorf("expected 2 fetches, got %d", fetcher.CallCount())
	}
}

func TestExchangeService_AllFetchesFail(t *testing.T) {
	fetcher := newStubFetcher(nil)
	svc := NewExchangeService(fetcher, mockClock(time.Now()), false)

	_, err := svc.Report(context.Background(), domain.CommandRequest{Days: 3, Currencies: []string{"USD", "EUR"}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if fetcher.CallCount() != 3 {
		t.Errorf("expected 3 fetch attempts, got %d", fetcher.CallCount())
	}
}
