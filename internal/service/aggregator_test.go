package service

import (
	"errors"
	"testing"

	"exchange_chat/internal/domain"

	"github.com/shopspring/decimal"
)

func TestAggregate(t *testing.T) {
	dated := []DatedPayload{
		{Date: "05.03.2024", Payload: &domain.RatePayload{Date: "05.03.2024", ExchangeRate: []domain.CurrencyRate{
			rate("CHF", "31.0", "30.0"),
			rate("USD", "27.5", "27.0"),
			rate("EUR", "30.1", "29.6"),
		}}},
		{Date: "04.03.2024"}, // failed fetch
		{Date: "03.03.2024", Payload: &domain.RatePayload{Date: "03.03.2024", ExchangeRate: []domain.CurrencyRate{
			rate("PLN", "7.0", "6.8"),
		}}},
		{Date: "02.03.2024", Payload: &domain.RatePayload{Date: "02.03.2024", ExchangeRate: []domain.CurrencyRate{
			rate("EUR", "30.0", "29.5"),
		}}},
	}

	report, err := Aggregate(dated, []string{"usd", "EUR"})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(report) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(report), report)
	}
	if report[0].Date != "05.03.2024" || report[1].Date != "02.03.2024" {
		t.Errorf("unexpected dates %s, %s", report[0].Date, report[1].Date)
	}

	requested := map[string]bool{"USD": true, "EUR": true}
	for _, entry := range report {
		if len(entry.Quotes) == 0 {
			t.Errorf("entry %s has no quotes", entry.Date)
		}
		for _, q := range entry.Quotes {
			if !requested[q.Currency] {
				t.Errorf("entry %s contains unrequested currency %s", entry.Date, q.Currency)
			}
		}
	}

	first := report[0].Quotes
	if len(first) != 2 || first[0].Currency != "USD" || first[1].Currency != "EUR" {
		t.Fatalf("expected USD then EUR in payload order, got %+v", first)
	}
	if !first[0].Sale.Equal(decimal.RequireFromString("27.5")) || !first[1].Purchase.Equal(decimal.RequireFromString("29.6")) {
		t.Errorf("quotes share values across currencies: %+v", first)
	}
}

func TestAggregate_NotFound(t *testing.T) {
	t.Run("all absent", func(t *testing.T) {
		_, err := Aggregate([]DatedPayload{{Date: "01.01.2024"}, {Date: "31.12.2023"}}, []string{"USD"})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("no matching currency", func(t *testing.T) {
		dated := []DatedPayload{{Date: "01.01.2024", Payload: &domain.RatePayload{
			Date:         "01.01.2024",
			ExchangeRate: []domain.CurrencyRate{rate("USD", "1", "1")},
		}}}
		report, err := Aggregate(dated, []string{"GBP"})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if report != nil {
			t.Errorf("expected nil report, got %+v", report)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if _, err := Aggregate(nil, []string{"USD"}); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAggregate_DuplicateRowReplaces(t *testing.T) {
	dated := []DatedPayload{{Date: "01.01.2024", Payload: &domain.RatePayload{
		Date: "01.01.2024",
		ExchangeRate: []domain.CurrencyRate{
			rate("USD", "1", "1"),
			rate("USD", "2", "2"),
		},
	}}}

	report, err := Aggregate(dated, []string{"USD"})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(report[0].Quotes) != 1 || !report[0].Quotes[0].Sale.Equal(decimal.NewFromInt(2)) {
		t.Errorf("expected single USD quote with sale 2, got %+v", report[0].Quotes)
	}
}

func TestAggregate_FallsBackToPeriodDate(t *testing.T) {
	dated := []DatedPayload{{Date: "01.01.2024", Payload: &domain.RatePayload{
		ExchangeRate: []domain.CurrencyRate{rate("USD", "1", "1")},
	}}}

	report, err := Aggregate(dated, []string{"USD"})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if report[0].Date != "01.01.2024" {
		t.Errorf("Date = %q, want period date", report[0].Date)
	}
}
