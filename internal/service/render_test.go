package service

import (
	"testing"

	"exchange_chat/internal/domain"

	"github.com/shopspring/decimal"
)

func TestRenderReport(t *testing.T) {
	report := domain.Report{
		{Date: "05.03.2024", Quotes: []domain.Quote{
			{Currency: "USD", Sale: decimal.RequireFromString("27.5"), Purchase: decimal.RequireFromString("27.05")},
			{Currency: "EUR", Sale: decimal.RequireFromString("30.1"), Purchase: decimal.NewFromInt(29)},
		}},
		{Date: "04.03.2024", Quotes: []domain.Quote{
			{Currency: "USD", Sale: decimal.RequireFromString("27.4"), Purchase: decimal.RequireFromString("26.9")},
		}},
	}

	want := "05.03.2024: USD - sale: 27.5; purchase: 27.05; EUR - sale: 30.1; purchase: 29; " +
		"04.03.2024: USD - sale: 27.4; purchase: 26.9; "

	if got := RenderReport(report); got != want {
		t.Errorf("RenderReport() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderReport_Empty(t *testing.T) {
	if got := RenderReport(nil); got != NotFoundMessage {
		t.Errorf("RenderReport(nil) = %q, want not-found message", got)
	}
}
