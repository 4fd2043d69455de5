package service

import (
	"strings"

	"exchange_chat/internal/domain"
)

// Aggregate filters every payload down to the requested currencies and folds the
// result into a report. Dates with no payload or no matching currency are skipped.
func Aggregate(dated []DatedPayload, currencies []string) (domain.Report, error) {
	wanted := make(map[string]struct{}, len(currencies))
	for _, code := range currencies {
		wanted[strings.ToUpper(code)] = struct{}{}
	}

	report := make(domain.Report, 0, len(dated))
	for _, d := range dated {
		if d.Payload == nil {
			continue
		}

		// Fresh per date; a repeated currency row replaces the earlier one in place.
		quotes := make([]domain.Quote, 0, len(wanted))
		seen := make(map[string]int, len(wanted))
		for _, rate := range d.Payload.ExchangeRate {
			code := strings.ToUpper(rate.Currency)
			if _, ok := wanted[code]; !ok {
				continue
			}
			q := domain.Quote{Currency: code, Sale: rate.Sale(), Purchase: rate.Purchase()}
			if idx, dup := seen[code]; dup {
				quotes[idx] = q
				continue
			}
			seen[code] = len(quotes)
			quotes = append(quotes, q)
		}
		if len(quotes) == 0 {
			continue
		}

		date := d.Payload.Date
		if date == "" {
			date = d.Date
		}
		report = append(report, domain.ReportEntry{Date: date, Quotes: quotes})
	}

	if len(report) == 0 {
		return nil, domain.ErrNotFound
	}
	return report, nil
}
