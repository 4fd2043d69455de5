package service

import (
	"strings"

	"exchange_chat/internal/domain"
)

// NotFoundMessage is the reply when a request produced an empty report.
const NotFoundMessage = "Exchange rates could not be found! Change request and try again."

// RenderReport formats a report as a single line:
// "<date>: <CODE> - sale: <v>; purchase: <v>; ..." for every entry in order.
func RenderReport(report domain.Report) string {
	if len(report) == 0 {
		return NotFoundMessage
	}

	var b strings.Builder
	for _, entry := range report {
		b.WriteString(entry.Date)
		b.WriteString(": ")
		for _, q := range entry.Quotes {
			b.WriteString(q.Currency)
			b.WriteString(" - ")
			b.WriteString("sale: ")
			b.WriteString(q.Sale.String())
			b.WriteString("; purchase: ")
			b.WriteString(q.Purchase.String())
			b.WriteString("; ")
		}
	}
	return b.String()
}
