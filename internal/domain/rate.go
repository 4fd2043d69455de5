package domain

import "github.com/shopspring/decimal"

// CurrencyRate is one row of the exchangeRate array returned by the rate source.
// Cash rates are only published for a few currencies; the NB fields are always present.
type CurrencyRate struct {
	BaseCurrency   string              `json:"baseCurrency,omitempty"`
	Currency       string              `json:"currency"`
	SaleRate       decimal.NullDecimal `json:"saleRate"`
	PurchaseRate   decimal.NullDecimal `json:"purchaseRate"`
	SaleRateNB     decimal.NullDecimal `json:"saleRateNB"`
	PurchaseRateNB decimal.NullDecimal `json:"purchaseRateNB"`
}

// Sale returns the cash sale rate, falling back to the national bank rate.
func (r CurrencyRate) Sale() decimal.Decimal {
	if r.SaleRate.Valid {
		return r.SaleRate.Decimal
	}
	return r.SaleRateNB.Decimal
}

// Purchase returns the cash purchase rate, falling back to the national bank rate.
func (r CurrencyRate) Purchase() decimal.Decimal {
	if r.PurchaseRate.Valid {
		return r.PurchaseRate.Decimal
	}
	return r.PurchaseRateNB.Decimal
}

// RatePayload is the archive response for a single date.
type RatePayload struct {
	Date            string         `json:"date"`
	Bank            string         `json:"bank,omitempty"`
	BaseCurrencyLit string         `json:"baseCurrencyLit,omitempty"`
	ExchangeRate    []CurrencyRate `json:"exchangeRate"`
}

// Quote holds sale/purchase prices of one currency on one date.
type Quote struct {
	Currency string          `json:"currency"`
	Sale     decimal.Decimal `json:"sale"`
	Purchase decimal.Decimal `json:"purchase"`
}

// ReportEntry groups the requested quotes of one date.
type ReportEntry struct {
	Date   string  `json:"date"`
	Quotes []Quote `json:"quotes"`
}

// Report is ordered most-recent-first, following the period it was built from.
type Report []ReportEntry
