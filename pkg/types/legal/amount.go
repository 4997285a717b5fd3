package legal

import (
	"github.com/shopspring/decimal"
)

// Currency codes recognized by the amount parser.
const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
)

// MonetaryAmount is a currency-anchored amount extracted from document
// text. Amount is exact decimal; monetary values are never represented
// as binary floating point anywhere in the pipeline.
type MonetaryAmount struct {
	Amount decimal.Decimal `json:"amount"`

	// Currency is CurrencyINR or CurrencyUSD.
	Currency string `json:"currency"`

	// OriginalText is the verbatim matched span from the source document.
	OriginalText string `json:"original_text"`

	// FormattedAmount renders the value in locale convention: Indian
	// digit grouping with a lakh/crore suffix for INR, thousands
	// grouping with a K/M/B suffix for USD.
	FormattedAmount string `json:"formatted_amount"`

	// AmountInWords is the value spelled out in the locale's scale
	// vocabulary, suitable for deed and stamp-paper recitals.
	AmountInWords string `json:"amount_in_words,omitempty"`
}

// Equal reports whether two amounts carry the same numeric value and
// currency, ignoring presentation fields.
func (m MonetaryAmount) Equal(other MonetaryAmount) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}
