package amount_parser

import (
	"testing"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

func TestParseCanonicalForms(t *testing.T) {
	tests := []struct {
		name     string
		locale   legal.Locale
		text     string
		value    string
		currency string
	}{
		{"indian grouped digits", legal.LocaleIndia, "a consideration of Rs. 5,00,000 payable on execution", "500000", legal.CurrencyINR},
		{"symbol with scale", legal.LocaleUS, "a facility of $2.5 million available", "2500000", legal.CurrencyUSD},
		{"spelled out with indian scale", legal.LocaleIndia, "a sum of twenty five lakh rupees", "2500000", legal.CurrencyINR},
		{"plain rs prefix", legal.LocaleIndia, "the rent of Rs 15,000 per month", "15000", legal.CurrencyINR},
		{"rupee symbol with crore", legal.LocaleIndia, "valued at ₹1.5 crore overall", "15000000", legal.CurrencyINR},
		{"usd code", legal.LocaleUS, "an amount of USD 500,000 in escrow", "500000", legal.CurrencyUSD},
		{"dollars suffix with scale", legal.LocaleUS, "no more than 2.5 million dollars in aggregate", "2500000", legal.CurrencyUSD},
		{"words with carry over scales", legal.LocaleIndia, "rupees one crore twenty five lakh", "12500000", legal.CurrencyINR},
		{"hundred multiplies before flush", legal.LocaleUS, "five hundred thousand dollars", "500000", legal.CurrencyUSD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.locale).Parse(tt.text)
			if len(got) != 1 {
				t.Fatalf("Parse(%q) returned %d amounts, want 1: %+v", tt.text, len(got), got)
			}
			if got[0].Amount.String() != tt.value {
				t.Errorf("amount = %s, want %s", got[0].Amount, tt.value)
			}
			if got[0].Currency != tt.currency {
				t.Errorf("currency = %s, want %s", got[0].Currency, tt.currency)
			}
		})
	}
}

func TestParseRequiresCurrencyAnchor(t *testing.T) {
	texts := []string{
		"a term of 36 months covering 500 units",
		"clause 5,00,000 does not exist",
		"",
		"   \n\t ",
	}
	for _, text := range texts {
		for _, locale := range []legal.Locale{legal.LocaleIndia, legal.LocaleUS} {
			if got := New(locale).Parse(text); len(got) != 0 {
				t.Errorf("Parse(%q, %s) = %+v, want none", text, locale, got)
			}
		}
	}
}

func TestParseLocaleSelectsBattery(t *testing.T) {
	if got := New(legal.LocaleIndia).Parse("a fee of $2.5 million"); len(got) != 0 {
		t.Errorf("india locale parsed USD text: %+v", got)
	}
	if got := New(legal.LocaleUS).Parse("a fee of Rs. 5,00,000"); len(got) != 0 {
		t.Errorf("us locale parsed INR text: %+v", got)
	}
}

func TestParseSkipsMalformedSilently(t *testing.T) {
	tests := []string{
		"rupees hundred payable",          // scale with empty accumulator
		"a million dollars of goodwill",   // scale word with no quantity
		"rupees twilight zone",            // not number words at all
		"Rs. 0 adjustment",                // zero is not an amount
	}
	p := New(legal.LocaleIndia)
	us := New(legal.LocaleUS)
	for _, text := range tests {
		if got := p.Parse(text); len(got) != 0 {
			t.Errorf("india Parse(%q) = %+v, want none", text, got)
		}
		if got := us.Parse(text); len(got) != 0 {
			t.Errorf("us Parse(%q) = %+v, want none", text, got)
		}
	}
}

func TestParseDeduplicatesAndKeepsWords(t *testing.T) {
	text := "a consideration of Rs. 5,00,000 (Rupees five lakh only)"
	got := New(legal.LocaleIndia).Parse(text)
	if len(got) != 1 {
		t.Fatalf("Parse returned %d amounts, want 1: %+v", len(got), got)
	}
	if got[0].Amount.String() != "500000" {
		t.Errorf("amount = %s, want 500000", got[0].Amount)
	}
	if got[0].AmountInWords != "five lakh" {
		t.Errorf("AmountInWords = %q, want %q", got[0].AmountInWords, "five lakh")
	}
}

func TestParseSortsDescending(t *testing.T) {
	text := "monthly fees of $5,000 subject to an annual cap of $2 million"
	got := New(legal.LocaleUS).Parse(text)
	if len(got) != 2 {
		t.Fatalf("Parse returned %d amounts, want 2: %+v", len(got), got)
	}
	if got[0].Amount.String() != "2000000" || got[1].Amount.String() != "5000" {
		t.Errorf("order = [%s %s], want [2000000 5000]", got[0].Amount, got[1].Amount)
	}
}

func TestFormattedAmountGrouping(t *testing.T) {
	in := New(legal.LocaleIndia).Parse("a price of Rs. 12,50,000 in total")
	if len(in) != 1 || in[0].FormattedAmount != "₹12,50,000" {
		t.Errorf("INR formatting = %+v, want ₹12,50,000", in)
	}
	us := New(legal.LocaleUS).Parse("a price of $2.5 million in total")
	if len(us) != 1 || us[0].FormattedAmount != "$2,500,000" {
		t.Errorf("USD formatting = %+v, want $2,500,000", us)
	}
}

func TestWordsToValue(t *testing.T) {
	tests := []struct {
		words string
		want  int64
		ok    bool
	}{
		{"five lakh", 500000, true},
		{"twenty five lakh", 2500000, true},
		{"one crore twenty five lakh", 12500000, true},
		{"five hundred", 500, true},
		{"five hundred thousand", 500000, true},
		{"one thousand and five", 1005, true},
		{"ninety-nine", 99, true},
		{"two crores", 20000000, true},
		{"hundred", 0, false},
		{"million", 0, false},
		{"zero", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := wordsToValue(tt.words)
		if ok != tt.ok || got != tt.want {
			t.Errorf("wordsToValue(%q) = (%d, %v), want (%d, %v)", tt.words, got, ok, tt.want, tt.ok)
		}
	}
}
