package counsel_gpt

import (
	"strings"
	"testing"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

func TestParseOpinion_CleanJSON(t *testing.T) {
	raw := `{"jurisdiction": "INDIA", "confidence": 0.85, "rationale": "Indian Contract Act and rupee amounts throughout."}`
	op := ParseOpinion(raw)

	if !op.Parsed {
		t.Fatal("expected clean JSON to parse")
	}
	if op.Jurisdiction != legal.JurisdictionIndia {
		t.Errorf("jurisdiction = %s, want INDIA", op.Jurisdiction)
	}
	if op.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", op.Confidence)
	}
	if op.Rationale == "" {
		t.Error("rationale should be carried through")
	}
	if op.Raw != raw {
		t.Error("raw output must be preserved verbatim")
	}
}

func TestParseOpinion_FencedJSON(t *testing.T) {
	raw := "Here is my assessment:\n```json\n{\"jurisdiction\": \"CROSS_BORDER\", \"confidence\": 0.7, \"rationale\": \"Both regimes engaged.\"}\n```\nLet me know if you need more detail."
	op := ParseOpinion(raw)

	if !op.Parsed {
		t.Fatal("expected fenced JSON to parse")
	}
	if op.Jurisdiction != legal.JurisdictionCrossBorder {
		t.Errorf("jurisdiction = %s, want CROSS_BORDER", op.Jurisdiction)
	}
	if op.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", op.Confidence)
	}
}

func TestParseOpinion_BracesInsideRationale(t *testing.T) {
	raw := `{"jurisdiction": "USA", "confidence": 0.9, "rationale": "Delaware choice-of-law clause {Section 12} controls."}`
	op := ParseOpinion(raw)

	if !op.Parsed || op.Jurisdiction != legal.JurisdictionUSA {
		t.Fatalf("string-aware brace scan failed: parsed=%v jurisdiction=%s", op.Parsed, op.Jurisdiction)
	}
}

func TestParseOpinion_JurisdictionAliases(t *testing.T) {
	tests := []struct {
		alias string
		want  legal.Jurisdiction
	}{
		{"india", legal.JurisdictionIndia},
		{"Indian", legal.JurisdictionIndia},
		{"us", legal.JurisdictionUSA},
		{"United States", legal.JurisdictionUSA},
		{"cross-border", legal.JurisdictionCrossBorder},
		{"both", legal.JurisdictionCrossBorder},
		{"unknown", legal.JurisdictionUnknown},
	}
	for _, tt := range tests {
		raw := `{"jurisdiction": "` + tt.alias + `", "confidence": 0.6}`
		op := ParseOpinion(raw)
		if !op.Parsed {
			t.Errorf("alias %q: expected parse", tt.alias)
			continue
		}
		if op.Jurisdiction != tt.want {
			t.Errorf("alias %q: jurisdiction = %s, want %s", tt.alias, op.Jurisdiction, tt.want)
		}
	}
}

func TestParseOpinion_UnrecognizedJSONValueFallsThrough(t *testing.T) {
	// The JSON parses but names no known regime; the free-form scan then
	// picks up the prose mention.
	raw := `{"jurisdiction": "EU", "confidence": 0.8} — though honestly this reads like an INDIA-law agreement.`
	op := ParseOpinion(raw)

	if !op.Parsed {
		t.Fatal("expected free-form fallback to parse")
	}
	if op.Jurisdiction != legal.JurisdictionIndia {
		t.Errorf("jurisdiction = %s, want INDIA via fallback scan", op.Jurisdiction)
	}
	if op.Confidence != defaultFreeFormConfidence {
		t.Errorf("confidence = %v, want free-form default %v", op.Confidence, defaultFreeFormConfidence)
	}
}

func TestParseOpinion_FreeFormText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want legal.Jurisdiction
	}{
		{
			name: "india prose",
			raw:  "This is clearly governed by INDIA law given the Stamp Act references.",
			want: legal.JurisdictionIndia,
		},
		{
			name: "us prose",
			raw:  "The governing law clause selects Delaware, United States.",
			want: legal.JurisdictionUSA,
		},
		{
			name: "cross border token",
			raw:  "I would call this cross-border: an Indian seller, a US buyer.",
			want: legal.JurisdictionCrossBorder,
		},
		{
			name: "both regimes mentioned",
			raw:  "Signals from India and the United States appear in equal measure.",
			want: legal.JurisdictionCrossBorder,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := ParseOpinion(tt.raw)
			if !op.Parsed {
				t.Fatal("expected free-form text to parse")
			}
			if op.Jurisdiction != tt.want {
				t.Errorf("jurisdiction = %s, want %s", op.Jurisdiction, tt.want)
			}
		})
	}
}

func TestParseOpinion_ThousandIsNotUSA(t *testing.T) {
	op := ParseOpinion("A thousand apologies, the text gives no usable signal.")
	if op.Parsed {
		t.Errorf("jurisdiction = %s; 'thousand' must not register as USA", op.Jurisdiction)
	}
}

func TestParseOpinion_Garbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "no signal here at all", "{not json", "{}"} {
		op := ParseOpinion(raw)
		if op.Parsed {
			t.Errorf("input %q: expected unparsed opinion", raw)
		}
		if op.Jurisdiction != legal.JurisdictionUnknown {
			t.Errorf("input %q: jurisdiction = %s, want UNKNOWN", raw, op.Jurisdiction)
		}
		if op.Confidence != 0 {
			t.Errorf("input %q: confidence = %v, want 0", raw, op.Confidence)
		}
	}
}

func TestParseOpinion_ConfidenceClamped(t *testing.T) {
	op := ParseOpinion(`{"jurisdiction": "USA", "confidence": 3.5}`)
	if op.Confidence != 1 {
		t.Errorf("confidence = %v, want clamp to 1", op.Confidence)
	}
	op = ParseOpinion(`{"jurisdiction": "USA", "confidence": -0.2}`)
	if op.Confidence != 0 {
		t.Errorf("confidence = %v, want clamp to 0", op.Confidence)
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"prose around", `sure: {"a": 1} done`, `{"a": 1}`, true},
		{"nested", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`, true},
		{"brace in string", `{"a": "x { y"}`, `{"a": "x { y"}`, true},
		{"escaped quote", `{"a": "he said \"hi\""}`, `{"a": "he said \"hi\""}`, true},
		{"unbalanced", `{"a": 1`, "", false},
		{"no object", "plain text", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseOpinion_LongOutputKeepsRawIntact(t *testing.T) {
	raw := strings.Repeat("filler ", 500) + `{"jurisdiction": "INDIA", "confidence": 0.8}`
	op := ParseOpinion(raw)
	if !op.Parsed {
		t.Fatal("expected parse")
	}
	if op.Raw != raw {
		t.Error("raw output must be preserved for audit")
	}
}
