package india_lex

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

const maharashtraAgreementText = `This Agreement is made at Mumbai, Maharashtra, between Apex Infotech
Private Limited and Zenith Trading Private Limited. In consideration of
Rs. 10,00,000 the first party shall deliver the goods described in the
schedule. Any dispute shall be referred to arbitration in Mumbai.
Dated this 5th day of June, 2025.`

const delhiLeaseText = `This Lease Deed is executed at New Delhi between Sunrise Estates
Private Limited, the lessor, and Meridian Retail Private Limited, the
lessee, for a term of 24 months commencing 1 April 2025. The monthly
rent is Rs. 1,50,000 and the lessee has paid an interest-free security
deposit of Rs. 50,00,000. The lessee shall bear maintenance charges.`

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func wantDuty(t *testing.T, got *decimal.Decimal, want int64) {
	t.Helper()
	if got == nil {
		t.Fatalf("calculated duty = nil, want %d", want)
	}
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("calculated duty = %s, want %d", got, want)
	}
}

func TestAnalyzeMaharashtraAgreement(t *testing.T) {
	ext := New(nil)

	result := ext.Analyze(maharashtraAgreementText, "")

	if result.State != "Maharashtra" {
		t.Errorf("state = %q, want Maharashtra", result.State)
	}
	if result.Metadata["state_source"] != "detected" {
		t.Errorf("state_source = %v, want detected", result.Metadata["state_source"])
	}
	if result.DocumentType != legal.DocTypeAgreement {
		t.Errorf("document type = %s, want %s", result.DocumentType, legal.DocTypeAgreement)
	}

	if len(result.Amounts) != 1 {
		t.Fatalf("parsed %d amounts, want 1", len(result.Amounts))
	}
	if !result.Amounts[0].Amount.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("consideration = %s, want 1000000", result.Amounts[0].Amount)
	}

	duty := result.StampDuty
	if duty.Consideration == nil {
		t.Fatal("stamp consideration is nil, want the parsed amount")
	}
	if !almost(duty.RatePercent, 0.1) {
		t.Errorf("rate = %v, want 0.1", duty.RatePercent)
	}
	// 0.1% of 10,00,000 is 1,000, above the 100 minimum.
	wantDuty(t, duty.CalculatedDuty, 1000)
	if duty.Status != legal.StampRequiresStamping {
		t.Errorf("stamp status = %s, want %s", duty.Status, legal.StampRequiresStamping)
	}

	if result.GST.Applicable {
		t.Error("GST flagged applicable without any supply vocabulary")
	}
	if result.Registration.Required {
		t.Error("plain agreement should not require registration")
	}

	comp := result.Compliance
	if comp.Status != legal.ComplianceCompliant {
		t.Errorf("compliance status = %s, want %s (missing=%v violations=%v)",
			comp.Status, legal.ComplianceCompliant, comp.MissingClauses, comp.Violations)
	}
	if comp.Risk != legal.ComplianceRiskLow {
		t.Errorf("compliance risk = %s, want %s", comp.Risk, legal.ComplianceRiskLow)
	}
}

func TestAnalyzeDelhiLeaseLongTermWithoutRegistration(t *testing.T) {
	ext := New(nil)

	result := ext.Analyze(delhiLeaseText, "")

	if result.State != "Delhi" {
		t.Errorf("state = %q, want Delhi", result.State)
	}
	if result.DocumentType != legal.DocTypeLease {
		t.Fatalf("document type = %s, want %s", result.DocumentType, legal.DocTypeLease)
	}

	// The security deposit is the largest amount and therefore the
	// presumptive consideration: 2% of 50,00,000.
	if len(result.Amounts) != 2 {
		t.Fatalf("parsed %d amounts, want 2", len(result.Amounts))
	}
	if !result.Amounts[0].Amount.Equal(decimal.NewFromInt(5000000)) {
		t.Errorf("largest amount = %s, want 5000000", result.Amounts[0].Amount)
	}
	wantDuty(t, result.StampDuty.CalculatedDuty, 100000)

	comp := result.Compliance
	if len(comp.MissingClauses) != 0 {
		t.Errorf("missing clauses = %v, want none", comp.MissingClauses)
	}
	if len(comp.Violations) != 1 {
		t.Fatalf("violations = %v, want exactly the unregistered-lease violation", comp.Violations)
	}
	if !strings.Contains(comp.Violations[0], "eleven months") {
		t.Errorf("violation = %q, want the long-lease registration warning", comp.Violations[0])
	}
	if comp.Status != legal.ComplianceNonCompliant {
		t.Errorf("compliance status = %s, want %s", comp.Status, legal.ComplianceNonCompliant)
	}
	if comp.Risk != legal.ComplianceRiskMedium {
		t.Errorf("compliance risk = %s, want %s", comp.Risk, legal.ComplianceRiskMedium)
	}

	reg := result.Registration
	if !reg.Required {
		t.Fatal("lease registration not required, want required")
	}
	if len(reg.Consequences) == 0 {
		t.Error("required registration carries no consequences boilerplate")
	}
}

func TestAnalyzeNoConsiderationLeavesDutyNil(t *testing.T) {
	ext := New(nil)

	result := ext.Analyze("This memorandum of understanding records the mutual cooperation of the parties. Disputes shall be resolved by arbitration.", "")

	if result.State != DefaultState {
		t.Errorf("state = %q, want default %q", result.State, DefaultState)
	}
	if result.Metadata["state_source"] != "default" {
		t.Errorf("state_source = %v, want default", result.Metadata["state_source"])
	}
	if len(result.Amounts) != 0 {
		t.Fatalf("parsed %d amounts from text with none", len(result.Amounts))
	}

	duty := result.StampDuty
	if duty.Consideration != nil {
		t.Errorf("consideration = %v, want nil", duty.Consideration)
	}
	if duty.CalculatedDuty != nil {
		t.Errorf("calculated duty = %s, want nil when no consideration was found", duty.CalculatedDuty)
	}
	if duty.Status != legal.StampRequiresStamping {
		t.Errorf("stamp status = %s, want %s", duty.Status, legal.StampRequiresStamping)
	}
}

func TestAnalyzeBlankText(t *testing.T) {
	ext := New(nil)

	result := ext.Analyze("   \n\t  ", "")

	if result.State != DefaultState {
		t.Errorf("state = %q, want %q", result.State, DefaultState)
	}
	if result.DocumentType != legal.DocTypeAgreement {
		t.Errorf("document type = %s, want %s", result.DocumentType, legal.DocTypeAgreement)
	}
	if result.StampDuty == nil || result.GST == nil || result.Registration == nil || result.Compliance == nil {
		t.Fatal("blank input must still populate every analysis section")
	}
	if result.StampDuty.Status != legal.StampUnknown {
		t.Errorf("stamp status = %s, want %s", result.StampDuty.Status, legal.StampUnknown)
	}
	if result.StampDuty.CalculatedDuty != nil {
		t.Error("blank input produced a calculated duty")
	}
	if result.GST.Applicable {
		t.Error("blank input flagged GST applicable")
	}
	if result.Compliance.Status != legal.ComplianceUnknown {
		t.Errorf("compliance status = %s, want %s", result.Compliance.Status, legal.ComplianceUnknown)
	}
	if result.Compliance.Risk != legal.ComplianceRiskLow {
		t.Errorf("compliance risk = %s, want %s", result.Compliance.Risk, legal.ComplianceRiskLow)
	}
	if len(result.Amounts) != 0 {
		t.Errorf("blank input produced %d amounts", len(result.Amounts))
	}
	if result.Metadata["amounts_found"] != 0 {
		t.Errorf("amounts_found = %v, want 0", result.Metadata["amounts_found"])
	}
}

func TestAnalyzeProvidedStateOverridesDetected(t *testing.T) {
	ext := New(nil)

	result := ext.Analyze(maharashtraAgreementText, "Karnataka")

	if result.State != "Karnataka" {
		t.Errorf("state = %q, want provided Karnataka over detected Maharashtra", result.State)
	}
	if result.Metadata["state_source"] != "provided" {
		t.Errorf("state_source = %v, want provided", result.Metadata["state_source"])
	}
	// Karnataka charges no ad valorem duty on plain agreements; the
	// flat minimum of 200 applies.
	if !almost(result.StampDuty.RatePercent, 0) {
		t.Errorf("rate = %v, want 0", result.StampDuty.RatePercent)
	}
	wantDuty(t, result.StampDuty.CalculatedDuty, 200)
}

func TestAnalyzeMortgageDutyCappedAtMaximum(t *testing.T) {
	ext := New(nil)

	text := `Deed of simple mortgage executed at Pune, Maharashtra. The mortgagor
secures repayment of the principal sum of Rs. 50,00,00,000 together with
interest by a charge on the property described in the schedule.`
	result := ext.Analyze(text, "")

	if result.DocumentType != legal.DocTypeMortgage {
		t.Fatalf("document type = %s, want %s", result.DocumentType, legal.DocTypeMortgage)
	}
	duty := result.StampDuty
	if duty.MaximumDuty == nil {
		t.Fatal("mortgage row carries no maximum duty")
	}
	// 0.5% of 50 crore is 25,00,000, clamped to the 10,00,000 cap.
	wantDuty(t, duty.CalculatedDuty, 1000000)
	if !duty.CalculatedDuty.Equal(*duty.MaximumDuty) {
		t.Errorf("calculated duty %s exceeds maximum %s", duty.CalculatedDuty, duty.MaximumDuty)
	}
	if !result.Registration.Required {
		t.Error("mortgage should require registration")
	}
}

func TestAnalyzeStampedCharitableConveyance(t *testing.T) {
	ext := New(nil)

	text := `This conveyance deed is executed in favour of a registered charitable
trust. Stamp duty paid by franking; the instrument is duly stamped.
The property more particularly described in the schedule passes with
possession for a consideration of Rs. 25,00,000. The vendor holds title
as absolute owner.`
	result := ext.Analyze(text, "")

	if result.DocumentType != legal.DocTypeConveyance {
		t.Fatalf("document type = %s, want %s", result.DocumentType, legal.DocTypeConveyance)
	}
	duty := result.StampDuty
	if duty.Status != legal.StampCompliant {
		t.Errorf("stamp status = %s, want %s after an explicit payment mention", duty.Status, legal.StampCompliant)
	}
	if len(duty.Exemptions) != 1 || !strings.Contains(duty.Exemptions[0], "charitable") {
		t.Errorf("exemptions = %v, want the charitable-institution exemption", duty.Exemptions)
	}
	if result.Compliance.Status != legal.ComplianceCompliant {
		t.Errorf("compliance status = %s, want %s (missing=%v)",
			result.Compliance.Status, legal.ComplianceCompliant, result.Compliance.MissingClauses)
	}
}

func TestExtractActsWithYearAndSections(t *testing.T) {
	ext := New(nil)

	text := "This agreement is governed by the Indian Contract Act, 1872. Dishonour of any cheque is punishable under Section 138 of the Negotiable Instruments Act."
	result := ext.Analyze(text, "")

	if len(result.ActsReferenced) != 2 {
		t.Fatalf("extracted %d acts, want 2: %+v", len(result.ActsReferenced), result.ActsReferenced)
	}

	contract := result.ActsReferenced[0]
	if contract.Name != "Indian Contract Act" {
		t.Errorf("first act = %q, want Indian Contract Act", contract.Name)
	}
	if !almost(contract.Confidence, 0.95) {
		t.Errorf("cited-with-year confidence = %v, want 0.95", contract.Confidence)
	}

	ni := result.ActsReferenced[1]
	if ni.Name != "Negotiable Instruments Act" {
		t.Errorf("second act = %q, want Negotiable Instruments Act", ni.Name)
	}
	if !almost(ni.Confidence, 0.75) {
		t.Errorf("cited-without-year confidence = %v, want 0.75", ni.Confidence)
	}
	found := false
	for _, s := range ni.Sections {
		if s == "138" {
			found = true
		}
	}
	if !found {
		t.Errorf("sections = %v, want 138", ni.Sections)
	}
}

func TestAnalyzeGSTClassified(t *testing.T) {
	ext := New(nil)

	text := `Master Service Agreement for software development and cloud services.
The fees are exclusive of GST, which the client shall bear at the
applicable rate. The supplier shall raise a tax invoice for each
milestone.`
	result := ext.Analyze(text, "")

	gst := result.GST
	if !gst.Applicable {
		t.Fatal("GST not applicable, want applicable")
	}
	if gst.Rate == nil || !almost(*gst.Rate, 18) {
		t.Fatalf("GST rate = %v, want 18", gst.Rate)
	}
	if gst.HSNCode != "998314" {
		t.Errorf("HSN = %q, want 998314", gst.HSNCode)
	}
	if gst.ServiceCategory != "information technology services" {
		t.Errorf("category = %q, want information technology services", gst.ServiceCategory)
	}
	if len(gst.Requirements) == 0 {
		t.Error("applicable GST carries no requirements")
	}
}

func TestAnalyzeGSTApplicableButUnclassified(t *testing.T) {
	ext := New(nil)

	result := ext.Analyze("The consideration is exclusive of GST payable at the applicable rate on every taxable supply under this agreement.", "")

	gst := result.GST
	if !gst.Applicable {
		t.Fatal("GST not applicable, want applicable")
	}
	if gst.Rate != nil {
		t.Errorf("GST rate = %v, want nil when no service category matched", *gst.Rate)
	}
	if gst.ServiceCategory != "" {
		t.Errorf("category = %q, want empty", gst.ServiceCategory)
	}
}

func TestDetectDocumentTypeOrdering(t *testing.T) {
	ext := New(nil)

	tests := []struct {
		text string
		want legal.DocumentType
	}{
		{"agreement for the transfer of shares in the company", legal.DocTypeShareTransfer},
		{"deed of sale of the schedule property", legal.DocTypeConveyance},
		{"leave and licence agreement for the premises", legal.DocTypeLease},
		{"deed of hypothecation of movables", legal.DocTypeMortgage},
		{"deed of partnership between three partners", legal.DocTypePartnership},
		{"special power of attorney to sell", legal.DocTypePowerOfAttorney},
		{"this promissory note is made on demand", legal.DocTypePromissoryNote},
		{"term loan agreement with the bank", legal.DocTypeLoanAgreement},
		{"master service agreement for consulting", legal.DocTypeServiceAgreement},
		{"appointment letter for the post of engineer", legal.DocTypeEmployment},
		{"mutual non-disclosure agreement", legal.DocTypeNDA},
		{"memorandum of understanding", legal.DocTypeAgreement},
		{"completely unrelated text", legal.DocTypeAgreement},
	}
	for _, tt := range tests {
		if got := ext.detectDocumentType(tt.text); got != tt.want {
			t.Errorf("detectDocumentType(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	ext := New(nil)

	first := ext.Analyze(delhiLeaseText, "")
	second := ext.Analyze(delhiLeaseText, "")

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated analysis of identical input produced different results")
	}
}

func TestAnalyzeRecordsMetrics(t *testing.T) {
	metrics := common.NewInMemoryAnalysisMetrics()
	ext := New(nil, WithMetrics(metrics))

	ext.Analyze(delhiLeaseText, "")

	recorded := metrics.Analyses()
	if len(recorded) != 1 {
		t.Fatalf("recorded %d analyses, want 1", len(recorded))
	}
	if recorded[0].Engine != engineName {
		t.Errorf("engine = %q, want %q", recorded[0].Engine, engineName)
	}
	if !recorded[0].Success {
		t.Error("analysis not recorded as success")
	}
}
