package cross_border

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/common"
	typescommon "github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// crossBorderMSAText trips a known signal set: royalties (DTAA Article
// 12), related-party transfer pricing, a zero-rated export supply, two
// cross-border risk rules (withholding, FEMA remittance), a Delaware
// choice-of-law clause, an arbitration clause, and no stamping
// recital.
const crossBorderMSAText = `This Master Services Agreement is made between Aurora Software
Private Limited, an Indian company with offices in Mumbai,
Maharashtra, and Beacon Analytics Inc., a Delaware corporation. The
supplier shall provide software development services, a supply of
services constituting an export of services to the foreign client.
Fees of USD 500,000 per year plus a royalty of 5% of net revenue are
payable by outward remittance in foreign currency. The supplier is a
subsidiary of the customer. The term of this agreement runs for two
years; either party may terminate for material breach. All
confidential information and other intellectual property of the
customer remain proprietary. The parties shall enforce any arbitral
award under the New York Convention; disputes shall be resolved by
arbitration seated in Singapore. This agreement shall be governed by
and construed in accordance with the laws of the State of Delaware.`

func TestCompareCrossBorderServiceAgreement(t *testing.T) {
	a := New(nil)

	result := a.Compare(context.Background(), crossBorderMSAText, "", "")

	// Withholding and FEMA rules fire; the judgments and personal-data
	// rules have no keywords in the text.
	enf := result.Enforceability
	if len(enf.CrossBorderRisks) != 2 {
		t.Fatalf("risks = %v, want the withholding and FEMA risks", enf.CrossBorderRisks)
	}
	if !strings.Contains(enf.CrossBorderRisks[0], "Withholding tax") {
		t.Errorf("first risk = %q, want the withholding risk", enf.CrossBorderRisks[0])
	}
	if !strings.Contains(enf.CrossBorderRisks[1], "FEMA") {
		t.Errorf("second risk = %q, want the FEMA risk", enf.CrossBorderRisks[1])
	}
	// Two risks put the bucket at MEDIUM regardless of scores.
	if enf.RiskLevel != typescommon.RiskMedium {
		t.Errorf("enforceability risk = %s, want %s", enf.RiskLevel, typescommon.RiskMedium)
	}
	if enf.IndiaScore <= 0 || enf.IndiaScore > 1 || enf.USScore <= 0 || enf.USScore > 1 {
		t.Errorf("scores india=%v us=%v, want both in (0,1]", enf.IndiaScore, enf.USScore)
	}

	// Four static rows plus the stamp and registration rows.
	items := result.Formalities.Items
	if len(items) != 6 {
		t.Fatalf("formality items = %d, want 6", len(items))
	}
	stamp := items[4]
	if stamp.Aspect != "stamp duty" || !stamp.Differs {
		t.Errorf("stamp row = %+v, want a differing stamp duty row", stamp)
	}
	if !strings.Contains(stamp.IndiaRequirement, "not yet evidenced") {
		t.Errorf("stamp requirement = %q, want the unstamped note", stamp.IndiaRequirement)
	}
	reg := items[5]
	if reg.Aspect != "registration" || reg.Differs {
		t.Errorf("registration row = %+v, want a non-differing row for a service agreement", reg)
	}

	tax := result.Tax
	if len(tax.DTAABenefits) != 1 {
		t.Fatalf("dtaa benefits = %+v, want only royalties", tax.DTAABenefits)
	}
	if tax.DTAABenefits[0].TreatyArticle != "Article 12" || tax.DTAABenefits[0].WithholdingRate != "15%" {
		t.Errorf("royalties benefit = %+v, want Article 12 at 15%%", tax.DTAABenefits[0])
	}
	// Related-party vocabulary pulls both regimes' documentation rows.
	if len(tax.TransferPricing) != 4 {
		t.Errorf("transfer pricing rows = %d, want 4", len(tax.TransferPricing))
	}
	// Export keywords route to zero-rating.
	if len(tax.GSTTreatment) != 2 || !strings.Contains(tax.GSTTreatment[0], "zero-rated") {
		t.Errorf("gst treatment = %v, want the export zero-rating rows", tax.GSTTreatment)
	}
	// DTAA contributes two recommendations, transfer pricing one, the
	// export leg one.
	if len(tax.Recommendations) != 4 {
		t.Errorf("tax recommendations = %v, want 4", tax.Recommendations)
	}

	// singapore_law: base 6.0 + party (singapore) 1.5 + transaction
	// (software) 1.0.
	if result.RecommendedGoverningLaw != "Singapore law (neutral) [score 8.5]" {
		t.Errorf("governing law = %q, want Singapore at 8.5", result.RecommendedGoverningLaw)
	}
	// siac: base 5.5 + medium complexity 0.5 + confidentiality 1.0 +
	// enforcement 1.0.
	if result.RecommendedDisputeResolution != "SIAC arbitration (Singapore) [score 8.0]" {
		t.Errorf("dispute resolution = %q, want SIAC at 8.0", result.RecommendedDisputeResolution)
	}

	// Unstamped instrument and treaty withholding; the choice-of-law
	// clause and arbitration clause close the structural gaps.
	if len(result.ComplianceGaps) != 2 {
		t.Fatalf("gaps = %+v, want stamp and tax gaps only", result.ComplianceGaps)
	}
	if result.ComplianceGaps[0].Type != legal.GapFormality || result.ComplianceGaps[0].Priority != typescommon.PriorityHigh {
		t.Errorf("first gap = %+v, want a high-priority formality gap", result.ComplianceGaps[0])
	}
	if result.ComplianceGaps[1].Type != legal.GapTax {
		t.Errorf("second gap = %+v, want the tax gap", result.ComplianceGaps[1])
	}
	for _, g := range result.ComplianceGaps {
		if g.Mitigation == "" {
			t.Errorf("gap %s carries no mitigation template", g.Type)
		}
	}

	if len(result.Recommendations) != 2 {
		t.Fatalf("recommendations = %+v, want stamping and treaty relief", result.Recommendations)
	}
	if result.Recommendations[0].Title != "Stamp the India counterpart before execution" {
		t.Errorf("first recommendation = %q", result.Recommendations[0].Title)
	}

	// Not critical (enforceability MEDIUM), 5 differing formality rows
	// (0.5) + 4 tax recommendations (0.4) + 1 high gap (0.2) = 1.1.
	if result.OverallRisk != typescommon.RiskHigh {
		t.Errorf("overall risk = %s, want %s", result.OverallRisk, typescommon.RiskHigh)
	}

	// Four phase titles, eight static items, the stamp recommendation
	// under phase 1 and the tax recommendation under phase 3.
	if len(result.ImplementationRoadmap) != 14 {
		t.Fatalf("roadmap = %v, want 14 lines", result.ImplementationRoadmap)
	}
	if !strings.HasPrefix(result.ImplementationRoadmap[0], "Phase 1") {
		t.Errorf("roadmap starts with %q, want Phase 1", result.ImplementationRoadmap[0])
	}
	if result.ImplementationRoadmap[3] != "- Stamp the India counterpart before execution" {
		t.Errorf("roadmap[3] = %q, want the folded stamp recommendation", result.ImplementationRoadmap[3])
	}

	if result.Metadata["complexity"] != complexityMedium {
		t.Errorf("complexity = %v, want medium", result.Metadata["complexity"])
	}
	if result.Metadata["cross_border_risks"] != 2 {
		t.Errorf("risk count = %v, want 2", result.Metadata["cross_border_risks"])
	}
	if result.Metadata["india_state"] != "Maharashtra" {
		t.Errorf("india state = %v, want Maharashtra", result.Metadata["india_state"])
	}
	if result.Metadata["us_governing_state"] != "Delaware" {
		t.Errorf("us state = %v, want Delaware", result.Metadata["us_governing_state"])
	}
}

func TestCompareBlankInput(t *testing.T) {
	a := New(nil)

	result := a.Compare(context.Background(), "   \n\t ", "", "")

	if result.OverallRisk != typescommon.RiskCritical {
		t.Errorf("overall risk = %s, want %s", result.OverallRisk, typescommon.RiskCritical)
	}
	if result.Enforceability == nil || result.Formalities == nil || result.Tax == nil {
		t.Fatal("blank input must still populate every section")
	}
	if result.Enforceability.RiskLevel != typescommon.RiskCritical {
		t.Errorf("enforceability risk = %s, want critical", result.Enforceability.RiskLevel)
	}
	if result.Enforceability.IndiaScore != 0 || result.Enforceability.USScore != 0 {
		t.Errorf("scores = %v/%v, want 0/0", result.Enforceability.IndiaScore, result.Enforceability.USScore)
	}
	if len(result.Formalities.Items) != 4 {
		t.Errorf("formality items = %d, want the 4 static rows", len(result.Formalities.Items))
	}
	if result.RecommendedGoverningLaw == "" || result.RecommendedDisputeResolution == "" {
		t.Error("blank input must still carry recommendations")
	}
	if len(result.ImplementationRoadmap) == 0 {
		t.Error("blank input must still carry the roadmap template")
	}
	if result.ComplianceGaps == nil || result.Recommendations == nil {
		t.Error("gap and recommendation slices must be non-nil")
	}
}

func TestCompareCancelledContext(t *testing.T) {
	a := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := a.Compare(ctx, crossBorderMSAText, "", "")

	if result.OverallRisk != typescommon.RiskCritical {
		t.Errorf("overall risk = %s, want critical on an aborted join", result.OverallRisk)
	}
	note, _ := result.Metadata["note"].(string)
	if !strings.Contains(note, "aborted") {
		t.Errorf("note = %q, want the aborted-join note", note)
	}
}

func TestCompareEnforceabilityComputedScores(t *testing.T) {
	a := New(nil)

	india := &legal.IndianLegalAnalysis{
		Compliance:   &legal.ComplianceCheck{Status: legal.ComplianceCompliant},
		StampDuty:    &legal.StampDutyAnalysis{Status: legal.StampCompliant},
		Registration: &legal.RegistrationRequirement{Required: false},
	}
	us := &legal.USLegalAnalysis{
		GoverningState: "Delaware",
		Compliance:     &legal.ComplianceCheck{Status: legal.ComplianceCompliant},
		StateJurisdiction: &legal.StateJurisdictionAnalysis{
			GoverningState: "Delaware",
			Source:         legal.StateFromChoiceOfLaw,
		},
	}

	enf := a.compareEnforceability(india, us, []string{"risk one", "risk two"})

	// India: 0.5 + 0.3 + 0.1 + 0.1 - 2*0.05 = 0.9.
	if enf.IndiaScore != 0.9 {
		t.Errorf("india score = %v, want 0.9", enf.IndiaScore)
	}
	// US: 0.6 + 0.3 + 0.2 - 0.1 = 1.0 after clamping.
	if enf.USScore != 1.0 {
		t.Errorf("us score = %v, want 1.0", enf.USScore)
	}
	if enf.RiskLevel != typescommon.RiskMedium {
		t.Errorf("risk level = %s, want MEDIUM from the 2-risk override", enf.RiskLevel)
	}
	if len(enf.IndiaFactors) == 0 || len(enf.USFactors) == 0 {
		t.Error("factor narratives missing")
	}
}

func TestBucketRisk(t *testing.T) {
	tests := []struct {
		name  string
		avg   float64
		risks int
		want  typescommon.RiskLevel
	}{
		{"low score is critical", 0.29, 0, typescommon.RiskCritical},
		{"risk count overrides good score", 0.9, 6, typescommon.RiskCritical},
		{"high band by score", 0.45, 0, typescommon.RiskHigh},
		{"high band by count", 0.8, 4, typescommon.RiskHigh},
		{"medium band by score", 0.65, 0, typescommon.RiskMedium},
		{"medium band by count", 0.9, 2, typescommon.RiskMedium},
		{"clean document", 0.9, 1, typescommon.RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bucketRisk(tt.avg, tt.risks); got != tt.want {
				t.Errorf("bucketRisk(%v, %d) = %s, want %s", tt.avg, tt.risks, got, tt.want)
			}
		})
	}
}

func TestOverallRiskWeights(t *testing.T) {
	lowEnf := &legal.EnforceabilityComparison{RiskLevel: typescommon.RiskLow}
	criticalEnf := &legal.EnforceabilityComparison{RiskLevel: typescommon.RiskCritical}
	noFormalities := &legal.FormalitiesComparison{}
	noTax := &legal.TaxImplications{}

	differing := &legal.FormalitiesComparison{Items: []legal.FormalityItem{
		{Differs: true}, {Differs: true}, {Differs: true}, {Differs: true}, {Differs: true},
	}}
	highGaps := []legal.ComplianceGap{
		{Priority: typescommon.PriorityHigh},
		{Priority: typescommon.PriorityHigh},
		{Priority: typescommon.PriorityHigh},
	}

	tests := []struct {
		name string
		enf  *legal.EnforceabilityComparison
		form *legal.FormalitiesComparison
		tax  *legal.TaxImplications
		gaps []legal.ComplianceGap
		want typescommon.RiskLevel
	}{
		// 1.0 + 3*0.2 = 1.6.
		{"critical flag plus high gaps", criticalEnf, noFormalities, noTax, highGaps, typescommon.RiskCritical},
		// Critical flag alone scores exactly 1.0.
		{"critical flag alone", criticalEnf, noFormalities, noTax, nil, typescommon.RiskHigh},
		// 5 differing rows score 0.5.
		{"formality rows alone", lowEnf, differing, noTax, nil, typescommon.RiskMedium},
		// 4 tax recommendations score 0.4.
		{"tax recommendations alone", lowEnf, noFormalities, &legal.TaxImplications{Recommendations: []string{"a", "b", "c", "d"}}, nil, typescommon.RiskLow},
		{"clean", lowEnf, noFormalities, noTax, nil, typescommon.RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overallRisk(tt.enf, tt.form, tt.tax, tt.gaps); got != tt.want {
				t.Errorf("overallRisk = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTransactionValueUSD(t *testing.T) {
	a := New(nil)

	inr := legal.MonetaryAmount{Amount: decimal.NewFromInt(83_000_000), Currency: legal.CurrencyINR}
	usd := legal.MonetaryAmount{Amount: decimal.NewFromInt(250_000), Currency: legal.CurrencyUSD}

	// 83,000,000 INR converts to 1,000,000 USD at the banding rate and
	// outranks the 250,000 USD head of the US list.
	got := a.transactionValueUSD([]legal.MonetaryAmount{inr}, []legal.MonetaryAmount{usd})
	if !got.Equal(decimal.NewFromInt(1_000_000)) {
		t.Errorf("value = %s, want 1000000", got)
	}

	if v := a.transactionValueUSD(nil, nil); !v.IsZero() {
		t.Errorf("value = %s, want zero for empty lists", v)
	}
}

func TestRecommendDispute(t *testing.T) {
	a := New(nil)

	tests := []struct {
		name       string
		lowered    string
		value      decimal.Decimal
		complexity string
		want       string
	}{
		// Bases only: SIAC carries the highest base.
		{"no signals", "", decimal.Zero, complexityLow, "SIAC arbitration (Singapore) [score 5.5]"},
		// 5.5 + value 1.5 + complexity 1.0.
		{"large complex deal", "", decimal.NewFromInt(2_000_000), complexityHigh, "SIAC arbitration (Singapore) [score 8.0]"},
		// 5.5 - 0.5 + enforcement 1.0; courts reach 5.0 and lose the tie.
		{"small deal with enforcement need", "the parties shall enforce any judgment", decimal.NewFromInt(50_000), complexityLow, "SIAC arbitration (Singapore) [score 6.0]"},
		// Confidentiality favors the confidential forums: 5.5 + 1.0.
		{"confidential matter", "all confidential information", decimal.Zero, complexityLow, "SIAC arbitration (Singapore) [score 6.5]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.recommendDispute(tt.lowered, tt.value, tt.complexity); got != tt.want {
				t.Errorf("recommendDispute = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecommendGoverningLaw(t *testing.T) {
	a := New(nil)

	tests := []struct {
		name    string
		lowered string
		want    string
	}{
		// English and Singapore law tie at 6.0; the earlier table entry
		// wins.
		{"no signals", "", "English law (neutral) [score 6.0]"},
		// 6.0 + party 1.5 + transaction 1.0.
		{"london banking", "facility arranged in london for banking purposes", "English law (neutral) [score 8.5]"},
		// 5.5 + party 1.5 + transaction 1.0.
		{"delaware stock deal", "a delaware corporation stock purchase", "US law (Delaware) [score 8.0]"},
		// 5.0 + party 1.5 + transaction 1.0.
		{"indian real estate", "an indian company conveying real estate", "Indian law [score 7.5]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.recommendGoverningLaw(tt.lowered); got != tt.want {
				t.Errorf("recommendGoverningLaw = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssessComplexity(t *testing.T) {
	a := New(nil)

	tests := []struct {
		name    string
		lowered string
		want    string
	}{
		// The multi-jurisdiction signal is always present.
		{"baseline", "plain supply terms", complexityLow},
		{"ip adds one", "licensing of intellectual property", complexityMedium},
		{"ip and regulatory", "a patent license from the government requires regulatory approval", complexityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.assessComplexity(tt.lowered); got != tt.want {
				t.Errorf("assessComplexity = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeTaxGSTRouting(t *testing.T) {
	a := New(nil)
	applicable := &legal.IndianLegalAnalysis{GST: &legal.GSTAnalysis{Applicable: true}}

	export := a.analyzeTax("supply of services as an export of services", applicable)
	if len(export.GSTTreatment) == 0 || !strings.Contains(export.GSTTreatment[0], "zero-rated") {
		t.Errorf("export treatment = %v, want zero-rating", export.GSTTreatment)
	}

	imported := a.analyzeTax("the import of services by the indian recipient", applicable)
	if len(imported.GSTTreatment) == 0 || !strings.Contains(imported.GSTTreatment[0], "reverse charge") {
		t.Errorf("import treatment = %v, want reverse charge", imported.GSTTreatment)
	}

	generic := a.analyzeTax("a taxable supply with no border direction", applicable)
	if len(generic.GSTTreatment) != 1 || !strings.Contains(generic.GSTTreatment[0], "place of supply") {
		t.Errorf("generic treatment = %v, want the place-of-supply note", generic.GSTTreatment)
	}

	notApplicable := a.analyzeTax("export of services", &legal.IndianLegalAnalysis{GST: &legal.GSTAnalysis{}})
	if len(notApplicable.GSTTreatment) != 0 {
		t.Errorf("treatment = %v, want none when the extractor found no supply", notApplicable.GSTTreatment)
	}
}

func TestIdentifyGapsStructuralDisagreements(t *testing.T) {
	a := New(nil)

	india := &legal.IndianLegalAnalysis{
		DocumentType: legal.DocTypeLease,
		StampDuty:    &legal.StampDutyAnalysis{Status: legal.StampRequiresStamping, State: "Delhi"},
		Registration: &legal.RegistrationRequirement{
			Required:  true,
			Authority: "Sub-Registrar of Assurances",
			Deadline:  "within four months of execution",
		},
	}
	us := &legal.USLegalAnalysis{
		StateJurisdiction: &legal.StateJurisdictionAnalysis{Source: legal.StateFromDefault},
		Privacy:           &legal.PrivacyAnalysis{},
	}

	// No arbitration vocabulary in the lowered text.
	gaps := a.identifyGaps("lease of premises", india, us, &legal.TaxImplications{})

	wantTypes := []legal.GapType{
		legal.GapFormality,
		legal.GapRegistration,
		legal.GapGoverningLaw,
		legal.GapDisputeResolution,
	}
	gotTypes := make([]legal.GapType, len(gaps))
	for i, g := range gaps {
		gotTypes[i] = g.Type
	}
	if !reflect.DeepEqual(gotTypes, wantTypes) {
		t.Fatalf("gap types = %v, want %v", gotTypes, wantTypes)
	}
	for _, g := range gaps {
		if g.Priority != typescommon.PriorityHigh {
			t.Errorf("gap %s priority = %s, want high", g.Type, g.Priority)
		}
		if g.Mitigation != a.lex.MitigationTemplates[g.Type] {
			t.Errorf("gap %s mitigation = %q, want the fixed template", g.Type, g.Mitigation)
		}
	}
}

func TestCompareIdempotent(t *testing.T) {
	a := New(nil)

	first := a.Compare(context.Background(), crossBorderMSAText, "", "")
	second := a.Compare(context.Background(), crossBorderMSAText, "", "")

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated comparison of identical input produced different results")
	}
}

func TestCompareRecordsMetrics(t *testing.T) {
	metrics := common.NewInMemoryAnalysisMetrics()
	a := New(nil, WithMetrics(metrics))

	result := a.Compare(context.Background(), crossBorderMSAText, "", "")

	recorded := metrics.Analyses()
	// One record per engine: the two extractors plus the comparison.
	if len(recorded) != 3 {
		t.Fatalf("recorded %d analyses, want 3", len(recorded))
	}
	last := recorded[len(recorded)-1]
	if last.Engine != engineName {
		t.Errorf("engine = %q, want %q", last.Engine, engineName)
	}
	if !last.Success {
		t.Error("comparison not recorded as success")
	}

	counts := metrics.GetCurrentStats().RiskLevelCounts
	if counts[string(result.OverallRisk)] != 1 {
		t.Errorf("risk level counts = %v, want one %s", counts, result.OverallRisk)
	}
}
