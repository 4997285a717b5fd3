package cross_border

import (
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// analyzeTax assembles the treaty, transfer-pricing, and GST positions
// of the arrangement. Withholding bands come from the static DTAA
// provision table keyed by payment-type vocabulary; the GST leg reuses
// the Indian extractor's applicability finding instead of re-testing
// supply vocabulary.
func (a *Analyzer) analyzeTax(lowered string, india *legal.IndianLegalAnalysis) *legal.TaxImplications {
	tax := &legal.TaxImplications{
		DTAABenefits:    []legal.DTAABenefit{},
		TransferPricing: []string{},
		GSTTreatment:    []string{},
		Recommendations: []string{},
	}

	// 1. Treaty withholding bands by payment-type keyword.
	for _, m := range a.dtaa {
		if anyMatch(lowered, m.patterns) {
			tax.DTAABenefits = append(tax.DTAABenefits, legal.DTAABenefit{
				PaymentType:     m.provision.PaymentType,
				TreatyArticle:   m.provision.TreatyArticle,
				WithholdingRate: m.provision.WithholdingRate,
				Description:     m.provision.Description,
			})
		}
	}

	// 2. Transfer pricing cuts both ways; related-party vocabulary
	// pulls in the documentation duties of both regimes.
	if anyMatch(lowered, a.transferPricing) {
		tax.TransferPricing = append(tax.TransferPricing, a.lex.TransferPricingIndia...)
		tax.TransferPricing = append(tax.TransferPricing, a.lex.TransferPricingUS...)
	}

	// 3. GST only when the Indian extractor found a taxable supply.
	exportLeg := false
	if india.GST != nil && india.GST.Applicable {
		switch {
		case anyMatch(lowered, a.exportTerms):
			exportLeg = true
			tax.GSTTreatment = append(tax.GSTTreatment, a.lex.GSTExportTreatment...)
		case anyMatch(lowered, a.importTerms):
			tax.GSTTreatment = append(tax.GSTTreatment, a.lex.GSTImportTreatment...)
		default:
			tax.GSTTreatment = append(tax.GSTTreatment, a.lex.GSTGenericTreatment...)
		}
	}

	tax.Recommendations = taxRecommendations(tax, exportLeg)
	return tax
}

func taxRecommendations(tax *legal.TaxImplications, exportLeg bool) []string {
	recs := []string{}
	if len(tax.DTAABenefits) > 0 {
		recs = append(recs,
			"Obtain a tax residency certificate and Form 10F from the US payee to claim treaty relief at source",
			"Verify the beneficial-ownership condition before applying treaty withholding rates")
	}
	if len(tax.TransferPricing) > 0 {
		recs = append(recs,
			"Prepare contemporaneous transfer pricing documentation on both sides before the first intercompany invoice")
	}
	if exportLeg {
		recs = append(recs,
			"File a Letter of Undertaking before invoicing to supply without IGST")
	}
	return recs
}
