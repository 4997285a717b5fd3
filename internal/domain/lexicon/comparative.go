package lexicon

import "github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"

// FormalityRow is one static row of the India/US execution formality
// comparison. Rows driven by extractor output (stamp duty,
// registration) are assembled by the engine, not stored here.
type FormalityRow struct {
	Aspect           string
	IndiaRequirement string
	USRequirement    string
	Differs          bool
}

// DTAAProvision is one payment category of the India-US Double
// Taxation Avoidance Agreement.
type DTAAProvision struct {
	PaymentType     string
	TreatyArticle   string
	WithholdingRate string
	Description     string
	Keywords        []string
}

// GoverningLawOption is one governing-law candidate with its scoring
// inputs. Base reflects general enforceability and familiarity;
// keyword bonuses are added by the engine.
type GoverningLawOption struct {
	Key                 string
	DisplayName         string
	Base                float64
	PartyKeywords       []string
	TransactionKeywords []string
}

// DisputeOption is one dispute-resolution candidate.
type DisputeOption struct {
	Key           string
	DisplayName   string
	Base          float64
	Institutional bool
	Confidential  bool
	// NYConvention marks forums whose award is enforceable under the
	// New York Convention in both India and the US.
	NYConvention bool
}

// RoadmapPhase is one phase of the fixed implementation roadmap.
type RoadmapPhase struct {
	Title string
	Items []string
}

// CrossBorderRiskRule flags a cross-border risk when any keyword
// appears in the text.
type CrossBorderRiskRule struct {
	Description string
	AnyKeywords []string
}

// ComparativeLexicon bundles the tables used only by cross-border
// analysis.
type ComparativeLexicon struct {
	StaticFormalities []FormalityRow

	DTAA                    []DTAAProvision
	TransferPricingKeywords []string
	TransferPricingIndia    []string
	TransferPricingUS       []string

	ExportKeywords      []string
	ImportKeywords      []string
	GSTExportTreatment  []string
	GSTImportTreatment  []string
	GSTGenericTreatment []string

	GoverningLawOptions []GoverningLawOption
	DisputeOptions      []DisputeOption

	IPKeywords              []string
	RegulatoryKeywords      []string
	MultiPartyKeywords      []string
	ConfidentialityKeywords []string
	EnforcementKeywords     []string

	CrossBorderRisks []CrossBorderRiskRule

	MitigationTemplates map[legal.GapType]string
	RoadmapPhases       []RoadmapPhase
}

func newComparativeLexicon() *ComparativeLexicon {
	return &ComparativeLexicon{
		StaticFormalities: []FormalityRow{
			{
				Aspect:           "witnesses",
				IndiaRequirement: "Deeds affecting immovable property require two attesting witnesses",
				USRequirement:    "Witness requirements vary by state; most contracts need none",
				Differs:          true,
			},
			{
				Aspect:           "notarization",
				IndiaRequirement: "Notarial attestation needed for instruments executed outside India (with apostille)",
				USRequirement:    "Notarization required mainly for recorded real estate documents and affidavits",
				Differs:          true,
			},
			{
				Aspect:           "electronic signatures",
				IndiaRequirement: "Valid under the IT Act, 2000, but excluded for negotiable instruments, powers of attorney, and real estate conveyances",
				USRequirement:    "Broadly valid under the E-SIGN Act and UETA",
				Differs:          true,
			},
			{
				Aspect:           "counterpart execution",
				IndiaRequirement: "Each counterpart attracting duty must itself be stamped",
				USRequirement:    "Counterpart execution is routine and carries no duty",
				Differs:          true,
			},
		},

		DTAA: []DTAAProvision{
			{
				PaymentType:     "royalties",
				TreatyArticle:   "Article 12",
				WithholdingRate: "15%",
				Description:     "Royalties taxed at source at up to 15% of the gross amount",
				Keywords:        []string{"royalty", "royalties", "license fee", "licence fee"},
			},
			{
				PaymentType:     "fees for included services",
				TreatyArticle:   "Article 12(4)",
				WithholdingRate: "15%",
				Description:     "Technical and consultancy fees that make available technical knowledge taxed at up to 15%",
				Keywords:        []string{"technical services", "fees for included services", "consulting", "consultancy"},
			},
			{
				PaymentType:     "interest",
				TreatyArticle:   "Article 11",
				WithholdingRate: "15% (10% for bank loans)",
				Description:     "Interest taxed at source at up to 15%, 10% when the lender is a bank or financial institution",
				Keywords:        []string{"interest", "loan", "debenture"},
			},
			{
				PaymentType:     "dividends",
				TreatyArticle:   "Article 10",
				WithholdingRate: "25% (15% with 10% voting stock)",
				Description:     "Dividends taxed at up to 25%, reduced to 15% for a company holding at least 10% of voting stock",
				Keywords:        []string{"dividend", "dividends"},
			},
			{
				PaymentType:     "business profits",
				TreatyArticle:   "Article 7",
				WithholdingRate: "Nil without a permanent establishment",
				Description:     "Business profits taxable only where the enterprise has a permanent establishment",
				Keywords:        []string{"permanent establishment", "business profits"},
			},
		},

		TransferPricingKeywords: []string{
			"affiliate", "related party", "subsidiary", "holding company",
			"group company", "intercompany", "parent company",
		},
		TransferPricingIndia: []string{
			"Related-party cross-border transactions must meet arm's-length pricing under Sections 92 to 92F of the Income Tax Act, 1961",
			"Maintain contemporaneous documentation under Section 92D and file Form 3CEB",
		},
		TransferPricingUS: []string{
			"Section 482 of the Internal Revenue Code lets the IRS reallocate income between controlled parties",
			"Maintain § 6662(e) documentation to avoid transfer pricing penalties",
		},

		ExportKeywords: []string{
			"export of services", "export of goods", "services to a foreign",
			"outside india", "foreign client", "overseas customer",
		},
		ImportKeywords: []string{
			"import of services", "import of goods", "services from a foreign",
			"received from outside india",
		},
		GSTExportTreatment: []string{
			"Export of services is a zero-rated supply under Section 16 of the IGST Act, 2017",
			"Supply without IGST under a Letter of Undertaking, or pay IGST and claim refund",
		},
		GSTImportTreatment: []string{
			"Import of services attracts IGST under reverse charge; the Indian recipient self-assesses",
			"Reverse-charge IGST paid is creditable as input tax subject to Section 17",
		},
		GSTGenericTreatment: []string{
			"Determine the place of supply under the IGST Act before classifying the cross-border leg",
		},

		GoverningLawOptions: []GoverningLawOption{
			{
				Key:                 "indian_law",
				DisplayName:         "Indian law",
				Base:                5.0,
				PartyKeywords:       []string{"indian party", "india-based", "indian company", "assets in india", "immovable property"},
				TransactionKeywords: []string{"real estate", "property in india", "employment in india"},
			},
			{
				Key:                 "us_law",
				DisplayName:         "US law (Delaware)",
				Base:                5.5,
				PartyKeywords:       []string{"delaware corporation", "us party", "us-based", "united states"},
				TransactionKeywords: []string{"stock purchase", "venture financing", "sale of goods", "technology licensing"},
			},
			{
				Key:                 "english_law",
				DisplayName:         "English law (neutral)",
				Base:                6.0,
				PartyKeywords:       []string{"london", "english law"},
				TransactionKeywords: []string{"banking", "shipping", "insurance", "trade finance"},
			},
			{
				Key:                 "singapore_law",
				DisplayName:         "Singapore law (neutral)",
				Base:                6.0,
				PartyKeywords:       []string{"singapore", "asia-pacific"},
				TransactionKeywords: []string{"software", "information technology", "it services", "consulting", "outsourcing", "services"},
			},
		},

		DisputeOptions: []DisputeOption{
			{Key: "icc", DisplayName: "ICC arbitration (Paris)", Base: 5.0, Institutional: true, Confidential: true, NYConvention: true},
			{Key: "siac", DisplayName: "SIAC arbitration (Singapore)", Base: 5.5, Institutional: true, Confidential: true, NYConvention: true},
			{Key: "lcia", DisplayName: "LCIA arbitration (London)", Base: 5.0, Institutional: true, Confidential: true, NYConvention: true},
			{Key: "indian_courts", DisplayName: "Indian courts", Base: 3.5},
			{Key: "us_courts", DisplayName: "US courts", Base: 4.0},
		},

		IPKeywords: []string{
			"intellectual property", "patent", "trademark", "copyright",
			"trade secret", "licensing",
		},
		RegulatoryKeywords: []string{
			"regulatory approval", "government approval", "compliance with",
			"license from", "prior approval",
		},
		MultiPartyKeywords: []string{
			"consortium", "joint venture", "guarantor", "multi-party",
		},
		ConfidentialityKeywords: []string{
			"confidential", "trade secret", "proprietary",
		},
		EnforcementKeywords: []string{
			"enforce", "enforcement", "judgment", "award",
		},

		CrossBorderRisks: []CrossBorderRiskRule{
			{
				Description: "Foreign judgments face enforcement hurdles; the United States is not a reciprocating territory under Section 44A of the Code of Civil Procedure",
				AnyKeywords: []string{"jurisdiction", "judgment", "litigation", "courts"},
			},
			{
				Description: "Withholding tax leakage on cross-border payments absent treaty relief",
				AnyKeywords: []string{"royalty", "interest", "dividend", "technical services", "fees"},
			},
			{
				Description: "FEMA reporting and remittance conditions apply to the Indian party's payments",
				AnyKeywords: []string{"remittance", "foreign exchange", "outward remittance", "payment in foreign currency"},
			},
			{
				Description: "Cross-border transfers of personal data face restrictions under the DPDP Act and US state privacy laws",
				AnyKeywords: []string{"personal data", "personal information", "data transfer"},
			},
		},

		MitigationTemplates: map[legal.GapType]string{
			legal.GapFormality:         "Execute counterparts satisfying both regimes: pay Indian stamp duty before execution of the India counterpart and follow US execution formalities on the US counterpart",
			legal.GapRegistration:      "Present the instrument to the Sub-Registrar within the statutory window and record any parallel US filing (county recorder or UCC office)",
			legal.GapTax:               "Obtain tax residency certificates, apply DTAA relief at source, and document arm's-length pricing for related-party flows",
			legal.GapDisclosure:        "Add the missing disclosure language and map both regimes' notice obligations into a single disclosure schedule",
			legal.GapGoverningLaw:      "Adopt one express governing-law clause with a carve-out for mandatory local law (stamp, registration, exchange control)",
			legal.GapDisputeResolution: "Adopt institutional arbitration seated in a New York Convention state so the award is enforceable in both jurisdictions",
		},

		RoadmapPhases: []RoadmapPhase{
			{
				Title: "Phase 1 - Critical compliance (weeks 0-4)",
				Items: []string{
					"Pay stamp duty and complete registration formalities in India",
					"Close any securities registration or exemption gap in the US",
				},
			},
			{
				Title: "Phase 2 - Legal structure (weeks 4-8)",
				Items: []string{
					"Finalize governing law and dispute resolution clauses",
					"Align execution formalities across both counterparts",
				},
			},
			{
				Title: "Phase 3 - Tax and regulatory setup (weeks 8-12)",
				Items: []string{
					"Obtain tax residency certificates and apply treaty relief at source",
					"Prepare transfer pricing documentation for related-party flows",
				},
			},
			{
				Title: "Phase 4 - Documentation and execution (weeks 12-16)",
				Items: []string{
					"Execute final documents with required witnesses and notarization",
					"Calendar recurring filings and renewal obligations",
				},
			},
		},
	}
}
