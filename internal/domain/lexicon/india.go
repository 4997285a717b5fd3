package lexicon

import (
	"github.com/shopspring/decimal"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// ActEntry describes one Indian statute the engines can recognize.
type ActEntry struct {
	// Canonical is the short display name, e.g. "Companies Act".
	Canonical string

	// FullName is the conventional citation, e.g. "Companies Act, 2013".
	FullName string

	// Year of enactment as cited.
	Year string

	// Aliases are the lowercase match forms for this act.
	Aliases []string
}

// DocTypeRule maps trigger keywords to a document type. Rules are
// evaluated in slice order, most specific instrument first, so the
// generic agreement fallback cannot pre-empt a lease or conveyance.
type DocTypeRule struct {
	Type     legal.DocumentType
	Keywords []string
}

// StampRate is one cell of a state stamp schedule. Rate is a
// percentage of consideration; a zero rate with a non-zero minimum
// models flat-duty articles. A nil Maximum means the schedule sets no
// ceiling.
type StampRate struct {
	Rate    decimal.Decimal
	Minimum decimal.Decimal
	Maximum *decimal.Decimal
}

// ClauseRule names a mandatory clause and the synonyms that count as
// its presence anywhere in the lowercased document text.
type ClauseRule struct {
	Name     string
	Synonyms []string
}

// RegistrationRule is one row of the registration requirement table.
type RegistrationRule struct {
	Required     bool
	Authority    string
	Deadline     string
	Consequences []string
}

// GSTCategory maps service vocabulary to a GST rate and SAC/HSN code.
type GSTCategory struct {
	Category string
	HSN      string
	Rate     float64
	Keywords []string
}

// StampExemption describes a duty exemption matched by vocabulary.
type StampExemption struct {
	Description string
	Keywords    []string
}

// IndiaLexicon bundles every India-side vocabulary and rate table.
type IndiaLexicon struct {
	Acts               []ActEntry
	Courts             []string
	Regulators         []string
	LegalTerms         []string
	CurrencyPatterns   []string
	Entities           []string
	States             []string
	Idioms             []string
	GoverningLawIdioms []string

	DocTypes []DocTypeRule

	// StampRates is keyed by lowercase state name, then document type.
	StampRates        map[string]map[legal.DocumentType]StampRate
	DefaultStampState string
	StampRequirements map[legal.DocumentType][]string
	StampExemptions   []StampExemption

	GSTKeywords     []string
	GSTCategories   []GSTCategory
	GSTRequirements []string

	MandatoryClauses map[legal.DocumentType][]ClauseRule
	ViolationTokens  []string

	Registration             map[legal.DocumentType]RegistrationRule
	RegistrationConsequences []string
}

// StampRateFor resolves the schedule cell for (state, docType) with
// the fallback chain: exact cell, then the default state's cell, then
// the default state's AGREEMENT row. The chain always terminates
// because the default state's table carries an AGREEMENT row by
// construction.
func (l *IndiaLexicon) StampRateFor(state string, docType legal.DocumentType) StampRate {
	if table, ok := l.StampRates[state]; ok {
		if rate, ok := table[docType]; ok {
			return rate
		}
	}
	defaults := l.StampRates[l.DefaultStampState]
	if rate, ok := defaults[docType]; ok {
		return rate
	}
	return defaults[legal.DocTypeAgreement]
}

// RegistrationFor resolves the registration row for a document type,
// defaulting to not-required when the type has no row.
func (l *IndiaLexicon) RegistrationFor(docType legal.DocumentType) RegistrationRule {
	if rule, ok := l.Registration[docType]; ok {
		return rule
	}
	return RegistrationRule{Required: false}
}

// ClausesFor returns the mandatory-clause checklist for a document
// type, falling back to the generic agreement checklist.
func (l *IndiaLexicon) ClausesFor(docType legal.DocumentType) []ClauseRule {
	if rules, ok := l.MandatoryClauses[docType]; ok {
		return rules
	}
	return l.MandatoryClauses[legal.DocTypeAgreement]
}

// StampRequirementsFor returns the execution requirements for a
// document type, always including the generic stamping requirements.
func (l *IndiaLexicon) StampRequirementsFor(docType legal.DocumentType) []string {
	base := l.StampRequirements[legal.DocTypeAgreement]
	if docType == legal.DocTypeAgreement {
		return base
	}
	specific := l.StampRequirements[docType]
	out := make([]string, 0, len(base)+len(specific))
	out = append(out, base...)
	out = append(out, specific...)
	return out
}

func sr(rate string, min int64) StampRate {
	return StampRate{Rate: dec(rate), Minimum: decimal.NewFromInt(min)}
}

func srMax(rate string, min, max int64) StampRate {
	m := decimal.NewFromInt(max)
	return StampRate{Rate: dec(rate), Minimum: decimal.NewFromInt(min), Maximum: &m}
}

func newIndiaLexicon() *IndiaLexicon {
	return &IndiaLexicon{
		Acts: []ActEntry{
			{"Indian Contract Act", "Indian Contract Act, 1872", "1872", []string{"indian contract act"}},
			{"Companies Act", "Companies Act, 2013", "2013", []string{"companies act"}},
			{"Transfer of Property Act", "Transfer of Property Act, 1882", "1882", []string{"transfer of property act"}},
			{"Indian Stamp Act", "Indian Stamp Act, 1899", "1899", []string{"indian stamp act", "stamp act, 1899"}},
			{"Registration Act", "Registration Act, 1908", "1908", []string{"registration act"}},
			{"Specific Relief Act", "Specific Relief Act, 1963", "1963", []string{"specific relief act"}},
			{"Arbitration and Conciliation Act", "Arbitration and Conciliation Act, 1996", "1996", []string{"arbitration and conciliation act"}},
			{"Income Tax Act", "Income Tax Act, 1961", "1961", []string{"income tax act"}},
			{"CGST Act", "Central Goods and Services Tax Act, 2017", "2017", []string{"central goods and services tax act", "cgst act", "gst act"}},
			{"IGST Act", "Integrated Goods and Services Tax Act, 2017", "2017", []string{"integrated goods and services tax act", "igst act"}},
			{"SEBI Act", "Securities and Exchange Board of India Act, 1992", "1992", []string{"securities and exchange board of india act", "sebi act"}},
			{"FEMA", "Foreign Exchange Management Act, 1999", "1999", []string{"foreign exchange management act", "fema"}},
			{"Indian Partnership Act", "Indian Partnership Act, 1932", "1932", []string{"indian partnership act", "partnership act, 1932"}},
			{"LLP Act", "Limited Liability Partnership Act, 2008", "2008", []string{"limited liability partnership act", "llp act"}},
			{"Information Technology Act", "Information Technology Act, 2000", "2000", []string{"information technology act"}},
			{"Consumer Protection Act", "Consumer Protection Act, 2019", "2019", []string{"consumer protection act"}},
			{"Negotiable Instruments Act", "Negotiable Instruments Act, 1881", "1881", []string{"negotiable instruments act"}},
			{"Competition Act", "Competition Act, 2002", "2002", []string{"competition act"}},
			{"Insolvency and Bankruptcy Code", "Insolvency and Bankruptcy Code, 2016", "2016", []string{"insolvency and bankruptcy code"}},
			{"Sale of Goods Act", "Sale of Goods Act, 1930", "1930", []string{"sale of goods act"}},
			{"Indian Evidence Act", "Indian Evidence Act, 1872", "1872", []string{"indian evidence act"}},
			{"Powers of Attorney Act", "Powers of Attorney Act, 1882", "1882", []string{"powers of attorney act", "power of attorney act"}},
			{"RERA", "Real Estate (Regulation and Development) Act, 2016", "2016", []string{"real estate (regulation and development) act", "rera"}},
			{"DPDP Act", "Digital Personal Data Protection Act, 2023", "2023", []string{"digital personal data protection act", "dpdp act"}},
		},

		Courts: []string{
			"supreme court of india",
			"bombay high court",
			"delhi high court",
			"madras high court",
			"calcutta high court",
			"karnataka high court",
			"high court",
			"national company law tribunal",
			"nclt",
			"national company law appellate tribunal",
			"debts recovery tribunal",
			"consumer disputes redressal",
			"district and sessions court",
		},

		Regulators: []string{
			"securities and exchange board of india",
			"sebi",
			"reserve bank of india",
			"rbi",
			"competition commission of india",
			"ministry of corporate affairs",
			"registrar of companies",
			"insurance regulatory and development authority",
			"irdai",
			"telecom regulatory authority of india",
			"trai",
			"enforcement directorate",
			"central board of direct taxes",
			"gst council",
		},

		LegalTerms: []string{
			"stamp duty",
			"stamp paper",
			"e-stamp",
			"franking",
			"sub-registrar",
			"sale deed",
			"gift deed",
			"leave and licence",
			"hypothecation",
			"vakalatnama",
			"encumbrance certificate",
			"mutation",
			"khata",
			"demat",
			"dematerialised",
			"provident fund",
			"gratuity",
			"tax deducted at source",
			"permanent account number",
			"gstin",
			"memorandum of association",
			"articles of association",
		},

		CurrencyPatterns: []string{
			`₹\s*[\d,]+(?:\.\d+)?`,
			`(?i)\b(?:rs\.?|inr)\s*[\d,]+(?:\.\d+)?`,
			`(?i)\brupees\s+[a-z][a-z\s-]*`,
			`(?i)[\d,]+(?:\.\d+)?\s*(?:lakhs?|crores?)\b`,
		},

		Entities: []string{
			"private limited",
			"pvt. ltd.",
			"pvt ltd",
			"public limited",
			"limited liability partnership",
			"llp",
			"hindu undivided family",
			"huf",
			"sole proprietorship",
			"one person company",
			"section 8 company",
		},

		States: []string{
			"Maharashtra", "Delhi", "Karnataka", "Tamil Nadu", "Gujarat",
			"West Bengal", "Telangana", "Uttar Pradesh", "Rajasthan",
			"Punjab", "Haryana", "Kerala", "Madhya Pradesh",
			"Andhra Pradesh", "Bihar", "Odisha", "Assam", "Jharkhand",
			"Chhattisgarh", "Uttarakhand", "Himachal Pradesh", "Goa",
		},

		Idioms: []string{
			"party of the first part",
			"party of the second part",
			"schedule hereunder written",
			"more particularly described in the schedule",
			"annexure",
			"duly authorised signatory",
			"registered office",
			"in the presence of the following witnesses",
			"solemnly affirm",
		},

		GoverningLawIdioms: []string{
			"laws of india",
			"indian law",
			"governed by the laws of india",
			"courts in india",
			"exclusive jurisdiction of the courts at",
			"as per indian law",
		},

		DocTypes: []DocTypeRule{
			{legal.DocTypeShareTransfer, []string{"share transfer", "transfer of shares", "share purchase", "transfer of equity"}},
			{legal.DocTypeConveyance, []string{"conveyance", "sale deed", "deed of sale", "deed of transfer", "absolute sale"}},
			{legal.DocTypeLease, []string{"lease", "leave and licence", "leave and license", "rent agreement", "rental agreement", "tenancy"}},
			{legal.DocTypeMortgage, []string{"mortgage", "hypothecation", "charge on the property"}},
			{legal.DocTypePartnership, []string{"partnership deed", "deed of partnership", "partnership agreement"}},
			{legal.DocTypePowerOfAttorney, []string{"power of attorney", "general power of attorney", "special power of attorney"}},
			{legal.DocTypePromissoryNote, []string{"promissory note", "promise to pay on demand"}},
			{legal.DocTypeLoanAgreement, []string{"loan agreement", "loan", "credit facility", "facility agreement"}},
			{legal.DocTypeServiceAgreement, []string{"service agreement", "services agreement", "master service", "consulting agreement", "statement of work"}},
			{legal.DocTypeEmployment, []string{"employment agreement", "employment contract", "appointment letter", "offer of employment"}},
			{legal.DocTypeNDA, []string{"non-disclosure", "nondisclosure", "confidentiality agreement", "nda"}},
			{legal.DocTypeAgreement, []string{"agreement", "contract", "memorandum of understanding", "mou"}},
		},

		// Rates are a point-in-time snapshot of state schedules; the
		// table version gates any recalibration.
		StampRates: map[string]map[legal.DocumentType]StampRate{
			"maharashtra": {
				legal.DocTypeConveyance:      sr("5", 100),
				legal.DocTypeLease:           sr("0.25", 100),
				legal.DocTypeMortgage:        srMax("0.5", 100, 1000000),
				legal.DocTypeShareTransfer:   sr("0.015", 1),
				legal.DocTypePowerOfAttorney: sr("0", 500),
				legal.DocTypePartnership:     sr("0", 500),
				legal.DocTypeLoanAgreement:   srMax("0.1", 100, 1000000),
				legal.DocTypePromissoryNote:  sr("0", 100),
				legal.DocTypeAgreement:       sr("0.1", 100),
			},
			"delhi": {
				legal.DocTypeConveyance:      sr("6", 100),
				legal.DocTypeLease:           sr("2", 100),
				legal.DocTypeMortgage:        sr("2", 100),
				legal.DocTypeShareTransfer:   sr("0.015", 1),
				legal.DocTypePowerOfAttorney: sr("0", 100),
				legal.DocTypePartnership:     sr("0", 200),
				legal.DocTypeLoanAgreement:   sr("0.1", 100),
				legal.DocTypeAgreement:       sr("0", 50),
			},
			"karnataka": {
				legal.DocTypeConveyance:      sr("5", 100),
				legal.DocTypeLease:           sr("0.5", 100),
				legal.DocTypeMortgage:        srMax("0.5", 100, 1000000),
				legal.DocTypeShareTransfer:   sr("0.015", 1),
				legal.DocTypePowerOfAttorney: sr("0", 500),
				legal.DocTypeAgreement:       sr("0", 200),
			},
			"tamil nadu": {
				legal.DocTypeConveyance: sr("7", 100),
				legal.DocTypeLease:      sr("1", 100),
				legal.DocTypeMortgage:   sr("1", 100),
				legal.DocTypeAgreement:  sr("0", 100),
			},
			"gujarat": {
				legal.DocTypeConveyance: sr("4.9", 100),
				legal.DocTypeLease:      sr("1", 100),
				legal.DocTypeMortgage:   srMax("0.5", 100, 500000),
				legal.DocTypeAgreement:  sr("0.1", 100),
			},
			"west bengal": {
				legal.DocTypeConveyance: sr("6", 100),
				legal.DocTypeLease:      sr("0.25", 100),
				legal.DocTypeAgreement:  sr("0", 50),
			},
			"telangana": {
				legal.DocTypeConveyance: sr("5", 100),
				legal.DocTypeLease:      sr("0.5", 100),
				legal.DocTypeAgreement:  sr("0", 100),
			},
			"uttar pradesh": {
				legal.DocTypeConveyance: sr("7", 100),
				legal.DocTypeLease:      sr("2", 100),
				legal.DocTypeAgreement:  sr("0", 100),
			},
			"rajasthan": {
				legal.DocTypeConveyance: sr("6", 100),
				legal.DocTypeLease:      sr("0.5", 100),
				legal.DocTypeAgreement:  sr("0", 100),
			},
			"haryana": {
				legal.DocTypeConveyance: sr("7", 100),
				legal.DocTypeLease:      sr("1.5", 100),
				legal.DocTypeAgreement:  sr("0", 100),
			},
		},
		DefaultStampState: "maharashtra",

		StampRequirements: map[legal.DocumentType][]string{
			legal.DocTypeAgreement: {
				"Pay stamp duty before or at the time of execution",
				"Use stamp paper of the correct denomination or an e-stamp certificate",
				"Unstamped or understamped instruments are inadmissible in evidence under Section 35 of the Indian Stamp Act, 1899",
			},
			legal.DocTypeConveyance: {
				"Duty is assessed on the higher of the consideration and the circle-rate value of the property",
			},
			legal.DocTypeLease: {
				"Duty on a lease is computed on the rent reserved for the term plus any premium",
			},
			legal.DocTypeMortgage: {
				"Duty depends on whether possession of the mortgaged property passes to the mortgagee",
			},
		},

		StampExemptions: []StampExemption{
			{"Instruments executed by or on behalf of the Government", []string{"executed by the government", "on behalf of the government"}},
			{"Gift to specified family members (concessional duty in several states)", []string{"natural love and affection", "gift to"}},
			{"Instruments in favour of a registered charitable institution", []string{"charitable trust", "charitable institution"}},
		},

		GSTKeywords: []string{
			"gst",
			"goods and services tax",
			"cgst",
			"sgst",
			"igst",
			"supply of services",
			"supply of goods",
			"taxable supply",
			"input tax credit",
			"reverse charge",
			"tax invoice",
			"place of supply",
		},

		GSTCategories: []GSTCategory{
			{"information technology services", "998314", 18, []string{"software", "information technology", "it services", "saas", "cloud services", "application development"}},
			{"professional consulting services", "998311", 18, []string{"consulting", "consultancy", "advisory services", "management services", "professional services"}},
			{"legal services", "998212", 18, []string{"legal services", "legal advice", "law firm"}},
			{"financial services", "997119", 18, []string{"banking services", "financial services", "investment advisory"}},
			{"works contract services", "995411", 18, []string{"works contract", "construction", "civil works"}},
			{"renting of immovable property", "997212", 18, []string{"renting of immovable", "commercial rent", "commercial lease"}},
			{"licensing of intellectual property", "997331", 12, []string{"licensing of", "patent license", "trademark license", "royalty"}},
			{"goods transport services", "996511", 5, []string{"transport of goods", "freight", "logistics services"}},
		},

		GSTRequirements: []string{
			"Obtain GST registration once aggregate turnover crosses the statutory threshold",
			"Issue GST-compliant tax invoices for every taxable supply",
			"File periodic returns (GSTR-1, GSTR-3B) and reconcile input tax credit",
		},

		MandatoryClauses: map[legal.DocumentType][]ClauseRule{
			legal.DocTypeAgreement: {
				{"consideration", []string{"consideration", "in consideration"}},
				{"parties", []string{"between", "party of the first part", "parties"}},
				{"date of execution", []string{"dated", "day of", "date of execution"}},
				{"dispute resolution", []string{"arbitration", "jurisdiction", "dispute"}},
			},
			legal.DocTypeLease: {
				{"term", []string{"term of", "period of", "months", "years"}},
				{"rent", []string{"rent"}},
				{"security deposit", []string{"security deposit", "deposit"}},
				{"maintenance", []string{"maintenance", "repairs"}},
			},
			legal.DocTypeEmployment: {
				{"compensation", []string{"salary", "compensation", "remuneration"}},
				{"designation", []string{"designation", "position", "role"}},
				{"notice period", []string{"notice period", "termination notice"}},
				{"confidentiality", []string{"confidential", "confidentiality"}},
			},
			legal.DocTypeLoanAgreement: {
				{"principal", []string{"principal", "loan amount"}},
				{"interest", []string{"interest", "rate of interest"}},
				{"repayment", []string{"repayment", "instalment", "installment", "emi"}},
				{"default", []string{"default", "event of default"}},
			},
			legal.DocTypeNDA: {
				{"confidential information", []string{"confidential information", "proprietary information"}},
				{"term", []string{"term", "period", "duration"}},
				{"non-disclosure obligation", []string{"shall not disclose", "non-disclosure", "not disclose"}},
				{"return of information", []string{"return", "destroy"}},
			},
			legal.DocTypePartnership: {
				{"capital contribution", []string{"capital contribution", "capital"}},
				{"profit sharing", []string{"profit", "profit sharing ratio", "share of profits"}},
				{"duties of partners", []string{"duties", "responsibilities"}},
				{"dissolution", []string{"dissolution", "retirement of a partner"}},
			},
			legal.DocTypeConveyance: {
				{"consideration", []string{"consideration", "in consideration"}},
				{"property description", []string{"schedule", "more particularly described", "property"}},
				{"title", []string{"title", "absolute owner"}},
				{"possession", []string{"possession"}},
			},
			legal.DocTypeMortgage: {
				{"principal secured", []string{"principal", "amount secured"}},
				{"property description", []string{"schedule", "property", "more particularly described"}},
				{"redemption", []string{"redemption", "redeem"}},
			},
			legal.DocTypeShareTransfer: {
				{"shares", []string{"shares", "equity shares"}},
				{"consideration", []string{"consideration", "purchase price"}},
				{"transferor and transferee", []string{"transferor", "transferee"}},
			},
			legal.DocTypePowerOfAttorney: {
				{"powers granted", []string{"powers", "authorise", "authorize", "empower"}},
				{"attorney", []string{"attorney", "agent"}},
				{"revocation", []string{"revocation", "revocable", "irrevocable"}},
			},
			legal.DocTypePromissoryNote: {
				{"promise to pay", []string{"promise to pay", "promises to pay"}},
				{"amount", []string{"sum of", "amount"}},
				{"payee", []string{"order of", "payee"}},
			},
			legal.DocTypeServiceAgreement: {
				{"scope of services", []string{"scope of services", "services", "scope of work", "deliverables"}},
				{"fees", []string{"fees", "charges", "payment"}},
				{"term", []string{"term", "duration", "period"}},
				{"termination", []string{"termination", "terminate"}},
			},
		},

		ViolationTokens: []string{"illegal", "unlawful", "contrary to law", "void ab initio"},

		Registration: map[legal.DocumentType]RegistrationRule{
			legal.DocTypeConveyance: {
				Required:  true,
				Authority: "Sub-Registrar of Assurances",
				Deadline:  "within four months of execution",
			},
			legal.DocTypeLease: {
				Required:  true,
				Authority: "Sub-Registrar of Assurances",
				Deadline:  "within four months of execution (mandatory for terms exceeding eleven months)",
			},
			legal.DocTypeMortgage: {
				Required:  true,
				Authority: "Sub-Registrar of Assurances",
				Deadline:  "within four months of execution",
			},
			legal.DocTypeShareTransfer: {
				Required:  false,
				Authority: "Company / depository records the transfer; no Sub-Registrar filing",
			},
		},

		RegistrationConsequences: []string{
			"Document is inadmissible as evidence of the transaction under Section 49 of the Registration Act, 1908",
			"No interest in the immovable property passes to the transferee",
			"Penalty of up to ten times the registration fee on delayed presentation",
		},
	}
}
