package lexicon

import "github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"

// FederalLawEntry describes one US federal (or widely cited state)
// statute the engines can recognize.
type FederalLawEntry struct {
	Canonical string
	FullName  string
	Citation  string
	Aliases   []string
}

// UCCArticleEntry maps an article to the vocabulary that triggers it.
// Several articles can match one document.
type UCCArticleEntry struct {
	Article  string
	Title    string
	Keywords []string
}

// TransactionRule resolves the single transaction type reported for a
// document. Rules are checked in slice order and the first article
// that matched wins.
type TransactionRule struct {
	Article string
	Type    string
}

// CompanionCheck flags a risk when an article matched but none of the
// clauses that usually accompany it are present.
type CompanionCheck struct {
	Article   string
	ExpectAny []string
	Risk      string
}

// UCCTable bundles the Uniform Commercial Code vocabulary and rules.
type UCCTable struct {
	ApplicabilityKeywords []string
	Articles              []UCCArticleEntry
	TransactionPriority   []TransactionRule
	StateVariations       map[string][]string
	CompanionChecks       []CompanionCheck
	Requirements          map[string][]string
}

// ExemptionEntry describes one securities registration exemption. It
// matches when every word in AllWords appears in the text, or when any
// Shorthand phrase does.
type ExemptionEntry struct {
	Name         string
	AllWords     []string
	Shorthand    []string
	Requirements []string
}

// SecuritiesTable bundles federal securities vocabulary.
type SecuritiesTable struct {
	Indicators               []string
	Exemptions               []ExemptionEntry
	ExemptionRequirements    []string
	RegistrationRequirements []string
}

// DisclosureCheck names a disclosure element a privacy law expects and
// the phrases that count as providing it.
type DisclosureCheck struct {
	Element  string
	Keywords []string
}

// PrivacyLaw is one row of the privacy regime table. A law applies
// when the document handles personal data in scope and either names
// the law or matches its scope keywords.
type PrivacyLaw struct {
	Name          string
	FullName      string
	Abbrevs       []string
	ScopeKeywords []string
	Disclosures   []DisclosureCheck
	Requirements  []string
}

// ViolationRule flags a violation when every keyword appears.
type ViolationRule struct {
	Description string
	AllKeywords []string
}

// USLexicon bundles every US-side vocabulary and rule table.
type USLexicon struct {
	FederalLaws        []FederalLawEntry
	Courts             []string
	Regulators         []string
	LegalTerms         []string
	CurrencyPatterns   []string
	Entities           []string
	States             []string
	Idioms             []string
	GoverningLawIdioms []string

	// ChoiceOfLawPatterns are regex sources with one capture group for
	// the candidate state name. Captures are validated against States
	// before use.
	ChoiceOfLawPatterns []string
	ForumPatterns       []string

	DocTypes         []DocTypeRule
	MandatoryClauses map[legal.DocumentType][]ClauseRule
	ViolationTokens  []string
	ViolationRules   []ViolationRule

	UCC        UCCTable
	Securities SecuritiesTable
	Privacy    []PrivacyLaw
}

// ClausesFor returns the mandatory-clause checklist for a document
// type, falling back to the generic agreement checklist.
func (l *USLexicon) ClausesFor(docType legal.DocumentType) []ClauseRule {
	if rules, ok := l.MandatoryClauses[docType]; ok {
		return rules
	}
	return l.MandatoryClauses[legal.DocTypeAgreement]
}

// IsState reports whether name (lowercase) is a recognized US state.
func (l *USLexicon) IsState(name string) bool {
	for _, s := range l.States {
		if name == s || name == lowerASCII(s) {
			return true
		}
	}
	return false
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func newUSLexicon() *USLexicon {
	return &USLexicon{
		FederalLaws: []FederalLawEntry{
			{"Securities Act", "Securities Act of 1933", "15 U.S.C. § 77a", []string{"securities act of 1933", "securities act"}},
			{"Securities Exchange Act", "Securities Exchange Act of 1934", "15 U.S.C. § 78a", []string{"securities exchange act", "exchange act of 1934"}},
			{"Uniform Commercial Code", "Uniform Commercial Code", "", []string{"uniform commercial code", "ucc"}},
			{"Sarbanes-Oxley Act", "Sarbanes-Oxley Act of 2002", "", []string{"sarbanes-oxley", "sarbanes oxley act"}},
			{"Dodd-Frank Act", "Dodd-Frank Wall Street Reform and Consumer Protection Act", "", []string{"dodd-frank", "dodd frank act"}},
			{"Internal Revenue Code", "Internal Revenue Code", "26 U.S.C.", []string{"internal revenue code"}},
			{"Delaware General Corporation Law", "Delaware General Corporation Law", "8 Del. C.", []string{"delaware general corporation law", "dgcl"}},
			{"Defend Trade Secrets Act", "Defend Trade Secrets Act of 2016", "18 U.S.C. § 1836", []string{"defend trade secrets act", "dtsa"}},
			{"Lanham Act", "Lanham Act", "15 U.S.C. § 1051", []string{"lanham act"}},
			{"Sherman Act", "Sherman Antitrust Act", "15 U.S.C. § 1", []string{"sherman act", "sherman antitrust"}},
			{"Clayton Act", "Clayton Antitrust Act", "15 U.S.C. § 12", []string{"clayton act"}},
			{"CCPA", "California Consumer Privacy Act", "Cal. Civ. Code § 1798.100", []string{"california consumer privacy act", "ccpa"}},
			{"HIPAA", "Health Insurance Portability and Accountability Act", "", []string{"health insurance portability and accountability act", "hipaa"}},
			{"COPPA", "Children's Online Privacy Protection Act", "15 U.S.C. § 6501", []string{"children's online privacy protection act", "coppa"}},
			{"GLBA", "Gramm-Leach-Bliley Act", "", []string{"gramm-leach-bliley", "glba"}},
			{"FLSA", "Fair Labor Standards Act", "29 U.S.C. § 201", []string{"fair labor standards act", "flsa"}},
			{"ERISA", "Employee Retirement Income Security Act", "29 U.S.C. § 1001", []string{"employee retirement income security act", "erisa"}},
			{"Federal Arbitration Act", "Federal Arbitration Act", "9 U.S.C.", []string{"federal arbitration act"}},
			{"E-SIGN Act", "Electronic Signatures in Global and National Commerce Act", "15 U.S.C. § 7001", []string{"electronic signatures in global and national commerce", "e-sign act", "esign act"}},
			{"Computer Fraud and Abuse Act", "Computer Fraud and Abuse Act", "18 U.S.C. § 1030", []string{"computer fraud and abuse act", "cfaa"}},
			{"Title VII", "Civil Rights Act of 1964, Title VII", "42 U.S.C. § 2000e", []string{"title vii", "civil rights act of 1964"}},
		},

		Courts: []string{
			"supreme court of the united states",
			"u.s. supreme court",
			"united states district court",
			"u.s. district court",
			"federal district court",
			"court of appeals",
			"ninth circuit",
			"second circuit",
			"third circuit",
			"delaware court of chancery",
			"court of chancery",
			"bankruptcy court",
			"superior court",
		},

		Regulators: []string{
			"securities and exchange commission",
			"sec rule",
			"sec filing",
			"federal trade commission",
			"ftc",
			"internal revenue service",
			"irs",
			"department of justice",
			"commodity futures trading commission",
			"cftc",
			"finra",
			"food and drug administration",
			"fda",
			"occupational safety and health administration",
			"osha",
			"equal employment opportunity commission",
			"eeoc",
			"united states patent and trademark office",
			"uspto",
		},

		LegalTerms: []string{
			"blue sky laws",
			"at-will employment",
			"at will employment",
			"punitive damages",
			"treble damages",
			"class action",
			"attorney-client privilege",
			"401(k)",
			"w-2",
			"form 1099",
			"social security",
			"employer identification number",
			"certificate of incorporation",
			"bylaws",
			"registered agent",
			"franchise tax",
			"liquidated damages",
			"escrow agent",
		},

		CurrencyPatterns: []string{
			`\$\s*[\d,]+(?:\.\d+)?`,
			`(?i)\b(?:usd|us\$)\s*[\d,]+(?:\.\d+)?`,
			`(?i)[\d,]+(?:\.\d+)?\s*(?:million|billion|trillion)\s+dollars\b`,
			`(?i)\bdollars?\b`,
		},

		Entities: []string{
			"inc.",
			"incorporated",
			"llc",
			"l.l.c.",
			"corp.",
			"corporation",
			"limited partnership",
			"l.p.",
			"delaware corporation",
			"nevada corporation",
			"s corporation",
			"c corporation",
		},

		States: []string{
			"Alabama", "Alaska", "Arizona", "Arkansas", "California",
			"Colorado", "Connecticut", "Delaware", "Florida", "Georgia",
			"Hawaii", "Idaho", "Illinois", "Indiana", "Iowa", "Kansas",
			"Kentucky", "Louisiana", "Maine", "Maryland", "Massachusetts",
			"Michigan", "Minnesota", "Mississippi", "Missouri", "Montana",
			"Nebraska", "Nevada", "New Hampshire", "New Jersey",
			"New Mexico", "New York", "North Carolina", "North Dakota",
			"Ohio", "Oklahoma", "Oregon", "Pennsylvania", "Rhode Island",
			"South Carolina", "South Dakota", "Tennessee", "Texas", "Utah",
			"Vermont", "Virginia", "Washington", "West Virginia",
			"Wisconsin", "Wyoming", "District of Columbia",
		},

		Idioms: []string{
			"principal place of business",
			"successors and assigns",
			"notwithstanding the foregoing",
			"free and clear of all liens",
			"represents and warrants",
			"indemnify and hold harmless",
			"sole and exclusive remedy",
			"consequential damages",
			"in witness whereof",
		},

		GoverningLawIdioms: []string{
			"laws of the united states",
			"federal law",
			"governed by the laws of the state of",
			"choice of law",
			"conflict of laws",
			"without regard to its conflict",
			"exclusive jurisdiction of the courts of the state of",
		},

		ChoiceOfLawPatterns: []string{
			`governed\s+by\s+(?:and\s+construed\s+in\s+accordance\s+with\s+)?the\s+laws\s+of\s+the\s+state\s+of\s+([a-z][a-z ]+?)(?:\s*[,.;]|\s+without\b|\s+and\b|$)`,
			`laws\s+of\s+the\s+state\s+of\s+([a-z][a-z ]+?)(?:\s*[,.;]|\s+without\b|\s+and\b|$)`,
			`construed\s+(?:and\s+enforced\s+)?in\s+accordance\s+with\s+the\s+laws\s+of\s+([a-z][a-z ]+?)(?:\s*[,.;]|\s+without\b|\s+and\b|$)`,
			`under\s+([a-z]+(?:\s[a-z]+)?)\s+law\b`,
		},

		ForumPatterns: []string{
			`courts?\s+(?:of|located\s+in|sitting\s+in)\s+the\s+state\s+of\s+([a-z][a-z ]+?)(?:\s*[,.;]|\s+shall\b|$)`,
			`venue\s+shall\s+(?:be|lie)\s+in\s+([a-z][a-z ]+?)(?:\s*[,.;]|$)`,
		},

		DocTypes: []DocTypeRule{
			{legal.DocTypeShareTransfer, []string{"stock purchase", "share purchase", "stock transfer", "securities purchase"}},
			{legal.DocTypeConveyance, []string{"warranty deed", "quitclaim deed", "deed of conveyance", "real estate purchase", "purchase and sale of real property"}},
			{legal.DocTypeLease, []string{"lease", "rental agreement", "tenancy"}},
			{legal.DocTypeMortgage, []string{"mortgage", "deed of trust", "security deed"}},
			{legal.DocTypePartnership, []string{"partnership agreement", "limited partnership agreement"}},
			{legal.DocTypePowerOfAttorney, []string{"power of attorney"}},
			{legal.DocTypePromissoryNote, []string{"promissory note"}},
			{legal.DocTypeLoanAgreement, []string{"loan agreement", "credit agreement", "loan", "facility agreement"}},
			{legal.DocTypeServiceAgreement, []string{"services agreement", "service agreement", "master services agreement", "consulting agreement", "statement of work"}},
			{legal.DocTypeEmployment, []string{"employment agreement", "employment contract", "offer letter"}},
			{legal.DocTypeNDA, []string{"non-disclosure", "nondisclosure", "confidentiality agreement", "nda"}},
			{legal.DocTypeAgreement, []string{"agreement", "contract"}},
		},

		MandatoryClauses: map[legal.DocumentType][]ClauseRule{
			legal.DocTypeAgreement: {
				{"consideration", []string{"consideration", "in consideration"}},
				{"parties", []string{"between", "by and between"}},
				{"governing law", []string{"governing law", "governed by"}},
				{"execution", []string{"in witness whereof", "executed", "signature"}},
			},
			legal.DocTypeEmployment: {
				{"compensation", []string{"salary", "compensation", "base salary"}},
				{"position", []string{"position", "title", "duties"}},
				{"employment term", []string{"at-will", "at will", "term of employment"}},
				{"confidentiality", []string{"confidential", "confidentiality"}},
			},
			legal.DocTypeNDA: {
				{"confidential information", []string{"confidential information", "proprietary information"}},
				{"term", []string{"term", "period", "duration"}},
				{"non-disclosure obligation", []string{"shall not disclose", "non-use", "not disclose"}},
			},
			legal.DocTypeLoanAgreement: {
				{"principal", []string{"principal amount", "loan amount", "principal"}},
				{"interest", []string{"interest", "interest rate"}},
				{"repayment", []string{"repayment", "maturity"}},
				{"default", []string{"default", "event of default"}},
			},
			legal.DocTypeLease: {
				{"term", []string{"term", "lease term"}},
				{"rent", []string{"rent", "base rent"}},
				{"security deposit", []string{"security deposit", "deposit"}},
			},
			legal.DocTypeServiceAgreement: {
				{"scope of services", []string{"scope of services", "services", "statement of work"}},
				{"fees", []string{"fees", "compensation", "payment"}},
				{"term", []string{"term", "duration"}},
				{"termination", []string{"termination", "terminate"}},
			},
			legal.DocTypeShareTransfer: {
				{"purchase price", []string{"purchase price", "consideration"}},
				{"shares", []string{"shares", "stock"}},
				{"representations and warranties", []string{"representations and warranties", "represents and warrants"}},
				{"closing", []string{"closing"}},
			},
		},

		ViolationTokens: []string{"illegal", "unlawful", "in violation of law"},

		ViolationRules: []ViolationRule{
			{
				Description: "Non-compete covenant against a California worker is void under Cal. Bus. & Prof. Code § 16600",
				AllKeywords: []string{"non-compete", "california"},
			},
			{
				Description: "Non-compete covenant against a California worker is void under Cal. Bus. & Prof. Code § 16600",
				AllKeywords: []string{"covenant not to compete", "california"},
			},
		},

		UCC: UCCTable{
			ApplicabilityKeywords: []string{
				"sale of goods", "goods", "merchandise", "equipment",
				"security interest", "secured party", "collateral",
				"financing statement", "negotiable instrument",
				"promissory note", "letter of credit", "lease of goods",
			},
			Articles: []UCCArticleEntry{
				{"Article 2", "Sales", []string{"sale of goods", "purchase of goods", "supply of goods", "delivery of goods", "merchandise", "goods"}},
				{"Article 2A", "Leases", []string{"lease of goods", "equipment lease", "lease of equipment", "finance lease"}},
				{"Article 3", "Negotiable Instruments", []string{"promissory note", "negotiable instrument", "holder in due course", "payable to order", "payable to bearer"}},
				{"Article 4", "Bank Deposits and Collections", []string{"bank deposit", "collection of checks", "depositary bank"}},
				{"Article 5", "Letters of Credit", []string{"letter of credit", "documentary credit"}},
				{"Article 9", "Secured Transactions", []string{"security interest", "secured party", "collateral", "financing statement", "ucc-1", "perfection", "pledge of"}},
			},
			TransactionPriority: []TransactionRule{
				{"Article 2", "sale of goods"},
				{"Article 2A", "lease of goods"},
				{"Article 3", "negotiable instrument"},
				{"Article 5", "letter of credit"},
				{"Article 9", "secured transaction"},
				{"Article 4", "bank collection"},
			},
			StateVariations: map[string][]string{
				"louisiana":  {"Louisiana has not adopted UCC Article 2; sales of goods are governed by the Louisiana Civil Code"},
				"california": {"California enacts the UCC as the California Commercial Code with non-uniform section numbering"},
			},
			CompanionChecks: []CompanionCheck{
				{
					Article:   "Article 2",
					ExpectAny: []string{"warranty", "disclaimer", "as is", "merchantability"},
					Risk:      "Sale-of-goods terms lack warranty or disclaimer language; implied warranties of merchantability and fitness apply by default",
				},
				{
					Article:   "Article 9",
					ExpectAny: []string{"financing statement", "perfect", "ucc-1"},
					Risk:      "Security interest granted without perfection language; an unperfected interest is subordinate to lien creditors",
				},
				{
					Article:   "Article 3",
					ExpectAny: []string{"payable to order", "payable to bearer", "order of"},
					Risk:      "Instrument lacks words of negotiability and may not qualify as a negotiable instrument",
				},
			},
			Requirements: map[string][]string{
				"Article 2":  {"Sales of goods of $500 or more require a signed writing under the statute of frauds (UCC § 2-201)"},
				"Article 2A": {"A finance lease requires the lessee's acknowledgment of the supply contract terms"},
				"Article 3":  {"Keep the original instrument; enforcement generally requires possession"},
				"Article 5":  {"Present conforming documents strictly within the credit's terms"},
				"Article 9":  {"File a UCC-1 financing statement to perfect the security interest", "Describe the collateral with reasonable specificity"},
			},
		},

		Securities: SecuritiesTable{
			Indicators: []string{
				"securities", "shares of stock", "shares", "stock",
				"equity interest", "investor", "investment", "offering",
				"subscription agreement", "debenture", "convertible note",
				"simple agreement for future equity", "warrant",
				"preferred stock", "common stock", "capital raise",
				"private placement",
			},
			Exemptions: []ExemptionEntry{
				{
					Name:      "Regulation D Rule 506(b) private placement",
					AllWords:  []string{"rule", "506"},
					Shorthand: []string{"private placement", "regulation d"},
					Requirements: []string{
						"File Form D with the SEC within 15 days of the first sale",
						"No general solicitation or advertising under Rule 506(b)",
						"Unlimited accredited investors; up to 35 sophisticated non-accredited investors",
					},
				},
				{
					Name:      "Rule 506(c) general solicitation offering",
					AllWords:  []string{"506", "solicitation"},
					Shorthand: []string{"506(c)"},
					Requirements: []string{
						"Every purchaser must be accredited; take reasonable steps to verify status",
					},
				},
				{
					Name:      "Accredited investor exemption",
					Shorthand: []string{"accredited investor", "accredited investors"},
					Requirements: []string{
						"Verify the accredited status of every purchaser",
					},
				},
				{
					Name:      "Regulation S offshore offering",
					AllWords:  []string{"regulation", "offshore"},
					Shorthand: []string{"regulation s"},
					Requirements: []string{
						"Offers and sales must occur outside the United States; resale restrictions apply",
					},
				},
				{
					Name:      "Rule 144A resales to qualified institutional buyers",
					AllWords:  []string{"144a"},
					Shorthand: []string{"rule 144a", "qualified institutional buyer"},
					Requirements: []string{
						"Resales restricted to qualified institutional buyers",
					},
				},
				{
					Name:      "Intrastate offering under Rule 147",
					Shorthand: []string{"intrastate offering", "rule 147"},
					Requirements: []string{
						"Issuer and all purchasers must reside in the same state",
					},
				},
			},
			ExemptionRequirements: []string{
				"Antifraud provisions (Rule 10b-5) apply regardless of any exemption",
				"Provide adequate disclosure to all investors",
				"Confirm blue-sky filing requirements in each investor's state",
			},
			RegistrationRequirements: []string{
				"Registration under the Securities Act of 1933 is likely required before any offer or sale",
				"Unregistered sales risk rescission rights and civil liability under Section 12",
				"Engage securities counsel to restructure the offering into an available exemption",
			},
		},

		Privacy: []PrivacyLaw{
			{
				Name:     "CCPA",
				FullName: "California Consumer Privacy Act",
				Abbrevs:  []string{"ccpa", "california consumer privacy act", "cpra"},
				ScopeKeywords: []string{
					"personal information", "california resident", "california consumers",
					"sale of personal information", "sell personal information",
				},
				Disclosures: []DisclosureCheck{
					{"right to opt out", []string{"opt out", "opt-out"}},
					{"do not sell notice", []string{"do not sell", "do not share"}},
				},
				Requirements: []string{
					"Provide a notice at collection describing categories and purposes",
					"Honor requests to know, delete, and opt out within the statutory windows",
				},
			},
			{
				Name:     "GDPR",
				FullName: "General Data Protection Regulation",
				Abbrevs:  []string{"gdpr", "general data protection regulation"},
				ScopeKeywords: []string{
					"data subject", "eu resident", "european union", "personal data of eu",
				},
				Disclosures: []DisclosureCheck{
					{"lawful basis for processing", []string{"lawful basis", "legitimate interest", "consent of the data subject"}},
				},
				Requirements: []string{
					"Identify and document a lawful basis for each processing purpose",
					"Execute processor agreements meeting Article 28",
				},
			},
			{
				Name:     "COPPA",
				FullName: "Children's Online Privacy Protection Act",
				Abbrevs:  []string{"coppa", "children's online privacy protection act"},
				ScopeKeywords: []string{
					"children under 13", "child users", "directed to children",
				},
				Disclosures: []DisclosureCheck{
					{"parental consent", []string{"parental consent", "verifiable parental consent"}},
				},
				Requirements: []string{
					"Obtain verifiable parental consent before collecting data from children under 13",
				},
			},
			{
				Name:     "HIPAA",
				FullName: "Health Insurance Portability and Accountability Act",
				Abbrevs:  []string{"hipaa", "health insurance portability and accountability act"},
				ScopeKeywords: []string{
					"protected health information", "phi", "medical records", "health data",
				},
				Disclosures: []DisclosureCheck{
					{"business associate agreement", []string{"business associate agreement", "business associate"}},
				},
				Requirements: []string{
					"Execute business associate agreements with vendors handling PHI",
					"Implement the Security Rule's administrative, physical, and technical safeguards",
				},
			},
		},
	}
}
