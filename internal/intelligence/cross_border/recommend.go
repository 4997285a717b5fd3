package cross_border

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// Governing-law bonuses. A party or asset-location signal counts for
// more than a transaction-type affinity; where the parties and assets
// sit usually decides where judgments must ultimately bite.
const (
	governingPartyBonus       = 1.5
	governingTransactionBonus = 1.0
)

// Dispute-resolution scoring inputs.
const (
	// disputeValueBonus favors institutional arbitration once the
	// transaction is large enough to absorb institutional fees.
	disputeValueBonus = 1.5

	// disputeLowValuePenalty and disputeLowValueCourtBonus push small
	// disputes toward courts, where filing fees undercut institutional
	// arbitration minimums.
	disputeLowValuePenalty    = 0.5
	disputeLowValueCourtBonus = 1.0

	disputeComplexityBonus     = 1.0
	disputeComplexityHalfBonus = 0.5

	disputeConfidentialityBonus = 1.0

	// disputeEnforcementBonus favors New York Convention forums, whose
	// awards are enforceable in both India and the US.
	disputeEnforcementBonus = 1.0
)

// Complexity grades derived from the document's signal count.
const (
	complexityLow    = "low"
	complexityMedium = "medium"
	complexityHigh   = "high"
)

// inrPerUSD is a coarse banding rate for comparing INR amounts against
// the USD thresholds below, not a live FX quote.
var inrPerUSD = decimal.NewFromInt(83)

// Value bands for dispute-resolution scoring, in USD equivalent.
var (
	highValueUSD = decimal.NewFromInt(1_000_000)
	lowValueUSD  = decimal.NewFromInt(100_000)
)

var decimalZero = decimal.Zero

// recommendGoverningLaw scores every candidate regime and returns the
// argmax with its score embedded for auditability. Ties keep the
// earlier candidate in table order.
func (a *Analyzer) recommendGoverningLaw(lowered string) string {
	bestName := ""
	bestScore := 0.0
	for i, m := range a.governing {
		score := a.scoreGoverningOption(lowered, m)
		if i == 0 || score > bestScore {
			bestName, bestScore = m.option.DisplayName, score
		}
	}
	return fmt.Sprintf("%s [score %.1f]", bestName, bestScore)
}

func (a *Analyzer) scoreGoverningOption(lowered string, m governingMatcher) float64 {
	score := m.option.Base
	if anyMatch(lowered, m.party) {
		score += governingPartyBonus
	}
	if anyMatch(lowered, m.transaction) {
		score += governingTransactionBonus
	}
	return score
}

// recommendDispute scores every dispute-resolution option against the
// transaction value, complexity, confidentiality need, and enforcement
// need, returning the argmax with its score embedded.
func (a *Analyzer) recommendDispute(lowered string, valueUSD decimal.Decimal, complexity string) string {
	needsConfidentiality := anyMatch(lowered, a.confidentiality)
	needsEnforcement := anyMatch(lowered, a.enforcement)

	bestName := ""
	bestScore := 0.0
	for i, opt := range a.lex.DisputeOptions {
		score := opt.Base

		if valueUSD.GreaterThanOrEqual(highValueUSD) && opt.Institutional {
			score += disputeValueBonus
		}
		if valueUSD.IsPositive() && valueUSD.LessThan(lowValueUSD) {
			if opt.Institutional {
				score -= disputeLowValuePenalty
			} else {
				score += disputeLowValueCourtBonus
			}
		}

		if opt.Institutional {
			switch complexity {
			case complexityHigh:
				score += disputeComplexityBonus
			case complexityMedium:
				score += disputeComplexityHalfBonus
			}
		}

		if needsConfidentiality && opt.Confidential {
			score += disputeConfidentialityBonus
		}
		if needsEnforcement && opt.NYConvention {
			score += disputeEnforcementBonus
		}

		if i == 0 || score > bestScore {
			bestName, bestScore = opt.DisplayName, score
		}
	}
	return fmt.Sprintf("%s [score %.1f]", bestName, bestScore)
}

// assessComplexity counts structural signals. The multi-jurisdiction
// signal is constitutively present; a document only reaches this
// engine when both regimes are in play.
func (a *Analyzer) assessComplexity(lowered string) string {
	signals := 1
	if anyMatch(lowered, a.ip) {
		signals++
	}
	if anyMatch(lowered, a.regulatory) {
		signals++
	}
	if anyMatch(lowered, a.multiParty) {
		signals++
	}
	switch {
	case signals >= 3:
		return complexityHigh
	case signals == 2:
		return complexityMedium
	default:
		return complexityLow
	}
}

// transactionValueUSD estimates deal size from the extractors'
// already-parsed amount lists; the comparative layer never re-scans
// text for figures. Both lists arrive sorted descending, so the head
// of each is enough.
func (a *Analyzer) transactionValueUSD(indiaAmounts, usAmounts []legal.MonetaryAmount) decimal.Decimal {
	best := decimal.Zero
	for _, amounts := range [][]legal.MonetaryAmount{indiaAmounts, usAmounts} {
		if len(amounts) == 0 {
			continue
		}
		if v := usdEquivalent(amounts[0]); v.GreaterThan(best) {
			best = v
		}
	}
	return best
}

func usdEquivalent(m legal.MonetaryAmount) decimal.Decimal {
	if m.Currency == legal.CurrencyINR {
		return m.Amount.Div(inrPerUSD)
	}
	return m.Amount
}
