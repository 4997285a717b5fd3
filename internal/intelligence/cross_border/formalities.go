package cross_border

import (
	"fmt"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// compareFormalities diffs execution formalities: the static
// comparison rows first, then the stamp-duty and registration rows
// driven by what the Indian extractor actually priced. The US column
// of the driven rows is fixed; no US state levies documentary stamp
// duty on ordinary commercial contracts.
func (a *Analyzer) compareFormalities(india *legal.IndianLegalAnalysis) *legal.FormalitiesComparison {
	items := a.staticFormalityItems()
	items = append(items, stampFormalityItem(india.StampDuty))
	items = append(items, registrationFormalityItem(india.Registration))
	return &legal.FormalitiesComparison{Items: items}
}

func (a *Analyzer) staticFormalityItems() []legal.FormalityItem {
	items := make([]legal.FormalityItem, 0, len(a.lex.StaticFormalities)+2)
	for _, row := range a.lex.StaticFormalities {
		items = append(items, legal.FormalityItem{
			Aspect:           row.Aspect,
			IndiaRequirement: row.IndiaRequirement,
			USRequirement:    row.USRequirement,
			Differs:          row.Differs,
		})
	}
	return items
}

func stampFormalityItem(sd *legal.StampDutyAnalysis) legal.FormalityItem {
	item := legal.FormalityItem{
		Aspect:        "stamp duty",
		USRequirement: "No stamp duty on commercial instruments",
		Differs:       true,
	}
	if sd == nil {
		item.IndiaRequirement = "Stamp duty position not assessed"
		return item
	}

	switch {
	case sd.CalculatedDuty != nil:
		item.IndiaRequirement = fmt.Sprintf(
			"Duty of INR %s (%.2f%% under the %s schedule)",
			sd.CalculatedDuty.StringFixed(2), sd.RatePercent, sd.State)
	case sd.RatePercent > 0:
		item.IndiaRequirement = fmt.Sprintf(
			"Ad valorem duty at %.2f%% under the %s schedule; consideration not ascertained",
			sd.RatePercent, sd.State)
	default:
		item.IndiaRequirement = fmt.Sprintf(
			"Fixed duty of INR %s under the %s schedule",
			sd.MinimumDuty.StringFixed(0), sd.State)
	}
	if sd.Status == legal.StampRequiresStamping {
		item.IndiaRequirement += "; stamping not yet evidenced"
	}
	return item
}

func registrationFormalityItem(reg *legal.RegistrationRequirement) legal.FormalityItem {
	item := legal.FormalityItem{
		Aspect:        "registration",
		USRequirement: "No general registration; county recording for real property, UCC filing for security interests",
	}
	if reg == nil || !reg.Required {
		item.IndiaRequirement = "Not compulsorily registrable under Section 17 of the Registration Act, 1908"
		return item
	}

	item.Differs = true
	item.IndiaRequirement = "Compulsory registration"
	if reg.Authority != "" {
		item.IndiaRequirement += " with the " + reg.Authority
	}
	if reg.Deadline != "" {
		item.IndiaRequirement += " " + reg.Deadline
	}
	return item
}
