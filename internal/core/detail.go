package core

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DetailLine is one labelled line of the record detail view.
type DetailLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Link  string `json:"link,omitempty"` // Set when Value should link somewhere
}

var numberPrinter = message.NewPrinter(language.English)

// DetailFields returns the detail lines for a record.
// Optional fields are omitted when empty or zero.
func DetailFields(r Record) []DetailLine {
	lines := []DetailLine{
		{Label: "Partner", Value: r.Partner},
		{Label: "Country", Value: r.Country},
	}
	if r.City != "" {
		lines = append(lines, DetailLine{Label: "City", Value: r.City})
	}
	lines = append(lines, DetailLine{Label: "University", Value: r.University, Link: r.URL})
	if r.Faculty != "" {
		lines = append(lines, DetailLine{Label: "Faculty", Value: r.Faculty})
	}
	lines = append(lines,
		DetailLine{Label: "Study", Value: r.Study},
		DetailLine{Label: "Level", Value: r.Level},
	)
	if r.DegreeDurationMonths > 0 {
		lines = append(lines, DetailLine{Label: "Duration", Value: FormatDuration(r.DegreeDurationMonths)})
	}
	if r.FeesStd > 0 {
		lines = append(lines, DetailLine{Label: "Fees", Value: FormatFees(r.FeesStd, r.Fees, r.Currency)})
	}
	if r.AppFeesStd > 0 {
		lines = append(lines, DetailLine{Label: "App Fees", Value: FormatFees(r.AppFeesStd, r.AppFees, r.Currency)})
	}
	return lines
}

// FormatDuration renders a duration in whole months.
func FormatDuration(months float64) string {
	return fmt.Sprintf("%d months", int(months))
}

// FormatFees renders a EUR amount, followed by the original amount when the
// original currency is not EUR, e.g. "€12,500 (15,000 CHF)".
func FormatFees(eur, original float64, currency string) string {
	out := "€" + FormatAmount(eur)
	cur := strings.TrimSpace(currency)
	if cur != "" && !strings.EqualFold(cur, "EUR") {
		out += fmt.Sprintf(" (%s %s)", FormatAmount(original), cur)
	}
	return out
}

// FormatAmount renders a number rounded to whole units with thousands separators.
func FormatAmount(v float64) string {
	return numberPrinter.Sprintf("%.0f", v)
}
