package core

// Fee brackets in domain order. Values match the fees_category column of the
// source dataset exactly.
const (
	FeesBelow5k    = "Below €5,000"
	Fees5kTo10k    = "€5,000 - €10,000"
	Fees10kTo20k   = "€10,000 - €20,000"
	Fees20kTo30k   = "€20,000 - €30,000"
	FeesAbove30k   = "Above €30,000"
	feeBucketCount = 5
)

var feeCategories = [feeBucketCount]string{
	FeesBelow5k,
	Fees5kTo10k,
	Fees10kTo20k,
	Fees20kTo30k,
	FeesAbove30k,
}

// FeeCategories returns the five fee brackets, cheapest first.
func FeeCategories() []string {
	out := make([]string, feeBucketCount)
	copy(out, feeCategories[:])
	return out
}

// FeeCategoryRank returns the position of a bracket in domain order,
// or -1 if the value is not a known bracket.
func FeeCategoryRank(category string) int {
	for i, c := range feeCategories {
		if c == category {
			return i
		}
	}
	return -1
}

// IsFeeCategory reports whether v is one of the five known brackets.
func IsFeeCategory(v string) bool {
	return FeeCategoryRank(v) >= 0
}

// FeeCategoryFor returns the bracket for a yearly fee in EUR.
// Unknown fees (zero) have no bracket.
func FeeCategoryFor(feesEUR float64) string {
	switch {
	case feesEUR <= 0:
		return ""
	case feesEUR < 5000:
		return FeesBelow5k
	case feesEUR < 10000:
		return Fees5kTo10k
	case feesEUR < 20000:
		return Fees10kTo20k
	case feesEUR < 30000:
		return Fees20kTo30k
	default:
		return FeesAbove30k
	}
}

// presentBrackets returns the known brackets that occur in records, in domain order.
// Values outside the known set are never offered as options.
func presentBrackets(records []Record) []string {
	var seen [feeBucketCount]bool
	for _, r := range records {
		if i := FeeCategoryRank(r.FeesCategory); i >= 0 {
			seen[i] = true
		}
	}
	var out []string
	for i, ok := range seen {
		if ok {
			out = append(out, feeCategories[i])
		}
	}
	return out
}
