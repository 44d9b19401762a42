// Package explain holds the static catalog mapping each (check, severity)
// pair to user-facing guidance. The table is exhaustive by construction for
// the five implemented checks; asking for anything else is a programming
// error and fails loudly.
package explain

import "fmt"

// Check names recognized by the catalog.
const (
	CheckDuplicates   = "duplicates"
	CheckPKDuplicates = "pk_duplicates"
	CheckAggregation  = "aggregation"
	CheckJoinRisk     = "join_risk"
)

// Explanation is the immutable guidance triple for one finding outcome.
type Explanation struct {
	Plain     string
	Technical string
	Action    string
}

type key struct {
	check    string
	severity string
}

var catalog = map[key]Explanation{
	{CheckDuplicates, "PASS"}: {
		Plain:     "No duplicate rows detected.",
		Technical: "Duplicate rows usually occur due to incorrect joins.",
		Action:    "No action needed.",
	},
	{CheckDuplicates, "WARNING"}: {
		Plain:     "Duplicate rows found in the report.",
		Technical: "Often caused by joins that multiply rows.",
		Action:    "Review joins and aggregation grain.",
	},
	{CheckPKDuplicates, "PASS"}: {
		Plain:     "Primary key is unique.",
		Technical: "Uniqueness indicates correct data grain.",
		Action:    "No action needed.",
	},
	{CheckPKDuplicates, "WARNING"}: {
		Plain:     "Primary key contains duplicate values.",
		Technical: "Likely one-to-many joins without pre-aggregation.",
		Action:    "Check join keys and table grain.",
	},
	{CheckAggregation, "PASS"}: {
		Plain:     "Reported revenue matches calculated revenue.",
		Technical: "Aggregation logic appears correct.",
		Action:    "No action needed.",
	},
	{CheckAggregation, "FAIL"}: {
		Plain:     "Reported revenue does not match calculated revenue.",
		Technical: "Usually caused by join duplication or wrong formulas.",
		Action:    "Validate joins and aggregation logic.",
	},
	{CheckJoinRisk, "LOW"}: {
		Plain:     "Low risk of join inflation.",
		Technical: "Row count aligns with primary key uniqueness.",
		Action:    "No action needed.",
	},
	{CheckJoinRisk, "MEDIUM"}: {
		Plain:     "Moderate risk of join inflation.",
		Technical: "Some duplication exists at the key level.",
		Action:    "Review joins to many-side tables.",
	},
	{CheckJoinRisk, "HIGH"}: {
		Plain:     "High risk of join inflation.",
		Technical: "Primary keys repeat many times, inflating totals.",
		Action:    "Pre-aggregate before joins or fix join conditions.",
	},
}

// Explain looks up the guidance for a (check, severity) pair.
func Explain(check, severity string) (Explanation, error) {
	e, ok := catalog[key{check, severity}]
	if !ok {
		return Explanation{}, fmt.Errorf("no explanation registered for check=%q severity=%q", check, severity)
	}
	return e, nil
}
