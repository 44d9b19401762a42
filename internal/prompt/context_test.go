package prompt

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/reportcheck-cli/internal/validate"
)

func sampleReport() *validate.Report {
	ratio := validate.RatioFinding{Ratio: 1.5, Severity: validate.SeverityMedium, Defined: true}
	return &validate.Report{
		File:            "sales.csv",
		Rows:            100,
		Cols:            6,
		Duplicates:      validate.CountFinding{Count: 2, Severity: validate.SeverityWarning},
		PKDuplicates:    validate.CountFinding{Count: 0, Severity: validate.SeverityPass},
		JoinRisk:        ratio,
		NullColumns:     []string{"region", "discount"},
		NegativeColumns: nil,
		Aggregation:     validate.AggFinding{Difference: 0, Severity: validate.SeverityPass},
	}
}

func TestBuildContext(t *testing.T) {
	got := BuildContext(sampleReport(), 0)
	for _, want := range []string{
		"This document is a SQL report exported as CSV.",
		"- Rows: 100",
		"- Columns: 6",
		"- Duplicate rows: 2",
		"- Primary key duplicates: 0",
		"- Columns with nulls: region, discount",
		"- Columns with negative values: None",
		"- Aggregation sanity status: PASS",
		"- Join inflation risk: MEDIUM",
		"Answer strictly using this information.",
		"If unsure, say so clearly.",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("context missing %q:\n%s", want, got)
		}
	}
}

func TestBuildContextEmptyListsRenderNone(t *testing.T) {
	rep := sampleReport()
	rep.NullColumns = nil
	rep.NegativeColumns = []string{}
	got := BuildContext(rep, 0)
	if !strings.Contains(got, "- Columns with nulls: None") {
		t.Fatalf("null list must render the literal None:\n%s", got)
	}
	if !strings.Contains(got, "- Columns with negative values: None") {
		t.Fatalf("negative list must render the literal None:\n%s", got)
	}
}

func TestBuildContextUndefinedJoinRisk(t *testing.T) {
	rep := sampleReport()
	rep.JoinRisk = validate.RatioFinding{Defined: false}
	got := BuildContext(rep, 0)
	if !strings.Contains(got, "- Join inflation risk: UNDEFINED") {
		t.Fatalf("undefined join risk must be stated explicitly:\n%s", got)
	}
}

func TestBuildContextBounded(t *testing.T) {
	rep := sampleReport()
	cols := make([]string, 5000)
	for i := range cols {
		cols[i] = "column_with_a_rather_long_name"
	}
	rep.NullColumns = cols
	got := BuildContext(rep, 0)
	if n := len([]rune(got)); n > MaxContextTokens*4 {
		t.Fatalf("context length %d exceeds bound %d", n, MaxContextTokens*4)
	}
	if !strings.Contains(got, "... and 4950 more") {
		t.Fatalf("oversized column list must be elided with a count:\n%s", got[len(got)-400:])
	}
}

func TestBuildContextClosingInstructionSurvivesTruncation(t *testing.T) {
	rep := sampleReport()
	cols := make([]string, 5000)
	for i := range cols {
		cols[i] = "column_with_a_rather_long_name"
	}
	rep.NullColumns = cols
	for _, limit := range []int{0, 200, 30, 10} {
		got := BuildContext(rep, limit)
		if !strings.Contains(got, "Answer strictly using this information.") {
			t.Fatalf("limit %d: context lost the answer instruction:\n%s", limit, got)
		}
		if !strings.HasSuffix(got, "If unsure, say so clearly.\n") {
			t.Fatalf("limit %d: context must end with the uncertainty instruction:\n%s", limit, got)
		}
	}
}
