package validate

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/KaramelBytes/reportcheck-cli/internal/dataset"
	"github.com/KaramelBytes/reportcheck-cli/internal/explain"
)

// Selections carries the user-chosen columns the checks depend on.
type Selections struct {
	Key      string `json:"key"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Revenue  string `json:"revenue"`
}

// CountFinding is a finding whose value is an occurrence count.
type CountFinding struct {
	Count    int      `json:"count"`
	Severity Severity `json:"severity"`
}

// RatioFinding is the join-inflation finding. Defined is false when the key
// column has no distinct values; Ratio and Severity are then meaningless.
type RatioFinding struct {
	Ratio    float64  `json:"ratio"`
	Severity Severity `json:"severity"`
	Defined  bool     `json:"defined"`
}

// AggFinding is the aggregation sanity finding.
type AggFinding struct {
	Difference float64  `json:"difference"`
	Severity   Severity `json:"severity"`
}

// Report aggregates every finding computed for one dataset and selection.
// Findings are derived values; they are recomputed from scratch whenever the
// selections change and never mutated in place.
type Report struct {
	ID   string `json:"id"`
	File string `json:"file"`
	Rows int    `json:"rows"`
	Cols int    `json:"columns"`

	Selections Selections `json:"selections"`

	Duplicates      CountFinding `json:"duplicates"`
	PKDuplicates    CountFinding `json:"pk_duplicates"`
	JoinRisk        RatioFinding `json:"join_risk"`
	NullColumns     []string     `json:"null_columns"`
	NegativeColumns []string     `json:"negative_columns"`
	Aggregation     AggFinding   `json:"aggregation"`
}

// Run executes every check against the dataset and assembles a Report.
// The checks have no ordering dependency; they are computed independently.
func Run(ds *dataset.Dataset, sel Selections) (*Report, error) {
	rows, cols := ds.Shape()
	rep := &Report{
		ID:         uuid.NewString(),
		File:       ds.Name,
		Rows:       rows,
		Cols:       cols,
		Selections: sel,
	}

	dup := DuplicateRows(ds)
	rep.Duplicates = CountFinding{Count: dup, Severity: passOrWarn(dup)}

	pk, err := KeyDuplicates(ds, sel.Key)
	if err != nil {
		return nil, fmt.Errorf("primary key check: %w", err)
	}
	rep.PKDuplicates = CountFinding{Count: pk, Severity: passOrWarn(pk)}

	ratio, sev, ok, err := JoinRisk(ds, sel.Key)
	if err != nil {
		return nil, fmt.Errorf("join risk check: %w", err)
	}
	rep.JoinRisk = RatioFinding{Ratio: ratio, Severity: sev, Defined: ok}

	rep.NullColumns = NullColumns(ds)
	rep.NegativeColumns = NegativeColumns(ds)

	diff, aggSev, err := Aggregation(ds, sel.Quantity, sel.Price, sel.Revenue)
	if err != nil {
		return nil, fmt.Errorf("aggregation check: %w", err)
	}
	rep.Aggregation = AggFinding{Difference: diff, Severity: aggSev}

	return rep, nil
}

func passOrWarn(count int) Severity {
	if count == 0 {
		return SeverityPass
	}
	return SeverityWarning
}

// Markdown renders the report for terminal or file output, with the
// plain/technical/action guidance attached to each finding.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[VALIDATION REPORT]\n")
	b.WriteString(fmt.Sprintf("File: %s\n", r.File))
	b.WriteString(fmt.Sprintf("Report: %s\n", r.ID))
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", r.Cols))

	b.WriteString("\n[ROW DUPLICATES]\n")
	b.WriteString(fmt.Sprintf("Status: %s (%d duplicate rows)\n", r.Duplicates.Severity, r.Duplicates.Count))
	writeGuidance(&b, explain.CheckDuplicates, string(r.Duplicates.Severity))

	b.WriteString(fmt.Sprintf("\n[PRIMARY KEY: %s]\n", r.Selections.Key))
	b.WriteString(fmt.Sprintf("Status: %s (%d duplicate key values)\n", r.PKDuplicates.Severity, r.PKDuplicates.Count))
	writeGuidance(&b, explain.CheckPKDuplicates, string(r.PKDuplicates.Severity))

	b.WriteString("\n[JOIN INFLATION RISK]\n")
	if r.JoinRisk.Defined {
		b.WriteString(fmt.Sprintf("Status: %s (%.2f rows per key)\n", r.JoinRisk.Severity, r.JoinRisk.Ratio))
		writeGuidance(&b, explain.CheckJoinRisk, string(r.JoinRisk.Severity))
	} else {
		b.WriteString("Status: UNDEFINED (no distinct key values)\n")
	}

	b.WriteString("\n[NULL / MISSING VALUES]\n")
	b.WriteString(fmt.Sprintf("Columns with nulls: %s\n", columnList(r.NullColumns)))

	b.WriteString("\n[NEGATIVE VALUES]\n")
	b.WriteString(fmt.Sprintf("Columns with negative values: %s\n", columnList(r.NegativeColumns)))

	b.WriteString(fmt.Sprintf("\n[AGGREGATION SANITY: %s x %s vs %s]\n",
		r.Selections.Quantity, r.Selections.Price, r.Selections.Revenue))
	b.WriteString(fmt.Sprintf("Status: %s (difference %.2f)\n", r.Aggregation.Severity, r.Aggregation.Difference))
	writeGuidance(&b, explain.CheckAggregation, string(r.Aggregation.Severity))

	return b.String()
}

func writeGuidance(b *strings.Builder, check, severity string) {
	e, err := explain.Explain(check, severity)
	if err != nil {
		// Unreachable for severities produced by this package.
		b.WriteString(fmt.Sprintf("(guidance unavailable: %v)\n", err))
		return
	}
	b.WriteString(e.Plain + "\n")
	b.WriteString("Why: " + e.Technical + "\n")
	b.WriteString("Next: " + e.Action + "\n")
}

// columnList renders a list-valued finding, using the literal "None" for an
// empty list so absence is stated, never inferred from omission.
func columnList(cols []string) string {
	if len(cols) == 0 {
		return "None"
	}
	return strings.Join(cols, ", ")
}
