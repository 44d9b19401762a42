// Package prompt turns a validation report into the bounded context block
// handed to the completion service. The template is the entire contract
// surface of the Q&A call: everything the model may rely on must be stated
// here, including explicit "None" placeholders for empty findings, and the
// closing instruction that bounds the answer to this text.
package prompt

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/reportcheck-cli/internal/utils"
	"github.com/KaramelBytes/reportcheck-cli/internal/validate"
)

// MaxContextTokens caps the rendered context when the caller passes no
// limit. The template is small; the cap guards against pathological column
// lists blowing up the prompt.
const MaxContextTokens = 4000

// maxListedColumns bounds how many column names a single finding line may
// carry before the rest is elided with a count.
const maxListedColumns = 50

// closingInstruction bounds the answer to the context text. It is part of
// the prompt contract and must survive any truncation.
const closingInstruction = "\nAnswer strictly using this information.\nIf unsure, say so clearly.\n"

// BuildContext renders the fixed report-context template from the current
// findings, truncated to maxTokens estimated tokens (MaxContextTokens when
// maxTokens <= 0). Truncation only ever eats into the findings body: the
// closing instruction is appended after the cut. The context is rebuilt on
// every question submission; it carries no state of its own.
func BuildContext(rep *validate.Report, maxTokens int) string {
	if maxTokens <= 0 {
		maxTokens = MaxContextTokens
	}
	var b strings.Builder
	b.WriteString("This document is a SQL report exported as CSV.\n")
	b.WriteString("\nDataset overview:\n")
	b.WriteString(fmt.Sprintf("- Rows: %d\n", rep.Rows))
	b.WriteString(fmt.Sprintf("- Columns: %d\n", rep.Cols))
	b.WriteString("\nValidation findings:\n")
	b.WriteString(fmt.Sprintf("- Duplicate rows: %d\n", rep.Duplicates.Count))
	b.WriteString(fmt.Sprintf("- Primary key duplicates: %d\n", rep.PKDuplicates.Count))
	b.WriteString(fmt.Sprintf("- Columns with nulls: %s\n", listOrNone(rep.NullColumns)))
	b.WriteString(fmt.Sprintf("- Columns with negative values: %s\n", listOrNone(rep.NegativeColumns)))
	b.WriteString(fmt.Sprintf("- Aggregation sanity status: %s\n", rep.Aggregation.Severity))
	b.WriteString(fmt.Sprintf("- Join inflation risk: %s\n", joinRisk(rep.JoinRisk)))

	budget := maxTokens - utils.CountTokens(closingInstruction) - 1
	if budget < 0 {
		budget = 0
	}
	return utils.TruncateToTokenLimit(b.String(), budget) + closingInstruction
}

// listOrNone renders the literal "None" for an empty list so the consumer
// never infers absence from omission. Oversized lists are elided with a
// count rather than left to the token cut.
func listOrNone(cols []string) string {
	if len(cols) == 0 {
		return "None"
	}
	if len(cols) > maxListedColumns {
		return strings.Join(cols[:maxListedColumns], ", ") +
			fmt.Sprintf(" ... and %d more", len(cols)-maxListedColumns)
	}
	return strings.Join(cols, ", ")
}

func joinRisk(f validate.RatioFinding) string {
	if !f.Defined {
		return "UNDEFINED"
	}
	return string(f.Severity)
}
