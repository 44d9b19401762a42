// Package validate implements the data-quality checks run against a loaded
// report export. Every check is a pure function over the dataset plus, where
// noted, user-selected column names; results never mutate the dataset.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/reportcheck-cli/internal/dataset"
)

// Severity classifies a finding outcome.
type Severity string

const (
	SeverityPass    Severity = "PASS"
	SeverityWarning Severity = "WARNING"
	SeverityFail    Severity = "FAIL"
	SeverityLow     Severity = "LOW"
	SeverityMedium  Severity = "MEDIUM"
	SeverityHigh    Severity = "HIGH"
)

// AggregationTolerance absorbs floating-point and rounding noise when
// comparing reported revenue against the quantity × price recomputation.
const AggregationTolerance = 0.01

// Join-inflation thresholds on rows-per-distinct-key.
const (
	joinLowMax    = 1.05
	joinMediumMax = 2.0
)

// cellSep keeps concatenated row keys collision-free.
const cellSep = "\x1f"

// missingKey folds every missing-value marker into one token so missing
// cells compare equal to each other, matching dataframe duplicated().
const missingKey = "\x00<NA>"

// DuplicateRows counts rows that exactly duplicate an earlier row across
// all columns. Missing-value markers fold to one token per cell, so a row
// carrying "NA" duplicates an otherwise-identical row carrying "null",
// matching dataframe duplicated() over a parsed export.
func DuplicateRows(ds *dataset.Dataset) int {
	seen := make(map[string]bool, len(ds.Rows))
	count := 0
	cells := make([]string, 0, len(ds.Columns))
	for _, row := range ds.Rows {
		cells = cells[:0]
		for _, cell := range row {
			cells = append(cells, keyCell(cell))
		}
		k := strings.Join(cells, cellSep)
		if seen[k] {
			count++
			continue
		}
		seen[k] = true
	}
	return count
}

// KeyDuplicates counts values in the chosen key column that repeat beyond
// their first occurrence. The column is not required to actually be a key;
// non-uniqueness is exactly what the check reveals.
func KeyDuplicates(ds *dataset.Dataset, key string) (int, error) {
	idx, ok := ds.ColumnIndex(key)
	if !ok {
		return 0, fmt.Errorf("unknown column %q", key)
	}
	seen := make(map[string]bool, len(ds.Rows))
	count := 0
	for _, row := range ds.Rows {
		k := keyCell(row[idx])
		if seen[k] {
			count++
			continue
		}
		seen[k] = true
	}
	return count, nil
}

// JoinRisk estimates join-inflation exposure as total rows divided by the
// number of distinct non-missing values in the key column, rounded to two
// decimals. ok is false when there are no distinct key values; the finding
// is then undefined and must be suppressed, never a division error.
func JoinRisk(ds *dataset.Dataset, key string) (ratio float64, sev Severity, ok bool, err error) {
	idx, found := ds.ColumnIndex(key)
	if !found {
		return 0, "", false, fmt.Errorf("unknown column %q", key)
	}
	distinct := make(map[string]bool, len(ds.Rows))
	for _, row := range ds.Rows {
		if dataset.IsMissing(row[idx]) {
			continue
		}
		distinct[row[idx]] = true
	}
	if len(distinct) == 0 {
		return 0, "", false, nil
	}
	ratio = math.Round(float64(len(ds.Rows))/float64(len(distinct))*100) / 100
	switch {
	case ratio <= joinLowMax:
		sev = SeverityLow
	case ratio <= joinMediumMax:
		sev = SeverityMedium
	default:
		sev = SeverityHigh
	}
	return ratio, sev, true, nil
}

// NullColumns lists, in column order, every column containing at least one
// missing value.
func NullColumns(ds *dataset.Dataset) []string {
	out := []string{}
	for i, name := range ds.Columns {
		for _, row := range ds.Rows {
			if dataset.IsMissing(row[i]) {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// NegativeColumns lists, in column order, every numeric-typed column
// containing at least one negative value. Text columns are excluded from
// consideration entirely, even when individual cells look numeric.
func NegativeColumns(ds *dataset.Dataset) []string {
	out := []string{}
	for i, name := range ds.Columns {
		if !ds.NumericTyped(i) {
			continue
		}
		values, parsed := ds.Numeric(i)
		for j, v := range values {
			if parsed[j] && v < 0 {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// Aggregation recomputes revenue as sum(quantity × unit price) and compares
// it against the summed reported revenue. Non-parsable cells are excluded
// from the sums rather than treated as zero; a row contributes a product
// only when both factors parse.
//
// Known limitation, kept on purpose: when every value in a selected column
// is non-numeric its sum is 0, which can yield a misleading verdict.
func Aggregation(ds *dataset.Dataset, quantity, price, revenue string) (diff float64, sev Severity, err error) {
	qIdx, ok := ds.ColumnIndex(quantity)
	if !ok {
		return 0, "", fmt.Errorf("unknown column %q", quantity)
	}
	pIdx, ok := ds.ColumnIndex(price)
	if !ok {
		return 0, "", fmt.Errorf("unknown column %q", price)
	}
	rIdx, ok := ds.ColumnIndex(revenue)
	if !ok {
		return 0, "", fmt.Errorf("unknown column %q", revenue)
	}

	qty, qtyOK := ds.Numeric(qIdx)
	prc, prcOK := ds.Numeric(pIdx)
	rev, revOK := ds.Numeric(rIdx)

	var sumRevenue, sumComputed float64
	for i := range ds.Rows {
		if revOK[i] {
			sumRevenue += rev[i]
		}
		if qtyOK[i] && prcOK[i] {
			sumComputed += qty[i] * prc[i]
		}
	}
	diff = sumRevenue - sumComputed
	if math.Abs(diff) <= AggregationTolerance {
		return diff, SeverityPass, nil
	}
	return diff, SeverityFail, nil
}

func keyCell(cell string) string {
	if dataset.IsMissing(cell) {
		return missingKey
	}
	return cell
}
