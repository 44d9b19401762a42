package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrEmptyFile indicates the input contains no parsable header row.
var ErrEmptyFile = errors.New("empty or invalid file: no parsable rows")

// Options controls how a tabular file is loaded.
type Options struct {
	// Delimiter for CSV. If 0, auto-detects from the file extension.
	Delimiter rune
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
}

// DefaultOptions returns reasonable defaults for loading report exports.
func DefaultOptions() Options {
	return Options{MaxRows: 500000}
}

// Dataset is an immutable in-memory snapshot of a tabular export.
// Column names are unique; colliding header names are mangled with a
// numeric suffix ("id", "id.1", "id.2", ...).
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// Load reads an entire CSV/TSV file into memory.
// A file with no header row fails with ErrEmptyFile; a header-only file
// loads with zero rows.
func Load(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyFile)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	ncol := len(header)
	if ncol == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyFile)
	}

	var rows [][]string
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = int(^uint(0) >> 1)
	}
	for len(rows) < maxRows {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		row := make([]string, ncol)
		copy(row, rec) // pads short records, drops overflow fields
		rows = append(rows, row)
	}
	return New(filepath.Base(path), header, rows), nil
}

// New builds a dataset from in-memory cells. Header names are mangled to
// unique names; rows are assumed to already match the header width.
func New(name string, header []string, rows [][]string) *Dataset {
	ds := &Dataset{
		Name:    name,
		Columns: mangleColumns(header),
		Rows:    rows,
	}
	ds.index = make(map[string]int, len(ds.Columns))
	for i, c := range ds.Columns {
		ds.index[c] = i
	}
	return ds
}

// ColumnIndex resolves a column name to its position.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// Shape returns (rows, columns).
func (d *Dataset) Shape() (int, int) {
	return len(d.Rows), len(d.Columns)
}

// Numeric coerces a column to numbers. It returns one entry per row:
// values[i] holds the parsed value and ok[i] reports whether the cell
// parsed; missing and non-parsable cells both report false.
func (d *Dataset) Numeric(idx int) (values []float64, ok []bool) {
	values = make([]float64, len(d.Rows))
	ok = make([]bool, len(d.Rows))
	for i, row := range d.Rows {
		cell := row[idx]
		if IsMissing(cell) {
			continue
		}
		if x, parsed := ParseNumber(cell); parsed {
			values[i] = x
			ok[i] = true
		}
	}
	return values, ok
}

// NumericTyped reports whether a column is numeric-typed: every
// non-missing cell parses as a number and at least one value exists.
// This mirrors dataframe dtype inference, where a single stray string
// demotes the whole column to text.
func (d *Dataset) NumericTyped(idx int) bool {
	seen := false
	for _, row := range d.Rows {
		cell := row[idx]
		if IsMissing(cell) {
			continue
		}
		if _, parsed := ParseNumber(cell); !parsed {
			return false
		}
		seen = true
	}
	return seen
}

// naTokens mirrors the default missing-value markers of common dataframe
// readers, so the null scan sees what the export's consumers see.
var naTokens = map[string]struct{}{
	"":         {},
	"na":       {},
	"n/a":      {},
	"nan":      {},
	"-nan":     {},
	"null":     {},
	"none":     {},
	"<na>":     {},
	"#na":      {},
	"#n/a":     {},
	"#n/a n/a": {},
	"1.#ind":   {},
	"1.#qnan":  {},
	"-1.#ind":  {},
	"-1.#qnan": {},
}

// IsMissing reports whether a cell counts as a missing value.
func IsMissing(cell string) bool {
	_, ok := naTokens[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// ParseNumber parses a single cell as a float. Percent signs and
// thousands-group commas are tolerated; anything else must satisfy
// strconv.ParseFloat.
func ParseNumber(cell string) (float64, bool) {
	raw := strings.TrimSpace(cell)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, "%", "")
	// "1,234.5" style grouping only; a lone comma is not a decimal point here.
	if strings.Contains(raw, ",") && strings.Contains(raw, ".") {
		raw = strings.ReplaceAll(raw, ",", "")
	}
	raw = strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// mangleColumns enforces unique column names with a numeric suffix,
// the way dataframe readers disambiguate duplicate headers.
func mangleColumns(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for n := 1; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}
