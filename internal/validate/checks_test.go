package validate

import (
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/reportcheck-cli/internal/dataset"
)

func ds(t *testing.T, header []string, rows [][]string) *dataset.Dataset {
	t.Helper()
	return dataset.New("report.csv", header, rows)
}

func TestDuplicateRows(t *testing.T) {
	clean := ds(t, []string{"a", "b"}, [][]string{{"1", "x"}, {"2", "y"}, {"3", "x"}})
	if got := DuplicateRows(clean); got != 0 {
		t.Fatalf("duplicates = %d, want 0", got)
	}
	dup := ds(t, []string{"a", "b"}, [][]string{{"1", "x"}, {"2", "y"}, {"1", "x"}})
	if got := DuplicateRows(dup); got != 1 {
		t.Fatalf("duplicates = %d, want 1", got)
	}
	// triple occurrence counts two repeats beyond the first
	triple := ds(t, []string{"a"}, [][]string{{"1"}, {"1"}, {"1"}})
	if got := DuplicateRows(triple); got != 2 {
		t.Fatalf("duplicates = %d, want 2", got)
	}
}

func TestDuplicateRowsMissingMarkersCompareEqual(t *testing.T) {
	// "NA" and "null" both parse as missing, so the rows are duplicates
	d := ds(t, []string{"a", "b"}, [][]string{{"1", "NA"}, {"1", "null"}, {"2", ""}})
	if got := DuplicateRows(d); got != 1 {
		t.Fatalf("duplicates = %d, want 1", got)
	}
	// a missing cell is not a duplicate of a present one
	distinct := ds(t, []string{"a"}, [][]string{{"NA"}, {"x"}})
	if got := DuplicateRows(distinct); got != 0 {
		t.Fatalf("duplicates = %d, want 0", got)
	}
}

func TestKeyDuplicates(t *testing.T) {
	unique := ds(t, []string{"id", "v"}, [][]string{{"1", "a"}, {"2", "a"}, {"3", "a"}})
	if got, err := KeyDuplicates(unique, "id"); err != nil || got != 0 {
		t.Fatalf("KeyDuplicates = (%d, %v), want (0, nil)", got, err)
	}
	collapsed := ds(t, []string{"id", "v"}, [][]string{{"1", "a"}, {"2", "a"}, {"2", "b"}})
	if got, _ := KeyDuplicates(collapsed, "id"); got != 1 {
		t.Fatalf("KeyDuplicates = %d, want 1", got)
	}
	// missing cells compare equal to each other
	missing := ds(t, []string{"id"}, [][]string{{""}, {"NA"}, {"1"}})
	if got, _ := KeyDuplicates(missing, "id"); got != 1 {
		t.Fatalf("KeyDuplicates over missing = %d, want 1", got)
	}
	if _, err := KeyDuplicates(unique, "nope"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestJoinRisk(t *testing.T) {
	cases := []struct {
		name  string
		rows  [][]string
		ratio float64
		sev   Severity
	}{
		{"one_row_per_key", [][]string{{"1"}, {"2"}, {"3"}}, 1.0, SeverityLow},
		{"three_rows_two_keys", [][]string{{"1"}, {"2"}, {"2"}}, 1.5, SeverityMedium},
		{"three_rows_one_key", [][]string{{"1"}, {"1"}, {"1"}}, 3.0, SeverityHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := ds(t, []string{"id"}, tc.rows)
			ratio, sev, ok, err := JoinRisk(d, "id")
			if err != nil {
				t.Fatalf("JoinRisk: %v", err)
			}
			if !ok {
				t.Fatal("expected a defined ratio")
			}
			if ratio != tc.ratio || sev != tc.sev {
				t.Fatalf("JoinRisk = (%.2f, %s), want (%.2f, %s)", ratio, sev, tc.ratio, tc.sev)
			}
		})
	}
}

func TestJoinRiskBoundaries(t *testing.T) {
	// 21 rows / 20 distinct keys = 1.05, still LOW
	rows := make([][]string, 0, 21)
	for i := 0; i < 20; i++ {
		rows = append(rows, []string{string(rune('a' + i))})
	}
	rows = append(rows, []string{"a"})
	d := ds(t, []string{"id"}, rows)
	ratio, sev, ok, err := JoinRisk(d, "id")
	if err != nil || !ok {
		t.Fatalf("JoinRisk: (%v, %v)", ok, err)
	}
	if ratio != 1.05 || sev != SeverityLow {
		t.Fatalf("JoinRisk = (%.2f, %s), want (1.05, LOW)", ratio, sev)
	}

	// 4 rows / 2 distinct keys = 2.0, still MEDIUM
	d2 := ds(t, []string{"id"}, [][]string{{"a"}, {"a"}, {"b"}, {"b"}})
	ratio, sev, _, _ = JoinRisk(d2, "id")
	if ratio != 2.0 || sev != SeverityMedium {
		t.Fatalf("JoinRisk = (%.2f, %s), want (2.00, MEDIUM)", ratio, sev)
	}
}

func TestJoinRiskUndefined(t *testing.T) {
	// all-missing key column: suppressed, never a division error
	d := ds(t, []string{"id"}, [][]string{{""}, {"NA"}})
	_, _, ok, err := JoinRisk(d, "id")
	if err != nil {
		t.Fatalf("JoinRisk: %v", err)
	}
	if ok {
		t.Fatal("expected undefined join risk for zero distinct keys")
	}

	empty := ds(t, []string{"id"}, nil)
	if _, _, ok, _ := JoinRisk(empty, "id"); ok {
		t.Fatal("expected undefined join risk for empty dataset")
	}
}

func TestNullColumns(t *testing.T) {
	d := ds(t, []string{"A", "B", "C"}, [][]string{
		{"1", "x", "q"},
		{"2", "", "r"},
	})
	got := NullColumns(d)
	if len(got) != 1 || got[0] != "B" {
		t.Fatalf("NullColumns = %#v, want [B]", got)
	}
	complete := ds(t, []string{"A", "B"}, [][]string{{"1", "x"}})
	if got := NullColumns(complete); len(got) != 0 {
		t.Fatalf("NullColumns = %#v, want []", got)
	}
}

func TestNegativeColumns(t *testing.T) {
	d := ds(t, []string{"amount", "balance", "note"}, [][]string{
		{"10", "-5", "-5 looks numeric"},
		{"20", "3", "fine"},
	})
	got := NegativeColumns(d)
	if len(got) != 1 || got[0] != "balance" {
		t.Fatalf("NegativeColumns = %#v, want [balance]", got)
	}
}

func TestNegativeColumnsIgnoresTextColumns(t *testing.T) {
	// "-7" cells in a column with any text cell must not be flagged:
	// the column is text-typed, not numeric-typed.
	d := ds(t, []string{"delta"}, [][]string{{"-7"}, {"unknown"}})
	if got := NegativeColumns(d); len(got) != 0 {
		t.Fatalf("NegativeColumns = %#v, want []", got)
	}
}

func TestAggregation(t *testing.T) {
	d := ds(t, []string{"qty", "price", "revenue"}, [][]string{
		{"2", "5", "10"},
		{"3", "5", "16"},
	})
	diff, sev, err := Aggregation(d, "qty", "price", "revenue")
	if err != nil {
		t.Fatalf("Aggregation: %v", err)
	}
	if math.Abs(diff-1.0) > 1e-9 || sev != SeverityFail {
		t.Fatalf("Aggregation = (%.2f, %s), want (1.00, FAIL)", diff, sev)
	}

	d2 := ds(t, []string{"qty", "price", "revenue"}, [][]string{
		{"2", "5", "10"},
		{"3", "5", "15"},
	})
	diff, sev, err = Aggregation(d2, "qty", "price", "revenue")
	if err != nil {
		t.Fatalf("Aggregation: %v", err)
	}
	if diff != 0 || sev != SeverityPass {
		t.Fatalf("Aggregation = (%.2f, %s), want (0.00, PASS)", diff, sev)
	}
}

func TestAggregationSkipsNonParsable(t *testing.T) {
	// The second row's qty does not parse, so its product is excluded;
	// its revenue still counts.
	d := ds(t, []string{"qty", "price", "revenue"}, [][]string{
		{"2", "5", "10"},
		{"x", "5", "7"},
	})
	diff, sev, err := Aggregation(d, "qty", "price", "revenue")
	if err != nil {
		t.Fatalf("Aggregation: %v", err)
	}
	if math.Abs(diff-7.0) > 1e-9 || sev != SeverityFail {
		t.Fatalf("Aggregation = (%.2f, %s), want (7.00, FAIL)", diff, sev)
	}
}

func TestAggregationAllNonNumericSumsToZero(t *testing.T) {
	// Documented limitation: a fully non-numeric column sums to 0.
	d := ds(t, []string{"qty", "price", "revenue"}, [][]string{
		{"a", "5", "0"},
		{"b", "5", "0"},
	})
	diff, sev, err := Aggregation(d, "qty", "price", "revenue")
	if err != nil {
		t.Fatalf("Aggregation: %v", err)
	}
	if diff != 0 || sev != SeverityPass {
		t.Fatalf("Aggregation = (%.2f, %s), want (0.00, PASS)", diff, sev)
	}
}

func TestAggregationUnknownColumn(t *testing.T) {
	d := ds(t, []string{"qty"}, [][]string{{"1"}})
	if _, _, err := Aggregation(d, "qty", "price", "revenue"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestSeverityTolerance(t *testing.T) {
	d := ds(t, []string{"qty", "price", "revenue"}, [][]string{
		{"1", "10", "10.01"},
	})
	_, sev, err := Aggregation(d, "qty", "price", "revenue")
	if err != nil {
		t.Fatalf("Aggregation: %v", err)
	}
	if sev != SeverityPass {
		t.Fatalf("difference of 0.01 should be within tolerance, got %s", sev)
	}
}

func TestMarkdownRendersNoneForEmptyLists(t *testing.T) {
	if columnList(nil) != "None" {
		t.Fatalf("columnList(nil) = %q, want None", columnList(nil))
	}
	if got := columnList([]string{"a", "b"}); got != "a, b" {
		t.Fatalf("columnList = %q", got)
	}
	if !strings.Contains((&Report{Selections: Selections{Key: "id"}}).Markdown(), "Columns with nulls: None") {
		t.Fatal("markdown missing None placeholder")
	}
}
