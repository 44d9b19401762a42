package explain

import "testing"

func TestExplainCoversEveryPair(t *testing.T) {
	pairs := map[string][]string{
		CheckDuplicates:   {"PASS", "WARNING"},
		CheckPKDuplicates: {"PASS", "WARNING"},
		CheckAggregation:  {"PASS", "FAIL"},
		CheckJoinRisk:     {"LOW", "MEDIUM", "HIGH"},
	}
	for check, severities := range pairs {
		for _, sev := range severities {
			e, err := Explain(check, sev)
			if err != nil {
				t.Fatalf("Explain(%s, %s): %v", check, sev, err)
			}
			if e.Plain == "" || e.Technical == "" || e.Action == "" {
				t.Fatalf("Explain(%s, %s) returned empty guidance: %+v", check, sev, e)
			}
		}
	}
}

func TestExplainUnknownPairFails(t *testing.T) {
	cases := []struct{ check, severity string }{
		{CheckDuplicates, "FAIL"},
		{CheckAggregation, "WARNING"},
		{CheckJoinRisk, "PASS"},
		{"row_count", "PASS"},
		{CheckDuplicates, ""},
	}
	for _, tc := range cases {
		if _, err := Explain(tc.check, tc.severity); err == nil {
			t.Fatalf("Explain(%q, %q) should fail", tc.check, tc.severity)
		}
	}
}
