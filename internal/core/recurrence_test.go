package core

import "testing"

func TestNextDueDate(t *testing.T) {
	cases := []struct {
		name string
		in   Date
		freq Frequency
		want Date
	}{
		{"weekly plain", NewDate(2024, 3, 1), Weekly, NewDate(2024, 3, 8)},
		{"weekly across month end", NewDate(2024, 1, 29), Weekly, NewDate(2024, 2, 5)},
		{"weekly across year end", NewDate(2023, 12, 28), Weekly, NewDate(2024, 1, 4)},
		{"monthly plain", NewDate(2024, 4, 15), Monthly, NewDate(2024, 5, 15)},
		{"monthly jan 31 leap year", NewDate(2024, 1, 31), Monthly, NewDate(2024, 2, 29)},
		{"monthly jan 31 non leap", NewDate(2023, 1, 31), Monthly, NewDate(2023, 2, 28)},
		{"monthly mar 31", NewDate(2024, 3, 31), Monthly, NewDate(2024, 4, 30)},
		{"monthly dec rolls year", NewDate(2024, 12, 31), Monthly, NewDate(2025, 1, 31)},
		{"yearly plain", NewDate(2024, 6, 10), Yearly, NewDate(2025, 6, 10)},
		{"yearly feb 29 to non leap", NewDate(2024, 2, 29), Yearly, NewDate(2025, 2, 28)},
		{"yearly feb 28 stays", NewDate(2023, 2, 28), Yearly, NewDate(2024, 2, 28)},
		{"once identity", NewDate(2024, 3, 1), Once, NewDate(2024, 3, 1)},
		{"unknown identity", NewDate(2024, 3, 1), Frequency("fortnightly"), NewDate(2024, 3, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextDueDate(tc.in, tc.freq)
			if !got.Equal(tc.want.Time) {
				t.Fatalf("NextDueDate(%s, %s) = %s, want %s", tc.in, tc.freq, got, tc.want)
			}
		})
	}
}

func TestNextDueDateDoesNotMutateInput(t *testing.T) {
	in := NewDate(2024, 1, 31)
	_ = NextDueDate(in, Monthly)
	if in.String() != "2024-01-31" {
		t.Fatalf("input mutated: %s", in)
	}
}

func TestFrequencyValidate(t *testing.T) {
	for _, f := range []Frequency{Once, Weekly, Monthly, Yearly} {
		if err := f.Validate(); err != nil {
			t.Fatalf("%s should be valid: %v", f, err)
		}
	}
	if err := Frequency("daily").Validate(); err == nil {
		t.Fatalf("expected error for unsupported frequency")
	}
}

func TestFrequencyRecurring(t *testing.T) {
	if Once.Recurring() {
		t.Fatalf("once should not recur")
	}
	for _, f := range []Frequency{Weekly, Monthly, Yearly} {
		if !f.Recurring() {
			t.Fatalf("%s should recur", f)
		}
	}
}
