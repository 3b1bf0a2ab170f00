package utils

import (
	"testing"
	"time"
)

func TestCivilDateNormalizesAcrossTimezones(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	// 02:00 UTC is still the previous evening in New York.
	instant := time.Date(2026, 8, 28, 2, 0, 0, 0, time.UTC)
	got := CivilDate(instant, ny)
	want := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("CivilDate = %v, want %v", got, want)
	}

	// The same instant resolved in UTC stays on the 28th.
	got = CivilDate(instant, time.UTC)
	want = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("CivilDate = %v, want %v", got, want)
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		name string
		date time.Time
		want time.Time
	}{
		{
			"monday is its own week start",
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			"midweek rewinds to monday",
			time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the preceding monday",
			time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			"week spanning a month boundary",
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WeekStart(tc.date); !got.Equal(tc.want) {
				t.Fatalf("WeekStart(%v) = %v, want %v", tc.date, got, tc.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	if got := DaysBetween(a, b); got != 7 {
		t.Fatalf("DaysBetween = %d, want 7", got)
	}
	if got := DaysBetween(b, a); got != -7 {
		t.Fatalf("DaysBetween reversed = %d, want -7", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Fatalf("DaysBetween same day = %d, want 0", got)
	}
}

func TestParseCivilDate(t *testing.T) {
	got, err := ParseCivilDate("2026-08-28")
	if err != nil {
		t.Fatalf("ParseCivilDate: %v", err)
	}
	if FormatCivilDate(got) != "2026-08-28" {
		t.Fatalf("round trip = %q, want 2026-08-28", FormatCivilDate(got))
	}

	for _, bad := range []string{"28-08-2026", "2026/08/28", "not a date", ""} {
		if _, err := ParseCivilDate(bad); err == nil {
			t.Fatalf("ParseCivilDate(%q) should fail", bad)
		}
	}
}
