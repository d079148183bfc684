package timezone_test

import (
	"dogwalking/shared/timezone"
	"testing"
	"time"
)

func TestTimezoneInit(t *testing.T) {
	// Test Now() function
	now := timezone.Now()
	if now.IsZero() {
		t.Error("Now() returned zero time")
	}

	// Test GetLocation()
	loc := timezone.GetLocation()
	if loc == nil {
		t.Error("GetLocation() returned nil")
	}
}

func TestTimezoneWithStandardLocation(t *testing.T) {
	utcTime := time.Now().UTC()
	appTime := timezone.ToAppTime(utcTime)

	if appTime.Location() == nil {
		t.Error("Expected converted time to have a location")
	}
}

func TestTimezoneFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	formatted := timezone.Format(testTime, "2006-01-02 15:04:05 MST")

	if formatted == "" {
		t.Error("Format() returned empty string")
	}

	parsed, err := timezone.Parse("2006-01-02", "2024-01-01")
	if err != nil {
		t.Errorf("Parse() failed: %v", err)
	}

	if parsed == (time.Time{}) {
		t.Error("Parse() returned a zero time")
	}
}

func TestStartOfMonth(t *testing.T) {
	in := time.Date(2025, 3, 17, 15, 4, 5, 0, timezone.GetLocation())
	got := timezone.StartOfMonth(in)

	if got.Day() != 1 || got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("StartOfMonth() = %v, want first day at midnight", got)
	}

	if got.Month() != time.March || got.Year() != 2025 {
		t.Errorf("StartOfMonth() = %v, want March 2025", got)
	}
}

func TestFormatPtr(t *testing.T) {
	if got := timezone.FormatPtr(nil, time.RFC3339); got != "" {
		t.Errorf("FormatPtr(nil) = %q, want empty", got)
	}

	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if got := timezone.FormatPtr(&at, time.RFC3339); got != timezone.Format(at, time.RFC3339) {
		t.Errorf("FormatPtr() = %q, want %q", got, timezone.Format(at, time.RFC3339))
	}
}
