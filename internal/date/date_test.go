package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseAndString(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2024-01-15", false},
		{"2024-12-31", false},
		{"2024-1-15", true},
		{"15-01-2024", true},
		{"not-a-date", true},
		{"", true},
		{"2024-02-30", true},
	}

	for _, tt := range tests {
		d, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) expected error, got %v", tt.in, d)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got := d.String(); got != tt.in {
			t.Errorf("Parse(%q).String() = %q", tt.in, got)
		}
	}
}

func TestWeekday(t *testing.T) {
	// 2024-01-15 is a Monday.
	d, err := Parse("2024-01-15")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Weekday() != time.Monday {
		t.Errorf("Weekday() = %v, want Monday", d.Weekday())
	}
	if d.AddDays(6).Weekday() != time.Sunday {
		t.Errorf("AddDays(6).Weekday() = %v, want Sunday", d.AddDays(6).Weekday())
	}
}

func TestAddDaysAcrossMonthAndYear(t *testing.T) {
	d := New(2023, time.December, 30)
	if got := d.AddDays(3).String(); got != "2024-01-02" {
		t.Errorf("AddDays(3) = %s, want 2024-01-02", got)
	}
	if got := d.AddDays(-30).String(); got != "2023-11-30" {
		t.Errorf("AddDays(-30) = %s, want 2023-11-30", got)
	}
}

func TestOrdering(t *testing.T) {
	a := New(2024, time.January, 15)
	b := New(2024, time.January, 16)

	if !a.Before(b) || b.Before(a) {
		t.Error("Before() ordering wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After() ordering wrong")
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("Compare() ordering wrong")
	}
	if a.DaysUntil(b) != 1 || b.DaysUntil(a) != -1 {
		t.Error("DaysUntil() wrong")
	}
}

func TestFromTimeUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*3600)
	// 23:30 local on Jan 15 is Jan 15 regardless of what UTC says.
	d := FromTime(time.Date(2024, time.January, 15, 23, 30, 0, 0, loc))
	if d.String() != "2024-01-15" {
		t.Errorf("FromTime = %s, want 2024-01-15", d)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		On Date `json:"on"`
	}

	out, err := json.Marshal(payload{On: New(2024, time.March, 5)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"on":"2024-03-05"}` {
		t.Errorf("Marshal = %s", out)
	}

	var in payload
	if err := json.Unmarshal(out, &in); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if in.On.String() != "2024-03-05" {
		t.Errorf("Unmarshal = %s", in.On)
	}

	if err := json.Unmarshal([]byte(`{"on":"garbage"}`), &in); err == nil {
		t.Error("Unmarshal accepted malformed date")
	}

	// null is a no-op, not an error.
	in.On = New(2024, time.March, 5)
	if err := json.Unmarshal([]byte(`{"on":null}`), &in); err != nil {
		t.Fatalf("Unmarshal null: %v", err)
	}
	if in.On.String() != "2024-03-05" {
		t.Errorf("Unmarshal null changed date to %s", in.On)
	}
}

func TestScan(t *testing.T) {
	var d Date
	if err := d.Scan("2024-06-01"); err != nil {
		t.Fatalf("Scan(string): %v", err)
	}
	if d.String() != "2024-06-01" {
		t.Errorf("Scan = %s", d)
	}
	if err := d.Scan([]byte("2024-06-02")); err != nil {
		t.Fatalf("Scan([]byte): %v", err)
	}
	if err := d.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}
