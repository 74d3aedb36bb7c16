package model

import (
	"testing"
	"time"

	"streaks/internal/date"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"monday,wednesday,friday", "monday wednesday friday", false},
		{"mon,wed,fri", "monday wednesday friday", false},
		{"FRI, Mon", "monday friday", false},
		{"mon,mon", "monday", false},
		{"daily", "monday tuesday wednesday thursday friday saturday sunday", false},
		{"", "", false},
		{"moonday", "", true},
	}

	for _, tt := range tests {
		days, err := ParseDays(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDays(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDays(%q): %v", tt.in, err)
			continue
		}
		got := ""
		for i, d := range days {
			if i > 0 {
				got += " "
			}
			got += d
		}
		if got != tt.want {
			t.Errorf("ParseDays(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDueOn(t *testing.T) {
	task := &Task{
		ID:        "t1",
		Days:      []string{"monday", "wednesday", "friday"},
		CreatedOn: date.New(2024, time.January, 10),
	}

	tests := []struct {
		day  string
		want bool
	}{
		{"2024-01-10", true},  // Wednesday, creation day
		{"2024-01-12", true},  // Friday
		{"2024-01-13", false}, // Saturday: not scheduled
		{"2024-01-08", false}, // Monday before creation
	}
	for _, tt := range tests {
		d, err := date.Parse(tt.day)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.day, err)
		}
		if got := task.DueOn(d); got != tt.want {
			t.Errorf("DueOn(%s) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestDueOnEmptySchedule(t *testing.T) {
	task := &Task{ID: "t1", CreatedOn: date.New(2024, time.January, 1)}
	if task.DueOn(date.New(2024, time.January, 15)) {
		t.Error("task with no scheduled days should never be due")
	}
}

func TestDayAbbreviations(t *testing.T) {
	got := DayAbbreviations([]string{"friday", "monday", "wednesday"})
	if got != "MWF" {
		t.Errorf("DayAbbreviations = %q, want MWF", got)
	}
	if got := DayAbbreviations(nil); got != "" {
		t.Errorf("DayAbbreviations(nil) = %q, want empty", got)
	}
}

func TestValidateTime(t *testing.T) {
	if err := ValidateTime("08:30"); err != nil {
		t.Errorf("ValidateTime(08:30): %v", err)
	}
	if err := ValidateTime(""); err != nil {
		t.Errorf("ValidateTime empty: %v", err)
	}
	if err := ValidateTime("25:00"); err == nil {
		t.Error("ValidateTime(25:00) should fail")
	}
	if err := ValidateTime("8am"); err == nil {
		t.Error("ValidateTime(8am) should fail")
	}
}
