package streak

import (
	"math/rand"
	"testing"
	"time"

	"streaks/internal/date"
	"streaks/internal/model"
)

// mwfTask returns a Monday/Wednesday/Friday task created 2024-01-01 (a Monday).
func mwfTask() *model.Task {
	return &model.Task{
		ID:        "t1",
		Name:      "Exercise",
		Days:      []string{"monday", "wednesday", "friday"},
		CreatedOn: date.New(2024, time.January, 1),
	}
}

func mustDate(t *testing.T, s string) date.Date {
	t.Helper()
	d, err := date.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return d
}

func indexFor(t *testing.T, taskID string, days ...string) *Index {
	t.Helper()
	completions := make([]model.Completion, 0, len(days))
	for _, s := range days {
		completions = append(completions, model.Completion{TaskID: taskID, Date: mustDate(t, s)})
	}
	return NewIndex(completions)
}

func TestNewWindow(t *testing.T) {
	start := date.New(2024, time.January, 1)
	end := date.New(2024, time.January, 31)

	w, err := NewWindow(start, end)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	if w.Days() != 31 {
		t.Errorf("Days() = %d, want 31", w.Days())
	}

	if _, err := NewWindow(end, start); err == nil {
		t.Error("NewWindow with inverted range should fail")
	}
}

func TestDueDates(t *testing.T) {
	task := mwfTask()
	w := Window{Start: mustDate(t, "2024-01-01"), End: mustDate(t, "2024-01-15")}

	due := DueDates(task, w)
	want := []string{"2024-01-01", "2024-01-03", "2024-01-05", "2024-01-08", "2024-01-10", "2024-01-12", "2024-01-15"}
	if len(due) != len(want) {
		t.Fatalf("DueDates returned %d dates, want %d: %v", len(due), len(want), due)
	}
	for i, d := range due {
		if d.String() != want[i] {
			t.Errorf("due[%d] = %s, want %s", i, d, want[i])
		}
		if !task.ScheduledOn(d.Weekday()) {
			t.Errorf("due[%d] = %s falls on unscheduled weekday %v", i, d, d.Weekday())
		}
		if i > 0 && !due[i-1].Before(d) {
			t.Errorf("due dates not strictly increasing at %d", i)
		}
	}
}

func TestDueDatesBoundedByCreation(t *testing.T) {
	task := mwfTask()
	w := Window{Start: mustDate(t, "2023-12-01"), End: mustDate(t, "2024-01-03")}

	due := DueDates(task, w)
	if len(due) != 2 {
		t.Fatalf("DueDates = %v, want the two January dates", due)
	}
	if due[0].String() != "2024-01-01" {
		t.Errorf("first due date %s precedes creation", due[0])
	}
}

func TestDueDatesEmptySchedule(t *testing.T) {
	task := &model.Task{ID: "t1", CreatedOn: mustDate(t, "2024-01-01")}
	w := Window{Start: mustDate(t, "2024-01-01"), End: mustDate(t, "2024-12-31")}
	if due := DueDates(task, w); len(due) != 0 {
		t.Errorf("unscheduled task has due dates: %v", due)
	}
}

// Scenario 1: every due date through today completed.
func TestCurrentStreakAllCompleted(t *testing.T) {
	task := mwfTask()
	ix := indexFor(t, task.ID,
		"2024-01-01", "2024-01-03", "2024-01-05",
		"2024-01-08", "2024-01-10", "2024-01-12", "2024-01-15")
	today := mustDate(t, "2024-01-15")

	if got := CurrentStreak(task, ix, today); got != 7 {
		t.Errorf("CurrentStreak = %d, want 7", got)
	}
	if got := PreviousStreak(task, ix, today); got != 0 {
		t.Errorf("PreviousStreak = %d, want 0 (no gap since creation)", got)
	}
	if got := LongestStreak(task, ix, today); got != 7 {
		t.Errorf("LongestStreak = %d, want 7", got)
	}
}

func TestCurrentStreakTodayIncomplete(t *testing.T) {
	task := mwfTask()
	// Everything done except today.
	ix := indexFor(t, task.ID,
		"2024-01-01", "2024-01-03", "2024-01-05",
		"2024-01-08", "2024-01-10", "2024-01-12")
	today := mustDate(t, "2024-01-15")

	if got := CurrentStreak(task, ix, today); got != 0 {
		t.Errorf("CurrentStreak = %d, want 0: today is due and incomplete", got)
	}
	if got := PreviousStreak(task, ix, today); got != 6 {
		t.Errorf("PreviousStreak = %d, want 6", got)
	}
}

func TestCurrentStreakIgnoresUnscheduledDays(t *testing.T) {
	task := mwfTask()
	ix := indexFor(t, task.ID, "2024-01-12", "2024-01-15")
	// Saturday and Sunday between Friday the 12th and Monday the 15th
	// have no completions but must not break the streak.
	if got := CurrentStreak(task, ix, mustDate(t, "2024-01-15")); got != 2 {
		t.Errorf("CurrentStreak = %d, want 2", got)
	}
}

func TestPreviousStreak(t *testing.T) {
	task := mwfTask()
	today := mustDate(t, "2024-01-15")

	tests := []struct {
		name string
		done []string
		want int
	}{
		{"gap then run of three", []string{"2024-01-05", "2024-01-08", "2024-01-10", "2024-01-15"}, 3},
		{"gap then run of one", []string{"2024-01-03", "2024-01-08", "2024-01-10", "2024-01-12", "2024-01-15"}, 1},
		{"current run only", []string{"2024-01-10", "2024-01-12", "2024-01-15"}, 0},
		{"nothing completed", nil, 0},
		{"two gaps back to back", []string{"2024-01-01", "2024-01-03"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := indexFor(t, task.ID, tt.done...)
			if got := PreviousStreak(task, ix, today); got != tt.want {
				t.Errorf("PreviousStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLongestStreakResetsOnGap(t *testing.T) {
	task := mwfTask()
	// Run of 3, gap on the 8th, run of 2, gap on the 15th.
	ix := indexFor(t, task.ID,
		"2024-01-01", "2024-01-03", "2024-01-05",
		"2024-01-10", "2024-01-12")
	today := mustDate(t, "2024-01-15")

	got := LongestStreak(task, ix, today)
	if got != 3 {
		t.Errorf("LongestStreak = %d, want 3", got)
	}
	if current := CurrentStreak(task, ix, today); got < current {
		t.Errorf("LongestStreak %d < CurrentStreak %d", got, current)
	}
}

// A run older than the lookback window must still be counted in full:
// LongestStreak can never report less than CurrentStreak.
func TestLongestStreakCoversRunOlderThanLookback(t *testing.T) {
	today := date.New(2025, time.June, 17)
	task := &model.Task{
		ID:        "t1",
		Name:      "Exercise",
		Days:      []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"},
		CreatedOn: today.AddDays(-400),
	}

	var completions []model.Completion
	for d := task.CreatedOn; !d.After(today); d = d.AddDays(1) {
		completions = append(completions, model.Completion{TaskID: task.ID, Date: d})
	}
	ix := NewIndex(completions)

	current := CurrentStreak(task, ix, today)
	if current != 401 {
		t.Fatalf("CurrentStreak = %d, want 401", current)
	}
	if got := LongestStreak(task, ix, today); got != current {
		t.Errorf("LongestStreak = %d, want %d (full current run)", got, current)
	}
}

func TestCompletionCount(t *testing.T) {
	task := mwfTask()
	w := LastNDays(mustDate(t, "2024-01-30"), DefaultWindowDays)

	ix := indexFor(t, task.ID, "2024-01-05", "2024-01-08", "2024-01-10")
	if got := CompletionCount(task, ix, w); got != 3 {
		t.Errorf("CompletionCount = %d, want 3", got)
	}

	// A completion on a Saturday still counts: counting is by record,
	// not by scheduled weekday.
	ix = indexFor(t, task.ID, "2024-01-06")
	if got := CompletionCount(task, ix, w); got != 1 {
		t.Errorf("CompletionCount = %d, want 1 (off-schedule completions count)", got)
	}

	// Records before the task existed do not.
	ix = indexFor(t, task.ID, "2023-12-29")
	w2 := LastNDays(mustDate(t, "2024-01-05"), DefaultWindowDays)
	if got := CompletionCount(task, ix, w2); got != 0 {
		t.Errorf("CompletionCount = %d, want 0 (before creation)", got)
	}
}

// Scenario 2: run of two, then every later due date missed.
func TestStreakBrokenFirstGapOnly(t *testing.T) {
	task := mwfTask()
	ix := indexFor(t, task.ID, "2024-01-01", "2024-01-03")

	if !IsStreakBrokenOnDay(task, mustDate(t, "2024-01-05"), ix) {
		t.Error("2024-01-05 should be a streak break (run of 2 before it)")
	}
	if IsStreakBrokenOnDay(task, mustDate(t, "2024-01-08"), ix) {
		t.Error("2024-01-08 is not the first gap; should be a plain miss")
	}
	if !IsTaskMissedOnDay(task, mustDate(t, "2024-01-08"), ix) {
		t.Error("2024-01-08 should be missed")
	}
	if IsTaskMissedOnDay(task, mustDate(t, "2024-01-05"), ix) {
		t.Error("2024-01-05 is a break, so it must not also be a miss")
	}
}

// Scenario 3: a single completion is not enough streak to break.
func TestSingleCompletionGapIsMissNotBreak(t *testing.T) {
	task := mwfTask()
	ix := indexFor(t, task.ID, "2024-01-01")

	day := mustDate(t, "2024-01-03")
	if IsStreakBrokenOnDay(task, day, ix) {
		t.Error("gap after a run of 1 should not be a break")
	}
	if !IsTaskMissedOnDay(task, day, ix) {
		t.Error("gap after a run of 1 should be a miss")
	}
}

func TestStreakBrokenGuards(t *testing.T) {
	task := mwfTask()
	ix := indexFor(t, task.ID, "2024-01-01", "2024-01-03", "2024-01-05")

	tests := []struct {
		name string
		day  string
	}{
		{"completed day", "2024-01-05"},
		{"unscheduled weekday", "2024-01-06"},
		{"before creation", "2023-12-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := mustDate(t, tt.day)
			if IsStreakBrokenOnDay(task, day, ix) {
				t.Errorf("IsStreakBrokenOnDay(%s) = true", tt.day)
			}
			if IsTaskMissedOnDay(task, day, ix) {
				t.Errorf("IsTaskMissedOnDay(%s) = true", tt.day)
			}
		})
	}
}

// Scenario 4 variants.
func TestConsistencyPercentage(t *testing.T) {
	task := mwfTask()
	w := Window{Start: mustDate(t, "2024-01-01"), End: mustDate(t, "2024-01-15")}

	// Nothing completed, due dates exist: 0%.
	if got := ConsistencyPercentage([]model.Task{*task}, NewIndex(nil), w); got != 0 {
		t.Errorf("ConsistencyPercentage = %d, want 0", got)
	}

	// Everything completed: 100%.
	ix := indexFor(t, task.ID,
		"2024-01-01", "2024-01-03", "2024-01-05",
		"2024-01-08", "2024-01-10", "2024-01-12", "2024-01-15")
	if got := ConsistencyPercentage([]model.Task{*task}, ix, w); got != 100 {
		t.Errorf("ConsistencyPercentage = %d, want 100", got)
	}

	// 4 of 7 due dates completed: round(400/7) = 57.
	ix = indexFor(t, task.ID, "2024-01-01", "2024-01-03", "2024-01-05", "2024-01-08")
	if got := ConsistencyPercentage([]model.Task{*task}, ix, w); got != 57 {
		t.Errorf("ConsistencyPercentage = %d, want 57", got)
	}

	// A task with no scheduled days owes nothing: vacuously 100%.
	idle := model.Task{ID: "t2", CreatedOn: mustDate(t, "2024-01-01")}
	if got := ConsistencyPercentage([]model.Task{idle}, NewIndex(nil), w); got != 100 {
		t.Errorf("ConsistencyPercentage = %d, want 100 for zero obligations", got)
	}
}

// Scenario 5: creation date in the future relative to today.
func TestFutureCreationDate(t *testing.T) {
	task := mwfTask()
	task.CreatedOn = mustDate(t, "2024-06-01")
	ix := indexFor(t, task.ID, "2024-01-15")
	today := mustDate(t, "2024-01-15")

	if got := CurrentStreak(task, ix, today); got != 0 {
		t.Errorf("CurrentStreak = %d, want 0", got)
	}
	if got := PreviousStreak(task, ix, today); got != 0 {
		t.Errorf("PreviousStreak = %d, want 0", got)
	}
	if got := LongestStreak(task, ix, today); got != 0 {
		t.Errorf("LongestStreak = %d, want 0", got)
	}
	if got := CompletionCount(task, ix, LastNDays(today, DefaultWindowDays)); got != 0 {
		t.Errorf("CompletionCount = %d, want 0", got)
	}
}

func TestIndexShapesAgree(t *testing.T) {
	completions := []model.Completion{
		{TaskID: "a", Date: date.New(2024, time.January, 1)},
		{TaskID: "a", Date: date.New(2024, time.January, 3)},
		{TaskID: "b", Date: date.New(2024, time.January, 3)},
		// Duplicate record: idempotent, not additive.
		{TaskID: "a", Date: date.New(2024, time.January, 1)},
	}
	byDate := map[date.Date][]string{
		date.New(2024, time.January, 1): {"a", "a"},
		date.New(2024, time.January, 3): {"a", "b"},
	}

	fromList := NewIndex(completions)
	fromMap := NewIndexFromDates(byDate)

	w := Window{Start: date.New(2024, time.January, 1), End: date.New(2024, time.January, 31)}
	for _, ix := range []*Index{fromList, fromMap} {
		if !ix.Completed("a", date.New(2024, time.January, 1)) {
			t.Error("missing completion a@01-01")
		}
		if ix.Completed("b", date.New(2024, time.January, 1)) {
			t.Error("phantom completion b@01-01")
		}
		if got := ix.TotalCompletions(w); got != 3 {
			t.Errorf("TotalCompletions = %d, want 3 (duplicates collapse)", got)
		}
		if got := ix.ActiveDays(w); got != 2 {
			t.Errorf("ActiveDays = %d, want 2", got)
		}
	}
}

// TestRandomizedInvariants sweeps seeded random schedules and completion
// sets through the cross-function invariants that must hold for any input.
func TestRandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	allDays := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	today := date.New(2024, time.June, 17)

	for trial := 0; trial < 200; trial++ {
		var days []string
		for _, d := range allDays {
			if rng.Intn(2) == 0 {
				days = append(days, d)
			}
		}
		task := &model.Task{
			ID:        "r",
			Days:      days,
			CreatedOn: today.AddDays(-rng.Intn(500)),
		}

		// density 0 completes every day, so long unbroken runs show up too.
		density := rng.Intn(4)
		var completions []model.Completion
		for back := 0; back < 450; back++ {
			if rng.Intn(density+1) == 0 {
				completions = append(completions, model.Completion{TaskID: "r", Date: today.AddDays(-back)})
			}
		}
		ix := NewIndex(completions)

		current := CurrentStreak(task, ix, today)
		longest := LongestStreak(task, ix, today)
		due := DueDates(task, Window{Start: task.CreatedOn, End: today})

		if current > len(due) {
			t.Fatalf("trial %d: CurrentStreak %d exceeds due-date count %d", trial, current, len(due))
		}
		if longest < current {
			t.Fatalf("trial %d: LongestStreak %d < CurrentStreak %d", trial, longest, current)
		}
		if current < 0 || PreviousStreak(task, ix, today) < 0 {
			t.Fatalf("trial %d: negative streak", trial)
		}

		pct := ConsistencyPercentage([]model.Task{*task}, ix, LastNDays(today, 30))
		if pct < 0 || pct > 100 {
			t.Fatalf("trial %d: consistency %d out of range", trial, pct)
		}

		for back := 0; back < 30; back++ {
			day := today.AddDays(-back)
			if IsStreakBrokenOnDay(task, day, ix) && IsTaskMissedOnDay(task, day, ix) {
				t.Fatalf("trial %d: %s is both broken and missed", trial, day)
			}
		}

		// Pure functions: identical inputs, identical outputs.
		if again := CurrentStreak(task, ix, today); again != current {
			t.Fatalf("trial %d: CurrentStreak not deterministic: %d vs %d", trial, current, again)
		}
	}
}
