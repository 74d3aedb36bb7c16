package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streaks/internal/date"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening runs migrations again; they must be no-ops.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.GetTasks()
	assert.NoError(t, err)
}

func TestTaskCRUD(t *testing.T) {
	db := openTestDB(t)
	createdOn := date.New(2024, time.January, 1)

	task, err := db.CreateTask("Exercise", "#ff5555", "07:30", []string{"friday", "monday", "wednesday"}, createdOn)
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	assert.Equal(t, []string{"monday", "wednesday", "friday"}, task.Days)

	got, err := db.GetTask(task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Exercise", got.Name)
	assert.Equal(t, "07:30", got.Time)
	assert.Equal(t, createdOn, got.CreatedOn)
	assert.Equal(t, []string{"monday", "wednesday", "friday"}, got.Days)

	require.NoError(t, db.UpdateTask(task.ID, "Morning run", "#50fa7b", "", []string{"sunday", "saturday"}))
	got, err = db.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning run", got.Name)
	assert.Equal(t, []string{"saturday", "sunday"}, got.Days)
	// Creation date survives edits.
	assert.Equal(t, createdOn, got.CreatedOn)

	require.NoError(t, db.DeleteTask(task.ID))
	got, err = db.GetTask(task.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetTaskMissing(t *testing.T) {
	db := openTestDB(t)
	got, err := db.GetTask("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetTasksOrdering(t *testing.T) {
	db := openTestDB(t)
	createdOn := date.New(2024, time.January, 1)

	_, err := db.CreateTask("zebra", "", "", []string{"monday"}, createdOn)
	require.NoError(t, err)
	_, err = db.CreateTask("apple", "", "", []string{"monday"}, createdOn)
	require.NoError(t, err)
	_, err = db.CreateTask("evening walk", "", "21:00", []string{"monday"}, createdOn)
	require.NoError(t, err)
	_, err = db.CreateTask("standup", "", "09:15", []string{"monday"}, createdOn)
	require.NoError(t, err)

	tasks, err := db.GetTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	names := []string{tasks[0].Name, tasks[1].Name, tasks[2].Name, tasks[3].Name}
	assert.Equal(t, []string{"standup", "evening walk", "apple", "zebra"}, names)
}

func TestGetTasksForWeekday(t *testing.T) {
	db := openTestDB(t)
	createdOn := date.New(2024, time.January, 1)

	_, err := db.CreateTask("weekday", "", "", []string{"monday", "wednesday"}, createdOn)
	require.NoError(t, err)
	_, err = db.CreateTask("weekend", "", "", []string{"saturday"}, createdOn)
	require.NoError(t, err)

	tasks, err := db.GetTasksForWeekday(time.Monday)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "weekday", tasks[0].Name)

	tasks, err = db.GetTasksForWeekday(time.Sunday)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSearchTasks(t *testing.T) {
	db := openTestDB(t)
	createdOn := date.New(2024, time.January, 1)

	_, err := db.CreateTask("Read fiction", "", "", []string{"monday"}, createdOn)
	require.NoError(t, err)
	_, err = db.CreateTask("Journal", "", "", []string{"monday"}, createdOn)
	require.NoError(t, err)

	tasks, err := db.SearchTasks("read")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Read fiction", tasks[0].Name)
}

func TestCompletionsIdempotentAndToggle(t *testing.T) {
	db := openTestDB(t)
	task, err := db.CreateTask("Exercise", "", "", []string{"monday"}, date.New(2024, time.January, 1))
	require.NoError(t, err)

	day := date.New(2024, time.January, 8)

	require.NoError(t, db.MarkComplete(task.ID, day))
	require.NoError(t, db.MarkComplete(task.ID, day))

	completions, err := db.GetCompletionsForTask(task.ID, day, day)
	require.NoError(t, err)
	assert.Len(t, completions, 1, "duplicate completion records must collapse")

	done, err := db.ToggleCompletion(task.ID, day)
	require.NoError(t, err)
	assert.False(t, done)

	done, err = db.ToggleCompletion(task.ID, day)
	require.NoError(t, err)
	assert.True(t, done)

	ok, err := db.IsCompleted(task.ID, day)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompletionsByDate(t *testing.T) {
	db := openTestDB(t)
	createdOn := date.New(2024, time.January, 1)
	a, err := db.CreateTask("A", "", "", []string{"monday"}, createdOn)
	require.NoError(t, err)
	b, err := db.CreateTask("B", "", "", []string{"monday"}, createdOn)
	require.NoError(t, err)

	d1 := date.New(2024, time.January, 8)
	d2 := date.New(2024, time.January, 15)
	require.NoError(t, db.MarkComplete(a.ID, d1))
	require.NoError(t, db.MarkComplete(b.ID, d1))
	require.NoError(t, db.MarkComplete(a.ID, d2))

	byDate, err := db.GetCompletionsByDate(d1, d2)
	require.NoError(t, err)
	assert.Len(t, byDate, 2)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, byDate[d1])
	assert.Equal(t, []string{a.ID}, byDate[d2])
}

func TestDeleteTaskCascades(t *testing.T) {
	db := openTestDB(t)
	task, err := db.CreateTask("Exercise", "", "08:00", []string{"monday"}, date.New(2024, time.January, 1))
	require.NoError(t, err)

	day := date.New(2024, time.January, 8)
	require.NoError(t, db.MarkComplete(task.ID, day))
	require.NoError(t, db.ReplaceSchedule(task.ID, []time.Time{time.Now().Add(time.Hour)}))

	require.NoError(t, db.DeleteTask(task.ID))

	completions, err := db.GetCompletionsForTask(task.ID, day, day)
	require.NoError(t, err)
	assert.Empty(t, completions)

	pending, err := db.DueNotifications(time.Now().Add(2 * time.Hour))
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestNotificationLifecycle(t *testing.T) {
	db := openTestDB(t)
	task, err := db.CreateTask("Exercise", "", "08:00", []string{"monday"}, date.New(2024, time.January, 1))
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, db.ReplaceSchedule(task.ID, []time.Time{
		now.Add(-time.Hour),
		now.Add(time.Hour),
	}))

	due, err := db.DueNotifications(now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, task.ID, due[0].TaskID)

	require.NoError(t, db.MarkNotificationSent(due[0].ID))
	due, err = db.DueNotifications(now)
	require.NoError(t, err)
	assert.Empty(t, due)

	// Replanning clears unsent rows but keeps the sent one until pruning.
	require.NoError(t, db.ReplaceSchedule(task.ID, []time.Time{now.Add(2 * time.Hour)}))
	require.NoError(t, db.PruneNotifications(now.Add(time.Minute)))

	due, err = db.DueNotifications(now.Add(3 * time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.WithinDuration(t, now.Add(2*time.Hour), due[0].FireAt, time.Second)
}
