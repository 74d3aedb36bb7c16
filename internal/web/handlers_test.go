package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streaks/internal/date"
	"streaks/internal/db"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Monday 2024-01-15.
var testNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

func testServer(t *testing.T) (*Server, *db.DB) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	s := NewServer(database)
	s.SetNowFunc(func() time.Time { return testNow })
	return s, database
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateAndGetTask(t *testing.T) {
	s, _ := testServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/tasks", gin.H{
		"name":       "Exercise",
		"color":      "#ff5555",
		"time":       "07:30",
		"days":       []string{"monday", "wednesday", "friday"},
		"created_on": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode(t, w)
	task := resp["task"].(map[string]any)
	id := task["id"].(string)
	require.NotEmpty(t, id)

	w = doRequest(t, s, http.MethodGet, "/api/tasks/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	task = resp["task"].(map[string]any)
	assert.Equal(t, "Exercise", task["name"])
	assert.Equal(t, "2024-01-01", task["created_on"])
}

func TestCreateTaskValidation(t *testing.T) {
	s, _ := testServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"days": []string{"monday"}}},
		{"bad weekday", gin.H{"name": "X", "days": []string{"moonday"}}},
		{"bad time", gin.H{"name": "X", "days": []string{"monday"}, "time": "25:99"}},
		{"bad created_on", gin.H{"name": "X", "days": []string{"monday"}, "created_on": "01/15/2024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/api/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode(t, w)
			assert.Equal(t, false, resp["success"])
		})
	}
}

func TestCreateTaskDefaultsCreatedOnToToday(t *testing.T) {
	s, _ := testServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/tasks", gin.H{
		"name": "Exercise",
		"days": []string{"monday"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	task := decode(t, w)["task"].(map[string]any)
	assert.Equal(t, "2024-01-15", task["created_on"])
}

func TestGetTaskNotFound(t *testing.T) {
	s, _ := testServer(t)
	w := doRequest(t, s, http.MethodGet, "/api/tasks/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTask(t *testing.T) {
	s, database := testServer(t)
	task, err := database.CreateTask("Exercise", "", "", []string{"monday"}, date.New(2024, time.January, 1))
	require.NoError(t, err)

	w := doRequest(t, s, http.MethodPut, "/api/tasks/"+task.ID, gin.H{
		"name": "Morning run",
		"days": []string{"tuesday", "thursday"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode(t, w)["task"].(map[string]any)
	assert.Equal(t, "Morning run", updated["name"])
	// Creation date is immutable.
	assert.Equal(t, "2024-01-01", updated["created_on"])
}

func TestUpdateTaskKeepsOmittedFields(t *testing.T) {
	s, database := testServer(t)
	task, err := database.CreateTask("Exercise", "#ff5555", "07:30",
		[]string{"monday", "wednesday", "friday"}, date.New(2024, time.January, 1))
	require.NoError(t, err)

	// A name-only body must not clear the schedule, time or color.
	w := doRequest(t, s, http.MethodPut, "/api/tasks/"+task.ID, gin.H{"name": "Morning run"})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode(t, w)["task"].(map[string]any)
	assert.Equal(t, "Morning run", updated["name"])
	assert.Equal(t, "#ff5555", updated["color"])
	assert.Equal(t, "07:30", updated["time"])
	assert.Equal(t, []any{"monday", "wednesday", "friday"}, updated["days"])

	// An explicit empty days list still clears the schedule.
	w = doRequest(t, s, http.MethodPut, "/api/tasks/"+task.ID, gin.H{"days": []string{}})
	require.Equal(t, http.StatusOK, w.Code)
	updated = decode(t, w)["task"].(map[string]any)
	assert.Empty(t, updated["days"])
}

func TestDeleteTask(t *testing.T) {
	s, database := testServer(t)
	task, err := database.CreateTask("Exercise", "", "", []string{"monday"}, date.New(2024, time.January, 1))
	require.NoError(t, err)

	w := doRequest(t, s, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleTask(t *testing.T) {
	s, database := testServer(t)
	task, err := database.CreateTask("Exercise", "", "", []string{"monday"}, date.New(2024, time.January, 1))
	require.NoError(t, err)

	w := doRequest(t, s, http.MethodPost, "/api/tasks/"+task.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["completed"])
	assert.Equal(t, "2024-01-15", resp["date"])

	w = doRequest(t, s, http.MethodPost, "/api/tasks/"+task.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["completed"])

	// Explicit backdated toggle.
	w = doRequest(t, s, http.MethodPost, "/api/tasks/"+task.ID+"/toggle", gin.H{"date": "2024-01-08"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	assert.Equal(t, true, resp["completed"])
	assert.Equal(t, "2024-01-08", resp["date"])
}

func TestListTasksCompletionFlag(t *testing.T) {
	s, database := testServer(t)
	task, err := database.CreateTask("Exercise", "", "", []string{"monday"}, date.New(2024, time.January, 1))
	require.NoError(t, err)
	require.NoError(t, database.MarkComplete(task.ID, date.New(2024, time.January, 15)))

	w := doRequest(t, s, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	tasks := resp["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, true, tasks[0].(map[string]any)["completed_today"])
}

func TestTaskStatsEndpoint(t *testing.T) {
	s, database := testServer(t)
	task, err := database.CreateTask("Exercise", "", "", []string{"monday", "wednesday", "friday"}, date.New(2024, time.January, 1))
	require.NoError(t, err)
	for _, d := range []date.Date{
		date.New(2024, time.January, 10),
		date.New(2024, time.January, 12),
		date.New(2024, time.January, 15),
	} {
		require.NoError(t, database.MarkComplete(task.ID, d))
	}

	w := doRequest(t, s, http.MethodGet, "/api/tasks/"+task.ID+"/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode(t, w)["stats"].(map[string]any)
	assert.Equal(t, float64(3), stats["current_streak"])
	assert.Equal(t, float64(3), stats["longest_streak"])
	assert.Equal(t, float64(3), stats["completion_count"])
	assert.Equal(t, false, stats["is_streak_broken_today"])
}

func TestUserStatsEndpoint(t *testing.T) {
	s, database := testServer(t)
	task, err := database.CreateTask("Exercise", "", "", []string{"monday"}, date.New(2024, time.January, 1))
	require.NoError(t, err)
	require.NoError(t, database.MarkComplete(task.ID, date.New(2024, time.January, 15)))

	w := doRequest(t, s, http.MethodGet, "/api/stats?days=30", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, float64(30), resp["days"])
	stats := resp["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["total_tasks"])
	assert.Equal(t, float64(1), stats["total_completions"])
}

func TestHistoryClampsDays(t *testing.T) {
	s, _ := testServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/history?days=9999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(365), decode(t, w)["days"])

	w = doRequest(t, s, http.MethodGet, "/api/history?days=0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["days"])

	w = doRequest(t, s, http.MethodGet, "/api/history?days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryClassifiesDays(t *testing.T) {
	s, database := testServer(t)
	task, err := database.CreateTask("Exercise", "", "", []string{"monday", "wednesday", "friday"}, date.New(2024, time.January, 1))
	require.NoError(t, err)
	// Run of two, then nothing: Friday the 5th is a break.
	require.NoError(t, database.MarkComplete(task.ID, date.New(2024, time.January, 1)))
	require.NoError(t, database.MarkComplete(task.ID, date.New(2024, time.January, 3)))

	w := doRequest(t, s, http.MethodGet, "/api/history?days=15", nil)
	require.Equal(t, http.StatusOK, w.Code)

	history := decode(t, w)["history"].([]any)
	require.Len(t, history, 15)

	byDate := map[string]map[string]any{}
	for _, e := range history {
		entry := e.(map[string]any)
		byDate[entry["date"].(string)] = entry
	}

	broken := byDate["2024-01-05"]["streak_broken_tasks"].([]any)
	require.Len(t, broken, 1)
	assert.Equal(t, task.ID, broken[0].(map[string]any)["id"])

	missed := byDate["2024-01-08"]["missed_tasks"].([]any)
	require.Len(t, missed, 1)
	assert.Nil(t, byDate["2024-01-08"]["streak_broken_tasks"])
}
