package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"streaks/internal/date"
	"streaks/internal/model"
	"streaks/internal/streak"
)

const (
	maxHistoryDays = 365
	maxNameLen     = 120
)

// taskRequest is the JSON body for create and update.
type taskRequest struct {
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	Time      string   `json:"time"`
	Days      []string `json:"days"`
	CreatedOn string   `json:"created_on"`
}

func (r *taskRequest) validate() (days []string, createdOn date.Date, errMsg string) {
	if r.Name == "" {
		return nil, date.Date{}, "name is required"
	}
	if len(r.Name) > maxNameLen {
		return nil, date.Date{}, "name too long"
	}
	if err := model.ValidateDays(r.Days); err != nil {
		return nil, date.Date{}, err.Error()
	}
	if err := model.ValidateTime(r.Time); err != nil {
		return nil, date.Date{}, err.Error()
	}
	if r.CreatedOn != "" {
		d, err := date.Parse(r.CreatedOn)
		if err != nil {
			return nil, date.Date{}, "created_on must be YYYY-MM-DD"
		}
		createdOn = d
	}
	return r.Days, createdOn, ""
}

// taskUpdateRequest is the JSON body for update. Fields are pointers so an
// omitted field keeps the task's current value rather than clearing it.
type taskUpdateRequest struct {
	Name  *string   `json:"name"`
	Color *string   `json:"color"`
	Time  *string   `json:"time"`
	Days  *[]string `json:"days"`
}

// merged fills a full request from the existing task, overlaid with the
// fields actually present in the body.
func (r *taskUpdateRequest) merged(existing *model.Task) taskRequest {
	full := taskRequest{
		Name:  existing.Name,
		Color: existing.Color,
		Time:  existing.Time,
		Days:  existing.Days,
	}
	if r.Name != nil {
		full.Name = *r.Name
	}
	if r.Color != nil {
		full.Color = *r.Color
	}
	if r.Time != nil {
		full.Time = *r.Time
	}
	if r.Days != nil {
		full.Days = *r.Days
	}
	return full
}

type taskView struct {
	model.Task
	CompletedToday bool `json:"completed_today"`
}

func (s *Server) today() date.Date {
	return date.FromTime(s.now())
}

// index loads the completion index needed for streak math: everything in
// the longest-streak lookback.
func (s *Server) index(today date.Date) (*streak.Index, error) {
	w := streak.LastNDays(today, streak.LongestLookbackDays)
	byDate, err := s.db.GetCompletionsByDate(w.Start, w.End)
	if err != nil {
		return nil, err
	}
	return streak.NewIndexFromDates(byDate), nil
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.db.GetTasks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	today := s.today()
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		done, err := s.db.IsCompleted(t.ID, today)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		views = append(views, taskView{Task: t, CompletedToday: done})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"date":    today,
		"tasks":   views,
		"count":   len(views),
	})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	days, createdOn, errMsg := req.validate()
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errMsg})
		return
	}
	if createdOn.IsZero() {
		createdOn = s.today()
	}

	task, err := s.db.CreateTask(req.Name, req.Color, req.Time, days, createdOn)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"task":    task,
	})
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.db.GetTask(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id := c.Param("id")

	existing, err := s.db.GetTask(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "task not found"})
		return
	}

	var req taskUpdateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	full := req.merged(existing)
	days, _, errMsg := full.validate()
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errMsg})
		return
	}

	if err := s.db.UpdateTask(id, full.Name, full.Color, full.Time, days); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	task, err := s.db.GetTask(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.db.DeleteTask(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "task deleted"})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	id := c.Param("id")

	task, err := s.db.GetTask(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "task not found"})
		return
	}

	// Optional body: {"date": "YYYY-MM-DD"}; defaults to today.
	day := s.today()
	var body struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err == nil && body.Date != "" {
		d, err := date.Parse(body.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "date must be YYYY-MM-DD"})
			return
		}
		day = d
	}

	completed, err := s.db.ToggleCompletion(id, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"task_id":   id,
		"date":      day,
		"completed": completed,
	})
}

func (s *Server) handleTaskStats(c *gin.Context) {
	task, err := s.db.GetTask(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "task not found"})
		return
	}

	today := s.today()
	ix, err := s.index(today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task_id": task.ID,
		"date":    today,
		"stats":   streak.TaskStats(task, ix, today),
	})
}

func (s *Server) handleUserStats(c *gin.Context) {
	days, ok := s.windowDays(c)
	if !ok {
		return
	}

	tasks, err := s.db.GetTasks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	today := s.today()
	ix, err := s.index(today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"date":    today,
		"days":    days,
		"stats":   streak.UserStats(tasks, ix, today, days),
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	days, ok := s.windowDays(c)
	if !ok {
		return
	}

	tasks, err := s.db.GetTasks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	today := s.today()
	ix, err := s.index(today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	history := streak.DailyHistory(tasks, ix, streak.LastNDays(today, days))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"date":    today,
		"days":    days,
		"history": history,
	})
}

// windowDays parses the days query parameter, clamped to [1, 365] with the
// 30-day default. Writes the error response itself when parsing fails.
func (s *Server) windowDays(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("days", strconv.Itoa(streak.DefaultWindowDays))
	days, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "days must be an integer"})
		return 0, false
	}
	if days < 1 {
		days = 1
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}
	return days, true
}
