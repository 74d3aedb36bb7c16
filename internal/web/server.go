// Package web exposes the task and streak API over HTTP.
package web

import (
	"time"

	"github.com/gin-gonic/gin"

	"streaks/internal/db"
)

// Server is the streaks HTTP API server.
type Server struct {
	db     *db.DB
	router *gin.Engine
	now    func() time.Time
}

// NewServer creates a new API server around an open database.
func NewServer(database *db.DB) *Server {
	router := gin.Default()

	s := &Server{
		db:     database,
		router: router,
		now:    time.Now,
	}

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/toggle", s.handleToggleTask)
		api.GET("/tasks/:id/stats", s.handleTaskStats)
		api.GET("/stats", s.handleUserStats)
		api.GET("/history", s.handleHistory)
	}

	return s
}

// SetNowFunc overrides the server's clock. Passing nil resets it to
// time.Now.
func (s *Server) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Run starts the API server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
