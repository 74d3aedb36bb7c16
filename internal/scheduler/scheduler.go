// Package scheduler plans and delivers task reminders. It keeps a rolling
// seven-day window of fire times persisted in the database, so reminders
// survive restarts, and delivers the ones that come due while it runs.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"streaks/internal/date"
	"streaks/internal/model"
	"streaks/internal/notify"
)

const (
	// PlanHorizonDays is how far ahead fire times are materialized.
	PlanHorizonDays = 7

	deliverInterval = time.Minute
	replanInterval  = time.Hour
	pruneAfter      = 24 * time.Hour
)

// Store is the persistence surface the scheduler needs.
type Store interface {
	GetTasks() ([]model.Task, error)
	GetTask(id string) (*model.Task, error)
	IsCompleted(taskID string, day date.Date) (bool, error)
	ReplaceSchedule(taskID string, fireTimes []time.Time) error
	DueNotifications(now time.Time) ([]model.ScheduledNotification, error)
	MarkNotificationSent(id string) error
	PruneNotifications(cutoff time.Time) error
}

// Scheduler owns the reminder lifecycle. Create one with New, call Start
// to begin planning and delivery, Stop to shut it down.
type Scheduler struct {
	store    Store
	notifier notify.Notifier
	cfg      notify.Config

	now  func() time.Time
	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// New creates a scheduler. It does nothing until Start is called.
func New(store Store, notifier notify.Notifier, cfg notify.Config) *Scheduler {
	return &Scheduler{
		store:    store,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetNowFunc overrides the scheduler's clock. Passing nil resets it to
// time.Now.
func (s *Scheduler) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Start plans the initial schedule and launches the delivery loop.
// It is an error to start a scheduler twice without stopping it.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return fmt.Errorf("scheduler already running")
	}
	if !s.cfg.Enabled {
		return nil
	}

	if err := s.Replan(); err != nil {
		return err
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
	return nil
}

// Stop shuts down the delivery loop and waits for it to exit. Stopping a
// scheduler that never started is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (s *Scheduler) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	deliver := time.NewTicker(deliverInterval)
	defer deliver.Stop()
	replan := time.NewTicker(replanInterval)
	defer replan.Stop()

	for {
		select {
		case <-stop:
			return
		case <-deliver.C:
			s.DeliverDue()
		case <-replan.C:
			s.Replan()
			s.store.PruneNotifications(s.now().Add(-pruneAfter))
		}
	}
}

// Replan rebuilds every task's pending fire times over the plan horizon.
// Fire times already in the past are not scheduled.
func (s *Scheduler) Replan() error {
	tasks, err := s.store.GetTasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	now := s.now()
	today := date.FromTime(now)
	for i := range tasks {
		task := &tasks[i]
		fireTimes := s.planTask(task, today, now)
		if err := s.store.ReplaceSchedule(task.ID, fireTimes); err != nil {
			return fmt.Errorf("failed to schedule task %s: %w", task.ID, err)
		}
	}
	return nil
}

func (s *Scheduler) planTask(task *model.Task, today date.Date, now time.Time) []time.Time {
	hour, minute, ok := reminderClock(task.Time, s.cfg.DefaultTime)
	if !ok {
		return nil
	}

	var fireTimes []time.Time
	for offset := 0; offset < PlanHorizonDays; offset++ {
		day := today.AddDays(offset)
		if !task.DueOn(day) {
			continue
		}
		at := day.At(hour, minute, now.Location())
		if at.Before(now) {
			continue
		}
		fireTimes = append(fireTimes, at)
	}
	return fireTimes
}

// DeliverDue sends every notification whose fire time has passed. A
// reminder for a task already completed that day is swallowed but still
// marked sent.
func (s *Scheduler) DeliverDue() error {
	now := s.now()
	due, err := s.store.DueNotifications(now)
	if err != nil {
		return err
	}

	today := date.FromTime(now)
	var firstErr error
	for _, n := range due {
		if err := s.deliver(n, today); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Scheduler) deliver(n model.ScheduledNotification, today date.Date) error {
	task, err := s.store.GetTask(n.TaskID)
	if err != nil {
		return err
	}
	if task != nil {
		done, err := s.store.IsCompleted(task.ID, today)
		if err != nil {
			return err
		}
		if !done {
			s.send(task)
		}
	}
	return s.store.MarkNotificationSent(n.ID)
}

func (s *Scheduler) send(task *model.Task) {
	title := "Streaks"
	body := fmt.Sprintf("Time for: %s", task.Name)
	if s.cfg.Sound {
		s.notifier.SendWithSound(title, body)
		return
	}
	s.notifier.Send(title, body)
}

// reminderClock resolves the reminder time for a task: its own time if set,
// otherwise the configured default. Returns ok=false when neither parses.
func reminderClock(taskTime, defaultTime string) (hour, minute int, ok bool) {
	for _, candidate := range []string{taskTime, defaultTime} {
		if candidate == "" {
			continue
		}
		if t, err := time.Parse("15:04", candidate); err == nil {
			return t.Hour(), t.Minute(), true
		}
	}
	return 0, 0, false
}
