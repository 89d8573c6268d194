// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs such as scheduled
// content reloads.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/sitecontent/internal/model"
)

// parser accepts standard five-field expressions and descriptors such as
// "@hourly" or "@every 15m".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

type registeredJob struct {
	name        string
	description string
	schedule    string
	entryID     cron.EntryID
	run         func() error
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Schedule    string    `json:"schedule"`
	LastRun     time.Time `json:"last_run,omitzero"`
	NextRun     time.Time `json:"next_run,omitzero"`
}

// Scheduler handles periodic jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	mu     sync.RWMutex
	jobs   map[string]*registeredJob
}

// New creates a new scheduler instance. Overlapping runs of the same job are
// skipped and panics are recovered and logged.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
		jobs:   make(map[string]*registeredJob),
	}
}

// ValidateSchedule reports whether spec is a valid cron expression.
func ValidateSchedule(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return nil
}

// Add registers job under name. ctx is passed to every run.
func (s *Scheduler) Add(ctx context.Context, name, description, schedule string, job Job) error {
	if err := ValidateSchedule(schedule); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job already registered: %s", name)
	}

	rj := &registeredJob{
		name:        name,
		description: description,
		schedule:    schedule,
	}
	rj.run = func() error {
		start := time.Now()
		err := job(ctx)
		if err != nil {
			s.logger.Error("scheduled job failed",
				"category", model.EventCategorySystem, "job", name, "error", err)
			return err
		}
		s.logger.Debug("scheduled job finished", "job", name, "duration", time.Since(start))
		return nil
	}

	id, err := s.cron.AddFunc(schedule, func() { _ = rj.run() })
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	rj.entryID = id
	s.jobs[name] = rj

	s.logger.Debug("registered scheduled job", "name", name, "schedule", schedule)
	return nil
}

// Start begins running the registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// List returns all registered jobs sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]JobInfo, 0, len(s.jobs))
	for _, job := range s.jobs {
		entry := s.cron.Entry(job.entryID)
		result = append(result, JobInfo{
			Name:        job.name,
			Description: job.description,
			Schedule:    job.schedule,
			LastRun:     entry.Prev,
			NextRun:     entry.Next,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// TriggerNow runs a job immediately in the calling goroutine.
func (s *Scheduler) TriggerNow(name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}

	s.logger.Info("manually triggering job", "name", name)
	return job.run()
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{"category", model.EventCategorySystem, "error", err}, keysAndValues...)
	l.logger.Error("cron: "+msg, args...)
}
