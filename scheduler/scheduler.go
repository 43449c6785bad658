package scheduler

import (
	"context"
	"log"
	"time"
)

// Runner is the orchestrator entry point the scheduler fires.
type Runner interface {
	RunAnalysis() bool
}

// Scheduler triggers a fresh analysis on a fixed wall-clock interval.
// Overlap is prevented by the runner's own single-flight guard, so no
// backoff or jitter is needed.
type Scheduler struct {
	runner   Runner
	interval time.Duration
}

// New creates a scheduler firing every interval.
func New(runner Runner, interval time.Duration) *Scheduler {
	return &Scheduler{runner: runner, interval: interval}
}

// Start launches the ticker loop on its own goroutine. It runs until the
// context is cancelled and never blocks request handling.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		log.Printf("scheduler started, analysis runs every %s", s.interval)

		for {
			select {
			case <-ctx.Done():
				log.Println("scheduler stopped")
				return
			case <-ticker.C:
				log.Println("scheduled analysis triggered")
				s.runner.RunAnalysis()
			}
		}
	}()
}
