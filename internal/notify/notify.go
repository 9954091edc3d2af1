// Package notify runs best-effort side effects in parallel. Individual
// failures are collected and logged but never reach the caller's response
// path: a lead is reported as captured whether or not its notification
// emails land.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Group is a join-all task group. It does not cancel siblings on failure.
type Group struct {
	logger *slog.Logger

	mu       sync.Mutex
	wg       sync.WaitGroup
	tasks    []task
	failures map[string]error
}

type task struct {
	label string
	fn    func(ctx context.Context) error
}

// NewGroup creates an empty Group.
func NewGroup(logger *slog.Logger) *Group {
	if logger == nil {
		logger = slog.Default()
	}
	return &Group{logger: logger, failures: map[string]error{}}
}

// Go registers one labeled task. Tasks run when Wait is called.
func (g *Group) Go(label string, fn func(ctx context.Context) error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tasks = append(g.tasks, task{label: label, fn: fn})
}

// Wait runs every registered task concurrently and blocks until all finish.
// Failures are logged per label and retained for inspection; Wait itself
// never returns an error.
func (g *Group) Wait(ctx context.Context) {
	g.mu.Lock()
	tasks := g.tasks
	g.tasks = nil
	g.mu.Unlock()

	for _, t := range tasks {
		t := t
		g.wg.Add(1)
		go func() {
			defer g.wg.Done()
			if err := t.fn(ctx); err != nil {
				g.mu.Lock()
				g.failures[t.label] = err
				g.mu.Unlock()
				g.logger.Error("notification dispatch failed", "task", t.label, "err", err)
			}
		}()
	}
	g.wg.Wait()
}

// Failures returns the errors collected by the last Wait, keyed by label.
func (g *Group) Failures() map[string]error {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]error, len(g.failures))
	for k, v := range g.failures {
		out[k] = v
	}
	return out
}
