// Package scenario defines the spintorture workloads: short, repeatable
// concurrency storms that hammer one cell invariant each and fail loudly
// when it breaks.
//
// Every workload is expressed as a Scenario with a Run function. Run spawns
// cfg.Goroutines workers, drives cfg.Iterations rounds, and returns a
// Report of what happened. An invariant breach surfaces as a non-nil error
// carrying the first violation; the Report still describes the work done up
// to that point.
package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"
)

// Config sizes a scenario run.
type Config struct {
	// Goroutines is the worker count. Minimum 2; storms need company.
	Goroutines int

	// Iterations is the number of rounds. What one round means is up to
	// the scenario: a fresh racing cell, or a batch of transitions on a
	// shared one.
	Iterations int
}

// DefaultConfig is what the CLI uses when no flags are given.
var DefaultConfig = Config{
	Goroutines: 8,
	Iterations: 2000,
}

// validate rejects configs that cannot exercise anything.
func (c Config) validate() error {
	if c.Goroutines < 2 {
		return fmt.Errorf("config: %d goroutines cannot race (need at least 2)", c.Goroutines)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("config: %d iterations", c.Iterations)
	}
	return nil
}

// Report summarizes one scenario run.
type Report struct {
	Name       string
	Goroutines int
	Iterations int
	Elapsed    time.Duration

	// InitRuns counts initializer executions across the whole run.
	InitRuns int64

	// Wins counts transitions that published a value.
	Wins int64

	// Rejected counts TryInit calls that observed already-initialized.
	Rejected int64

	// Reads counts value reads that completed.
	Reads int64
}

// String renders the report in the CLI's two-column layout.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario:   %s\n", r.Name)
	fmt.Fprintf(&b, "goroutines: %d\n", r.Goroutines)
	fmt.Fprintf(&b, "iterations: %d\n", r.Iterations)
	fmt.Fprintf(&b, "elapsed:    %s\n", r.Elapsed.Round(time.Microsecond))
	fmt.Fprintf(&b, "init runs:  %d\n", r.InitRuns)
	fmt.Fprintf(&b, "wins:       %d\n", r.Wins)
	fmt.Fprintf(&b, "rejected:   %d\n", r.Rejected)
	fmt.Fprintf(&b, "reads:      %d", r.Reads)
	return b.String()
}

// Scenario is one named workload.
type Scenario struct {
	// Name is the CLI handle, e.g. "tryinit-race".
	Name string

	// Desc is a one-line description for the list command.
	Desc string

	// Run executes the workload. It honors ctx cancellation between
	// rounds and returns an error describing the first invariant breach,
	// if any.
	Run func(ctx context.Context, cfg Config) (*Report, error)
}

// all is the scenario registry, populated in workloads.go.
var all = []*Scenario{
	tryInitRace,
	lazyGet,
	forceReinit,
	readStorm,
}

// Lookup returns the scenario registered under name.
func Lookup(name string) (*Scenario, bool) {
	for _, s := range all {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Names returns the registered scenario names, sorted.
func Names() []string {
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// Describe returns "name: desc" lines for the list command, sorted by name.
func Describe() []string {
	lines := make([]string, 0, len(all))
	for _, name := range Names() {
		s, _ := Lookup(name)
		lines = append(lines, fmt.Sprintf("%-14s %s", s.Name, s.Desc))
	}
	return lines
}

// counter is an atomic counter padded to a full cache line, so the
// per-worker counters in a storm do not false-share with their neighbors.
type counter struct {
	n atomic.Int64
	_ cpu.CacheLinePad
}

// sum folds a slice of padded counters.
func sum(counters []counter) int64 {
	var total int64
	for i := range counters {
		total += counters[i].n.Load()
	}
	return total
}
