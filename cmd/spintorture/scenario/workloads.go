package scenario

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kolkov/spincell/cell"
)

// ============================================================================
// tryinit-race
// ============================================================================

// tryInitRace races every worker's TryInit on a fresh cell each round and
// asserts the single-winner contract: one nil error, one initializer run,
// the winner's value published.
var tryInitRace = &Scenario{
	Name: "tryinit-race",
	Desc: "all workers race TryInit on a fresh cell; exactly one may win each round",
	Run:  runTryInitRace,
}

func runTryInitRace(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	wins := make([]counter, cfg.Goroutines)
	rejects := make([]counter, cfg.Goroutines)
	var initRuns atomic.Int64
	start := time.Now()

	rep := func() *Report {
		return &Report{
			Name:       "tryinit-race",
			Goroutines: cfg.Goroutines,
			Iterations: cfg.Iterations,
			Elapsed:    time.Since(start),
			InitRuns:   initRuns.Load(),
			Wins:       sum(wins),
			Rejected:   sum(rejects),
		}
	}

	for round := 0; round < cfg.Iterations; round++ {
		if err := ctx.Err(); err != nil {
			return rep(), err
		}

		want := uint64(round)*0x9E3779B97F4A7C15 + 1
		c := cell.Uninit[uint64]()
		var roundWins, roundRuns atomic.Int64

		var g errgroup.Group
		for w := 0; w < cfg.Goroutines; w++ {
			w := w
			g.Go(func() error {
				err := c.TryInit(func() uint64 {
					roundRuns.Add(1)
					initRuns.Add(1)
					runtime.Gosched() // Hold the door open while losers spin.
					return want
				})
				switch {
				case err == nil:
					roundWins.Add(1)
					wins[w].n.Add(1)
				case errors.Is(err, cell.ErrAlreadyInitialized):
					rejects[w].n.Add(1)
				default:
					return fmt.Errorf("round %d worker %d: TryInit: %w", round, w, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return rep(), err
		}

		if n := roundWins.Load(); n != 1 {
			return rep(), fmt.Errorf("round %d: %d winners, want exactly 1", round, n)
		}
		if n := roundRuns.Load(); n != 1 {
			return rep(), fmt.Errorf("round %d: initializer ran %d times, want exactly 1", round, n)
		}
		if got := *c.Get(); got != want {
			return rep(), fmt.Errorf("round %d: published %#x, want %#x", round, got, want)
		}
	}

	return rep(), nil
}

// ============================================================================
// lazy-get
// ============================================================================

// lazyGet stampedes every worker's first Get at a fresh lazy cell each
// round: the stored initializer must run once and everyone must read its
// result.
var lazyGet = &Scenario{
	Name: "lazy-get",
	Desc: "all workers stampede the first Get of a lazy cell; one initializer run, one value",
	Run:  runLazyGet,
}

func runLazyGet(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	reads := make([]counter, cfg.Goroutines)
	var initRuns atomic.Int64
	start := time.Now()

	rep := func() *Report {
		return &Report{
			Name:       "lazy-get",
			Goroutines: cfg.Goroutines,
			Iterations: cfg.Iterations,
			Elapsed:    time.Since(start),
			InitRuns:   initRuns.Load(),
			Wins:       initRuns.Load(), // Each lazy run is the publishing transition.
			Reads:      sum(reads),
		}
	}

	for round := 0; round < cfg.Iterations; round++ {
		if err := ctx.Err(); err != nil {
			return rep(), err
		}

		want := uint64(round)<<1 | 1
		var roundRuns atomic.Int64
		c := cell.Lazy(func() uint64 {
			roundRuns.Add(1)
			initRuns.Add(1)
			runtime.Gosched()
			return want
		})

		var g errgroup.Group
		for w := 0; w < cfg.Goroutines; w++ {
			w := w
			g.Go(func() error {
				got := *c.Get()
				reads[w].n.Add(1)
				if got != want {
					return fmt.Errorf("round %d worker %d: read %#x, want %#x", round, w, got, want)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return rep(), err
		}

		if n := roundRuns.Load(); n != 1 {
			return rep(), fmt.Errorf("round %d: initializer ran %d times, want exactly 1", round, n)
		}
	}

	return rep(), nil
}

// ============================================================================
// force-reinit
// ============================================================================

// forceReinit has every worker force distinct values into one long-lived
// cell, with no readers in flight. Transitions must serialize: every
// superseded value is finalized exactly once, the survivor never.
var forceReinit = &Scenario{
	Name: "force-reinit",
	Desc: "workers force distinct values into one cell; finalizer count must match replacements",
	Run:  runForceReinit,
}

func runForceReinit(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	wins := make([]counter, cfg.Goroutines)
	var initRuns, finals atomic.Int64
	start := time.Now()

	rep := func() *Report {
		return &Report{
			Name:       "force-reinit",
			Goroutines: cfg.Goroutines,
			Iterations: cfg.Iterations,
			Elapsed:    time.Since(start),
			InitRuns:   initRuns.Load(),
			Wins:       sum(wins),
		}
	}

	c := cell.New(uint64(0), cell.WithFinalizer[uint64](func(uint64) {
		finals.Add(1)
	}))

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Goroutines; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < cfg.Iterations; i++ {
				if i%256 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				val := uint64(w*cfg.Iterations+i) + 1
				c.ForceInit(func() uint64 {
					initRuns.Add(1)
					return val
				})
				wins[w].n.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep(), err
	}

	forced := int64(cfg.Goroutines) * int64(cfg.Iterations)
	if got := finals.Load(); got != forced {
		// Every force drops exactly one predecessor, starting with the
		// initial zero; only the last survivor goes unfinalized.
		return rep(), fmt.Errorf("finalizer ran %d times, want %d", got, forced)
	}
	if !c.Initialized() {
		return rep(), errors.New("cell uninitialized after the last transition")
	}
	if v := *c.Get(); v < 1 || v > uint64(forced) {
		return rep(), fmt.Errorf("final value %d was never forced by this run", v)
	}

	c.Close()
	if got := finals.Load(); got != forced+1 {
		return rep(), fmt.Errorf("finalizer ran %d times after Close, want %d", got, forced+1)
	}

	return rep(), nil
}

// ============================================================================
// read-storm
// ============================================================================

// readStorm pins one value and lets all but one worker read it lock-free
// while the odd one out hammers rejected TryInit calls. Readers must always
// see the value intact; the prober must never get a second initialization
// accepted.
var readStorm = &Scenario{
	Name: "read-storm",
	Desc: "lock-free readers verify value integrity while rejected TryInit calls hammer the flag",
	Run:  runReadStorm,
}

func runReadStorm(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	type pattern struct {
		a, b, sum uint64
	}

	reads := make([]counter, cfg.Goroutines)
	rejects := make([]counter, cfg.Goroutines)
	var strayRuns atomic.Int64
	start := time.Now()

	rep := func() *Report {
		return &Report{
			Name:       "read-storm",
			Goroutines: cfg.Goroutines,
			Iterations: cfg.Iterations,
			Elapsed:    time.Since(start),
			InitRuns:   strayRuns.Load(),
			Rejected:   sum(rejects),
			Reads:      sum(reads),
		}
	}

	const seedA, seedB = 0xDEADBEEFCAFEBABE, 0x0123456789ABCDEF
	c := cell.New(pattern{a: seedA, b: seedB, sum: seedA + seedB})

	g, gctx := errgroup.WithContext(ctx)

	// Worker 0 probes: every TryInit must bounce off the fast path.
	g.Go(func() error {
		for i := 0; i < cfg.Iterations; i++ {
			if i%256 == 0 {
				if err := gctx.Err(); err != nil {
					return err
				}
			}
			err := c.TryInit(func() pattern {
				strayRuns.Add(1)
				return pattern{}
			})
			if !errors.Is(err, cell.ErrAlreadyInitialized) {
				return fmt.Errorf("probe %d: TryInit = %v, want ErrAlreadyInitialized", i, err)
			}
			rejects[0].n.Add(1)
			if !c.Initialized() {
				return fmt.Errorf("probe %d: Initialized() = false on a full cell", i)
			}
		}
		return nil
	})

	for w := 1; w < cfg.Goroutines; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < cfg.Iterations; i++ {
				if i%256 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				p := *c.Get()
				if p.sum != p.a+p.b {
					return fmt.Errorf("worker %d read %d: torn value %#x/%#x/%#x", w, i, p.a, p.b, p.sum)
				}
				reads[w].n.Add(1)

				if i%64 == 0 {
					v, ok := c.Load()
					if !ok || v.sum != v.a+v.b {
						return fmt.Errorf("worker %d read %d: Load() = (%+v, %v)", w, i, v, ok)
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return rep(), err
	}
	if n := strayRuns.Load(); n != 0 {
		return rep(), fmt.Errorf("probe supplier ran %d times on an initialized cell", n)
	}

	return rep(), nil
}
