// Spincheck statically flags hazardous spincell usage: reads of cells that
// cannot hold a value yet, forced reinitialization while pointers from Get
// may still be live, and nil initializers that are guaranteed to panic.
//
// Usage:
//
//	spincheck ./...
//	spincheck -json ./pkg/...
//
// It is a standard go/analysis checker, so it accepts the usual vet-style
// flags and package patterns and exits non-zero when diagnostics are found.
//
// Before analysis it compares the target module's spincell requirement
// against the version the checker tracks and prints a warning on skew; the
// warning never fails the run.
package main

import (
	"fmt"
	"os"

	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/kolkov/spincell/cmd/spincheck/check"
	"github.com/kolkov/spincell/cmd/spincheck/modcompat"
)

func main() {
	preflight()
	singlechecker.Main(check.Analyzer)
}

// preflight warns on version skew between the analyzed module's spincell and
// the checker's rules. Advisory only: analysis proceeds regardless.
func preflight() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	report, err := modcompat.Check(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spincheck: version preflight failed: %v\n", err)
		return
	}
	if !report.Compatible {
		fmt.Fprintf(os.Stderr, "spincheck: warning: %s (diagnostics may be incomplete)\n", report.Reason)
	}
}
