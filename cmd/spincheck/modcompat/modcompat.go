// Package modcompat verifies that the module under analysis depends on a
// spincell version this checker was built to understand.
//
// The analyzer reasons about the cell API purely by name and signature, so
// a module pinning a newer spincell than the checker may use methods the
// checker has no rules for, and its silence would be misleading. The
// preflight turns that into an explicit warning instead.
package modcompat

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"

	"github.com/kolkov/spincell/cell"
)

// LibraryPath is the module path whose requirement is checked.
const LibraryPath = "github.com/kolkov/spincell"

// checkerVersion is the spincell release the analyzer's rules track.
var checkerVersion = "v" + cell.Version

// Report describes the outcome of a compatibility check.
type Report struct {
	// GoModPath is the go.mod that was inspected.
	GoModPath string

	// Required is the spincell version the module requires, or empty if
	// spincell is not a dependency.
	Required string

	// Compatible is false when the required version is one the checker's
	// rules may not cover.
	Compatible bool

	// Reason explains the verdict in one line.
	Reason string
}

// Check locates the enclosing go.mod starting from startDir and reports
// whether its spincell requirement is covered by this checker. Major-suffixed
// paths (spincell/v2 and up) count as requirements of the library.
//
// A module with no go.mod or no spincell requirement is compatible: there is
// nothing to be wrong about. A parse failure is an error, not a verdict.
func Check(startDir string) (*Report, error) {
	path := findGoMod(startDir)
	if path == "" {
		return &Report{
			Compatible: true,
			Reason:     "no go.mod found; nothing to check",
		}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	mf, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	required := ""
	for _, req := range mf.Require {
		prefix, _, ok := module.SplitPathVersion(req.Mod.Path)
		if ok && prefix == LibraryPath {
			required = req.Mod.Version
			break
		}
	}
	if required == "" {
		return &Report{
			GoModPath:  path,
			Compatible: true,
			Reason:     "module does not require " + LibraryPath,
		}, nil
	}

	return verdict(path, required), nil
}

// verdict compares a required version against the checker's.
func verdict(goModPath, required string) *Report {
	r := &Report{GoModPath: goModPath, Required: required}

	switch {
	case !semver.IsValid(required):
		// Pseudo-versions and valid semver pass IsValid; only a mangled
		// requirement lands here.
		r.Compatible = false
		r.Reason = fmt.Sprintf("unparseable %s version %q", LibraryPath, required)

	case semver.Major(required) != semver.Major(checkerVersion):
		r.Compatible = false
		r.Reason = fmt.Sprintf("module requires %s %s, checker tracks %s: different major versions",
			LibraryPath, required, checkerVersion)

	case semver.Compare(required, checkerVersion) > 0:
		// The module's spincell is newer than the rules; the API may have
		// grown methods the checker does not know.
		r.Compatible = false
		r.Reason = fmt.Sprintf("module requires %s %s, newer than the checker's %s",
			LibraryPath, required, checkerVersion)

	default:
		r.Compatible = true
		r.Reason = fmt.Sprintf("requirement %s is covered by checker %s", required, checkerVersion)
	}

	return r
}

// findGoMod walks up from startDir looking for a go.mod file. It returns the
// file path, or empty if the filesystem root is reached without finding one.
func findGoMod(startDir string) string {
	dir := startDir
	for {
		path := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
