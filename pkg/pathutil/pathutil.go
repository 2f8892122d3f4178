// Package pathutil resolves user-supplied paths against a session scope and
// answers whether the result stays inside the permitted base directory.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scope carries the directories a session may resolve paths against: an
// optional focus directory (set once at startup from the CLI) and the
// process working directory. Tools receive the scope by injection; there is
// no process-global state.
type Scope struct {
	focus   string
	workDir string
}

// NewScope builds a scope rooted at the process working directory. focus may
// be empty; when non-empty it must be an absolute path to an existing
// directory.
func NewScope(focus string) (*Scope, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	if focus != "" {
		abs, err := filepath.Abs(focus)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve focus path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("focus path is not accessible: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("focus path is not a directory: %s", abs)
		}
		focus = abs
	}

	return &Scope{focus: focus, workDir: workDir}, nil
}

// Focus returns the focus directory, or "" when the session is unfocused.
func (s *Scope) Focus() string {
	return s.focus
}

// Resolve turns path into an absolute path against the scope's base
// directory and reports whether the result is contained in that base.
//
// The base is the focus directory when useFocus is true and a focus is set,
// otherwise the working directory. Absolute inputs are cleaned but not
// re-based; containment is still checked, so an absolute path outside the
// base yields within=false. Callers must reject the operation when within is
// false instead of touching the filesystem.
func (s *Scope) Resolve(path string, useFocus bool) (resolved, base string, within bool) {
	base = s.Base(useFocus)

	if filepath.IsAbs(path) {
		resolved = filepath.Clean(path)
	} else {
		resolved = filepath.Clean(filepath.Join(base, path))
	}

	return resolved, base, isWithin(resolved, base)
}

// Base returns the directory relative paths resolve against.
func (s *Scope) Base(useFocus bool) string {
	if useFocus && s.focus != "" {
		return s.focus
	}
	return s.workDir
}

// Rel converts an absolute path back to a base-relative one for display.
// The input is returned unchanged when it cannot be made relative.
func (s *Scope) Rel(abs string, useFocus bool) string {
	rel, err := filepath.Rel(s.Base(useFocus), abs)
	if err != nil {
		return abs
	}
	return rel
}

// isWithin is a segment-correct containment check: candidate is inside base
// iff the relative path from base to candidate does not escape. A plain
// prefix test would accept /data2 as inside /data; this does not.
func isWithin(candidate, base string) bool {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(candidate))
	return err == nil && filepath.IsLocal(rel)
}
