// Package ignore loads gitignore-style patterns and matches paths against
// them. It implements the subset of gitignore syntax the listing and search
// tools need: name matches, globs, directory-only patterns, and path-suffix
// matches. Negation and anchoring are not supported.
package ignore

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/filewren/filewren/pkg/logger"
)

// DefaultPatterns is used when the base directory has no .gitignore, or when
// the file cannot be read.
func DefaultPatterns() []string {
	return []string{
		"venv/",
		"__pycache__/",
		"*.pyc",
		"*.pyo",
		".git/",
		"*.egg-info/",
		"*.egg",
		"dist/",
		"build/",
		".env",
	}
}

// forced patterns are appended even when a .gitignore exists but omits them.
var forced = []string{"venv/", ".git/"}

// LoadPatterns reads <baseDir>/.gitignore and returns its non-comment lines.
// A missing or unreadable file falls back to DefaultPatterns. The result is
// never empty.
func LoadPatterns(baseDir string) []string {
	gitignorePath := filepath.Join(baseDir, ".gitignore")

	file, err := os.Open(gitignorePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WarnCF("ignore", "Failed to read .gitignore, using defaults", map[string]any{
				"path":  gitignorePath,
				"error": err.Error(),
			})
		}
		return DefaultPatterns()
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		logger.WarnCF("ignore", "Error while scanning .gitignore, using defaults", map[string]any{
			"path":  gitignorePath,
			"error": err.Error(),
		})
		return DefaultPatterns()
	}

	for _, f := range forced {
		if !containsPattern(patterns, f) {
			patterns = append(patterns, f)
		}
	}
	return patterns
}

func containsPattern(patterns []string, pattern string) bool {
	bare := strings.TrimSuffix(pattern, "/")
	for _, p := range patterns {
		if p == pattern || p == bare {
			return true
		}
	}
	return false
}

// IsIgnored reports whether p matches any of the patterns. isDir tells the
// matcher whether p names a directory; directory-only patterns (trailing
// slash) never match plain files, except by exact name equality.
func IsIgnored(p string, isDir bool, patterns []string) bool {
	name := filepath.Base(p)

	for _, pattern := range patterns {
		dirOnly := strings.HasSuffix(pattern, "/")
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			continue
		}

		if pattern == name {
			return true
		}
		if dirOnly && !isDir {
			continue
		}
		if matched, _ := path.Match(pattern, name); matched {
			return true
		}
		if matchesSuffix(p, pattern) {
			return true
		}
	}
	return false
}

// matchesSuffix checks the pattern against every trailing sub-path of p, so
// "docs/build" ignores both "docs/build" and "x/docs/build".
func matchesSuffix(p, pattern string) bool {
	parts := strings.Split(filepath.ToSlash(p), "/")
	for i := range parts {
		subpath := strings.Join(parts[i:], "/")
		if matched, _ := path.Match(pattern, subpath); matched {
			return true
		}
	}
	return false
}
