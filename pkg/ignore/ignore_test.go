package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPatternsMissingFileUsesDefaults(t *testing.T) {
	patterns := LoadPatterns(t.TempDir())
	assert.Equal(t, DefaultPatterns(), patterns)
}

func TestLoadPatternsReadsFileAndForcesWellKnown(t *testing.T) {
	dir := t.TempDir()
	content := "# build output\nout/\n\n*.log\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644))

	patterns := LoadPatterns(dir)
	assert.Contains(t, patterns, "out/")
	assert.Contains(t, patterns, "*.log")
	assert.NotContains(t, patterns, "# build output")
	assert.Contains(t, patterns, "venv/")
	assert.Contains(t, patterns, ".git/")
}

func TestLoadPatternsDoesNotDuplicateForced(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("venv\n.git/\n"), 0o644))

	patterns := LoadPatterns(dir)
	assert.Equal(t, []string{"venv", ".git/"}, patterns)
}

func TestIsIgnoredNameMatch(t *testing.T) {
	patterns := []string{".env"}
	assert.True(t, IsIgnored("project/.env", false, patterns))
	assert.False(t, IsIgnored("project/env", false, patterns))
}

func TestIsIgnoredGlob(t *testing.T) {
	patterns := []string{"*.pyc"}
	assert.True(t, IsIgnored("pkg/module.pyc", false, patterns))
	assert.False(t, IsIgnored("pkg/module.py", false, patterns))
}

func TestIsIgnoredDirectoryPattern(t *testing.T) {
	patterns := []string{"__pycache__/"}
	assert.True(t, IsIgnored("src/__pycache__", true, patterns))
	// exact name equality matches regardless of type
	assert.True(t, IsIgnored("src/__pycache__", false, patterns))
}

func TestIsIgnoredDirectoryGlobSkipsFiles(t *testing.T) {
	patterns := []string{"*.egg-info/"}
	assert.True(t, IsIgnored("pkg/demo.egg-info", true, patterns))
	assert.False(t, IsIgnored("pkg/demo.egg-info", false, patterns))
}

func TestIsIgnoredPathSuffix(t *testing.T) {
	patterns := []string{"docs/build"}
	assert.True(t, IsIgnored("repo/docs/build", true, patterns))
	assert.False(t, IsIgnored("repo/docs/built", true, patterns))
}

func TestIsIgnoredEmptyPatterns(t *testing.T) {
	assert.False(t, IsIgnored("anything", false, nil))
}
