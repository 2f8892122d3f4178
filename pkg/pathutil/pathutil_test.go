package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScope(t *testing.T, focus string) *Scope {
	t.Helper()
	scope, err := NewScope(focus)
	require.NoError(t, err)
	return scope
}

func TestNewScopeRejectsNonDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewScope(file)
	assert.ErrorContains(t, err, "not a directory")
}

func TestNewScopeRejectsMissingDirectory(t *testing.T) {
	_, err := NewScope(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestResolveRelativeStaysInBase(t *testing.T) {
	focus := t.TempDir()
	scope := newTestScope(t, focus)

	resolved, base, within := scope.Resolve("sub/file.txt", true)
	assert.Equal(t, focus, base)
	assert.Equal(t, filepath.Join(focus, "sub", "file.txt"), resolved)
	assert.True(t, within)
}

func TestResolveParentEscape(t *testing.T) {
	focus := t.TempDir()
	scope := newTestScope(t, focus)

	resolved, base, within := scope.Resolve("../../etc/passwd", true)
	assert.Equal(t, focus, base)
	assert.False(t, within)
	assert.NotContains(t, resolved, "..")
}

func TestResolveAbsoluteOutsideBase(t *testing.T) {
	scope := newTestScope(t, t.TempDir())

	_, _, within := scope.Resolve("/etc/passwd", true)
	assert.False(t, within)
}

func TestResolveAbsoluteInsideBase(t *testing.T) {
	focus := t.TempDir()
	scope := newTestScope(t, focus)

	resolved, _, within := scope.Resolve(filepath.Join(focus, "a.txt"), true)
	assert.True(t, within)
	assert.Equal(t, filepath.Join(focus, "a.txt"), resolved)
}

func TestResolveSiblingPrefixIsNotContained(t *testing.T) {
	dir := t.TempDir()
	focus := filepath.Join(dir, "data")
	sibling := filepath.Join(dir, "data2")
	require.NoError(t, os.Mkdir(focus, 0o755))
	require.NoError(t, os.Mkdir(sibling, 0o755))

	scope := newTestScope(t, focus)
	_, _, within := scope.Resolve(filepath.Join(sibling, "x.txt"), true)
	assert.False(t, within)
}

func TestResolveWithoutFocusUsesWorkingDirectory(t *testing.T) {
	scope := newTestScope(t, "")
	workDir, err := os.Getwd()
	require.NoError(t, err)

	resolved, base, within := scope.Resolve("notes.txt", true)
	assert.Equal(t, workDir, base)
	assert.Equal(t, filepath.Join(workDir, "notes.txt"), resolved)
	assert.True(t, within)
}

func TestResolveUseFocusFalseIgnoresFocus(t *testing.T) {
	focus := t.TempDir()
	scope := newTestScope(t, focus)
	workDir, err := os.Getwd()
	require.NoError(t, err)

	_, base, _ := scope.Resolve("notes.txt", false)
	assert.Equal(t, workDir, base)
}

func TestResolveBaseItselfIsContained(t *testing.T) {
	focus := t.TempDir()
	scope := newTestScope(t, focus)

	resolved, _, within := scope.Resolve(".", true)
	assert.Equal(t, focus, resolved)
	assert.True(t, within)
}

func TestRel(t *testing.T) {
	focus := t.TempDir()
	scope := newTestScope(t, focus)

	assert.Equal(t, filepath.Join("a", "b.txt"), scope.Rel(filepath.Join(focus, "a", "b.txt"), true))
}
