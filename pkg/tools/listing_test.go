package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populateTree(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "venv", "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("r"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.go"), []byte("m"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "util.go"), []byte("u"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "venv", "lib", "dep.go"), []byte("d"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trace.pyc"), []byte("t"), 0o644))
}

func TestListDirectoryContentsFiltersIgnored(t *testing.T) {
	dir := t.TempDir()
	populateTree(t, dir)
	tool := NewListDirectoryTool(scopeAt(t, dir))

	result := tool.Execute(context.Background(), map[string]any{})
	require.False(t, result.IsError)

	envelope := decodeEnvelope(t, result)
	names := map[string]string{}
	for _, raw := range envelope["contents"].([]any) {
		entry := raw.(map[string]any)
		names[entry["name"].(string)] = entry["type"].(string)
	}

	assert.Equal(t, "file", names["readme.md"])
	assert.Equal(t, "directory", names["src"])
	assert.NotContains(t, names, "venv")
	assert.NotContains(t, names, "trace.pyc")
}

func TestListDirectoryContentsUnfiltered(t *testing.T) {
	dir := t.TempDir()
	populateTree(t, dir)
	tool := NewListDirectoryTool(scopeAt(t, dir))

	result := tool.Execute(context.Background(), map[string]any{"respect_gitignore": false})
	require.False(t, result.IsError)

	envelope := decodeEnvelope(t, result)
	assert.Len(t, envelope["contents"], 4)
}

func TestListDirectoryContentsEmpty(t *testing.T) {
	dir := t.TempDir()
	tool := NewListDirectoryTool(scopeAt(t, dir))

	result := tool.Execute(context.Background(), map[string]any{})
	require.False(t, result.IsError)
	assert.Equal(t, "The directory is empty.", decodeEnvelope(t, result)["message"])
}

func TestListDirectoryContentsNotADirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("x"), 0o644))
	tool := NewListDirectoryTool(scopeAt(t, dir))

	result := tool.Execute(context.Background(), map[string]any{"dir_path": "f.txt"})
	require.True(t, result.IsError)
	assert.Equal(t, "The specified path is not a directory.", decodeEnvelope(t, result)["error"])
}

func TestSearchFilesPatternAndPruning(t *testing.T) {
	dir := t.TempDir()
	populateTree(t, dir)
	tool := NewSearchFilesTool(scopeAt(t, dir))

	result := tool.Execute(context.Background(), map[string]any{"file_pattern": "*.go"})
	require.False(t, result.IsError)

	envelope := decodeEnvelope(t, result)
	found := envelope["found_files"].([]any)
	assert.ElementsMatch(t, []any{"src/main.go", "src/util.go"}, found)
}

func TestSearchFilesIgnoreDisabled(t *testing.T) {
	dir := t.TempDir()
	populateTree(t, dir)
	tool := NewSearchFilesTool(scopeAt(t, dir))

	result := tool.Execute(context.Background(), map[string]any{
		"file_pattern":      "*.go",
		"respect_gitignore": false,
	})
	require.False(t, result.IsError)

	found := decodeEnvelope(t, result)["found_files"].([]any)
	assert.Contains(t, found, "venv/lib/dep.go")
}

func TestSearchFilesNoMatches(t *testing.T) {
	dir := t.TempDir()
	populateTree(t, dir)
	tool := NewSearchFilesTool(scopeAt(t, dir))

	result := tool.Execute(context.Background(), map[string]any{"file_pattern": "*.rs"})
	require.False(t, result.IsError)
	assert.Equal(t, "No files found matching the pattern.", decodeEnvelope(t, result)["message"])
}

func TestSearchFilesBadPath(t *testing.T) {
	tool := NewSearchFilesTool(scopeAt(t, t.TempDir()))

	result := tool.Execute(context.Background(), map[string]any{"search_path": "nope"})
	require.True(t, result.IsError)
	assert.Equal(t, "Search path is not a valid directory.", decodeEnvelope(t, result)["error"])
}
