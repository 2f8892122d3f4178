package convstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filewren/filewren/pkg/pathutil"
	"github.com/filewren/filewren/pkg/providers"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	scope, err := pathutil.NewScope(dir)
	require.NoError(t, err)
	return NewStore(scope, "test/model"), dir
}

func sampleMessages() []providers.Message {
	return []providers.Message{
		{Role: providers.RoleSystem, Content: "be helpful"},
		{Role: providers.RoleUser, Content: "hi"},
		{Role: providers.RoleAssistant, Content: "hello"},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store, dir := newTestStore(t)

	path, err := store.Save(sampleMessages(), "session")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "conversations", "session.json"), path)

	messages, metadata, err := store.Load("session")
	require.NoError(t, err)
	assert.Equal(t, sampleMessages(), messages)
	require.NotNil(t, metadata)
	assert.Equal(t, "test/model", metadata.Model)
	assert.NotEmpty(t, metadata.Timestamp)
}

func TestSaveGeneratesNameWhenEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	path, err := store.Save(sampleMessages(), "")
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "conversation_")
	assert.FileExists(t, path)
}

func TestSaveDoesNotOverwriteSameName(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.Save(sampleMessages(), "dup")
	require.NoError(t, err)
	second, err := store.Save(sampleMessages(), "dup")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.FileExists(t, first)
	assert.FileExists(t, second)
}

func TestLoadLegacyBareArray(t *testing.T) {
	store, dir := newTestStore(t)

	legacy, err := json.Marshal(sampleMessages())
	require.NoError(t, err)
	convDir := filepath.Join(dir, "conversations")
	require.NoError(t, os.MkdirAll(convDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(convDir, "old.json"), legacy, 0o644))

	messages, metadata, err := store.Load("old")
	require.NoError(t, err)
	assert.Equal(t, sampleMessages(), messages)
	assert.Nil(t, metadata)
}

func TestLoadFallsBackToBaseDirectory(t *testing.T) {
	store, dir := newTestStore(t)

	data, err := json.Marshal(Snapshot{Messages: sampleMessages()})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.json"), data, 0o644))

	messages, _, err := store.Load("stray")
	require.NoError(t, err)
	assert.Len(t, messages, 3)
}

func TestLoadMissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	_, _, err := store.Load("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListSnapshots(t *testing.T) {
	store, _ := newTestStore(t)

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = store.Save(sampleMessages(), "alpha")
	require.NoError(t, err)
	_, err = store.Save(sampleMessages(), "beta")
	require.NoError(t, err)

	names, err = store.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
}
