package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filewren/filewren/pkg/pathutil"
)

// initTestRepo creates a repository with one commit on master and a local
// user identity so commits made by the tools have an author.
func initTestRepo(t *testing.T) (string, *pathutil.Scope) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "tester"
	cfg.User.Email = "tester@example.com"
	require.NoError(t, repo.SetConfig(cfg))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("hello\n"), 0o644))
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add("readme.md")
	require.NoError(t, err)
	_, err = worktree.Commit("initial commit", &git.CommitOptions{})
	require.NoError(t, err)

	return dir, scopeAt(t, dir)
}

func TestGitStatusBuckets(t *testing.T) {
	dir, scope := initTestRepo(t)

	// modify a tracked file and add an untracked one
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("changed\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("n\n"), 0o644))

	result := NewGitStatusTool(scope).Execute(context.Background(), nil)
	require.False(t, result.IsError)

	envelope := decodeEnvelope(t, result)
	changes := envelope["changes"].(map[string]any)
	assert.Contains(t, changes["unstaged"], "readme.md")
	assert.Contains(t, changes["untracked"], "new.txt")
	assert.Empty(t, changes["staged"])
}

func TestGitStatusNotARepository(t *testing.T) {
	result := NewGitStatusTool(scopeAt(t, t.TempDir())).Execute(context.Background(), nil)
	require.True(t, result.IsError)
	assert.Equal(t, "Not a git repository.", decodeEnvelope(t, result)["error"])
}

func TestGitLogOneline(t *testing.T) {
	_, scope := initTestRepo(t)

	result := NewGitLogTool(scope).Execute(context.Background(), map[string]any{"max_count": 5.0})
	require.False(t, result.IsError)

	log := decodeEnvelope(t, result)["log"].([]any)
	require.Len(t, log, 1)
	assert.Contains(t, log[0], "initial commit")
}

func TestListBranchesMarksCurrent(t *testing.T) {
	_, scope := initTestRepo(t)

	result := NewListBranchesTool(scope).Execute(context.Background(), nil)
	require.False(t, result.IsError)

	branches := decodeEnvelope(t, result)["branches"].([]any)
	require.Len(t, branches, 1)
	assert.Equal(t, "* master", branches[0])
}

func TestCreateBranchAndCheckout(t *testing.T) {
	_, scope := initTestRepo(t)

	result := NewCreateBranchTool(scope).Execute(context.Background(), map[string]any{"branch_name": "feature"})
	require.False(t, result.IsError)

	// creating the same branch again fails
	result = NewCreateBranchTool(scope).Execute(context.Background(), map[string]any{"branch_name": "feature"})
	require.True(t, result.IsError)

	result = NewCheckoutTool(scope).Execute(context.Background(), map[string]any{"branch": "feature"})
	require.False(t, result.IsError)

	branches := decodeEnvelope(t, NewListBranchesTool(scope).Execute(context.Background(), nil))["branches"].([]any)
	assert.Contains(t, branches, "* feature")
	assert.Contains(t, branches, "master")
}

func TestCheckoutCreateNewBranch(t *testing.T) {
	_, scope := initTestRepo(t)

	result := NewCheckoutTool(scope).Execute(context.Background(), map[string]any{
		"branch":            "experiment",
		"create_new_branch": true,
	})
	require.False(t, result.IsError)
	assert.Contains(t, decodeEnvelope(t, result)["message"], "experiment")
}

func TestCheckoutUnknownBranchFails(t *testing.T) {
	_, scope := initTestRepo(t)

	result := NewCheckoutTool(scope).Execute(context.Background(), map[string]any{"branch": "nope"})
	assert.True(t, result.IsError)
}

func TestCommitAllChanges(t *testing.T) {
	dir, scope := initTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("edited\n"), 0o644))

	result := NewCommitTool(scope).Execute(context.Background(), map[string]any{
		"message":     "edit readme",
		"all_changes": true,
	})
	require.False(t, result.IsError)

	log := decodeEnvelope(t, NewGitLogTool(scope).Execute(context.Background(), nil))["log"].([]any)
	require.Len(t, log, 2)
	assert.Contains(t, log[0], "edit readme")
}

func TestCommitRequiresMessage(t *testing.T) {
	_, scope := initTestRepo(t)

	result := NewCommitTool(scope).Execute(context.Background(), map[string]any{})
	assert.True(t, result.IsError)
}
