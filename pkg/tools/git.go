package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/filewren/filewren/pkg/pathutil"
)

// openRepo opens the repository rooted at the session base directory.
func openRepo(scope *pathutil.Scope) (*git.Repository, *ToolResult) {
	repo, err := git.PlainOpenWithOptions(scope.Base(true), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errorEnvelope("Not a git repository.", nil)
	}
	return repo, nil
}

func emptyParams() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

type GitStatusTool struct {
	scope *pathutil.Scope
}

func NewGitStatusTool(scope *pathutil.Scope) *GitStatusTool {
	return &GitStatusTool{scope: scope}
}

func (t *GitStatusTool) Name() string {
	return "git_status"
}

func (t *GitStatusTool) Description() string {
	return "Retrieves the Git repository status: staged, unstaged and untracked files."
}

func (t *GitStatusTool) Parameters() map[string]any {
	return emptyParams()
}

func (t *GitStatusTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	repo, errResult := openRepo(t.scope)
	if errResult != nil {
		return errResult
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return errorEnvelope(err.Error(), nil)
	}
	status, err := worktree.Status()
	if err != nil {
		return errorEnvelope(err.Error(), nil)
	}

	staged := []string{}
	unstaged := []string{}
	untracked := []string{}
	for path, fileStatus := range status {
		if fileStatus.Worktree == git.Untracked {
			untracked = append(untracked, path)
			continue
		}
		if fileStatus.Staging != git.Unmodified {
			staged = append(staged, path)
		}
		if fileStatus.Worktree != git.Unmodified {
			unstaged = append(unstaged, path)
		}
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"status": "success",
		"changes": map[string]any{
			"staged":    staged,
			"unstaged":  unstaged,
			"untracked": untracked,
		},
	}))
}

type GitLogTool struct {
	scope *pathutil.Scope
}

func NewGitLogTool(scope *pathutil.Scope) *GitLogTool {
	return &GitLogTool{scope: scope}
}

func (t *GitLogTool) Name() string {
	return "git_log"
}

func (t *GitLogTool) Description() string {
	return "Retrieves the Git commit log as oneline entries, newest first."
}

func (t *GitLogTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"max_count": map[string]any{
				"type":        "integer",
				"description": "The maximum number of log entries to return. Default is 10.",
			},
		},
	}
}

func (t *GitLogTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	maxCount := intArgDefault(args, "max_count", 10)
	if maxCount < 1 {
		maxCount = 10
	}

	repo, errResult := openRepo(t.scope)
	if errResult != nil {
		return errResult
	}

	iter, err := repo.Log(&git.LogOptions{})
	if err != nil {
		return errorEnvelope(err.Error(), nil)
	}
	defer iter.Close()

	entries := []string{}
	err = iter.ForEach(func(c *object.Commit) error {
		entries = append(entries, fmt.Sprintf("%s %s", c.Hash.String()[:8], commitSummary(c)))
		if len(entries) >= maxCount {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return errorEnvelope(err.Error(), nil)
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"status": "success",
		"log":    entries,
	}))
}

// commitSummary is the first line of the commit message.
func commitSummary(c *object.Commit) string {
	summary, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSpace(summary)
}

type ListBranchesTool struct {
	scope *pathutil.Scope
}

func NewListBranchesTool(scope *pathutil.Scope) *ListBranchesTool {
	return &ListBranchesTool{scope: scope}
}

func (t *ListBranchesTool) Name() string {
	return "list_branches"
}

func (t *ListBranchesTool) Description() string {
	return "Lists existing Git branches. The current branch is marked with an asterisk."
}

func (t *ListBranchesTool) Parameters() map[string]any {
	return emptyParams()
}

func (t *ListBranchesTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	repo, errResult := openRepo(t.scope)
	if errResult != nil {
		return errResult
	}

	var current string
	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		current = head.Name().Short()
	}

	iter, err := repo.Branches()
	if err != nil {
		return errorEnvelope(err.Error(), nil)
	}
	defer iter.Close()

	branches := []string{}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if name == current {
			name = "* " + name
		}
		branches = append(branches, name)
		return nil
	})
	if err != nil {
		return errorEnvelope(err.Error(), nil)
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"status":   "success",
		"branches": branches,
	}))
}

type CreateBranchTool struct {
	scope *pathutil.Scope
}

func NewCreateBranchTool(scope *pathutil.Scope) *CreateBranchTool {
	return &CreateBranchTool{scope: scope}
}

func (t *CreateBranchTool) Name() string {
	return "create_branch"
}

func (t *CreateBranchTool) Description() string {
	return "Creates a new Git branch at the current HEAD without switching to it."
}

func (t *CreateBranchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"branch_name": map[string]any{
				"type":        "string",
				"description": "The name of the branch to create.",
			},
		},
		"required": []string{"branch_name"},
	}
}

func (t *CreateBranchTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	branchName, ok := stringArg(args, "branch_name")
	if !ok || branchName == "" {
		return errorEnvelope("Invalid branch_name, must be a non-empty string.", nil)
	}

	repo, errResult := openRepo(t.scope)
	if errResult != nil {
		return errResult
	}

	head, err := repo.Head()
	if err != nil {
		return errorEnvelope(err.Error(), nil)
	}

	refName := plumbing.NewBranchReferenceName(branchName)
	if _, err := repo.Reference(refName, false); err == nil {
		return errorEnvelope(fmt.Sprintf("Branch '%s' already exists.", branchName), nil)
	}

	ref := plumbing.NewHashReference(refName, head.Hash())
	if err := repo.Storer.SetReference(ref); err != nil {
		return errorEnvelope(err.Error(), nil)
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("Branch '%s' created at %s.", branchName, head.Hash().String()[:8]),
	}))
}

type CheckoutTool struct {
	scope *pathutil.Scope
}

func NewCheckoutTool(scope *pathutil.Scope) *CheckoutTool {
	return &CheckoutTool{scope: scope}
}

func (t *CheckoutTool) Name() string {
	return "checkout"
}

func (t *CheckoutTool) Description() string {
	return "Switches the working tree to an existing branch, or creates and switches to a new one."
}

func (t *CheckoutTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"branch": map[string]any{
				"type":        "string",
				"description": "The name of the branch to switch to.",
			},
			"create_new_branch": map[string]any{
				"type":        "boolean",
				"description": "Whether to create the branch before switching. Default is false.",
				"default":     false,
			},
		},
		"required": []string{"branch"},
	}
}

func (t *CheckoutTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	branch, ok := stringArg(args, "branch")
	if !ok || branch == "" {
		return errorEnvelope("Invalid branch, must be a non-empty string.", nil)
	}
	createNew := boolArgDefault(args, "create_new_branch", false)

	repo, errResult := openRepo(t.scope)
	if errResult != nil {
		return errResult
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return errorEnvelope(err.Error(), nil)
	}

	err = worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: createNew,
	})
	if err != nil {
		return errorEnvelope(err.Error(), nil)
	}

	message := fmt.Sprintf("Switched to branch '%s'.", branch)
	if createNew {
		message = fmt.Sprintf("Created and switched to branch '%s'.", branch)
	}
	return SuccessResult(jsonEnvelope(map[string]any{
		"status":  "success",
		"message": message,
	}))
}

type CommitTool struct {
	scope *pathutil.Scope
}

func NewCommitTool(scope *pathutil.Scope) *CommitTool {
	return &CommitTool{scope: scope}
}

func (t *CommitTool) Name() string {
	return "commit"
}

func (t *CommitTool) Description() string {
	return "Records staged changes as a new commit. With all_changes, modified and deleted tracked files are staged first."
}

func (t *CommitTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "The commit message.",
			},
			"all_changes": map[string]any{
				"type":        "boolean",
				"description": "Whether to stage all modified and deleted tracked files before committing. Default is false.",
				"default":     false,
			},
		},
		"required": []string{"message"},
	}
}

func (t *CommitTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	message, ok := stringArg(args, "message")
	if !ok || message == "" {
		return errorEnvelope("Invalid message, must be a non-empty string.", nil)
	}
	allChanges := boolArgDefault(args, "all_changes", false)

	repo, errResult := openRepo(t.scope)
	if errResult != nil {
		return errResult
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return errorEnvelope(err.Error(), nil)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{All: allChanges})
	if err != nil {
		return errorEnvelope(err.Error(), nil)
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("Committed as %s.", hash.String()[:8]),
		"commit":  hash.String(),
	}))
}
