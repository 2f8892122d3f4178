package tools

import (
	"context"
	"os"

	"github.com/filewren/filewren/pkg/diff"
	"github.com/filewren/filewren/pkg/logger"
	"github.com/filewren/filewren/pkg/pathutil"
)

// DiffTool previews proposed file changes without touching the disk. The
// model receives the plain unified diff; the user sees the colorized form.
type DiffTool struct {
	scope *pathutil.Scope
}

func NewDiffTool(scope *pathutil.Scope) *DiffTool {
	return &DiffTool{scope: scope}
}

func (t *DiffTool) Name() string {
	return "get_diff_for_proposed_changes"
}

func (t *DiffTool) Description() string {
	return "Compares proposed new content for a file with its current content on disk and returns a unified diff. This helps visualize changes before they are written. A missing file diffs against empty content."
}

func (t *DiffTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "The relative path to the file being changed or created.",
			},
			"proposed_new_content": map[string]any{
				"type":        "string",
				"description": "The full proposed new content for the file.",
			},
			"use_focus_path": useFocusPathParam(),
		},
		"required": []string{"file_path", "proposed_new_content"},
	}
}

func (t *DiffTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	filePath, ok := stringArg(args, "file_path")
	if !ok {
		return invalidType("file_path", args["file_path"])
	}
	proposed, ok := stringArg(args, "proposed_new_content")
	if !ok {
		return errorEnvelope("Invalid proposed_new_content type, must be a string.", map[string]any{
			"file_path": filePath,
		})
	}
	useFocus := boolArgDefault(args, "use_focus_path", true)

	resolved, errResult := resolveChecked(t.scope, filePath, useFocus, "file_path")
	if errResult != nil {
		return errResult
	}

	var original string
	if data, err := os.ReadFile(resolved); err == nil {
		original = string(data)
	} else if !os.IsNotExist(err) {
		// unreadable original diffs as a brand-new file
		logger.WarnCF("tool", "Could not read original file for diff", map[string]any{
			"path":  resolved,
			"error": err.Error(),
		})
	}

	unified, err := diff.Unified(original, proposed)
	if err != nil {
		return errorEnvelope(err.Error(), map[string]any{"file_path": filePath})
	}

	if unified == "" {
		return SuccessResult(jsonEnvelope(map[string]any{
			"file_path":     filePath,
			"resolved_path": resolved,
			"diff":          "No changes proposed or file does not exist.",
			"status":        "no_change",
		}))
	}

	return UserFacingResult(jsonEnvelope(map[string]any{
		"file_path":     filePath,
		"resolved_path": resolved,
		"diff":          unified,
		"status":        "success",
	}), diff.Colorize(unified))
}
