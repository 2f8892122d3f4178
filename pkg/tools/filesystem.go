package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/filewren/filewren/pkg/logger"
	"github.com/filewren/filewren/pkg/pathutil"
)

// resolveChecked resolves rawPath against the scope and returns an
// access-denied envelope when the result escapes the base directory. pathKey
// names the argument in the envelope so errors echo the caller's parameter.
func resolveChecked(scope *pathutil.Scope, rawPath string, useFocus bool, pathKey string) (string, *ToolResult) {
	resolved, base, within := scope.Resolve(rawPath, useFocus)
	if !within {
		logger.WarnCF("tool", "Blocked path outside base directory", map[string]any{
			"path": resolved,
			"base": base,
		})
		return "", errorEnvelope("Access denied: File path is outside the allowed directory.", map[string]any{
			pathKey:          rawPath,
			"base_directory": base,
		})
	}
	return resolved, nil
}

type ReadFileTool struct {
	scope *pathutil.Scope
}

func NewReadFileTool(scope *pathutil.Scope) *ReadFileTool {
	return &ReadFileTool{scope: scope}
}

func (t *ReadFileTool) Name() string {
	return "read_file_content"
}

func (t *ReadFileTool) Description() string {
	return "Reads and returns the content of a specified text file. File paths are relative to the current working directory or focus directory if one is set."
}

func (t *ReadFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "The relative path to the file to be read. e.g., 'document.txt' or 'folder/data.csv'",
			},
			"use_focus_path": useFocusPathParam(),
		},
		"required": []string{"file_path"},
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	filePath, ok := stringArg(args, "file_path")
	if !ok {
		return invalidType("file_path", args["file_path"])
	}
	useFocus := boolArgDefault(args, "use_focus_path", true)

	resolved, errResult := resolveChecked(t.scope, filePath, useFocus, "file_path")
	if errResult != nil {
		return errResult
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return errorEnvelope("File not found.", map[string]any{
			"file_path":     filePath,
			"resolved_path": resolved,
		})
	}
	if info.IsDir() {
		return errorEnvelope("The specified path is not a file.", map[string]any{
			"file_path": resolved,
		})
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		return errorEnvelope(err.Error(), map[string]any{"file_path": filePath})
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"file_path":     filePath,
		"resolved_path": resolved,
		"content":       string(content),
		"status":        "success",
	}))
}

type WriteFileTool struct {
	scope *pathutil.Scope
}

func NewWriteFileTool(scope *pathutil.Scope) *WriteFileTool {
	return &WriteFileTool{scope: scope}
}

func (t *WriteFileTool) Name() string {
	return "write_to_file"
}

func (t *WriteFileTool) Description() string {
	return "Writes the given string content to a specified file. If the file exists, it will be overwritten. If it does not exist, it will be created along with any missing parent directories."
}

func (t *WriteFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "The relative path to the file where content will be written. e.g., 'output.txt' or 'folder/notes.md'",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "The text content to write into the file.",
			},
			"use_focus_path": useFocusPathParam(),
		},
		"required": []string{"file_path", "content"},
	}
}

func (t *WriteFileTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	filePath, ok := stringArg(args, "file_path")
	if !ok {
		return invalidType("file_path", args["file_path"])
	}
	content, ok := stringArg(args, "content")
	if !ok {
		return errorEnvelope("Invalid content type, must be a string.", map[string]any{
			"file_path": filePath,
		})
	}
	useFocus := boolArgDefault(args, "use_focus_path", true)

	resolved, errResult := resolveChecked(t.scope, filePath, useFocus, "file_path")
	if errResult != nil {
		return errResult
	}

	if parent := filepath.Dir(resolved); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return errorEnvelope(fmt.Sprintf("Could not create parent directory: %s", err), map[string]any{
				"file_path": filePath,
			})
		}
	}

	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return errorEnvelope(err.Error(), map[string]any{"file_path": filePath})
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"file_path": filePath,
		"status":    "success",
		"message":   fmt.Sprintf("Content successfully written to %s.", resolved),
	}))
}

type CreateEmptyFileTool struct {
	scope *pathutil.Scope
}

func NewCreateEmptyFileTool(scope *pathutil.Scope) *CreateEmptyFileTool {
	return &CreateEmptyFileTool{scope: scope}
}

func (t *CreateEmptyFileTool) Name() string {
	return "create_empty_file"
}

func (t *CreateEmptyFileTool) Description() string {
	return "Creates a new empty file at the specified path. Fails if the file already exists."
}

func (t *CreateEmptyFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "The relative path of the file to create. e.g., 'notes.txt' or 'src/main.go'",
			},
			"use_focus_path": useFocusPathParam(),
		},
		"required": []string{"file_path"},
	}
}

func (t *CreateEmptyFileTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	filePath, ok := stringArg(args, "file_path")
	if !ok {
		return invalidType("file_path", args["file_path"])
	}
	useFocus := boolArgDefault(args, "use_focus_path", true)

	resolved, errResult := resolveChecked(t.scope, filePath, useFocus, "file_path")
	if errResult != nil {
		return errResult
	}

	if _, err := os.Stat(resolved); err == nil {
		return errorEnvelope("File already exists.", map[string]any{
			"file_path":     filePath,
			"resolved_path": resolved,
		})
	}

	if parent := filepath.Dir(resolved); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return errorEnvelope(fmt.Sprintf("Could not create parent directory: %s", err), map[string]any{
				"file_path": filePath,
			})
		}
	}

	file, err := os.OpenFile(resolved, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return errorEnvelope(err.Error(), map[string]any{"file_path": filePath})
	}
	file.Close()

	return SuccessResult(jsonEnvelope(map[string]any{
		"file_path": filePath,
		"status":    "success",
		"message":   fmt.Sprintf("Empty file created at %s.", resolved),
	}))
}

type CreateDirectoryTool struct {
	scope *pathutil.Scope
}

func NewCreateDirectoryTool(scope *pathutil.Scope) *CreateDirectoryTool {
	return &CreateDirectoryTool{scope: scope}
}

func (t *CreateDirectoryTool) Name() string {
	return "create_directory"
}

func (t *CreateDirectoryTool) Description() string {
	return "Creates a directory at the specified path, including any missing parent directories."
}

func (t *CreateDirectoryTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dir_path": map[string]any{
				"type":        "string",
				"description": "The relative path of the directory to create. e.g., 'build' or 'src/internal'",
			},
			"use_focus_path": useFocusPathParam(),
		},
		"required": []string{"dir_path"},
	}
}

func (t *CreateDirectoryTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	dirPath, ok := stringArg(args, "dir_path")
	if !ok {
		return invalidType("dir_path", args["dir_path"])
	}
	useFocus := boolArgDefault(args, "use_focus_path", true)

	resolved, errResult := resolveChecked(t.scope, dirPath, useFocus, "dir_path")
	if errResult != nil {
		return errResult
	}

	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return errorEnvelope(err.Error(), map[string]any{"dir_path": dirPath})
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"dir_path": dirPath,
		"status":   "success",
		"message":  fmt.Sprintf("Directory created at %s.", resolved),
	}))
}

type DeleteFileTool struct {
	scope *pathutil.Scope
}

func NewDeleteFileTool(scope *pathutil.Scope) *DeleteFileTool {
	return &DeleteFileTool{scope: scope}
}

func (t *DeleteFileTool) Name() string {
	return "delete_file"
}

func (t *DeleteFileTool) Description() string {
	return "Deletes a specified file. Directories cannot be deleted with this tool; use delete_directory instead."
}

func (t *DeleteFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "The relative path to the file to delete.",
			},
			"use_focus_path": useFocusPathParam(),
		},
		"required": []string{"file_path"},
	}
}

func (t *DeleteFileTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	filePath, ok := stringArg(args, "file_path")
	if !ok {
		return invalidType("file_path", args["file_path"])
	}
	useFocus := boolArgDefault(args, "use_focus_path", true)

	resolved, errResult := resolveChecked(t.scope, filePath, useFocus, "file_path")
	if errResult != nil {
		return errResult
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return SuccessResult(jsonEnvelope(map[string]any{
			"file_path": filePath,
			"status":    "not_found",
			"message":   fmt.Sprintf("File '%s' not found.", resolved),
		}))
	}
	if info.IsDir() {
		return errorEnvelope(fmt.Sprintf("Path '%s' is not a file.", resolved), map[string]any{
			"file_path": filePath,
		})
	}

	if err := os.Remove(resolved); err != nil {
		return errorEnvelope(err.Error(), map[string]any{"file_path": filePath})
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"file_path": filePath,
		"status":    "success",
		"message":   fmt.Sprintf("File '%s' deleted.", resolved),
	}))
}

type DeleteDirectoryTool struct {
	scope *pathutil.Scope
}

func NewDeleteDirectoryTool(scope *pathutil.Scope) *DeleteDirectoryTool {
	return &DeleteDirectoryTool{scope: scope}
}

func (t *DeleteDirectoryTool) Name() string {
	return "delete_directory"
}

func (t *DeleteDirectoryTool) Description() string {
	return "Deletes a specified directory. Non-empty directories are only removed when recursive is true."
}

func (t *DeleteDirectoryTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dir_path": map[string]any{
				"type":        "string",
				"description": "The relative path to the directory to delete.",
			},
			"recursive": map[string]any{
				"type":        "boolean",
				"description": "Whether to delete the directory and all of its contents. Default is false.",
				"default":     false,
			},
			"use_focus_path": useFocusPathParam(),
		},
		"required": []string{"dir_path"},
	}
}

func (t *DeleteDirectoryTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	dirPath, ok := stringArg(args, "dir_path")
	if !ok {
		return invalidType("dir_path", args["dir_path"])
	}
	recursive := boolArgDefault(args, "recursive", false)
	useFocus := boolArgDefault(args, "use_focus_path", true)

	resolved, errResult := resolveChecked(t.scope, dirPath, useFocus, "dir_path")
	if errResult != nil {
		return errResult
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return SuccessResult(jsonEnvelope(map[string]any{
			"dir_path": dirPath,
			"status":   "not_found",
			"message":  fmt.Sprintf("Directory '%s' not found.", resolved),
		}))
	}
	if !info.IsDir() {
		return errorEnvelope(fmt.Sprintf("Path '%s' is not a directory.", resolved), map[string]any{
			"dir_path": dirPath,
		})
	}

	if recursive {
		err = os.RemoveAll(resolved)
	} else {
		err = os.Remove(resolved)
		if err != nil {
			entries, readErr := os.ReadDir(resolved)
			if readErr == nil && len(entries) > 0 {
				return errorEnvelope("Directory is not empty. Set recursive to true to delete it with its contents.", map[string]any{
					"dir_path": dirPath,
				})
			}
		}
	}
	if err != nil {
		return errorEnvelope(err.Error(), map[string]any{"dir_path": dirPath})
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"dir_path": dirPath,
		"status":   "success",
		"message":  fmt.Sprintf("Directory '%s' deleted.", resolved),
	}))
}

type MoveFilesTool struct {
	scope *pathutil.Scope
}

func NewMoveFilesTool(scope *pathutil.Scope) *MoveFilesTool {
	return &MoveFilesTool{scope: scope}
}

func (t *MoveFilesTool) Name() string {
	return "move_files"
}

func (t *MoveFilesTool) Description() string {
	return "Moves files or directories from a source path to a destination, supporting wildcard patterns in the source."
}

func (t *MoveFilesTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source_path": map[string]any{
				"type":        "string",
				"description": "Source path with optional wildcard (*, ?, [seq]) patterns",
			},
			"destination_path": map[string]any{
				"type":        "string",
				"description": "Destination path (directory for wildcards, specific path for single file)",
			},
			"overwrite": map[string]any{
				"type":        "boolean",
				"description": "Whether to overwrite files at destination if they exist. Default is false.",
				"default":     false,
			},
			"use_focus_path": useFocusPathParam(),
		},
		"required": []string{"source_path", "destination_path"},
	}
}

func (t *MoveFilesTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	sourcePath, ok := stringArg(args, "source_path")
	if !ok {
		return invalidType("source_path", args["source_path"])
	}
	destinationPath, ok := stringArg(args, "destination_path")
	if !ok {
		return invalidType("destination_path", args["destination_path"])
	}
	overwrite := boolArgDefault(args, "overwrite", false)
	useFocus := boolArgDefault(args, "use_focus_path", true)

	resolvedSource, errResult := resolveChecked(t.scope, sourcePath, useFocus, "source_path")
	if errResult != nil {
		return errResult
	}
	resolvedDest, errResult := resolveChecked(t.scope, destinationPath, useFocus, "destination_path")
	if errResult != nil {
		return errResult
	}

	matches, err := filepath.Glob(resolvedSource)
	if err != nil {
		return errorEnvelope(fmt.Sprintf("Invalid source pattern: %s", err), map[string]any{
			"source_path": sourcePath,
		})
	}
	if len(matches) == 0 {
		return SuccessResult(jsonEnvelope(map[string]any{
			"warning": true,
			"message": fmt.Sprintf("No files found matching pattern '%s'.", resolvedSource),
		}))
	}

	destInfo, destErr := os.Stat(resolvedDest)
	destIsDir := destErr == nil && destInfo.IsDir()

	if len(matches) > 1 && !destIsDir {
		if err := os.MkdirAll(resolvedDest, 0o755); err != nil {
			return errorEnvelope(fmt.Sprintf("Cannot create destination directory '%s': %s", resolvedDest, err), nil)
		}
		destIsDir = true
	}

	results := make([]map[string]any, 0, len(matches))
	for _, itemPath := range matches {
		itemDest := resolvedDest
		if destIsDir {
			itemDest = filepath.Join(resolvedDest, filepath.Base(itemPath))
		}

		results = append(results, moveOne(itemPath, itemDest, overwrite))
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"source_path":      sourcePath,
		"destination_path": destinationPath,
		"results":          results,
		"status":           "success",
	}))
}

func moveOne(source, destination string, overwrite bool) map[string]any {
	srcInfo, err := os.Stat(source)
	if err != nil {
		return map[string]any{
			"source": source, "destination": destination,
			"status": "error", "message": fmt.Sprintf("Error moving: %s", err),
		}
	}

	if destInfo, err := os.Stat(destination); err == nil {
		if !overwrite {
			return map[string]any{
				"source": source, "destination": destination,
				"status": "skipped", "message": "Destination exists and overwrite is false.",
			}
		}
		if destInfo.IsDir() != srcInfo.IsDir() {
			return map[string]any{
				"source": source, "destination": destination,
				"status": "error", "message": "Cannot overwrite: source and destination are different types (file/directory).",
			}
		}
		if err := os.RemoveAll(destination); err != nil {
			return map[string]any{
				"source": source, "destination": destination,
				"status": "error", "message": fmt.Sprintf("Cannot replace destination: %s", err),
			}
		}
	}

	if err := os.Rename(source, destination); err != nil {
		return map[string]any{
			"source": source, "destination": destination,
			"status": "error", "message": fmt.Sprintf("Error moving: %s", err),
		}
	}

	kind := "File"
	if srcInfo.IsDir() {
		kind = "Directory"
	}
	return map[string]any{
		"source": source, "destination": destination,
		"status": "success", "message": fmt.Sprintf("%s moved successfully.", kind),
	}
}

// useFocusPathParam is the shared schema fragment for the use_focus_path flag.
func useFocusPathParam() map[string]any {
	return map[string]any{
		"type": "boolean",
		"description": "Whether to use the focus path as the base directory. " +
			"If true (default), paths are relative to the focus directory if one is set. " +
			"If false, paths are always relative to the current working directory.",
		"default": true,
	}
}
