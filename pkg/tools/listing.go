package tools

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/filewren/filewren/pkg/ignore"
	"github.com/filewren/filewren/pkg/pathutil"
)

type ListDirectoryTool struct {
	scope *pathutil.Scope
}

func NewListDirectoryTool(scope *pathutil.Scope) *ListDirectoryTool {
	return &ListDirectoryTool{scope: scope}
}

func (t *ListDirectoryTool) Name() string {
	return "list_directory_contents"
}

func (t *ListDirectoryTool) Description() string {
	return "Lists the files and subdirectories within a specified directory path, filtering out gitignored entries by default."
}

func (t *ListDirectoryTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dir_path": map[string]any{
				"type":        "string",
				"description": "The path to the directory to inspect. Defaults to '.' if not specified.",
			},
			"respect_gitignore": map[string]any{
				"type":        "boolean",
				"description": "Whether to filter out entries matching .gitignore patterns. Default is true.",
				"default":     true,
			},
			"use_focus_path": useFocusPathParam(),
		},
		"required": []string{},
	}
}

func (t *ListDirectoryTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	if v, present := args["dir_path"]; present {
		if _, isString := v.(string); !isString {
			return invalidType("dir_path", v)
		}
	}
	dirPath := stringArgDefault(args, "dir_path", ".")
	respectGitignore := boolArgDefault(args, "respect_gitignore", true)
	useFocus := boolArgDefault(args, "use_focus_path", true)

	resolved, errResult := resolveChecked(t.scope, dirPath, useFocus, "path")
	if errResult != nil {
		return errResult
	}

	entries, errResult := readDirChecked(resolved, dirPath)
	if errResult != nil {
		return errResult
	}

	var patterns []string
	if respectGitignore {
		patterns = ignore.LoadPatterns(t.scope.Base(useFocus))
	}

	contents := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		entryPath := filepath.Join(resolved, entry.Name())
		if respectGitignore && ignore.IsIgnored(entryPath, entry.IsDir(), patterns) {
			continue
		}
		entryType := "file"
		if entry.IsDir() {
			entryType = "directory"
		}
		contents = append(contents, map[string]any{
			"name": entry.Name(),
			"type": entryType,
		})
	}

	if len(contents) == 0 {
		return SuccessResult(jsonEnvelope(map[string]any{
			"path":     dirPath,
			"contents": []map[string]any{},
			"message":  "The directory is empty.",
		}))
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"path":     dirPath,
		"contents": contents,
		"status":   "success",
	}))
}

func readDirChecked(resolved, displayPath string) ([]fs.DirEntry, *ToolResult) {
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, errorEnvelope("Directory not found.", map[string]any{"path": resolved})
	}
	if !info.IsDir() {
		return nil, errorEnvelope("The specified path is not a directory.", map[string]any{"path": resolved})
	}
	entries, err := os.ReadDir(resolved)
	if err != nil {
		return nil, errorEnvelope(err.Error(), map[string]any{"path": displayPath})
	}
	return entries, nil
}

type SearchFilesTool struct {
	scope *pathutil.Scope
}

func NewSearchFilesTool(scope *pathutil.Scope) *SearchFilesTool {
	return &SearchFilesTool{scope: scope}
}

func (t *SearchFilesTool) Name() string {
	return "search_files"
}

func (t *SearchFilesTool) Description() string {
	return "Searches for files matching a specific pattern within a given directory and its subdirectories."
}

func (t *SearchFilesTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"search_path": map[string]any{
				"type":        "string",
				"description": "The directory path to start the search from. Defaults to '.' if not specified.",
			},
			"file_pattern": map[string]any{
				"type":        "string",
				"description": "The file pattern to search for (e.g., '*.txt', 'report_*.docx', '*'). Defaults to '*' (all files) if not specified.",
			},
			"respect_gitignore": map[string]any{
				"type":        "boolean",
				"description": "Whether to respect .gitignore patterns and filter out ignored files and directories. Default is true.",
				"default":     true,
			},
			"use_focus_path": useFocusPathParam(),
		},
		"required": []string{},
	}
}

func (t *SearchFilesTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	if v, present := args["search_path"]; present {
		if _, isString := v.(string); !isString {
			return invalidType("search_path", v)
		}
	}
	searchPath := stringArgDefault(args, "search_path", ".")
	filePattern := stringArgDefault(args, "file_pattern", "*")
	respectGitignore := boolArgDefault(args, "respect_gitignore", true)
	useFocus := boolArgDefault(args, "use_focus_path", true)

	resolved, errResult := resolveChecked(t.scope, searchPath, useFocus, "search_path")
	if errResult != nil {
		return errResult
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return errorEnvelope("Search path is not a valid directory.", map[string]any{
			"search_path": resolved,
		})
	}

	var patterns []string
	if respectGitignore {
		patterns = ignore.LoadPatterns(t.scope.Base(useFocus))
	}

	var found []string
	walkErr := filepath.WalkDir(resolved, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if respectGitignore && p != resolved && ignore.IsIgnored(p, d.IsDir(), patterns) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if matched, _ := path.Match(filePattern, d.Name()); matched {
			rel, relErr := filepath.Rel(resolved, p)
			if relErr != nil {
				return nil
			}
			found = append(found, filepath.ToSlash(filepath.Join(searchPath, rel)))
		}
		return nil
	})
	if walkErr != nil {
		return errorEnvelope(walkErr.Error(), map[string]any{
			"search_path":  searchPath,
			"file_pattern": filePattern,
		})
	}

	if len(found) == 0 {
		return SuccessResult(jsonEnvelope(map[string]any{
			"search_path":  searchPath,
			"file_pattern": filePattern,
			"found_files":  []string{},
			"message":      "No files found matching the pattern.",
		}))
	}

	return SuccessResult(jsonEnvelope(map[string]any{
		"search_path":  searchPath,
		"file_pattern": filePattern,
		"found_files":  found,
		"status":       "success",
	}))
}
