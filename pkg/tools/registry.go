package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/filewren/filewren/pkg/logger"
	"github.com/filewren/filewren/pkg/pathutil"
	"github.com/filewren/filewren/pkg/providers"
)

type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute runs a registered tool. A panicking tool is converted into an
// error result; a single misbehaving tool must never take down the session.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (result *ToolResult) {
	tool, ok := r.Get(name)
	if !ok {
		logger.ErrorCF("tool", "Tool not found", map[string]any{"tool": name})
		return errorEnvelope(fmt.Sprintf("Function '%s' not found by the client application.", name), nil)
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorCF("tool", "Tool panicked", map[string]any{
				"tool":  name,
				"panic": fmt.Sprintf("%v", rec),
			})
			result = errorEnvelope(fmt.Sprintf("Tool '%s' failed: %v", name, rec), nil)
		}
	}()

	logger.InfoCF("tool", "Tool execution started", map[string]any{
		"tool": name,
		"args": args,
	})

	start := time.Now()
	result = tool.Execute(ctx, args)
	duration := time.Since(start)

	if result.IsError {
		logger.ErrorCF("tool", "Tool execution failed", map[string]any{
			"tool":        name,
			"duration_ms": duration.Milliseconds(),
			"error":       result.ForLLM,
		})
	} else {
		logger.InfoCF("tool", "Tool execution completed", map[string]any{
			"tool":          name,
			"duration_ms":   duration.Milliseconds(),
			"result_length": len(result.ForLLM),
		})
	}

	return result
}

// sortedNames returns tool names in sorted order so the definition list sent
// to the model is deterministic across calls.
func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames()
}

// ToProviderDefs converts the registered tools into the wire-format
// definition list.
func (r *Registry) ToProviderDefs() []providers.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := r.sortedNames()
	definitions := make([]providers.ToolDefinition, 0, len(sorted))
	for _, name := range sorted {
		tool := r.tools[name]
		definitions = append(definitions, providers.ToolDefinition{
			Type: "function",
			Function: providers.ToolFunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			},
		})
	}
	return definitions
}

// Summaries returns name/description pairs for the startup banner.
func (r *Registry) Summaries() [][2]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := r.sortedNames()
	out := make([][2]string, 0, len(sorted))
	for _, name := range sorted {
		out = append(out, [2]string{name, r.tools[name].Description()})
	}
	return out
}

// Factory builds one tool against the session scope. Factories are the
// compile-time tool inventory; Discover runs them all at startup.
type Factory func(scope *pathutil.Scope) (Tool, error)

// Discover populates the registry from the given factories. A factory that
// fails or panics is skipped with a warning; tool discovery is never fatal.
func (r *Registry) Discover(scope *pathutil.Scope, factories []Factory) {
	for _, factory := range factories {
		tool, err := runFactory(factory, scope)
		if err != nil {
			logger.WarnCF("tool", "Skipping tool factory", map[string]any{"error": err.Error()})
			continue
		}
		r.Register(tool)
	}
}

func runFactory(factory Factory, scope *pathutil.Scope) (tool Tool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool factory panicked: %v", rec)
		}
	}()
	tool, err = factory(scope)
	if err == nil && tool == nil {
		err = fmt.Errorf("tool factory returned nil tool")
	}
	return tool, err
}

// DefaultFactories is the built-in tool inventory.
func DefaultFactories() []Factory {
	return []Factory{
		func(s *pathutil.Scope) (Tool, error) { return NewReadFileTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewWriteFileTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewCreateEmptyFileTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewCreateDirectoryTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewDeleteFileTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewDeleteDirectoryTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewMoveFilesTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewListDirectoryTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewSearchFilesTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewDiffTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewGitStatusTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewGitLogTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewListBranchesTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewCreateBranchTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewCheckoutTool(s), nil },
		func(s *pathutil.Scope) (Tool, error) { return NewCommitTool(s), nil },
	}
}
