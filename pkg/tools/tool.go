// Package tools implements the function-calling tool set exposed to the
// model: file operations, directory listing and search, diff preview, and
// git helpers. Every tool returns a JSON envelope in ForLLM; ForUser, when
// set, carries a human-oriented rendering for the terminal.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON-schema object describing the tool's
	// arguments, in the shape the function-calling API expects.
	Parameters() map[string]any
	Execute(ctx context.Context, args map[string]any) *ToolResult
}

// ToolResult separates what the model sees (ForLLM, always a JSON envelope)
// from what the user sees (ForUser, optional terminal output).
type ToolResult struct {
	ForLLM  string
	ForUser string
	IsError bool
	Err     error
}

func SuccessResult(forLLM string) *ToolResult {
	return &ToolResult{ForLLM: forLLM}
}

func UserFacingResult(forLLM, forUser string) *ToolResult {
	return &ToolResult{ForLLM: forLLM, ForUser: forUser}
}

func ErrorResult(forLLM string) *ToolResult {
	return &ToolResult{ForLLM: forLLM, IsError: true}
}

func (r *ToolResult) WithError(err error) *ToolResult {
	r.Err = err
	return r
}

// jsonEnvelope marshals the fields of a tool result envelope. Marshal
// failures cannot normally happen with map[string]any of plain values; the
// fallback keeps the contract that ForLLM is always valid JSON.
func jsonEnvelope(fields map[string]any) string {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Sprintf(`{"error":%q,"status":"error"}`, "failed to encode tool result: "+err.Error())
	}
	return string(data)
}

// errorEnvelope builds the standard error envelope with extra context keys.
func errorEnvelope(message string, extra map[string]any) *ToolResult {
	fields := map[string]any{
		"error":  message,
		"status": "error",
	}
	for k, v := range extra {
		fields[k] = v
	}
	return ErrorResult(jsonEnvelope(fields)).WithError(fmt.Errorf("%s", message))
}

// stringArg fetches a required string argument.
func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok
}

// stringArgDefault fetches an optional string argument.
func stringArgDefault(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return def
}

// boolArgDefault fetches an optional boolean argument.
func boolArgDefault(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// intArgDefault fetches an optional integer argument. JSON numbers decode as
// float64, so both forms are accepted.
func intArgDefault(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// invalidType is the envelope for a wrongly-typed path argument.
func invalidType(key string, received any) *ToolResult {
	return errorEnvelope(fmt.Sprintf("Invalid %s type, must be a string.", key), map[string]any{
		"path_received": fmt.Sprintf("%v", received),
	})
}
