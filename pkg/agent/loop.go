// Package agent drives the conversation: it sends the history to the
// provider, executes requested tool calls, and feeds results back until the
// model produces a final text answer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/filewren/filewren/pkg/config"
	"github.com/filewren/filewren/pkg/convstore"
	"github.com/filewren/filewren/pkg/logger"
	"github.com/filewren/filewren/pkg/pathutil"
	"github.com/filewren/filewren/pkg/providers"
	"github.com/filewren/filewren/pkg/tools"
)

const emptyContentNotice = "(LLM provided no further text content for this turn)"

var (
	assistantLabel = color.New(color.FgCyan, color.Bold)
	noticeColor    = color.New(color.FgYellow)
)

type Agent struct {
	cfg      *config.Config
	provider providers.LLMProvider
	registry *tools.Registry
	scope    *pathutil.Scope
	store    *convstore.Store
	messages []providers.Message
	out      io.Writer

	// OnWait, when set, is called before each provider request and returns
	// a function that stops the progress indicator.
	OnWait func(label string) func()
}

func New(cfg *config.Config, provider providers.LLMProvider, registry *tools.Registry, scope *pathutil.Scope, store *convstore.Store, out io.Writer) *Agent {
	if out == nil {
		out = os.Stdout
	}
	return &Agent{
		cfg:      cfg,
		provider: provider,
		registry: registry,
		scope:    scope,
		store:    store,
		messages: []providers.Message{{Role: providers.RoleSystem, Content: systemPrompt(scope.Focus())}},
		out:      out,
	}
}

// History returns the authoritative message list.
func (a *Agent) History() []providers.Message {
	return a.messages
}

// Clear resets the conversation to just the system prompt.
func (a *Agent) Clear() {
	a.messages = a.messages[:1]
}

// Save persists the conversation under the given name (or a generated one
// when name is empty) and returns the file path.
func (a *Agent) Save(name string) (string, error) {
	return a.store.Save(a.messages, name)
}

// Load replaces the conversation with a previously saved one. A legacy
// snapshot without a leading system message gets the current system prompt
// prepended.
func (a *Agent) Load(name string) error {
	messages, _, err := a.store.Load(name)
	if err != nil {
		return err
	}
	if len(messages) == 0 || messages[0].Role != providers.RoleSystem {
		messages = append([]providers.Message{a.messages[0]}, messages...)
	}
	a.messages = messages
	return nil
}

// ProcessTurn runs one user turn to completion, executing tool-call rounds
// until the model answers with text or the round cap is hit. A provider or
// response failure rolls back the pending user message so the turn can be
// retried, and returns the error.
func (a *Agent) ProcessTurn(ctx context.Context, userInput string) error {
	a.messages = append(a.messages, providers.Message{
		Role:    providers.RoleUser,
		Content: userInput,
	})

	for round := 0; ; round++ {
		response, err := a.chat(ctx)
		if err != nil {
			a.rollbackPendingUser()
			logger.ErrorCF("agent", "Provider request failed", map[string]any{"error": err.Error()})
			return err
		}

		a.messages = append(a.messages, providers.Message{
			Role:      providers.RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		if len(response.ToolCalls) == 0 {
			a.printAssistant(response.Content)
			return nil
		}

		if round >= a.cfg.MaxToolIterations {
			// the pending calls still need tool responses to keep the
			// history well-formed for the next turn
			for _, call := range response.ToolCalls {
				a.messages = append(a.messages, toolMessage(call, jsonError("Maximum tool rounds exceeded for this turn.")))
			}
			noticeColor.Fprintln(a.out, "(maximum tool rounds exceeded for this turn)")
			logger.WarnCF("agent", "Maximum tool rounds exceeded", map[string]any{
				"rounds": round,
			})
			return nil
		}

		for _, call := range response.ToolCalls {
			a.messages = append(a.messages, a.handleToolCall(ctx, call))
		}
	}
}

func (a *Agent) chat(ctx context.Context) (*providers.LLMResponse, error) {
	pruned := Prune(a.messages, a.cfg.MaxHistoryItems)

	var stop func()
	if a.OnWait != nil {
		stop = a.OnWait("Assistant is thinking...")
	}
	response, err := a.provider.Chat(ctx, pruned, a.registry.ToProviderDefs())
	if stop != nil {
		stop()
	}
	return response, err
}

// handleToolCall executes one requested call and returns the tool message
// for the history. Every failure mode produces an error envelope for this
// call only; the turn continues.
func (a *Agent) handleToolCall(ctx context.Context, call providers.ToolCall) providers.Message {
	if call.Function == nil || call.Function.Name == "" {
		return toolMessage(call, jsonError("Invalid arguments format received from LLM."))
	}
	name := call.Function.Name

	if _, ok := a.registry.Get(name); !ok {
		logger.WarnCF("agent", "Unknown function requested", map[string]any{"function": name})
		return toolMessage(call, jsonError(fmt.Sprintf("Function '%s' not found by the client application.", name)))
	}

	rawArgs := call.Function.Arguments
	if rawArgs == "" {
		rawArgs = "{}"
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		logger.WarnCF("agent", "Malformed tool arguments", map[string]any{
			"function": name,
			"error":    err.Error(),
		})
		return toolMessage(call, jsonError("Invalid arguments format received from LLM."))
	}

	result := a.registry.Execute(ctx, name, args)

	if result.ForUser != "" {
		fmt.Fprintln(a.out, result.ForUser)
	}

	content := result.ForLLM
	if content == "" {
		if result.Err != nil {
			content = jsonError(result.Err.Error())
		} else {
			content = jsonEnvelopeEmpty
		}
	}
	return toolMessage(call, content)
}

const jsonEnvelopeEmpty = `{"status":"success"}`

func toolMessage(call providers.ToolCall, content string) providers.Message {
	name := ""
	if call.Function != nil {
		name = call.Function.Name
	}
	return providers.Message{
		Role:       providers.RoleTool,
		ToolCallID: call.ID,
		Name:       name,
		Content:    content,
	}
}

func jsonError(message string) string {
	data, _ := json.Marshal(map[string]string{"error": message})
	return string(data)
}

func (a *Agent) printAssistant(content string) {
	assistantLabel.Fprintln(a.out, "\nAssistant:")
	if content != "" {
		fmt.Fprintln(a.out, content)
	} else {
		noticeColor.Fprintln(a.out, emptyContentNotice)
	}
}

// rollbackPendingUser pops the trailing user message after a failed provider
// call so a retry does not duplicate it.
func (a *Agent) rollbackPendingUser() {
	if len(a.messages) > 0 && a.messages[len(a.messages)-1].Role == providers.RoleUser {
		a.messages = a.messages[:len(a.messages)-1]
	}
}
