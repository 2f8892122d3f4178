// Package convstore persists conversation snapshots as JSON files under a
// conversations directory in the session base, so a session can be resumed
// later with its full message history.
package convstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/filewren/filewren/pkg/logger"
	"github.com/filewren/filewren/pkg/pathutil"
	"github.com/filewren/filewren/pkg/providers"
)

const conversationsDir = "conversations"

// Metadata records when and with which model a snapshot was taken.
type Metadata struct {
	Timestamp string `json:"timestamp"`
	Model     string `json:"model"`
}

// Snapshot is the on-disk envelope. Load also accepts a legacy format that
// is a bare JSON array of messages.
type Snapshot struct {
	Metadata Metadata            `json:"metadata"`
	Messages []providers.Message `json:"messages"`
}

type Store struct {
	scope *pathutil.Scope
	model string
}

func NewStore(scope *pathutil.Scope, model string) *Store {
	return &Store{scope: scope, model: model}
}

// dir returns the conversations directory for the session base, creating it
// on demand.
func (s *Store) dir() (string, error) {
	path := filepath.Join(s.scope.Base(true), conversationsDir)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create conversations directory: %w", err)
	}
	return path, nil
}

// Save writes the messages to <base>/conversations/<name>.json. An empty
// name derives a timestamped one; a timestamp collision appends a short
// unique suffix instead of overwriting the earlier snapshot.
func (s *Store) Save(messages []providers.Message, name string) (string, error) {
	dir, err := s.dir()
	if err != nil {
		return "", err
	}

	if name == "" {
		name = "conversation_" + time.Now().Format("20060102_150405")
	}
	name = strings.TrimSuffix(name, ".json")

	filePath := filepath.Join(dir, name+".json")
	if _, err := os.Stat(filePath); err == nil {
		suffix := uuid.NewString()[:8]
		filePath = filepath.Join(dir, fmt.Sprintf("%s_%s.json", name, suffix))
	}

	snapshot := Snapshot{
		Metadata: Metadata{
			Timestamp: time.Now().Format(time.RFC3339),
			Model:     s.model,
		},
		Messages: messages,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode conversation: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write conversation: %w", err)
	}

	logger.InfoCF("convstore", "Conversation saved", map[string]any{
		"path":     filePath,
		"messages": len(messages),
	})
	return filePath, nil
}

// Load reads a snapshot by name, trying the conversations directory first
// and falling back to the session base for files saved elsewhere.
func (s *Store) Load(name string) ([]providers.Message, *Metadata, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}

	filePath := filepath.Join(s.scope.Base(true), conversationsDir, name)
	if _, err := os.Stat(filePath); err != nil {
		alt := filepath.Join(s.scope.Base(true), name)
		if _, altErr := os.Stat(alt); altErr != nil {
			return nil, nil, fmt.Errorf("conversation file not found: %s", filePath)
		}
		filePath = alt
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read conversation: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err == nil && len(snapshot.Messages) > 0 {
		logger.InfoCF("convstore", "Conversation loaded", map[string]any{
			"path":     filePath,
			"messages": len(snapshot.Messages),
		})
		return snapshot.Messages, &snapshot.Metadata, nil
	}

	// legacy format: a bare array of messages
	var messages []providers.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, nil, fmt.Errorf("failed to decode conversation: %w", err)
	}
	logger.InfoCF("convstore", "Conversation loaded (legacy format)", map[string]any{
		"path":     filePath,
		"messages": len(messages),
	})
	return messages, nil, nil
}

// List returns the saved snapshot names, without the .json extension.
func (s *Store) List() ([]string, error) {
	dir := filepath.Join(s.scope.Base(true), conversationsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return names, nil
}
