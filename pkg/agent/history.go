package agent

import (
	"github.com/filewren/filewren/pkg/logger"
	"github.com/filewren/filewren/pkg/providers"
)

// Prune reduces the history sent to the model to the system prompt plus the
// last maxItems messages. Lists already within the window are returned as-is;
// the authoritative in-memory history is never modified.
func Prune(messages []providers.Message, maxItems int) []providers.Message {
	if len(messages) <= maxItems+1 {
		return messages
	}

	pruned := make([]providers.Message, 0, maxItems+1)
	pruned = append(pruned, messages[0])
	pruned = append(pruned, messages[len(messages)-maxItems:]...)

	logger.InfoCF("agent", "Context pruning applied", map[string]any{
		"from": len(messages),
		"to":   len(pruned),
	})
	return pruned
}
