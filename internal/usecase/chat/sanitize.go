package chat

import (
	"go.uber.org/zap"

	"github.com/podscribe-team/podscribe/internal/domain/entities"
)

// Sanitize repairs a persisted conversation log whose tail was left in an
// inconsistent state by an interrupted exchange. The model API requires every
// assistant message carrying tool_use blocks to be immediately followed by a
// user message with the matching tool_result blocks; a crash between the two
// writes leaves an orphan at the end of the log. Orphans are trimmed from the
// tail until the log is well formed again.
//
// Pure over its input (the slice is copied) and idempotent: sanitizing a
// sanitized log is a no-op, and a well-formed trailing tool_use/tool_result
// pair is never removed.
func Sanitize(history []entities.ConversationMessage, logger *zap.Logger) []entities.ConversationMessage {
	clean := make([]entities.ConversationMessage, len(history))
	copy(clean, history)

	for len(clean) > 0 {
		last := clean[len(clean)-1]

		// Assistant tool calls with no recorded results
		if last.Role == entities.RoleAssistant && last.HasToolUse() {
			if logger != nil {
				logger.Warn("removing orphaned tool_use message from conversation history")
			}
			clean = clean[:len(clean)-1]
			continue
		}

		// Tool results with no preceding unresolved tool call
		if last.Role == entities.RoleUser && last.IsAllToolResults() {
			if resultsAnswerPrevious(clean) {
				// Well-formed trailing pair from a completed exchange
				break
			}
			if logger != nil {
				logger.Warn("removing orphaned tool_result message from conversation history")
			}
			clean = clean[:len(clean)-1]
			continue
		}

		break
	}
	return clean
}

// resultsAnswerPrevious reports whether the trailing all-tool-result user
// message answers tool calls issued by the message right before it
func resultsAnswerPrevious(log []entities.ConversationMessage) bool {
	if len(log) < 2 {
		return false
	}
	prev := log[len(log)-2]
	if prev.Role != entities.RoleAssistant || !prev.HasToolUse() {
		return false
	}
	issued := make(map[string]bool)
	for _, b := range prev.Content {
		if b.Type == entities.BlockTypeToolUse {
			issued[b.ID] = true
		}
	}
	for _, b := range log[len(log)-1].Content {
		if !issued[b.ToolUseID] {
			return false
		}
	}
	return true
}
