// Package chat implements the tool-augmented conversation engine: a bounded
// multi-round exchange with the language model in which tool calls are
// executed locally and their results fed back until the model produces a
// plain text answer.
package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/podscribe-team/podscribe/internal/domain/entities"
	"github.com/podscribe-team/podscribe/pkg/ai"
)

// MaxToolRounds bounds how many tool-use rounds a single user turn may
// trigger before the loop is forcibly terminated
const MaxToolRounds = 5

const maxResponseTokens = 1500

// fallbackResponse is returned when the model produced only tool calls and
// no text; the surface cannot deliver an empty message
const fallbackResponse = "I processed your request but couldn't generate a text response. Please try rephrasing your question."

// ModelClient is the language model collaborator
type ModelClient interface {
	CreateMessage(ctx context.Context, req ai.MessageRequest) (*ai.MessageResponse, error)
}

// Engine runs conversations about a transcript
type Engine struct {
	model  ModelClient
	logger *zap.Logger
}

// NewEngine creates a conversation engine
func NewEngine(model ModelClient, logger *zap.Logger) *Engine {
	return &Engine{model: model, logger: logger}
}

// Result is the outcome of one user turn
type Result struct {
	// ResponseText is never empty
	ResponseText string
	// History is the full updated message log, ready to persist
	History []entities.ConversationMessage
	// UpdatedInsights carries the payload of the last update_insights tool
	// call in this turn, nil when the tool did not fire. The caller applies
	// it to the stored session.
	UpdatedInsights *string
}

// Converse sends the user message to the model and loops on tool calls until
// the model answers in text or the round budget runs out. The incoming
// history is sanitized first; the assistant's raw block list is appended to
// the log before any tool results, so every tool_use has a log entry ahead
// of its tool_result.
func (e *Engine) Converse(
	ctx context.Context,
	title, insights, transcript string,
	history []entities.ConversationMessage,
	userMessage string,
) (*Result, error) {
	messages := Sanitize(history, e.logger)
	messages = append(messages, entities.UserTextMessage(userMessage))

	system := systemPrompt(title, insights)
	tools := chatTools()

	var textParts []string
	var updatedInsights *string

	for round := 0; round <= MaxToolRounds; round++ {
		resp, err := e.model.CreateMessage(ctx, ai.MessageRequest{
			MaxTokens: maxResponseTokens,
			System:    system,
			Messages:  messages,
			Tools:     tools,
		})
		if err != nil {
			return nil, fmt.Errorf("model call failed: %w", err)
		}

		var toolResults []entities.ContentBlock
		for _, block := range resp.Content {
			switch block.Type {
			case entities.BlockTypeText:
				if block.Text != "" {
					textParts = append(textParts, block.Text)
				}
			case entities.BlockTypeToolUse:
				result, newInsights := executeTool(block.Name, block.Input, transcript)
				if newInsights != nil {
					updatedInsights = newInsights
				}
				toolResults = append(toolResults, entities.ToolResultBlock(block.ID, result))
			case entities.BlockTypeToolResult:
				// The model never emits tool_result blocks; skip if it does
			default:
				if e.logger != nil {
					e.logger.Warn("unexpected content block type from model",
						zap.String("type", block.Type))
				}
			}
		}

		// Record the assistant turn unconditionally, even when it holds only
		// tool calls, so the log invariant holds before results are appended
		messages = append(messages, entities.ConversationMessage{
			Role:    entities.RoleAssistant,
			Content: resp.Content,
		})

		if len(toolResults) == 0 {
			break
		}

		messages = append(messages, entities.ConversationMessage{
			Role:    entities.RoleUser,
			Content: toolResults,
		})
		if e.logger != nil {
			e.logger.Debug("tool use round complete", zap.Int("round", round+1))
		}
	}

	responseText := strings.TrimSpace(strings.Join(textParts, "\n"))
	if responseText == "" {
		if e.logger != nil {
			e.logger.Warn("model returned no text, substituting fallback response")
		}
		responseText = fallbackResponse
	}

	return &Result{
		ResponseText:    responseText,
		History:         messages,
		UpdatedInsights: updatedInsights,
	}, nil
}
