package entities

import "encoding/json"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types. These match the model API wire format so the same
// codec serves both persistence and transport.
const (
	BlockTypeText       = "text"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
)

// ContentBlock is a tagged variant: exactly one of the type-specific field
// sets is populated, selected by Type.
//
//	text:        Text
//	tool_use:    ID, Name, Input
//	tool_result: ToolUseID, Content
type ContentBlock struct {
	Type string `json:"type"`

	Text string `json:"text,omitempty"`

	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// TextBlock builds a text content block
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockTypeText, Text: text}
}

// ToolResultBlock builds a tool_result block answering the given tool_use id
func ToolResultBlock(toolUseID, content string) ContentBlock {
	return ContentBlock{Type: BlockTypeToolResult, ToolUseID: toolUseID, Content: content}
}

// ConversationMessage is one entry in a conversation log. Content is always
// block-form; a plain user utterance is a single text block.
type ConversationMessage struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// UserTextMessage builds a user message carrying a single text block
func UserTextMessage(text string) ConversationMessage {
	return ConversationMessage{Role: RoleUser, Content: []ContentBlock{TextBlock(text)}}
}

// HasToolUse reports whether the message contains at least one tool_use block
func (m ConversationMessage) HasToolUse() bool {
	for _, b := range m.Content {
		if b.Type == BlockTypeToolUse {
			return true
		}
	}
	return false
}

// IsAllToolResults reports whether the message is non-empty and every block
// is a tool_result
func (m ConversationMessage) IsAllToolResults() bool {
	if len(m.Content) == 0 {
		return false
	}
	for _, b := range m.Content {
		if b.Type != BlockTypeToolResult {
			return false
		}
	}
	return true
}
