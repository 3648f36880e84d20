package chat

import (
	"encoding/json"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/podscribe-team/podscribe/internal/domain/entities"
)

func assistantText(text string) entities.ConversationMessage {
	return entities.ConversationMessage{
		Role:    entities.RoleAssistant,
		Content: []entities.ContentBlock{entities.TextBlock(text)},
	}
}

func assistantToolUse(ids ...string) entities.ConversationMessage {
	msg := entities.ConversationMessage{Role: entities.RoleAssistant}
	for _, id := range ids {
		msg.Content = append(msg.Content, entities.ContentBlock{
			Type:  entities.BlockTypeToolUse,
			ID:    id,
			Name:  toolSearchTranscript,
			Input: json.RawMessage(`{"query":"topic"}`),
		})
	}
	return msg
}

func userToolResults(ids ...string) entities.ConversationMessage {
	msg := entities.ConversationMessage{Role: entities.RoleUser}
	for _, id := range ids {
		msg.Content = append(msg.Content, entities.ToolResultBlock(id, "excerpt"))
	}
	return msg
}

func TestSanitizeWellFormedLogUntouched(t *testing.T) {
	history := []entities.ConversationMessage{
		entities.UserTextMessage("what was said about testing?"),
		assistantToolUse("tu_1"),
		userToolResults("tu_1"),
		assistantText("They covered table tests."),
	}

	got := Sanitize(history, zap.NewNop())
	if !reflect.DeepEqual(got, history) {
		t.Errorf("well-formed history was modified:\n got %+v\nwant %+v", got, history)
	}
}

func TestSanitizeRemovesTrailingOrphanToolUse(t *testing.T) {
	history := []entities.ConversationMessage{
		entities.UserTextMessage("search for quotes"),
		assistantToolUse("tu_9"),
	}

	got := Sanitize(history, zap.NewNop())
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Role != entities.RoleUser {
		t.Errorf("remaining message role = %q, want user", got[0].Role)
	}
}

func TestSanitizeRemovesOrphanToolResults(t *testing.T) {
	// Results whose issuing assistant message was lost
	history := []entities.ConversationMessage{
		entities.UserTextMessage("hello"),
		assistantText("hi"),
		userToolResults("tu_missing"),
	}

	got := Sanitize(history, zap.NewNop())
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestSanitizeRemovesCascadingOrphans(t *testing.T) {
	// An orphan results message followed by an orphan tool_use message:
	// trimming one exposes the next
	history := []entities.ConversationMessage{
		entities.UserTextMessage("hello"),
		assistantText("hi"),
		userToolResults("tu_a"),
		assistantToolUse("tu_b"),
	}

	got := Sanitize(history, zap.NewNop())
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2, got %+v", len(got), got)
	}
	if got[1].Role != entities.RoleAssistant || got[1].HasToolUse() {
		t.Errorf("unexpected tail after sanitize: %+v", got[1])
	}
}

func TestSanitizePreservesTrailingCompletedPair(t *testing.T) {
	history := []entities.ConversationMessage{
		entities.UserTextMessage("look this up"),
		assistantToolUse("tu_1", "tu_2"),
		userToolResults("tu_1", "tu_2"),
	}

	got := Sanitize(history, zap.NewNop())
	if len(got) != 3 {
		t.Fatalf("completed pair was trimmed: len = %d, want 3", len(got))
	}
}

func TestSanitizeTrimsPairWithMismatchedResultIDs(t *testing.T) {
	history := []entities.ConversationMessage{
		entities.UserTextMessage("look this up"),
		assistantToolUse("tu_1"),
		userToolResults("tu_other"),
	}

	got := Sanitize(history, zap.NewNop())
	// The mismatched results go, then the now-orphaned tool_use goes too
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1, got %+v", len(got), got)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	history := []entities.ConversationMessage{
		entities.UserTextMessage("search for quotes"),
		assistantToolUse("tu_9"),
		userToolResults("tu_9"),
		assistantToolUse("tu_10"),
	}

	once := Sanitize(history, zap.NewNop())
	twice := Sanitize(once, zap.NewNop())
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("sanitize is not idempotent:\n once %+v\ntwice %+v", once, twice)
	}
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	history := []entities.ConversationMessage{
		entities.UserTextMessage("hi"),
		assistantToolUse("tu_1"),
	}
	before := len(history)

	_ = Sanitize(history, zap.NewNop())
	if len(history) != before {
		t.Errorf("input history mutated: len %d, want %d", len(history), before)
	}
}

func TestSanitizeEmptyHistory(t *testing.T) {
	got := Sanitize(nil, zap.NewNop())
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
