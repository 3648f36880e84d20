// Package insights generates structured episode insights from a transcript
// with a single model call.
package insights

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/podscribe-team/podscribe/internal/domain/entities"
	"github.com/podscribe-team/podscribe/internal/usecase/chat"
	"github.com/podscribe-team/podscribe/pkg/ai"
)

// MaxTranscriptChars bounds how much transcript is sent with one request,
// leaving room for the system prompt and the response
const MaxTranscriptChars = 150_000

const maxInsightTokens = 2000

// Service produces insights markdown from transcripts
type Service struct {
	model  chat.ModelClient
	logger *zap.Logger
}

// NewService creates an insights service
func NewService(model chat.ModelClient, logger *zap.Logger) *Service {
	return &Service{model: model, logger: logger}
}

// Generate runs a one-shot insight extraction over the transcript and
// returns the insights as markdown text
func (s *Service) Generate(ctx context.Context, title, transcript string) (string, error) {
	prompt := fmt.Sprintf(insightsUserTemplate, title, truncate(transcript))

	resp, err := s.model.CreateMessage(ctx, ai.MessageRequest{
		MaxTokens: maxInsightTokens,
		System:    insightsSystemPrompt,
		Messages:  []entities.ConversationMessage{entities.UserTextMessage(prompt)},
	})
	if err != nil {
		return "", fmt.Errorf("insight generation failed: %w", err)
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == entities.BlockTypeText && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return "", fmt.Errorf("model returned no text for insights")
	}

	s.logger.Info("insights generated",
		zap.String("title", title),
		zap.Int("length", len(text)),
	)
	return text, nil
}

func truncate(transcript string) string {
	if len(transcript) <= MaxTranscriptChars {
		return transcript
	}
	return transcript[:MaxTranscriptChars] + "\n\n[Transcript truncated due to length]"
}
