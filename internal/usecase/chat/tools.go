package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/podscribe-team/podscribe/pkg/ai"
)

// Tool names the engine executes locally
const (
	toolSearchTranscript = "search_transcript"
	toolUpdateInsights   = "update_insights"
)

const (
	maxSearchMatches = 3
	matchSeparator   = "\n\n---\n\n"
)

// chatTools returns the fixed two-tool declaration sent with every model call
func chatTools() []ai.Tool {
	return []ai.Tool{
		{
			Name: toolSearchTranscript,
			Description: "Search the podcast transcript for a specific topic, " +
				"keyword, or quote. Returns relevant excerpts with context.",
			InputSchema: ai.InputSchema{
				Type: "object",
				Properties: map[string]ai.Property{
					"query": {Type: "string", Description: "The search term or topic to find"},
				},
				Required: []string{"query"},
			},
		},
		{
			Name: toolUpdateInsights,
			Description: "Replace the current insights with updated content. " +
				"Use when the user wants to modify the insights.",
			InputSchema: ai.InputSchema{
				Type: "object",
				Properties: map[string]ai.Property{
					"new_insights": {Type: "string", Description: "The complete updated insights markdown"},
				},
				Required: []string{"new_insights"},
			},
		},
	}
}

// executeTool runs a tool call locally. It always produces a textual result
// so a malformed or unknown call degrades instead of breaking the round
// loop. The second return is the replacement insights when update_insights
// fired, nil otherwise.
func executeTool(name string, input json.RawMessage, transcript string) (string, *string) {
	switch name {
	case toolSearchTranscript:
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(input, &args); err != nil || args.Query == "" {
			return "Malformed search_transcript input: a 'query' string is required.", nil
		}
		return searchTranscript(transcript, args.Query), nil

	case toolUpdateInsights:
		var args struct {
			NewInsights string `json:"new_insights"`
		}
		if err := json.Unmarshal(input, &args); err != nil || args.NewInsights == "" {
			return "Malformed update_insights input: a 'new_insights' string is required.", nil
		}
		return "Insights updated successfully.", &args.NewInsights

	default:
		return fmt.Sprintf("Unknown tool: %s", name), nil
	}
}

// searchTranscript does a case-insensitive keyword search over the
// transcript, returning up to three matching excerpts with one sentence of
// context on either side
func searchTranscript(transcript, query string) string {
	queryLower := strings.ToLower(query)
	sentences := strings.Split(strings.ReplaceAll(transcript, ".\n", ". "), ". ")

	var matches []string
	for i, sentence := range sentences {
		if !strings.Contains(strings.ToLower(sentence), queryLower) {
			continue
		}
		start := i - 1
		if start < 0 {
			start = 0
		}
		end := i + 2
		if end > len(sentences) {
			end = len(sentences)
		}
		excerpt := strings.TrimSpace(strings.Join(sentences[start:end], ". "))
		if excerpt != "" && !containsString(matches, excerpt) {
			matches = append(matches, excerpt)
		}
		if len(matches) >= maxSearchMatches {
			break
		}
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No mentions of '%s' found in the transcript.", query)
	}
	return strings.Join(matches, matchSeparator)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
