package entities

import "time"

// SessionState tracks how far the operator has progressed with an episode
type SessionState string

const (
	StateIdle          SessionState = "idle"
	StateHasTranscript SessionState = "has_transcript"
	StateHasInsights   SessionState = "has_insights"
	StateChatting      SessionState = "chatting"
)

// Session is the per-user working state for one episode. Persisted as a
// whole after every mutation; chat-mode membership is the State tag so it
// survives restarts.
type Session struct {
	UserID string `json:"user_id"`

	PodcastTitle    string  `json:"podcast_title,omitempty"`
	PodcastURL      string  `json:"podcast_url,omitempty"`
	PodcastDuration float64 `json:"podcast_duration,omitempty"` // seconds

	TranscriptText     string           `json:"transcript_text,omitempty"`
	TranscriptLanguage string           `json:"transcript_language,omitempty"`
	TranscriptSource   TranscriptSource `json:"transcript_source,omitempty"`

	Insights string   `json:"insights,omitempty"`
	Notes    []string `json:"notes,omitempty"`

	ConversationHistory []ConversationMessage `json:"conversation_history,omitempty"`

	State     SessionState `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewSession creates an empty session for the given user
func NewSession(userID string) *Session {
	return &Session{
		UserID:    userID,
		State:     StateIdle,
		CreatedAt: time.Now(),
	}
}

// ApplyTranscript overwrites the session with a freshly acquired transcript,
// resetting everything derived from the previous episode.
func (s *Session) ApplyTranscript(url string, r *TranscriptResult, fallbackTitle string) {
	title := r.Title
	if title == "" {
		title = fallbackTitle
	}
	s.PodcastTitle = title
	s.PodcastURL = url
	s.PodcastDuration = r.Duration
	s.TranscriptText = r.Text
	s.TranscriptLanguage = r.Language
	s.TranscriptSource = r.Source
	s.Insights = ""
	s.Notes = nil
	s.ConversationHistory = nil
	s.State = StateHasTranscript
}

// ExitChat restores the coarse state after leaving chat mode
func (s *Session) ExitChat() {
	switch {
	case s.Insights != "":
		s.State = StateHasInsights
	case s.TranscriptText != "":
		s.State = StateHasTranscript
	default:
		s.State = StateIdle
	}
}
