package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/podscribe-team/podscribe/errors"
	"github.com/podscribe-team/podscribe/internal/adapter/repository"
	"github.com/podscribe-team/podscribe/internal/domain/entities"
)

// Session handles session status, reset and note collection
type Session struct {
	sessions *repository.SessionRepository
	locks    *UserLocks
	userID   string
	logger   *zap.Logger
}

func NewSession(sessions *repository.SessionRepository, locks *UserLocks, userID string, logger *zap.Logger) *Session {
	return &Session{
		sessions: sessions,
		locks:    locks,
		userID:   userID,
		logger:   logger,
	}
}

type sessionStatusResponse struct {
	State          string `json:"state"`
	PodcastTitle   string `json:"podcast_title,omitempty"`
	PodcastURL     string `json:"podcast_url,omitempty"`
	Source         string `json:"source,omitempty"`
	Language       string `json:"language,omitempty"`
	TranscriptSize int    `json:"transcript_chars"`
	HasInsights    bool   `json:"has_insights"`
	Notes          int    `json:"notes"`
	Turns          int    `json:"turns"`
}

// Status summarizes the session without dumping the transcript
func (h *Session) Status(c echo.Context) error {
	session := h.sessions.Load(h.userID)

	return HandleSuccess(h.logger, c, sessionStatusResponse{
		State:          string(session.State),
		PodcastTitle:   session.PodcastTitle,
		PodcastURL:     session.PodcastURL,
		Source:         string(session.TranscriptSource),
		Language:       session.TranscriptLanguage,
		TranscriptSize: len(session.TranscriptText),
		HasInsights:    session.Insights != "",
		Notes:          len(session.Notes),
		Turns:          len(session.ConversationHistory),
	})
}

// Clear wipes the stored session
func (h *Session) Clear(c echo.Context) error {
	release, ok := h.locks.TryAcquire(h.userID)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrSessionBusy())
	}
	defer release()

	if err := h.sessions.Clear(h.userID); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, map[string]string{"state": string(entities.StateIdle)})
}

type addNoteRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

// AddNote appends a personal note to the session
func (h *Session) AddNote(c echo.Context) error {
	var req addNoteRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	release, ok := h.locks.TryAcquire(h.userID)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrSessionBusy())
	}
	defer release()

	session := h.sessions.Load(h.userID)
	if session.TranscriptText == "" {
		return HandleError(h.logger, c, apperrors.ErrNoTranscript())
	}

	session.Notes = append(session.Notes, req.Text)
	if err := h.sessions.Save(session); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, map[string]int{"notes": len(session.Notes)})
}

// ListNotes returns the collected notes
func (h *Session) ListNotes(c echo.Context) error {
	session := h.sessions.Load(h.userID)
	notes := session.Notes
	if notes == nil {
		notes = []string{}
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{"notes": notes})
}
