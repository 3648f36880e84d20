package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/podscribe-team/podscribe/errors"
	"github.com/podscribe-team/podscribe/internal/adapter/repository"
	"github.com/podscribe-team/podscribe/internal/domain/entities"
	"github.com/podscribe-team/podscribe/internal/usecase/chat"
)

const noInsightsPlaceholder = "No insights generated yet."

// Chat handles the conversational endpoints
type Chat struct {
	sessions *repository.SessionRepository
	engine   *chat.Engine
	locks    *UserLocks
	userID   string
	logger   *zap.Logger
}

func NewChat(sessions *repository.SessionRepository, engine *chat.Engine, locks *UserLocks, userID string, logger *zap.Logger) *Chat {
	return &Chat{
		sessions: sessions,
		engine:   engine,
		locks:    locks,
		userID:   userID,
		logger:   logger,
	}
}

type chatStateResponse struct {
	State        string `json:"state"`
	PodcastTitle string `json:"podcast_title,omitempty"`
	Turns        int    `json:"turns"`
}

// Enter switches the session into chat mode. Requires a loaded transcript.
func (h *Chat) Enter(c echo.Context) error {
	session := h.sessions.Load(h.userID)
	if session.TranscriptText == "" {
		return HandleError(h.logger, c, apperrors.ErrNoTranscript())
	}

	session.State = entities.StateChatting
	if err := h.sessions.Save(session); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, chatStateResponse{
		State:        string(session.State),
		PodcastTitle: session.PodcastTitle,
		Turns:        len(session.ConversationHistory),
	})
}

// Exit leaves chat mode, keeping the conversation history for a later return
func (h *Chat) Exit(c echo.Context) error {
	session := h.sessions.Load(h.userID)
	session.ExitChat()
	if err := h.sessions.Save(session); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, chatStateResponse{
		State:        string(session.State),
		PodcastTitle: session.PodcastTitle,
		Turns:        len(session.ConversationHistory),
	})
}

type chatMessageRequest struct {
	Message string `json:"message" validate:"required,min=1"`
}

type chatMessageResponse struct {
	Response        string `json:"response"`
	Turns           int    `json:"turns"`
	InsightsUpdated bool   `json:"insights_updated"`
}

// Message runs one user turn through the tool-call loop
func (h *Chat) Message(c echo.Context) error {
	var req chatMessageRequest
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

	title := session.PodcastTitle
	if title == "" {
		title = "Unknown"
	}
	insights := session.Insights
	if insights == "" {
		insights = noInsightsPlaceholder
	}

	result, err := h.engine.Converse(
		c.Request().Context(),
		title, insights, session.TranscriptText,
		session.ConversationHistory,
		req.Message,
	)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrModelCallFailed(err))
	}

	session.ConversationHistory = result.History
	session.State = entities.StateChatting
	if result.UpdatedInsights != nil {
		session.Insights = *result.UpdatedInsights
	}
	if err := h.sessions.Save(session); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, chatMessageResponse{
		Response:        result.ResponseText,
		Turns:           len(session.ConversationHistory),
		InsightsUpdated: result.UpdatedInsights != nil,
	})
}
