package handler

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/podscribe-team/podscribe/errors"
	"github.com/podscribe-team/podscribe/internal/adapter/repository"
	"github.com/podscribe-team/podscribe/internal/domain/entities"
	"github.com/podscribe-team/podscribe/internal/infrastructure/external/tracker"
	"github.com/podscribe-team/podscribe/internal/usecase/insights"
)

// Insights handles insight generation and tracker upload
type Insights struct {
	sessions *repository.SessionRepository
	service  *insights.Service
	tracker  *tracker.Client
	locks    *UserLocks
	userID   string
	logger   *zap.Logger
}

func NewInsights(
	sessions *repository.SessionRepository,
	service *insights.Service,
	trackerClient *tracker.Client,
	locks *UserLocks,
	userID string,
	logger *zap.Logger,
) *Insights {
	return &Insights{
		sessions: sessions,
		service:  service,
		tracker:  trackerClient,
		locks:    locks,
		userID:   userID,
		logger:   logger,
	}
}

type insightsResponse struct {
	Insights string `json:"insights"`
}

// Generate produces structured insights from the loaded transcript
func (h *Insights) Generate(c echo.Context) error {
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

	text, err := h.service.Generate(c.Request().Context(), title, session.TranscriptText)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInsightsFailed(err))
	}

	session.Insights = text
	if session.State != entities.StateChatting {
		session.State = entities.StateHasInsights
	}
	if err := h.sessions.Save(session); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, insightsResponse{Insights: text})
}

// Get returns stored insights
func (h *Insights) Get(c echo.Context) error {
	session := h.sessions.Load(h.userID)
	if session.Insights == "" {
		return HandleError(h.logger, c, apperrors.ErrNotFound("Insights"))
	}
	return HandleSuccess(h.logger, c, insightsResponse{Insights: session.Insights})
}

type uploadRequest struct {
	// Text overrides the stored insights as the uploaded body when set
	Text string `json:"text,omitempty"`
}

// Upload pushes the insight document (plus collected notes) to the tracker
func (h *Insights) Upload(c echo.Context) error {
	if !h.tracker.Configured() {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("Tracker integration is not configured"))
	}

	var req uploadRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}

	release, ok := h.locks.TryAcquire(h.userID)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrSessionBusy())
	}
	defer release()

	session := h.sessions.Load(h.userID)

	body := req.Text
	if body == "" {
		body = session.Insights
	}
	if body == "" {
		return HandleError(h.logger, c, apperrors.ErrNotFound("Insights"))
	}

	if len(session.Notes) > 0 {
		var sb strings.Builder
		sb.WriteString(body)
		sb.WriteString("\n\n## My Notes\n")
		for _, note := range session.Notes {
			sb.WriteString("- ")
			sb.WriteString(note)
			sb.WriteString("\n")
		}
		body = strings.TrimRight(sb.String(), "\n")
	}

	title := session.PodcastTitle
	if title == "" {
		title = "Unknown"
	}

	entry := tracker.Entry{
		Title:   title,
		Date:    time.Now().Format("2006-01-02"),
		Insight: body,
		Link:    session.PodcastURL,
	}
	resp, err := h.tracker.CreateEntry(c.Request().Context(), entry)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrTrackerUploadFailed(err))
	}

	// Keep the combined document so a later chat sees the notes too
	session.Insights = body
	if err := h.sessions.Save(session); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, resp)
}
