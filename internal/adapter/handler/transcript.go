package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/podscribe-team/podscribe/errors"
	"github.com/podscribe-team/podscribe/internal/adapter/repository"
	"github.com/podscribe-team/podscribe/internal/infrastructure/external/downloader"
	"github.com/podscribe-team/podscribe/internal/infrastructure/storage"
	"github.com/podscribe-team/podscribe/internal/usecase/transcript"
	"github.com/podscribe-team/podscribe/pkg/jobcontext"
)

// acquireTimeout bounds one acquisition end to end. Long episodes need the
// headroom for download plus speech transcription.
const acquireTimeout = 45 * time.Minute

const defaultSearchLimit = 5

// Searcher finds candidate episodes for a free-text query
type Searcher interface {
	Search(ctx context.Context, query string, max int) ([]downloader.SearchResult, error)
}

// Transcript handles acquisition endpoints
type Transcript struct {
	sessions  *repository.SessionRepository
	service   *transcript.Service
	searcher  Searcher
	jobs      *JobTracker
	locks     *UserLocks
	archive   *storage.ArchiveClient // nil when archiving is disabled
	threshold float64
	userID    string
	logger    *zap.Logger
}

func NewTranscript(
	sessions *repository.SessionRepository,
	service *transcript.Service,
	searcher Searcher,
	jobs *JobTracker,
	locks *UserLocks,
	archive *storage.ArchiveClient,
	threshold float64,
	userID string,
	logger *zap.Logger,
) *Transcript {
	return &Transcript{
		sessions:  sessions,
		service:   service,
		searcher:  searcher,
		jobs:      jobs,
		locks:     locks,
		archive:   archive,
		threshold: threshold,
		userID:    userID,
		logger:    logger,
	}
}

type startAcquisitionRequest struct {
	URL string `json:"url" validate:"required,url"`
	// ExpectedDurationSeconds feeds the caption quality gate when the caller
	// already knows the episode length.
	ExpectedDurationSeconds float64 `json:"expected_duration_seconds,omitempty" validate:"omitempty,gt=0"`
}

type startAcquisitionResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// Start begins a background acquisition and returns a pollable job id
func (h *Transcript) Start(c echo.Context) error {
	var req startAcquisitionRequest
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

	job := h.jobs.Create(h.userID)

	go h.runAcquisition(job, req, release)

	return HandleSuccess(h.logger, c, startAcquisitionResponse{
		JobID:  job.ID.String(),
		Status: job.Status,
	})
}

func (h *Transcript) runAcquisition(job *JobRecord, req startAcquisitionRequest, release func()) {
	defer release()

	ctx, cancel := jobcontext.Begin(context.Background(), job.ID, "transcript.acquire", acquireTimeout)
	defer cancel()

	err := jobcontext.Run(ctx, func(ctx context.Context) error {
		result, err := h.service.Acquire(ctx, req.URL, req.ExpectedDurationSeconds, h.threshold,
			func(message string) {
				h.jobs.Progress(job, message)
			})
		if err != nil {
			return err
		}

		session := h.sessions.Load(h.userID)
		session.ApplyTranscript(req.URL, result, "Unknown")
		if err := h.sessions.Save(session); err != nil {
			return err
		}

		if h.archive != nil {
			if key, aerr := h.archive.ArchiveTranscript(ctx, session.PodcastTitle, result.Text); aerr != nil {
				h.logger.Warn("transcript archive failed",
					zap.String("job_id", job.ID.String()),
					zap.Error(aerr))
			} else {
				h.logger.Info("transcript archived",
					zap.String("job_id", job.ID.String()),
					zap.String("object", key))
			}
		}

		h.jobs.Complete(job, map[string]interface{}{
			"title":         session.PodcastTitle,
			"source":        result.Source,
			"language":      result.Language,
			"quality_score": result.QualityScore,
			"duration":      result.Duration,
		})
		return nil
	})
	if err != nil {
		h.logger.Error("acquisition job failed",
			zap.String("job_id", job.ID.String()),
			zap.String("url", req.URL),
			zap.Duration("elapsed", jobcontext.Elapsed(ctx)),
			zap.Error(err))
		h.jobs.Fail(job, err)
	}
}

// JobStatus reports the state of one acquisition job
func (h *Transcript) JobStatus(c echo.Context) error {
	id := c.Param("id")

	job, ok := h.jobs.Get(id)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrJobNotFound(id))
	}
	return HandleSuccess(h.logger, c, job.Snapshot())
}

type currentTranscriptResponse struct {
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	Source       string  `json:"source"`
	Language     string  `json:"language"`
	QualityScore float64 `json:"quality_score,omitempty"`
	Duration     float64 `json:"duration,omitempty"`
	Text         string  `json:"text"`
}

// Current returns the transcript loaded into the session
func (h *Transcript) Current(c echo.Context) error {
	session := h.sessions.Load(h.userID)
	if session.TranscriptText == "" {
		return HandleError(h.logger, c, apperrors.ErrNoTranscript())
	}

	return HandleSuccess(h.logger, c, currentTranscriptResponse{
		Title:    session.PodcastTitle,
		URL:      session.PodcastURL,
		Source:   string(session.TranscriptSource),
		Language: session.TranscriptLanguage,
		Duration: session.PodcastDuration,
		Text:     session.TranscriptText,
	})
}

// Search looks up candidate episodes for a query
func (h *Transcript) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("Query parameter 'q' is required"))
	}

	limit := defaultSearchLimit
	if raw := c.QueryParam("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 25 {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("Parameter 'max' must be an integer between 1 and 25"))
		}
		limit = n
	}

	results, err := h.searcher.Search(c.Request().Context(), query, limit)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrSearchFailed(err))
	}
	return HandleSuccess(h.logger, c, results)
}
