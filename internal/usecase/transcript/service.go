// Package transcript implements the quality-gated acquisition waterfall:
// platform captions are tried first and trusted only when they clear the
// quality gate; otherwise the audio is downloaded and sent through the
// speech engine.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/podscribe-team/podscribe/internal/domain/entities"
	"github.com/podscribe-team/podscribe/internal/usecase/quality"
	"github.com/podscribe-team/podscribe/pkg/ai"
)

// CaptionSource fetches platform captions for a media identifier
type CaptionSource interface {
	// VideoID extracts a caption-bearing identifier from the URL; ok is
	// false when the URL does not belong to the caption platform
	VideoID(url string) (id string, ok bool)
	// Fetch returns caption text and language, or
	// entities.ErrCaptionsUnavailable
	Fetch(ctx context.Context, videoID string) (text, language string, err error)
}

// Asset is a downloaded audio file with its metadata
type Asset struct {
	Path     string
	Title    string
	Duration float64 // seconds
	SizeMB   float64
}

// Downloader acquires and releases audio assets
type Downloader interface {
	Download(ctx context.Context, url string) (*Asset, error)
	Cleanup(path string) error
}

// SpeechEngine transcribes a downloaded audio asset
type SpeechEngine interface {
	Transcribe(ctx context.Context, audioPath string) (*ai.SpeechResult, error)
}

// StatusFunc receives best-effort, human-readable progress updates
type StatusFunc func(message string)

// Service orchestrates transcript acquisition
type Service struct {
	captions    CaptionSource
	downloader  Downloader
	engine      SpeechEngine
	engineLabel string
	logger      *zap.Logger
}

// NewService creates an acquisition service. engineLabel names the speech
// engine profile in progress messages.
func NewService(captions CaptionSource, downloader Downloader, engine SpeechEngine, engineLabel string, logger *zap.Logger) *Service {
	return &Service{
		captions:    captions,
		downloader:  downloader,
		engine:      engine,
		engineLabel: engineLabel,
		logger:      logger,
	}
}

// Acquire runs the waterfall for the given URL and returns a vetted
// transcript. expectedDuration (seconds) feeds the caption quality gate when
// known; pass 0 when unknown. status, if non-nil, is invoked at each phase
// transition; its failures never fail the orchestration.
func (s *Service) Acquire(
	ctx context.Context,
	url string,
	expectedDuration float64,
	threshold float64,
	status StatusFunc,
) (*entities.TranscriptResult, error) {
	notify := s.notifier(status)

	// Step 1: captions, when the URL carries a caption-bearing id
	if videoID, ok := s.captions.VideoID(url); ok {
		notify("Checking for captions...")

		text, language, err := s.captions.Fetch(ctx, videoID)
		switch {
		case err == nil:
			q := quality.Assess(text, expectedDuration, threshold)
			if q.Passed {
				s.logger.Info("captions accepted",
					zap.String("video_id", videoID),
					zap.Float64("score", q.Score),
				)
				return &entities.TranscriptResult{
					Text:         text,
					Language:     language,
					Source:       entities.SourceCaptions,
					QualityScore: q.Score,
				}, nil
			}
			s.logger.Info("caption quality below threshold, falling back to transcription",
				zap.String("video_id", videoID),
				zap.Float64("score", q.Score),
				zap.Strings("issues", q.Issues),
			)
			notify(fmt.Sprintf(
				"Caption quality too low (score: %.0f%%). Falling back to transcription...",
				q.Score*100))
		case errors.Is(err, entities.ErrCaptionsUnavailable):
			s.logger.Info("captions unavailable", zap.String("video_id", videoID))
		default:
			// Treat any other fetch failure the same as unavailable captions
			s.logger.Warn("caption fetch failed, falling back to transcription",
				zap.String("video_id", videoID),
				zap.Error(err),
			)
		}
	}

	// Step 2: download audio and run the speech engine
	notify("Downloading audio...")

	asset, err := s.downloader.Download(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("audio download failed: %w", err)
	}
	// Release the asset on every exit path past this point
	defer func() {
		if cerr := s.downloader.Cleanup(asset.Path); cerr != nil {
			s.logger.Warn("audio asset cleanup failed",
				zap.String("path", asset.Path),
				zap.Error(cerr),
			)
		}
	}()

	notify(fmt.Sprintf(
		"Downloaded: %s\nDuration: %.0f min | Size: %.1f MB\n\nTranscribing (%s)... This may take a while.",
		asset.Title, asset.Duration/60, asset.SizeMB, s.engineLabel))

	speech, err := s.engine.Transcribe(ctx, asset.Path)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	parts := make([]string, 0, len(speech.Segments))
	for _, seg := range speech.Segments {
		if t := strings.TrimSpace(seg); t != "" {
			parts = append(parts, t)
		}
	}
	text := strings.Join(parts, " ")

	// Informational score only; this branch never gates further fallback
	q := quality.Assess(text, asset.Duration, threshold)

	return &entities.TranscriptResult{
		Text:         text,
		Language:     speech.Language,
		Source:       entities.SourceTranscribed,
		QualityScore: q.Score,
		Title:        asset.Title,
		Duration:     asset.Duration,
	}, nil
}

// notifier wraps the status callback in the swallow-failures policy: the
// receiving surface may be gone, and that must never fail an acquisition
func (s *Service) notifier(status StatusFunc) func(string) {
	return func(message string) {
		if status == nil {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				s.logger.Warn("status callback failed", zap.Any("reason", r))
			}
		}()
		status(message)
	}
}
