// Package youtube implements the caption source adapter: free, instant
// transcripts pulled from a video's built-in caption tracks.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/podscribe-team/podscribe/internal/domain/entities"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
}

var captionTracksPattern = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

// Client fetches caption tracks from the watch page
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a caption client. baseURL overrides the platform origin
// for tests; pass "" for the default.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://www.youtube.com"
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// VideoID extracts an 11-character video id from watch, share, embed and
// shorts URL forms
func (c *Client) VideoID(url string) (string, bool) {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1], true
		}
	}
	return "", false
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

// Fetch downloads the first caption track for the video and returns its
// text and language. Returns entities.ErrCaptionsUnavailable when the video
// has no caption tracks.
func (c *Client) Fetch(ctx context.Context, videoID string) (string, string, error) {
	page, err := c.get(ctx, fmt.Sprintf("%s/watch?v=%s", c.baseURL, videoID))
	if err != nil {
		return "", "", fmt.Errorf("failed to load watch page: %w", err)
	}

	m := captionTracksPattern.FindSubmatch(page)
	if m == nil {
		return "", "", entities.ErrCaptionsUnavailable
	}

	var tracks []captionTrack
	if err := json.Unmarshal(m[1], &tracks); err != nil {
		return "", "", fmt.Errorf("failed to parse caption track list: %w", err)
	}
	if len(tracks) == 0 || tracks[0].BaseURL == "" {
		return "", "", entities.ErrCaptionsUnavailable
	}

	track := tracks[0]
	body, err := c.get(ctx, track.BaseURL+"&fmt=json3")
	if err != nil {
		return "", "", fmt.Errorf("failed to download caption track: %w", err)
	}

	text, err := parseTimedText(body)
	if err != nil {
		return "", "", err
	}
	if text == "" {
		return "", "", entities.ErrCaptionsUnavailable
	}

	language := track.LanguageCode
	if language == "" {
		language = "unknown"
	}
	return text, language, nil
}

// get performs a GET with bounded exponential backoff; transient platform
// hiccups are common on the watch page
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept-Language", "en-US,en")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 15 * time.Second

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// timedText is the json3 caption payload: a list of events, each holding
// text segments
type timedText struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func parseTimedText(body []byte) (string, error) {
	var tt timedText
	if err := json.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("failed to parse caption payload: %w", err)
	}

	var b strings.Builder
	for _, ev := range tt.Events {
		for _, seg := range ev.Segs {
			t := strings.TrimSpace(strings.ReplaceAll(seg.UTF8, "\n", " "))
			if t == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(t)
		}
	}
	return b.String(), nil
}
