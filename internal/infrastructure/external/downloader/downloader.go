// Package downloader acquires audio assets by shelling out to yt-dlp,
// which handles direct media URLs, podcast feeds, and hosting platforms
// alike.
package downloader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/podscribe-team/podscribe/internal/usecase/transcript"
)

// YtDlp downloads audio with the yt-dlp binary
type YtDlp struct {
	binary    string
	outputDir string
	logger    *zap.Logger
}

// New creates a downloader writing into outputDir
func New(outputDir string, logger *zap.Logger) *YtDlp {
	return &YtDlp{
		binary:    "yt-dlp",
		outputDir: outputDir,
		logger:    logger,
	}
}

// mediaInfo is the subset of yt-dlp's JSON output we read
type mediaInfo struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

// Download fetches the best audio stream for the URL, extracts it to mp3,
// and returns the local asset with its metadata
func (d *YtDlp) Download(ctx context.Context, url string) (*transcript.Asset, error) {
	if err := os.MkdirAll(d.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	template := filepath.Join(d.outputDir, "%(id)s.%(ext)s")
	cmd := exec.CommandContext(ctx, d.binary,
		"--no-playlist",
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--print-json",
		"--no-progress",
		"--output", template,
		url,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.logger.Info("downloading audio", zap.String("url", url))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, firstLine(stderr.String()))
	}

	var info mediaInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("yt-dlp returned no media id")
	}

	audioPath := filepath.Join(d.outputDir, info.ID+".mp3")
	stat, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("downloaded audio not found at %s: %w", audioPath, err)
	}

	asset := &transcript.Asset{
		Path:     audioPath,
		Title:    info.Title,
		Duration: info.Duration,
		SizeMB:   float64(stat.Size()) / (1024 * 1024),
	}
	d.logger.Info("audio downloaded",
		zap.String("title", asset.Title),
		zap.Float64("duration_s", asset.Duration),
		zap.Float64("size_mb", asset.SizeMB),
	)
	return asset, nil
}

// Cleanup removes a downloaded asset. Missing files are not an error.
func (d *YtDlp) Cleanup(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// SearchResult is one video search hit
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Search runs a flat video search and returns up to max title/url pairs
func (d *YtDlp) Search(ctx context.Context, query string, max int) ([]SearchResult, error) {
	if max <= 0 {
		max = 5
	}

	cmd := exec.CommandContext(ctx, d.binary,
		"--dump-json",
		"--flat-playlist",
		"--no-warnings",
		fmt.Sprintf("ytsearch%d:%s", max, query),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp search failed: %w: %s", err, firstLine(stderr.String()))
	}

	var results []SearchResult
	scanner := bufio.NewScanner(&stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil || entry.ID == "" {
			continue
		}
		title := entry.Title
		if title == "" {
			title = "Unknown"
		}
		results = append(results, SearchResult{
			Title: title,
			URL:   "https://www.youtube.com/watch?v=" + entry.ID,
		})
		if len(results) >= max {
			break
		}
	}
	return results, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
