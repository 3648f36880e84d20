package transcript

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/podscribe-team/podscribe/internal/domain/entities"
	"github.com/podscribe-team/podscribe/pkg/ai"
)

// goodText passes the quality gate comfortably
const goodText = "Welcome back to the show everyone. Today we cover testing strategies in detail. " +
	"Our guest explains how integration suites catch regressions early. " +
	"We also discuss flaky tests and how teams keep their pipelines green over time."

type fakeCaptions struct {
	id   string
	text string
	err  error
}

func (f *fakeCaptions) VideoID(url string) (string, bool) {
	if f.id == "" {
		return "", false
	}
	return f.id, true
}

func (f *fakeCaptions) Fetch(_ context.Context, videoID string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.text, "en", nil
}

type fakeDownloader struct {
	downloads int
	cleanups  []string
	err       error
}

func (f *fakeDownloader) Download(_ context.Context, url string) (*Asset, error) {
	f.downloads++
	if f.err != nil {
		return nil, f.err
	}
	return &Asset{Path: "/tmp/audio.mp3", Title: "Episode 42", Duration: 60, SizeMB: 12.5}, nil
}

func (f *fakeDownloader) Cleanup(path string) error {
	f.cleanups = append(f.cleanups, path)
	return nil
}

type fakeEngine struct {
	calls  int
	result *ai.SpeechResult
	err    error
}

func (f *fakeEngine) Transcribe(_ context.Context, audioPath string) (*ai.SpeechResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestService(captions *fakeCaptions, dl *fakeDownloader, engine *fakeEngine) *Service {
	return NewService(captions, dl, engine, "best", zap.NewNop())
}

func TestAcquireCaptionsPassGate(t *testing.T) {
	captions := &fakeCaptions{id: "dQw4w9WgXcQ", text: goodText}
	dl := &fakeDownloader{}
	engine := &fakeEngine{}
	svc := newTestService(captions, dl, engine)

	result, err := svc.Acquire(context.Background(), "https://youtu.be/dQw4w9WgXcQ", 0, 0.7, nil)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if result.Source != entities.SourceCaptions {
		t.Errorf("Source = %q, want captions", result.Source)
	}
	if result.Text != goodText {
		t.Errorf("Text = %q", result.Text)
	}
	if dl.downloads != 0 {
		t.Errorf("download invoked %d times on the caption path", dl.downloads)
	}
	if engine.calls != 0 {
		t.Errorf("speech engine invoked %d times on the caption path", engine.calls)
	}
}

func TestAcquireCaptionsUnavailableFallsBack(t *testing.T) {
	captions := &fakeCaptions{id: "dQw4w9WgXcQ", err: entities.ErrCaptionsUnavailable}
	dl := &fakeDownloader{}
	engine := &fakeEngine{result: &ai.SpeechResult{
		Text:     goodText,
		Segments: []string{goodText},
		Language: "en",
	}}
	svc := newTestService(captions, dl, engine)

	result, err := svc.Acquire(context.Background(), "https://youtu.be/dQw4w9WgXcQ", 0, 0.7, nil)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if result.Source != entities.SourceTranscribed {
		t.Errorf("Source = %q, want transcribed", result.Source)
	}
	if result.Title != "Episode 42" {
		t.Errorf("Title = %q", result.Title)
	}
	if engine.calls != 1 {
		t.Errorf("speech engine calls = %d, want 1", engine.calls)
	}
	if len(dl.cleanups) != 1 || dl.cleanups[0] != "/tmp/audio.mp3" {
		t.Errorf("cleanups = %v, want the downloaded asset", dl.cleanups)
	}
}

func TestAcquireLowQualityCaptionsFallBack(t *testing.T) {
	// A long expected duration makes the short caption text a hard reject
	captions := &fakeCaptions{id: "dQw4w9WgXcQ", text: "Short caption text only here for test purposes today."}
	dl := &fakeDownloader{}
	engine := &fakeEngine{result: &ai.SpeechResult{
		Text:     goodText,
		Segments: []string{goodText},
		Language: "en",
	}}
	svc := newTestService(captions, dl, engine)

	result, err := svc.Acquire(context.Background(), "https://youtu.be/dQw4w9WgXcQ", 3600, 0.7, nil)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if result.Source != entities.SourceTranscribed {
		t.Errorf("Source = %q, want transcribed after failed gate", result.Source)
	}
}

func TestAcquireNonCaptionURLSkipsCaptions(t *testing.T) {
	captions := &fakeCaptions{} // no id for any URL
	dl := &fakeDownloader{}
	engine := &fakeEngine{result: &ai.SpeechResult{
		Text:     goodText,
		Segments: []string{goodText},
		Language: "en",
	}}
	svc := newTestService(captions, dl, engine)

	result, err := svc.Acquire(context.Background(), "https://example.com/episode.mp3", 0, 0.7, nil)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if result.Source != entities.SourceTranscribed {
		t.Errorf("Source = %q", result.Source)
	}
	if dl.downloads != 1 {
		t.Errorf("downloads = %d, want 1", dl.downloads)
	}
}

func TestAcquireCleanupRunsWhenTranscriptionFails(t *testing.T) {
	captions := &fakeCaptions{}
	dl := &fakeDownloader{}
	engine := &fakeEngine{err: errors.New("engine down")}
	svc := newTestService(captions, dl, engine)

	_, err := svc.Acquire(context.Background(), "https://example.com/episode.mp3", 0, 0.7, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(dl.cleanups) != 1 {
		t.Errorf("cleanups = %v, want exactly one", dl.cleanups)
	}
}

func TestAcquireDownloadErrorPropagates(t *testing.T) {
	captions := &fakeCaptions{}
	dl := &fakeDownloader{err: errors.New("yt-dlp exited 1")}
	engine := &fakeEngine{}
	svc := newTestService(captions, dl, engine)

	_, err := svc.Acquire(context.Background(), "https://example.com/episode.mp3", 0, 0.7, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "audio download failed") {
		t.Errorf("err = %v", err)
	}
	if len(dl.cleanups) != 0 {
		t.Errorf("cleanup ran without an asset: %v", dl.cleanups)
	}
}

func TestAcquireJoinsSegments(t *testing.T) {
	captions := &fakeCaptions{}
	dl := &fakeDownloader{}
	engine := &fakeEngine{result: &ai.SpeechResult{
		Text:     "ignored",
		Segments: []string{"First speaker part.", "  ", "Second speaker part."},
		Language: "en",
	}}
	svc := newTestService(captions, dl, engine)

	result, err := svc.Acquire(context.Background(), "https://example.com/episode.mp3", 0, 0.7, nil)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	want := "First speaker part. Second speaker part."
	if result.Text != want {
		t.Errorf("Text = %q, want %q", result.Text, want)
	}
}

func TestAcquirePanickingStatusCallbackIsSwallowed(t *testing.T) {
	captions := &fakeCaptions{id: "dQw4w9WgXcQ", text: goodText}
	svc := newTestService(captions, &fakeDownloader{}, &fakeEngine{})

	status := func(string) { panic("receiver gone") }

	result, err := svc.Acquire(context.Background(), "https://youtu.be/dQw4w9WgXcQ", 0, 0.7, status)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if result == nil || result.Text == "" {
		t.Error("acquisition failed because of a status callback panic")
	}
}

func TestAcquireStatusMessages(t *testing.T) {
	captions := &fakeCaptions{id: "dQw4w9WgXcQ", err: entities.ErrCaptionsUnavailable}
	engine := &fakeEngine{result: &ai.SpeechResult{
		Text:     goodText,
		Segments: []string{goodText},
		Language: "en",
	}}
	svc := newTestService(captions, &fakeDownloader{}, engine)

	var messages []string
	status := func(m string) { messages = append(messages, m) }

	if _, err := svc.Acquire(context.Background(), "https://youtu.be/dQw4w9WgXcQ", 0, 0.7, status); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	joined := strings.Join(messages, "\n")
	if !strings.Contains(joined, "Checking for captions") {
		t.Errorf("missing caption phase message: %v", messages)
	}
	if !strings.Contains(joined, "Downloading audio") {
		t.Errorf("missing download phase message: %v", messages)
	}
	if !strings.Contains(joined, "Transcribing") {
		t.Errorf("missing transcription phase message: %v", messages)
	}
}
