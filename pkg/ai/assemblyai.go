package ai

import (
	"context"
	"fmt"
	"os"
	"sync"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/podscribe-team/podscribe/pkg/config"
)

// SpeechResult is the outcome of transcribing one audio asset
type SpeechResult struct {
	Text     string
	Segments []string // per-utterance texts, in order
	Language string
}

// SpeechEngine transcribes local audio files through AssemblyAI. The SDK
// client is constructed once on first use; the engine is safe for concurrent
// callers after that.
type SpeechEngine struct {
	apiKey      string
	speechModel string

	initOnce sync.Once
	client   *aai.Client
}

// NewSpeechEngine creates a speech engine with the given model profile
// ("best" or "nano"). Construction is cheap; the underlying client is built
// lazily on the first Transcribe call.
func NewSpeechEngine(cfg *config.AssemblyConfig) *SpeechEngine {
	var apiKey, model string
	if cfg != nil {
		apiKey = cfg.APIKey
		model = cfg.SpeechModel
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	if model == "" {
		model = "best"
	}
	return &SpeechEngine{apiKey: apiKey, speechModel: model}
}

func (e *SpeechEngine) sdk() *aai.Client {
	e.initOnce.Do(func() {
		e.client = aai.NewClient(e.apiKey)
	})
	return e.client
}

// Transcribe uploads the audio file and blocks until the transcript is
// ready, returning full text, per-utterance segments, and the detected
// language
func (e *SpeechEngine) Transcribe(ctx context.Context, audioPath string) (*SpeechResult, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	client := e.sdk()

	uploadURL, err := client.Upload(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio to AssemblyAI: %w", err)
	}

	params := &aai.TranscriptOptionalParams{
		SpeechModel:       aai.SpeechModel(e.speechModel),
		SpeakerLabels:     aai.Bool(true),
		LanguageDetection: aai.Bool(true),
	}

	transcript, err := client.Transcripts.TranscribeFromURL(ctx, uploadURL, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, fmt.Errorf("transcription failed: %s", msg)
	}

	result := &SpeechResult{Language: "unknown"}
	if transcript.Text != nil {
		result.Text = *transcript.Text
	}
	if transcript.LanguageCode != "" {
		result.Language = string(transcript.LanguageCode)
	}
	for _, utt := range transcript.Utterances {
		if utt.Text != nil && *utt.Text != "" {
			result.Segments = append(result.Segments, *utt.Text)
		}
	}
	if len(result.Segments) == 0 && result.Text != "" {
		result.Segments = []string{result.Text}
	}
	return result, nil
}
