package entities

// TranscriptSource identifies which acquisition path produced a transcript
type TranscriptSource string

const (
	// SourceCaptions means the transcript came from platform captions
	SourceCaptions TranscriptSource = "captions"
	// SourceTranscribed means the transcript came from the speech engine
	SourceTranscribed TranscriptSource = "transcribed"
)

// TranscriptResult is the outcome of one acquisition call.
// Immutable after return; owned by the caller.
type TranscriptResult struct {
	Text         string           `json:"text"`
	Language     string           `json:"language"`
	Source       TranscriptSource `json:"source"`
	QualityScore float64          `json:"quality_score"`
	Title        string           `json:"title,omitempty"`
	Duration     float64          `json:"duration,omitempty"` // seconds
}

// QualityResult is the verdict of a transcript quality assessment
type QualityResult struct {
	Passed bool     `json:"passed"`
	Score  float64  `json:"score"` // 0.0 to 1.0, rounded to 2 decimals
	Issues []string `json:"issues,omitempty"`
}
