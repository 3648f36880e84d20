package entities

import "errors"

// Domain errors
var (
	// ErrCaptionsUnavailable is a routing signal: the caption source has
	// nothing for this URL, so acquisition falls through to transcription.
	ErrCaptionsUnavailable = errors.New("captions unavailable")

	ErrNoTranscript    = errors.New("no transcript loaded")
	ErrSessionNotFound = errors.New("session not found")
)
