// Package quality scores transcript text against a set of heuristics
// (word count vs duration, punctuation density, word repetition, word
// length) and decides whether a candidate transcript is trustworthy.
package quality

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/podscribe-team/podscribe/internal/domain/entities"
)

// DefaultThreshold is the minimum combined score to accept a transcript
const DefaultThreshold = 0.7

// expectedWordsPerMinute is the assumed speech rate for the duration check
const expectedWordsPerMinute = 150

// Assess evaluates transcript quality and returns a score in [0,1] with the
// list of issues found. expectedDurationSeconds <= 0 skips the duration
// check. Deterministic and side-effect free.
func Assess(text string, expectedDurationSeconds, threshold float64) entities.QualityResult {
	var issues []string
	var scores []float64

	words := strings.Fields(text)
	wordCount := len(words)

	if wordCount < 10 {
		return entities.QualityResult{
			Passed: false,
			Score:  0.0,
			Issues: []string{"Transcript is nearly empty"},
		}
	}

	// Check 1: word count vs expected duration
	if expectedDurationSeconds > 0 {
		expectedWords := (expectedDurationSeconds / 60) * expectedWordsPerMinute
		wordRatio := float64(wordCount) / expectedWords
		switch {
		case wordRatio < 0.3:
			issues = append(issues, fmt.Sprintf(
				"Very low word count: %d words for %.0f min (expected ~%.0f)",
				wordCount, expectedDurationSeconds/60, expectedWords))
			scores = append(scores, 0.2)
		case wordRatio < 0.5:
			issues = append(issues, fmt.Sprintf(
				"Low word count: %d words for %.0f min (expected ~%.0f)",
				wordCount, expectedDurationSeconds/60, expectedWords))
			scores = append(scores, 0.5)
		default:
			scores = append(scores, math.Min(1.0, wordRatio))
		}
	}

	// Check 2: fraction of sentence-like segments ending in .!?
	segments := splitSentenceSegments(text)
	if len(segments) > 1 {
		punctuated := 0
		for _, s := range segments {
			s = strings.TrimSpace(s)
			if s != "" && strings.ContainsRune(".!?", rune(s[len(s)-1])) {
				punctuated++
			}
		}
		punctRatio := float64(punctuated) / float64(len(segments))
		switch {
		case punctRatio < 0.1:
			issues = append(issues, fmt.Sprintf(
				"Very low punctuation: %.0f%% of segments end with sentence-ending punctuation",
				punctRatio*100))
			scores = append(scores, 0.3)
		case punctRatio < 0.3:
			issues = append(issues, fmt.Sprintf("Low punctuation ratio: %.0f%%", punctRatio*100))
			scores = append(scores, 0.5)
		default:
			scores = append(scores, math.Min(1.0, punctRatio))
		}
	} else if wordCount > 100 {
		// Single segment with no sentence breaks in a long text
		issues = append(issues, "No sentence boundaries detected in long text")
		scores = append(scores, 0.3)
	}

	// Check 3: consecutive duplicate words (common in bad auto-captions)
	repeated := 0
	for i := 0; i < len(words)-1; i++ {
		if utf8.RuneCountInString(words[i]) > 1 &&
			strings.EqualFold(words[i], words[i+1]) {
			repeated++
		}
	}
	repeatRatio := float64(repeated) / float64(wordCount)
	if repeatRatio > 0.05 {
		issues = append(issues, fmt.Sprintf("High word repetition: %.1f%%", repeatRatio*100))
		scores = append(scores, 0.4)
	} else {
		scores = append(scores, 1.0-repeatRatio)
	}

	// Check 4: average word length; garbled text skews short
	totalLen := 0
	for _, w := range words {
		totalLen += utf8.RuneCountInString(w)
	}
	avgWordLen := float64(totalLen) / float64(wordCount)
	if avgWordLen < 3.0 {
		issues = append(issues, fmt.Sprintf("Unusually short average word length: %.1f", avgWordLen))
		scores = append(scores, 0.4)
	} else {
		scores = append(scores, math.Min(1.0, avgWordLen/5.0))
	}

	var finalScore float64
	for _, s := range scores {
		finalScore += s
	}
	finalScore /= float64(len(scores))
	finalScore = math.Round(finalScore*100) / 100

	passed := finalScore >= threshold && !hasDisqualifier(issues)

	return entities.QualityResult{Passed: passed, Score: finalScore, Issues: issues}
}

// hasDisqualifier reports whether any issue is a hard reject regardless of
// the averaged score
func hasDisqualifier(issues []string) bool {
	for _, issue := range issues {
		if strings.Contains(issue, "Very low") || strings.Contains(issue, "nearly empty") {
			return true
		}
	}
	return false
}

// splitSentenceSegments splits text after terminal punctuation followed by
// whitespace, keeping the punctuation with the preceding segment
func splitSentenceSegments(text string) []string {
	var segments []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes)-1; i++ {
		if (runes[i] == '.' || runes[i] == '!' || runes[i] == '?') && isSpace(runes[i+1]) {
			segments = append(segments, string(runes[start:i+1]))
			// Skip the run of whitespace
			j := i + 1
			for j < len(runes) && isSpace(runes[j]) {
				j++
			}
			start = j
			i = j - 1
		}
	}
	if start < len(runes) {
		segments = append(segments, string(runes[start:]))
	}
	return segments
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
