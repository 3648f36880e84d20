package quality

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestAssess_NearlyEmpty(t *testing.T) {
	cases := []string{
		"",
		"one two three",
		"nine words is still not quite enough for scoring",
	}
	for _, text := range cases {
		res := Assess(text, 0, DefaultThreshold)
		if res.Passed {
			t.Errorf("Assess(%q) passed, want reject", text)
		}
		if res.Score != 0.0 {
			t.Errorf("Assess(%q) score = %v, want 0.0", text, res.Score)
		}
		if len(res.Issues) != 1 || res.Issues[0] != "Transcript is nearly empty" {
			t.Errorf("Assess(%q) issues = %v", text, res.Issues)
		}
	}
}

func TestAssess_Deterministic(t *testing.T) {
	text := strings.Repeat("This is a perfectly ordinary sentence about testing. ", 40)
	first := Assess(text, 600, DefaultThreshold)
	for i := 0; i < 5; i++ {
		again := Assess(text, 600, DefaultThreshold)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("assessment not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestAssess_GoodTranscriptPasses(t *testing.T) {
	// ~200 words of punctuated prose, no duration hint
	text := strings.Repeat("The speakers discussed their approach to building reliable systems. ", 30)
	res := Assess(text, 0, DefaultThreshold)
	if !res.Passed {
		t.Fatalf("good transcript rejected: score=%v issues=%v", res.Score, res.Issues)
	}
	if res.Score < DefaultThreshold {
		t.Fatalf("score = %v, want >= %v", res.Score, DefaultThreshold)
	}
}

func TestAssess_ShortTextForLongDurationIsHardReject(t *testing.T) {
	// A dozen words against a claimed 10 minutes (~1500 expected words).
	text := "Short test. Just a few words here, nothing like ten minutes worth."
	res := Assess(text, 600, DefaultThreshold)
	if res.Passed {
		t.Fatalf("expected hard reject, got pass with score %v", res.Score)
	}
	found := false
	for _, issue := range res.Issues {
		if strings.Contains(issue, "Very low word count") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a very-low-word-count issue, got %v", res.Issues)
	}
}

func TestAssess_HardRejectEvenWithHighAverage(t *testing.T) {
	// Well punctuated, long words, but far fewer than the duration implies.
	// The averaged score can clear the bar; the disqualifier must not.
	text := strings.Repeat("Wonderful discussion about meaningful architecture yesterday. ", 10)
	res := Assess(text, 3600, DefaultThreshold)
	if res.Passed {
		t.Fatalf("duration disqualifier ignored: score=%v issues=%v", res.Score, res.Issues)
	}
}

func TestAssess_RepetitionMonotonic(t *testing.T) {
	base := "alpha bravo charlie delta echo foxtrot golf hotel india juliet "
	prev := 2.0
	for dups := 0; dups <= 8; dups += 2 {
		text := strings.Repeat(base, 10) + strings.Repeat("again again ", dups)
		res := Assess(text, 0, DefaultThreshold)
		if res.Score > prev {
			t.Fatalf("score increased with more repetition: dups=%d score=%v prev=%v", dups, res.Score, prev)
		}
		prev = res.Score
	}
}

func TestAssess_NoSentenceBoundaries(t *testing.T) {
	text := strings.Repeat("word ", 150)
	res := Assess(text, 0, DefaultThreshold)
	found := false
	for _, issue := range res.Issues {
		if issue == "No sentence boundaries detected in long text" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected boundary issue, got %v", res.Issues)
	}
}

func TestAssess_ScoreRounded(t *testing.T) {
	text := strings.Repeat("A mix of shorter and longer vocabulary appears here. ", 25)
	res := Assess(text, 0, DefaultThreshold)
	cents := res.Score * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9 {
		t.Fatalf("score %v not rounded to 2 decimals", res.Score)
	}
}
