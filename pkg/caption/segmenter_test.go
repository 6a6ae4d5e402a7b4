package caption

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func cw(text string, start, end float64, segStart bool) CaptionWord {
	return CaptionWord{Text: text, StartS: start, EndS: end, IsSegmentStart: segStart}
}

// buildWords turns a list of words into a CaptionWord stream spaced 0.3s
// apart, each lasting 0.25s. The first word and every word following an
// index in sentenceBreaks are flagged IsSegmentStart; the word texts are
// used as given, with no punctuation added.
func buildWords(words []string, sentenceBreaks map[int]bool) []CaptionWord {
	out := make([]CaptionWord, len(words))
	t := 0.0
	for i, w := range words {
		out[i] = cw(w, t, t+0.25, i == 0 || sentenceBreaks[i-1])
		t += 0.3
	}
	return out
}

// TestSegmentScenarioS4BroadcastHardCaps reproduces spec.md's broadcast
// scenario (S4): every produced line must respect MaxLineChars and every
// cue must respect MaxCueChars under the broadcast preset.
func TestSegmentScenarioS4BroadcastHardCaps(t *testing.T) {
	t.Parallel()
	cfg := Broadcast()

	words := buildWords([]string{
		"the", "quick", "brown", "fox", "jumps", "over", "the", "lazy", "dog",
		"and", "then", "runs", "away", "quickly", "into", "the", "deep", "dark",
		"forest", "before", "anyone", "notices", "what", "has", "happened", "today",
	}, map[int]bool{8: true, 25: true})

	segments, err := Segment(context.Background(), words, cfg)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(segments) == 0 {
		t.Fatal("expected at least one segment")
	}

	for si, seg := range segments {
		if len(seg.Lines) > cfg.MaxLines {
			t.Errorf("segment %d has %d lines, want <= %d", si, len(seg.Lines), cfg.MaxLines)
		}
		cueLen := 0
		for li, line := range seg.Lines {
			vl := visibleLen(line)
			cueLen += vl
			if vl > cfg.MaxLineChars {
				t.Errorf("segment %d line %d visible length %d exceeds MaxLineChars %d: %q", si, li, vl, cfg.MaxLineChars, line)
			}
		}
		if cueLen > cfg.MaxCueChars {
			t.Errorf("segment %d total visible length %d exceeds MaxCueChars %d", si, cueLen, cfg.MaxCueChars)
		}
	}
}

// TestSegmentScenarioS5SocialSingleLine reproduces spec.md's social
// scenario (S5): every segment must be exactly one line of at most
// MaxLineChars visible characters under the social preset.
func TestSegmentScenarioS5SocialSingleLine(t *testing.T) {
	t.Parallel()
	cfg := Social()

	words := buildWords([]string{
		"hey", "everyone", "check", "this", "out", "right", "now",
		"it", "is", "honestly", "the", "best", "thing", "ever", "seen",
	}, map[int]bool{6: true, 14: true})

	segments, err := Segment(context.Background(), words, cfg)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	for si, seg := range segments {
		if len(seg.Lines) != 1 {
			t.Errorf("segment %d has %d lines, want exactly 1 under social preset: %+v", si, len(seg.Lines), seg.Lines)
		}
		for _, line := range seg.Lines {
			if vl := visibleLen(line); vl > cfg.MaxLineChars {
				t.Errorf("segment %d line visible length %d exceeds MaxLineChars %d: %q", si, vl, cfg.MaxLineChars, line)
			}
		}
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	t.Parallel()
	segments, err := Segment(context.Background(), nil, Broadcast())
	if err != nil {
		t.Fatalf("Segment(nil) error = %v", err)
	}
	if segments != nil {
		t.Errorf("Segment(nil) = %+v, want nil", segments)
	}
}

func TestSegmentDeterministic(t *testing.T) {
	t.Parallel()
	cfg := Broadcast()
	words := buildWords([]string{
		"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
	}, map[int]bool{9: true})

	first, err := Segment(context.Background(), words, cfg)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	second, err := Segment(context.Background(), words, cfg)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("segment count differs between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].StartS != second[i].StartS || first[i].EndS != second[i].EndS {
			t.Errorf("segment %d span differs between runs: %+v vs %+v", i, first[i], second[i])
		}
		if strings.Join(first[i].Lines, "\n") != strings.Join(second[i].Lines, "\n") {
			t.Errorf("segment %d lines differ between runs: %v vs %v", i, first[i].Lines, second[i].Lines)
		}
	}
}

// TestSegmentGreedyFallbackOnOversizedWord verifies that a single caption
// word whose own visible length exceeds MaxCueChars makes the DP
// infeasible, the greedy fallback also fails, and a *SegmentError naming
// the offending index is returned.
func TestSegmentGreedyFallbackOnOversizedWord(t *testing.T) {
	t.Parallel()
	cfg := Social() // MaxCueChars = 25
	oversized := strings.Repeat("x", 100)
	words := []CaptionWord{cw(oversized, 0, 1, true)}

	_, err := Segment(context.Background(), words, cfg)
	var segErr *SegmentError
	if !errors.As(err, &segErr) {
		t.Fatalf("Segment() error = %v, want *SegmentError", err)
	}
	if segErr.WordIndex != 0 {
		t.Errorf("SegmentError.WordIndex = %d, want 0", segErr.WordIndex)
	}
}

// TestSegmentRespectsSpeakerMarkerForcedBreak verifies a speaker-change
// marker is never absorbed mid-span: the segment containing it always
// starts exactly at the marker.
func TestSegmentRespectsSpeakerMarkerForcedBreak(t *testing.T) {
	t.Parallel()
	cfg := Broadcast()
	words := []CaptionWord{
		cw("hello", 0.0, 0.3, true),
		cw("there", 0.4, 0.7, false),
		{Text: speakerMarkerText, StartS: 1.0, EndS: 1.0, IsSpeakerMarker: true},
		cw("hi", 1.0, 1.3, false),
		cw("friend.", 1.4, 1.8, false),
	}

	segments, err := Segment(context.Background(), words, cfg)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	found := false
	for _, seg := range segments {
		if seg.HasSpeakerPrefix {
			found = true
			if seg.StartS != 1.0 {
				t.Errorf("speaker-prefixed segment starts at %v, want 1.0", seg.StartS)
			}
		}
	}
	if !found {
		t.Error("expected at least one segment flagged HasSpeakerPrefix")
	}
}
