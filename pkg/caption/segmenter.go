package caption

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// CaptionSegment is one caption cue: a time span laid out on one or two
// lines.
type CaptionSegment struct {
	StartS, EndS     float64
	Lines            []string
	HasSpeakerPrefix bool
}

// ErrSegmentationInfeasible is returned by [Segment] when both the DP
// sweep and its greedy fallback fail to produce a valid partition — for
// example a single merged word whose visible length alone exceeds
// MaxCueChars.
var ErrSegmentationInfeasible = errors.New("caption: segmentation infeasible")

// SegmentError wraps [ErrSegmentationInfeasible] with the index of the
// first caption word the segmenter could not place.
type SegmentError struct {
	// WordIndex is the index into the input []CaptionWord at which
	// segmentation could not proceed.
	WordIndex int
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("caption: segmentation infeasible at word %d", e.WordIndex)
}

func (e *SegmentError) Unwrap() error { return ErrSegmentationInfeasible }

const epsilon = 1e-6

// Segment partitions words into a sequence of [CaptionSegment]s by
// minimising the weighted cost function of spec.md §4.3 via dynamic
// programming, falling back to a greedy pass if the DP cannot satisfy its
// constraints.
//
// Segment is a pure function of (words, cfg): the same inputs always
// produce byte-identical output (spec.md §8 property 7), regardless of
// how the implementation chooses to parallelise internal scoring.
func Segment(ctx context.Context, words []CaptionWord, cfg Config) ([]CaptionSegment, error) {
	if len(words) == 0 {
		return nil, nil
	}

	segments, ok, err := segmentDP(ctx, words, cfg)
	if err != nil {
		return nil, err
	}
	if ok {
		return segments, nil
	}

	return segmentGreedy(words, cfg)
}

// dpInfo records, for a winning transition into position j, the
// committed span and rendering detail so backtracking can reconstruct
// segments without recomputing scores.
type dpInfo struct {
	lineBreak  lineBreakResult
	hasSpeaker bool
}

// segmentDP runs the §4.3 dynamic program. ok is false when dp[N] is
// +Inf after the full sweep, signalling the caller should fall back to
// the greedy pass.
func segmentDP(ctx context.Context, words []CaptionWord, cfg Config) ([]CaptionSegment, bool, error) {
	n := len(words)
	dp := make([]float64, n+1)
	back := make([]int, n+1)
	info := make([]dpInfo, n+1)
	for j := 1; j <= n; j++ {
		dp[j] = math.Inf(1)
	}

	for j := 1; j <= n; j++ {
		lo := j - cfg.MaxLookbackWords
		if lo < 0 {
			lo = 0
		}

		candidates, err := scoreCandidates(ctx, words, cfg, lo, j)
		if err != nil {
			return nil, false, err
		}

		for i := lo; i < j; i++ {
			c := candidates[i-lo]
			if !c.valid {
				continue
			}
			total := dp[i] + c.cost
			if total < dp[j] {
				dp[j] = total
				back[j] = i
				info[j] = dpInfo{lineBreak: c.lineBreak, hasSpeaker: c.hasSpeaker}
			}
		}
	}

	if math.IsInf(dp[n], 1) {
		return nil, false, nil
	}

	segments := backtrack(words, n, back, info)
	return segments, true, nil
}

// scoredCandidate is the evaluated span words[i:j) considered while
// filling dp[j].
type scoredCandidate struct {
	valid      bool
	cost       float64
	lineBreak  lineBreakResult
	hasSpeaker bool
}

// scoreCandidates evaluates every admissible start i in [lo, j) for a
// fixed j. Scoring is embarrassingly parallel across i, so for wide
// windows the work is fanned out across an errgroup-bounded pool; results
// are written into a pre-sized slice indexed by i-lo so the reduction in
// segmentDP stays independent of goroutine completion order, preserving
// determinism (spec.md §5).
func scoreCandidates(ctx context.Context, words []CaptionWord, cfg Config, lo, j int) ([]scoredCandidate, error) {
	width := j - lo
	out := make([]scoredCandidate, width)

	const parallelThreshold = 8
	if width < parallelThreshold {
		for i := lo; i < j; i++ {
			out[i-lo] = evaluateCandidate(words, cfg, i, j)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	_ = gctx // the DP itself is not cancellable mid-call per spec.md §5; ctx is honoured only at the caller's leisure between Segment invocations.
	for i := lo; i < j; i++ {
		i := i
		g.Go(func() error {
			out[i-lo] = evaluateCandidate(words, cfg, i, j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// evaluateCandidate scores the span words[i:j) as a candidate segment
// ending dp[j]'s transition, implementing the skip conditions and cost
// adjustments of spec.md §4.3 steps 1-6.
func evaluateCandidate(words []CaptionWord, cfg Config, i, j int) scoredCandidate {
	// Step 1: forced-break guard — never step over a speaker marker.
	for k := i + 1; k < j; k++ {
		if words[k].IsSpeakerMarker {
			return scoredCandidate{valid: false}
		}
	}

	hasSpeaker := words[i].IsSpeakerMarker

	span := words[i:j]
	var textWords []string
	for _, w := range span {
		if w.IsSpeakerMarker {
			continue
		}
		textWords = append(textWords, w.Text)
	}
	text := strings.Join(textWords, " ")
	if hasSpeaker {
		text = "– " + text
	}

	// Step 2: total-length cap.
	if visibleLen(text) > cfg.MaxCueChars {
		return scoredCandidate{valid: false}
	}

	start := words[i].StartS
	end := words[j-1].EndS
	lb, ok := bestLineBreak(text, start, end, cfg)
	if !ok {
		return scoredCandidate{valid: false}
	}

	cost := computeSegmentCost(lb, start, end, cfg, hasSpeaker, lastNonMarkerText(span))

	dur := end - start
	n := len(words)
	if dur < cfg.MinCueDur && j < n {
		cost += 2.0
	}
	if visibleLen(text) < 35 && j < n {
		cost += 1.5
	}
	if j < n && words[j].IsSegmentStart {
		cost -= 2.0
	}
	if !endsWithTerminalPunct(text) {
		cost += 1.0
	}

	return scoredCandidate{valid: true, cost: cost, lineBreak: lb, hasSpeaker: hasSpeaker}
}

// lastNonMarkerText returns the text of the last non-marker word in span,
// used for the boundary-term punctuation checks.
func lastNonMarkerText(span []CaptionWord) string {
	for k := len(span) - 1; k >= 0; k-- {
		if !span[k].IsSpeakerMarker {
			return span[k].Text
		}
	}
	return ""
}

// backtrack reconstructs the segment list from the dp back-pointers.
func backtrack(words []CaptionWord, n int, back []int, info []dpInfo) []CaptionSegment {
	var rev []CaptionSegment
	for j := n; j > 0; j = back[j] {
		start := back[j]
		rev = append(rev, CaptionSegment{
			StartS:           words[start].StartS,
			EndS:             words[j-1].EndS,
			Lines:            info[j].lineBreak.lines,
			HasSpeakerPrefix: info[j].hasSpeaker,
		})
	}

	segments := make([]CaptionSegment, len(rev))
	for i, s := range rev {
		segments[len(rev)-1-i] = s
	}
	return segments
}

// segmentGreedy is the fallback pass of spec.md §4.3: extend each segment
// greedily as long as it fits MaxCueChars and crosses no forced break,
// then line-break each resulting span independently.
func segmentGreedy(words []CaptionWord, cfg Config) ([]CaptionSegment, error) {
	var segments []CaptionSegment
	i := 0
	n := len(words)

	for i < n {
		j := i + 1
		lastGood := -1
		var lastGoodLB lineBreakResult
		var lastGoodHasSpeaker bool

		for j <= n {
			if j > i+1 && words[j-1].IsSpeakerMarker {
				// Crossed a forced break one word too far; back off.
				j--
				break
			}

			hasSpeaker := words[i].IsSpeakerMarker
			var textWords []string
			for _, w := range words[i:j] {
				if w.IsSpeakerMarker {
					continue
				}
				textWords = append(textWords, w.Text)
			}
			text := strings.Join(textWords, " ")
			if hasSpeaker {
				text = "– " + text
			}

			if visibleLen(text) > cfg.MaxCueChars {
				break
			}

			lb, ok := bestLineBreak(text, words[i].StartS, words[j-1].EndS, cfg)
			if ok {
				lastGood = j
				lastGoodLB = lb
				lastGoodHasSpeaker = hasSpeaker
			}
			j++
		}

		if lastGood == -1 {
			return nil, &SegmentError{WordIndex: i}
		}

		segments = append(segments, CaptionSegment{
			StartS:           words[i].StartS,
			EndS:             words[lastGood-1].EndS,
			Lines:            lastGoodLB.lines,
			HasSpeakerPrefix: lastGoodHasSpeaker,
		})
		i = lastGood
	}

	return segments, nil
}

// visibleLen returns the count of Unicode scalar values in text after
// stripping any "<...>" markup, per spec.md §4.3.
func visibleLen(text string) int {
	stripped := stripMarkup(text)
	return utf8.RuneCountInString(stripped)
}

// stripMarkup removes every "<...>" span from text.
func stripMarkup(text string) string {
	var b strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// endsWithTerminalPunct reports whether text ends with one of `. ! ? …`.
func endsWithTerminalPunct(text string) bool {
	for _, suf := range []string{".", "!", "?", "…"} {
		if strings.HasSuffix(text, suf) {
			return true
		}
	}
	return false
}

// endsWithCommaLike reports whether text ends with `, ; :`.
func endsWithCommaLike(text string) bool {
	for _, suf := range []string{",", ";", ":"} {
		if strings.HasSuffix(text, suf) {
			return true
		}
	}
	return false
}

// cleanLastToken strips trailing punctuation from the final
// whitespace-delimited token of line and lower-cases it, for weak-word
// comparisons (the short-end check measures the raw last token instead).
func cleanLastToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	last = strings.TrimRight(last, ".,!?;:…")
	return strings.ToLower(last)
}
