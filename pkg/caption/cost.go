package caption

import (
	"strings"
)

// lineBreakResult is the outcome of [bestLineBreak]: the chosen line
// layout and its score.
type lineBreakResult struct {
	lines []string
	score float64
}

// bestLineBreak implements spec.md §4.3's `best_line_break(text, start,
// end)`: it normalises whitespace, considers the single-line candidate
// and (when cfg allows 2 lines) every inter-word two-line split, scores
// each valid candidate, and returns the lowest-scoring one. ok is false
// when no candidate satisfies the hard per-line cap.
func bestLineBreak(text string, start, end float64, cfg Config) (lineBreakResult, bool) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return lineBreakResult{}, false
	}

	haveCandidate := false
	var best lineBreakResult

	consider := func(lines []string, score float64) {
		if !haveCandidate || score < best.score {
			best = lineBreakResult{lines: lines, score: score}
			haveCandidate = true
		}
	}

	joined := strings.Join(words, " ")
	if l := visibleLen(joined); l <= cfg.MaxLineChars {
		consider([]string{joined}, scoreSingleLine(joined, l, start, end, cfg))
	}

	if cfg.MaxLines >= 2 {
		for split := 1; split < len(words); split++ {
			line1 := strings.Join(words[:split], " ")
			line2 := strings.Join(words[split:], " ")
			l1, l2 := visibleLen(line1), visibleLen(line2)
			if l1 > cfg.MaxLineChars || l2 > cfg.MaxLineChars {
				continue
			}
			consider([]string{line1, line2}, scoreTwoLines(line1, line2, l1, l2, start, end, cfg))
		}
	}

	return best, haveCandidate
}

// scoreSingleLine implements the single-line score formula of spec.md
// §4.3.
func scoreSingleLine(line string, l int, start, end float64, cfg Config) float64 {
	w := cfg.Weights
	target := cfg.TargetLineChars

	score := w.LenDeviation * absInt(l-target)
	score += w.SingleLineLong * maxFloat(0, float64(l-cfg.PreferSplitOver))
	score += cpsPenalty(l, start, end, cfg)
	return score
}

// scoreTwoLines implements the two-line score formula of spec.md §4.3.
func scoreTwoLines(line1, line2 string, l1, l2 int, start, end float64, cfg Config) float64 {
	w := cfg.Weights
	target := cfg.TargetLineChars

	score := w.LenDeviation * (absInt(l1-target) + absInt(l2-target))
	score += w.Balance * absInt(l1-l2)
	score += w.Orphan * maxFloat(0, float64(cfg.MinLineChars-minInt(l1, l2)))

	if cfg.WeakWords[cleanLastToken(line1)] {
		score += w.WeakEnd
	}
	if fields := strings.Fields(line1); len(fields) > 0 {
		rawLast := visibleLen(fields[len(fields)-1])
		if rawLast >= 1 && rawLast <= 2 {
			score += w.ShortEnd
		}
	}
	if endsWithTerminalPunct(line1) {
		score += w.PunctBonus
	}
	if endsWithCommaLike(line1) {
		score += w.CommaBonus
	}

	totalLen := l1 + l2
	score += cpsPenalty(totalLen, start, end, cfg)

	return score
}

// cpsPenalty implements the shared `cps_penalty(L, start, end)` term.
func cpsPenalty(visible int, start, end float64, cfg Config) float64 {
	dur := end - start
	if dur < epsilon {
		dur = epsilon
	}
	cps := float64(visible) / dur

	w := cfg.Weights
	penalty := w.CPSAboveTarget * maxFloat(0, cps-cfg.TargetCPS)
	penalty += w.CPSAboveMax * maxFloat(0, cps-cfg.MaxCPS)
	return penalty
}

// computeSegmentCost implements spec.md §4.3's segment cost formula,
// combining the chosen line break's score with cue-length, cue-duration,
// boundary, and speaker-change terms.
func computeSegmentCost(lb lineBreakResult, start, end float64, cfg Config, hasSpeaker bool, lastWordText string) float64 {
	w := cfg.Weights
	dur := end - start

	cueLen := 0
	for _, l := range lb.lines {
		cueLen += visibleLen(l)
	}

	cost := lb.score
	cost += w.CueLenDeviation * absInt(cueLen-cfg.TargetCueChars)
	cost += w.CueDurBelow * maxFloat(0, cfg.MinCueDur-dur)
	cost += w.CueDurAbove * maxFloat(0, dur-cfg.MaxCueDur)
	cost += boundaryTerm(lastWordText, cfg)
	if hasSpeaker {
		cost += w.SpeakerChange
	}
	return cost
}

// boundaryTerm implements spec.md §4.3's `boundary_term(last_word)`,
// applying exactly one of the four mutually exclusive bonuses in the
// given precedence order.
func boundaryTerm(lastWordText string, cfg Config) float64 {
	w := cfg.Weights
	switch {
	case endsWithTerminalPunct(lastWordText):
		return w.BoundaryPunct
	case endsWithCommaLike(lastWordText):
		return 0.3 * w.BoundaryPunct
	case cfg.WeakWords[cleanLastToken(lastWordText)]:
		return w.BoundaryWeakEnd
	case lastWordText == "":
		return 0
	default:
		return w.BoundaryNoPunct
	}
}

func absInt(n int) float64 {
	if n < 0 {
		return float64(-n)
	}
	return float64(n)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
