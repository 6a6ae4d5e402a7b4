package emit

import (
	"fmt"
	"strings"

	"github.com/floke75/soniox-converter/pkg/caption"
)

// SRT renders segments as an SRT subtitle document: UTF-8 text, LF
// line endings. Final timing rules are applied in order (spec.md §6):
// first enforce end >= start + minDisplayDur, then cap
// end = min(end, next.start - 0.05) for every cue but the last.
func SRT(segments []caption.CaptionSegment, minDisplayDur float64) string {
	ends := adjustedEnds(segments, minDisplayDur)

	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatTimestamp(seg.StartS), formatTimestamp(ends[i]))
		for _, line := range seg.Lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// adjustedEnds computes each segment's final end time per the two
// timing rules, without mutating segments.
func adjustedEnds(segments []caption.CaptionSegment, minDisplayDur float64) []float64 {
	ends := make([]float64, len(segments))
	for i, seg := range segments {
		end := seg.EndS
		if end < seg.StartS+minDisplayDur {
			end = seg.StartS + minDisplayDur
		}
		ends[i] = end
	}

	for i := 0; i < len(segments)-1; i++ {
		next := segments[i+1].StartS - 0.05
		if ends[i] > next {
			ends[i] = next
		}
	}

	return ends
}

// formatTimestamp renders seconds as SRT's HH:MM:SS,mmm.
func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMS := int64(seconds*1000 + 0.5)

	ms := totalMS % 1000
	totalS := totalMS / 1000
	s := totalS % 60
	totalM := totalS / 60
	m := totalM % 60
	h := totalM / 60

	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
