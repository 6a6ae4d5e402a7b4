// Package kinetic partitions a transcript's sentence word-streams into
// three interleaved, time-aligned output streams ("rows") with precise
// appear/disappear timing and bounded hold — the kinetic captioning mode
// used for dynamic, word-by-word on-screen text. A speaker change forces
// a bucket boundary exactly like a sentence terminator does, so a
// multi-speaker transcript never splices two speakers' words into the
// same bucket (spec.md §4.4's open question on this is resolved in favour
// of forcing the break — see SPEC_FULL.md §4.4).
package kinetic

import (
	"strings"

	"github.com/floke75/soniox-converter/pkg/ir"
)

// Config holds the bucketiser's tuning knobs. No field is defaulted: the
// zero value of Config is invalid, use [DefaultConfig].
type Config struct {
	// MaxBucketSize is the maximum number of words that appear and clear
	// together. Default: 3.
	MaxBucketSize int

	// MaxHoldS caps how long a bucket may remain visible after its first
	// word's start time. Default: 3.0.
	MaxHoldS float64

	// FinalHoldS extends the very last bucket of the transcript beyond
	// its last word's end time. Default: 1.5.
	FinalHoldS float64

	// MinWordDisplayS is the floor on every word's display duration.
	// Default: 0.15.
	MinWordDisplayS float64
}

// DefaultConfig returns the reference configuration from spec.md §4.4.
func DefaultConfig() Config {
	return Config{
		MaxBucketSize:   3,
		MaxHoldS:        3.0,
		FinalHoldS:      1.5,
		MinWordDisplayS: 0.15,
	}
}

// RowEntry is one word's appearance in one of the three output rows.
type RowEntry struct {
	Text      string
	Appear    float64
	DurationS float64
}

// mergeablePunct mirrors pkg/caption's rule 1 merge set; kinetic
// bucketing reuses the same punctuation-merge transformation (spec.md
// §4.4), independently of caption segmentation.
var mergeablePunct = map[string]bool{
	".": true, ",": true, "?": true, "!": true,
	";": true, ":": true, "…": true, "—": true,
}

const maxPunctMerge = 3

// mergedWord is a post-punctuation-merge word carrying its own EOS flag
// and speaker label, needed for sentence splitting.
type mergedWord struct {
	text    string
	startS  float64
	endS    float64
	eos     bool
	speaker string
}

// Bucketise partitions words — the full transcript stream, any number of
// speakers — into three row streams. A change in speaker between two
// consecutive words forces a bucket boundary in addition to the normal
// sentence-terminator boundary, so rows never interleave two speakers'
// words into the same bucket.
func Bucketise(words []ir.Word, cfg Config) (row1, row2, row3 []RowEntry) {
	merged := mergeWords(words)
	sentences := splitSentences(merged)

	var buckets [][]mergedWord
	for _, sentence := range sentences {
		buckets = append(buckets, bucketSentence(sentence, cfg.MaxBucketSize)...)
	}

	for bi, bucket := range buckets {
		isLast := bi == len(buckets)-1
		var next *mergedWord
		if !isLast {
			first := buckets[bi+1][0]
			next = &first
		}

		clear := clearTime(bucket, next, isLast, cfg)

		for wi, w := range bucket {
			appear := w.startS
			duration := clear - appear
			if duration < cfg.MinWordDisplayS {
				duration = cfg.MinWordDisplayS
			}
			entry := RowEntry{Text: w.text, Appear: appear, DurationS: duration}

			switch wi {
			case 0:
				row1 = append(row1, entry)
			case 1:
				row2 = append(row2, entry)
			case 2:
				row3 = append(row3, entry)
			}
		}
	}

	return row1, row2, row3
}

// clearTime implements spec.md §4.4's shared clear-time rule: normally
// the next bucket's first word's start; for the transcript's final
// bucket, the last word's end plus FinalHoldS; always capped at the
// bucket's first word's start plus MaxHoldS.
func clearTime(bucket []mergedWord, next *mergedWord, isLast bool, cfg Config) float64 {
	last := bucket[len(bucket)-1]

	var clear float64
	if isLast {
		clear = last.endS + cfg.FinalHoldS
	} else {
		clear = next.startS
	}

	cap := bucket[0].startS + cfg.MaxHoldS
	if clear > cap {
		clear = cap
	}
	return clear
}

// bucketSentence partitions one sentence's merged words left-to-right
// into buckets of at most size words, the final bucket carrying the
// remainder.
func bucketSentence(sentence []mergedWord, size int) [][]mergedWord {
	var buckets [][]mergedWord
	for i := 0; i < len(sentence); i += size {
		end := i + size
		if end > len(sentence) {
			end = len(sentence)
		}
		buckets = append(buckets, sentence[i:end])
	}
	return buckets
}

// splitSentences partitions merged into sentences at eos=true boundaries
// (the boundary word is included in the sentence it ends) and at every
// speaker change (the new speaker's word starts a fresh sentence).
func splitSentences(merged []mergedWord) [][]mergedWord {
	var sentences [][]mergedWord
	var current []mergedWord

	for i, w := range merged {
		if i > 0 && w.speaker != merged[i-1].speaker && len(current) > 0 {
			sentences = append(sentences, current)
			current = nil
		}
		current = append(current, w)
		if w.eos {
			sentences = append(sentences, current)
			current = nil
		}
	}
	if len(current) > 0 {
		sentences = append(sentences, current)
	}
	return sentences
}

// mergeWords applies the punctuation-merge rule of spec.md §4.2 rule 1 /
// §4.4 to the IR word stream, producing one visual word per slot. EOS and
// speaker propagate from the word the punctuation (if any) was merged
// from, or from the word itself when nothing merges onto it.
func mergeWords(words []ir.Word) []mergedWord {
	out := make([]mergedWord, 0, len(words))
	runLen := 0

	var overflow string
	var overflowStart, overflowEnd float64
	haveOverflow := false

	for _, w := range words {
		if w.Kind == ir.WordKindPunct && mergeablePunct[w.Text] {
			switch {
			case haveOverflow:
				overflow += w.Text
				overflowEnd = w.EndS()
			case len(out) > 0 && runLen < maxPunctMerge:
				last := &out[len(out)-1]
				last.text += w.Text
				last.endS = w.EndS()
				runLen++
			default:
				overflow = w.Text
				overflowStart = w.StartS
				overflowEnd = w.EndS()
				haveOverflow = true
			}
			continue
		}

		if w.Kind == ir.WordKindPunct {
			out = append(out, mergedWord{text: w.Text, startS: w.StartS, endS: w.EndS(), eos: w.EOS, speaker: w.Speaker})
			runLen = 0
			continue
		}

		if haveOverflow {
			out = append(out, mergedWord{
				text:    overflow + w.Text,
				startS:  overflowStart,
				endS:    w.EndS(),
				eos:     w.EOS,
				speaker: w.Speaker,
			})
			haveOverflow = false
			overflow = ""
			runLen = 0
			continue
		}

		out = append(out, mergedWord{text: w.Text, startS: w.StartS, endS: w.EndS(), eos: w.EOS, speaker: w.Speaker})
		runLen = 0
	}

	if haveOverflow {
		out = append(out, mergedWord{text: overflow, startS: overflowStart, endS: overflowEnd})
	}

	return out
}

// PlainText concatenates merged word texts with single spaces, for the
// thin plain-text emitter's consumption when it wants a kinetic-consistent
// word boundary view. Not used by Bucketise itself.
func PlainText(words []ir.Word) string {
	merged := mergeWords(words)
	parts := make([]string, len(merged))
	for i, w := range merged {
		parts[i] = w.text
	}
	return strings.Join(parts, " ")
}
