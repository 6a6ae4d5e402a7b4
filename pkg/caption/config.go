// Package caption re-shapes an [ir.Transcript] into a [CaptionWord] stream
// (the adapter) and partitions that stream into time-bounded, 1-or-2-line
// captions using a dynamic-programming cost minimisation (the segmenter).
//
// Both stages are pure functions of their inputs and a [Config] value —
// there is no process-wide mutable configuration, so callers may run the
// broadcast and social presets concurrently without interference (see
// spec.md §9's "process-wide configuration" design note).
package caption

import "strings"

// Weights holds the scalar weights that parameterise the segmenter's cost
// function. All fields correspond 1:1 to the `w.*` terms in spec.md §4.3.
type Weights struct {
	LenDeviation     float64 // w.len_deviation
	SingleLineLong   float64 // w.single_line_long
	Balance          float64 // w.balance
	Orphan           float64 // w.orphan
	WeakEnd          float64 // w.weak_end
	ShortEnd         float64 // w.short_end
	PunctBonus       float64 // w.punct_bonus (negative)
	CommaBonus       float64 // w.comma_bonus (negative)
	CPSAboveTarget   float64 // w.cps_above_target
	CPSAboveMax      float64 // w.cps_above_max
	CueLenDeviation  float64 // w.cue_len_deviation
	CueDurBelow      float64 // w.cue_dur_below
	CueDurAbove      float64 // w.cue_dur_above
	SpeakerChange    float64 // w.speaker_change_bonus
	BoundaryPunct    float64 // boundary_punct_bonus
	BoundaryWeakEnd  float64 // boundary_weak_end
	BoundaryNoPunct  float64 // boundary_no_punct
}

// Config is an immutable value describing every tunable limit and weight
// of the segmenter. Construct one via [Broadcast] or [Social] and derive
// overrides with the With* helpers, which return a modified copy —
// Config itself is never mutated in place.
type Config struct {
	MaxLines         int
	MaxLineChars     int
	MaxCueChars      int
	TargetLineChars  int
	PreferSplitOver  int
	MinLineChars     int
	TargetCPS        float64
	MaxCPS           float64
	MinCueDur        float64
	MaxCueDur        float64
	MinDisplayDur    float64
	TargetCueChars   int
	MaxLookbackWords int
	Weights          Weights
	WeakWords        map[string]bool
}

// defaultWeights are shared by both reference presets; they were tuned for
// Swedish SDH line-break behaviour and are not exposed as separate "target
// language" configuration — spec.md keeps the weak-word set itself as the
// only language-specific knob (see [swedishWeakWords]).
var defaultWeights = Weights{
	LenDeviation:    0.05,
	SingleLineLong:  0.3,
	Balance:         0.08,
	Orphan:          0.6,
	WeakEnd:         0.9,
	ShortEnd:        0.5,
	PunctBonus:      -1.2,
	CommaBonus:      -0.5,
	CPSAboveTarget:  0.8,
	CPSAboveMax:     3.0,
	CueLenDeviation: 0.02,
	CueDurBelow:     1.5,
	CueDurAbove:     1.0,
	SpeakerChange:   0.4,
	BoundaryPunct:   -2.0,
	BoundaryWeakEnd: 1.0,
	BoundaryNoPunct: 1.5,
}

// Broadcast returns the broadcast reference configuration: 2 lines of up
// to 42 characters, tuned for Swedish SDH (subtitles for the deaf and
// hard-of-hearing).
func Broadcast() Config {
	return Config{
		MaxLines:         2,
		MaxLineChars:     42,
		MaxCueChars:      84,
		TargetLineChars:  36,
		PreferSplitOver:  40,
		MinLineChars:     10,
		TargetCPS:        14,
		MaxCPS:           20,
		MinCueDur:        1.0,
		MaxCueDur:        7.0,
		MinDisplayDur:    0.833,
		TargetCueChars:   60,
		MaxLookbackWords: 18,
		Weights:          defaultWeights,
		WeakWords:        swedishWeakWords,
	}
}

// Social returns the social reference configuration: a single line of up
// to 25 characters, suited to vertical-video captioning.
func Social() Config {
	return Config{
		MaxLines:         1,
		MaxLineChars:     25,
		MaxCueChars:      25,
		TargetLineChars:  20,
		PreferSplitOver:  25,
		MinLineChars:     6,
		TargetCPS:        15,
		MaxCPS:           22,
		MinCueDur:        0.7,
		MaxCueDur:        4.0,
		MinDisplayDur:    0.5,
		TargetCueChars:   20,
		MaxLookbackWords: 6,
		Weights:          defaultWeights,
		WeakWords:        swedishWeakWords,
	}
}

// WithMaxLookbackWords returns a copy of c with MaxLookbackWords set to n.
func (c Config) WithMaxLookbackWords(n int) Config {
	c.MaxLookbackWords = n
	return c
}

// WithWeights returns a copy of c with Weights replaced by w.
func (c Config) WithWeights(w Weights) Config {
	c.Weights = w
	return c
}

// WithWeakWords returns a copy of c with WeakWords replaced by set. Pass a
// fresh map — c does not take ownership of the caller's map but also does
// not defensively copy it.
func (c Config) WithWeakWords(set map[string]bool) Config {
	c.WeakWords = set
	return c
}

// swedishWeakWords is the language-specific weak-word set from spec.md
// §4.3: function words that make poor line terminators in Swedish SDH.
// Kept as plain configuration data (not a language-detection heuristic) so
// other languages can be added by constructing a derived [Config] via
// [Config.WithWeakWords].
var swedishWeakWords = buildWeakWordSet(
	"och att som men eller utan eftersom medan",
	"i på av för med till om från kring mot via",
	"under över mellan innan efter trots",
	"när då så",
	"det de den detta dessa man vi jag du han hon ni en ett där här ju",
	"är var blir ska kan har hade får vill kommer inte",
)

func buildWeakWordSet(lines ...string) map[string]bool {
	set := make(map[string]bool)
	for _, line := range lines {
		for _, word := range strings.Fields(line) {
			set[word] = true
		}
	}
	return set
}
