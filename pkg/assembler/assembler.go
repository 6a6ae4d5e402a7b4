// Package assembler reconstructs whole words from byte-pair sub-word
// tokens, classifies punctuation, aggregates confidence, infers sentence
// boundaries, and maps speakers and languages into a canonical
// [ir.Transcript].
//
// Assemble never panics on well-formed input; malformed input is reported
// through the sentinel errors declared below, per spec.md §7.
package assembler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/floke75/soniox-converter/pkg/ir"
)

// TranslationStatus classifies a SourceToken's relationship to the
// original-language audio.
type TranslationStatus int

const (
	// TranslationAbsent means the upstream service did not report a
	// translation status at all.
	TranslationAbsent TranslationStatus = iota

	// TranslationOriginal marks a token transcribed in the spoken
	// language.
	TranslationOriginal

	// TranslationNone marks a token the upstream service explicitly
	// flagged as not a translation.
	TranslationNone

	// TranslationTranslation marks a token produced by machine
	// translation rather than transcription. Tokens of this status are
	// discarded by the pre-filter.
	TranslationTranslation
)

// translationStatusWire is the wire string for each [TranslationStatus]
// value; the empty string round-trips to [TranslationAbsent].
var translationStatusWire = map[TranslationStatus]string{
	TranslationAbsent:      "",
	TranslationOriginal:    "original",
	TranslationNone:        "none",
	TranslationTranslation: "translation",
}

// MarshalJSON implements json.Marshaler.
func (s TranslationStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + translationStatusWire[s] + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *TranslationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	for status, wire := range translationStatusWire {
		if wire == str {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("assembler: unknown translation_status %q", str)
}

// SourceToken is one sub-word unit as returned by the upstream
// speech-to-text service. Field names match the wire representation
// fixed by spec.md §6.
type SourceToken struct {
	// Text is the token text; may carry a single leading U+0020 to mark
	// a new word boundary.
	Text string `json:"text"`

	// StartMS and EndMS are millisecond offsets from audio start. May be
	// unset (nil) on tokens flagged as translation — such tokens are
	// discarded before timing is ever consulted.
	StartMS *int64 `json:"start_ms,omitempty"`
	EndMS   *int64 `json:"end_ms,omitempty"`

	// Confidence is the token's own confidence score, 0..1.
	Confidence float64 `json:"confidence"`

	// Speaker is the opaque upstream speaker label, or "" if none.
	Speaker string `json:"speaker,omitempty"`

	// Language is the ISO 639-1 code reported for this token, or "" if
	// none.
	Language string `json:"language,omitempty"`

	// TranslationStatus classifies this token; see [TranslationStatus].
	TranslationStatus TranslationStatus `json:"translation_status,omitempty"`
}

// punctuationSet is the full punctuation alphabet recognised by the
// word-boundary rules (spec.md §4.1). Only "." "?" "!" additionally drive
// EOS inference.
var punctuationSet = map[string]bool{
	".": true, ",": true, "?": true, "!": true,
	";": true, ":": true, "…": true, "—": true, "–": true,
}

// ErrMalformedToken is the sentinel wrapped by [*TokenError] and returned
// by [Assemble] when a post-filter token is missing timing or carries a
// negative interval.
var ErrMalformedToken = errors.New("assembler: malformed token")

// ErrEmptyTranscript is returned by [Assemble] when zero tokens remain
// after the pre-filter.
var ErrEmptyTranscript = errors.New("assembler: empty transcript")

// TokenError wraps [ErrMalformedToken] with the offending token's index in
// the post-filter sequence, so callers can recover it via [errors.As]
// instead of parsing the error string.
type TokenError struct {
	// Index is the position of the offending token within the sequence
	// that remains after the translation pre-filter.
	Index int
	reason string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("assembler: token %d: %s", e.Index, e.reason)
}

func (e *TokenError) Unwrap() error { return ErrMalformedToken }

// Assemble converts tokens into an [ir.Transcript], applying the
// word-boundary rules, confidence aggregation, EOS inference, and speaker
// table construction described in spec.md §4.1.
//
// sourceName is stored verbatim on the resulting transcript; it is not
// interpreted.
func Assemble(tokens []SourceToken, sourceName string) (*ir.Transcript, error) {
	filtered := make([]SourceToken, 0, len(tokens))
	for _, t := range tokens {
		if t.TranslationStatus == TranslationTranslation {
			continue
		}
		if t.Text == "" {
			continue
		}
		filtered = append(filtered, t)
	}

	if len(filtered) == 0 {
		return nil, ErrEmptyTranscript
	}

	for i, t := range filtered {
		if t.StartMS == nil || t.EndMS == nil {
			return nil, &TokenError{Index: i, reason: "missing start_ms or end_ms"}
		}
		if *t.EndMS < *t.StartMS {
			return nil, &TokenError{Index: i, reason: "end_ms precedes start_ms"}
		}
	}

	words := assembleWords(filtered)
	inferEOS(words)

	speakers := buildSpeakerTable(words)

	primaryLang := primaryLanguage(words)

	t := &ir.Transcript{
		Words:           words,
		Speakers:        speakers,
		PrimaryLanguage: primaryLang,
		SourceName:      sourceName,
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("assembler: internal invariant violation: %w", err)
	}

	return t, nil
}

// openWord accumulates sub-word tokens between boundaries.
type openWord struct {
	text       string
	startMS    int64
	endMS      int64
	confidence float64 // running minimum
	speaker    string
	language   string
}

func (o *openWord) close() ir.Word {
	return ir.Word{
		Kind:       ir.WordKindWord,
		Text:       o.text,
		StartS:     float64(o.startMS) / 1000.0,
		DurationS:  float64(o.endMS-o.startMS) / 1000.0,
		Confidence: o.confidence,
		Speaker:    o.speaker,
		Language:   o.language,
	}
}

// assembleWords applies the left-to-right word-boundary rules of
// spec.md §4.1 to the pre-filtered, timing-validated token sequence.
func assembleWords(tokens []SourceToken) []ir.Word {
	words := make([]ir.Word, 0, len(tokens))
	var open *openWord

	flush := func() {
		if open != nil {
			words = append(words, open.close())
			open = nil
		}
	}

	for _, t := range tokens {
		text := t.Text

		if isStandalonePunctuation(text) {
			flush()
			words = append(words, ir.Word{
				Kind:       ir.WordKindPunct,
				Text:       text,
				StartS:     float64(*t.StartMS) / 1000.0,
				DurationS:  float64(*t.EndMS-*t.StartMS) / 1000.0,
				Confidence: t.Confidence,
				Speaker:    t.Speaker,
				Language:   t.Language,
			})
			continue
		}

		leadingSpace := strings.HasPrefix(text, " ")
		stripped := strings.TrimPrefix(text, " ")

		switch {
		case open == nil:
			open = &openWord{
				text:       stripped,
				startMS:    *t.StartMS,
				endMS:      *t.EndMS,
				confidence: t.Confidence,
				speaker:    t.Speaker,
				language:   t.Language,
			}

		case leadingSpace:
			flush()
			open = &openWord{
				text:       stripped,
				startMS:    *t.StartMS,
				endMS:      *t.EndMS,
				confidence: t.Confidence,
				speaker:    t.Speaker,
				language:   t.Language,
			}

		case t.Speaker != open.speaker:
			// Speaker change forces a word boundary even without a
			// leading space.
			flush()
			open = &openWord{
				text:       stripped,
				startMS:    *t.StartMS,
				endMS:      *t.EndMS,
				confidence: t.Confidence,
				speaker:    t.Speaker,
				language:   t.Language,
			}

		default:
			open.text += stripped
			open.endMS = *t.EndMS
			if t.Confidence < open.confidence {
				open.confidence = t.Confidence
			}
		}
	}
	flush()

	return words
}

// isStandalonePunctuation reports whether text, with at most one leading
// space stripped, is exactly one recognised punctuation mark.
func isStandalonePunctuation(text string) bool {
	return punctuationSet[strings.TrimPrefix(text, " ")]
}

// inferEOS marks word.EOS=true on every word immediately preceding a run
// of punctuation that contains a ".", "?", or "!" before the next
// non-punctuation word — e.g. "Really" "," "?" must still mark "Really"
// as end-of-sentence, skipping over the intervening comma.
func inferEOS(words []ir.Word) {
	for i := range words {
		if words[i].Kind != ir.WordKindWord {
			continue
		}
		for j := i + 1; j < len(words) && words[j].Kind == ir.WordKindPunct; j++ {
			if ir.IsSentenceTerminator(words[j].Text) {
				words[i].EOS = true
				break
			}
		}
	}
}

// buildSpeakerTable assigns a "Speaker N" display name (in order of first
// appearance) and a fresh UUID to every distinct source label referenced
// by words. When no word carries a speaker label, a single default
// speaker is synthesised and NOT attached to any word (words keep
// [ir.NoSpeaker]), matching spec.md's "no speaker labels present
// anywhere" case.
func buildSpeakerTable(words []ir.Word) map[string]ir.SpeakerInfo {
	speakers := make(map[string]ir.SpeakerInfo)

	n := 0
	for _, w := range words {
		if w.Speaker == ir.NoSpeaker {
			continue
		}
		if _, ok := speakers[w.Speaker]; ok {
			continue
		}
		n++
		speakers[w.Speaker] = ir.SpeakerInfo{
			SourceLabel: w.Speaker,
			DisplayName: fmt.Sprintf("Speaker %d", n),
			UUID:        uuid.New().String(),
		}
	}

	if len(speakers) == 0 {
		const defaultLabel = "__default__"
		speakers[defaultLabel] = ir.SpeakerInfo{
			SourceLabel: defaultLabel,
			DisplayName: "Speaker 1",
			UUID:        uuid.New().String(),
		}
	}

	return speakers
}

// primaryLanguage returns the most frequent language code across words,
// with ties broken by first occurrence.
func primaryLanguage(words []ir.Word) string {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, w := range words {
		if w.Language == ir.NoLanguage {
			continue
		}
		if _, seen := counts[w.Language]; !seen {
			order = append(order, w.Language)
		}
		counts[w.Language]++
	}

	best := ir.NoLanguage
	bestCount := 0
	for _, lang := range order {
		if counts[lang] > bestCount {
			best = lang
			bestCount = counts[lang]
		}
	}
	return best
}
