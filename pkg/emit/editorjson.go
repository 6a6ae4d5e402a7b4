package emit

import (
	"github.com/segmentio/encoding/json"

	"github.com/floke75/soniox-converter/pkg/ir"
)

// EditorJSON builds the editor-JSON segment list from t: one segment
// per sentence (spec.md §6). A sentence ends at a word with EOS set
// together with the punctuation marks that directly follow it, so the
// terminator stays in the sentence it closes. A segment's
// speaker/language fields are taken from its first word — the
// assembler's forced boundary on a speaker change (spec.md §4.1) is a
// word boundary, not a sentence boundary, so a sentence can straddle a
// speaker change; this is a deliberate "first word wins" reading rather
// than an invariant this package checks.
func EditorJSON(t *ir.Transcript) ([]Segment, []Warning) {
	var warnings []Warning
	var segments []Segment

	var current []ir.Word
	flush := func() {
		if len(current) == 0 {
			return
		}
		segments = append(segments, buildSegment(current, t, &warnings))
		current = nil
	}

	pendingEOS := false
	for _, w := range t.Words {
		if pendingEOS && w.Kind != ir.WordKindPunct {
			flush()
			pendingEOS = false
		}
		current = append(current, w)
		if w.EOS {
			pendingEOS = true
		}
	}
	flush()

	return segments, warnings
}

func buildSegment(words []ir.Word, t *ir.Transcript, warnings *[]Warning) Segment {
	first := words[0]
	last := words[len(words)-1]

	speaker := ""
	if first.Speaker != ir.NoSpeaker {
		speaker = t.Speakers[first.Speaker].UUID
	}

	out := make([]Word, len(words))
	for i, w := range words {
		out[i] = Word{
			Text:       w.Text,
			Start:      w.StartS,
			Duration:   w.DurationS,
			Confidence: w.Confidence,
			EOS:        w.EOS,
			Type:       w.Kind.String(),
			Tags:       emptyTagsOrSelf(w.Tags),
		}
	}

	return Segment{
		Start:    first.StartS,
		Duration: last.EndS() - first.StartS,
		Speaker:  speaker,
		Language: bcp47(first.Language, warnings),
		Words:    out,
	}
}

// emptyTagsOrSelf returns tags unchanged unless it is nil, in which
// case it returns an empty (non-nil) slice so the JSON encoding is
// always "[]" rather than "null" (spec.md §6 shows tags as `[]`).
func emptyTagsOrSelf(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// MarshalEditorJSON marshals segments using segmentio/encoding/json, a
// drop-in allocation-light replacement for encoding/json chosen for
// the emitters' hot allocation path (tens of thousands of words per
// five-hour transcript).
func MarshalEditorJSON(segments []Segment) ([]byte, error) {
	return json.Marshal(segments)
}
