package emit

import (
	"github.com/segmentio/encoding/json"

	"github.com/floke75/soniox-converter/pkg/kinetic"
)

// Kinetic builds one editor-JSON-shaped segment stream from a single
// kinetic row (spec.md §6): one segment per bucket entry, each
// carrying exactly that entry's word with start = appear, duration =
// display_duration, type = "word". Confidence and EOS are not tracked
// by the bucketiser's row entries, so they are emitted as their zero
// values rather than invented.
func Kinetic(row []kinetic.RowEntry) []Segment {
	out := make([]Segment, len(row))
	for i, e := range row {
		word := Word{
			Text:     e.Text,
			Start:    e.Appear,
			Duration: e.DurationS,
			Type:     "word",
			Tags:     []string{},
		}
		out[i] = Segment{
			Start:    e.Appear,
			Duration: e.DurationS,
			Words:    []Word{word},
		}
	}
	return out
}

// MarshalKinetic marshals one kinetic row's segment stream.
func MarshalKinetic(segments []Segment) ([]byte, error) {
	return json.Marshal(segments)
}
