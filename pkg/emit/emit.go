// Package emit implements the downstream wire formats described in
// spec.md §6: editor-JSON, SRT, the three kinetic row streams, and
// plain text. Every formatter is a pure function of its input value
// (an [ir.Transcript], a []caption.CaptionSegment, or kinetic row
// entries) — none of them touch the filesystem; cmd/capticore writes
// their returned bytes to disk.
package emit

import (
	"github.com/floke75/soniox-converter/internal/langmap"
)

// WarningUnknownLanguage is the warning kind recorded when a language
// code is absent from [langmap]'s table (spec.md §7).
const WarningUnknownLanguage = "UnknownLanguage"

// Warning is a non-fatal condition surfaced during emission.
type Warning struct {
	Kind   string
	Detail string
}

// Word is one editor-JSON word entry.
type Word struct {
	Text       string   `json:"text"`
	Start      float64  `json:"start"`
	Duration   float64  `json:"duration"`
	Confidence float64  `json:"confidence"`
	EOS        bool     `json:"eos"`
	Type       string   `json:"type"`
	Tags       []string `json:"tags"`
}

// Segment is one editor-JSON segment.
type Segment struct {
	Start    float64  `json:"start"`
	Duration float64  `json:"duration"`
	Speaker  string   `json:"speaker"`
	Language string   `json:"language"`
	Words    []Word   `json:"words"`
}

// bcp47 resolves an ISO 639-1 code to its BCP-47 tag via [langmap],
// appending a warning to warnings when the code is unmapped. An empty
// code resolves silently to the unknown sentinel without a warning —
// "no language reported" is not the same condition as "language
// reported but unrecognised".
func bcp47(code string, warnings *[]Warning) string {
	if code == "" {
		return langmap.UnknownTag
	}
	tag, unknown := langmap.Lookup(code)
	if unknown {
		*warnings = append(*warnings, Warning{Kind: WarningUnknownLanguage, Detail: code})
	}
	return tag
}
