package emit

import (
	"strings"
	"testing"

	"github.com/floke75/soniox-converter/pkg/caption"
	"github.com/floke75/soniox-converter/pkg/ir"
	"github.com/floke75/soniox-converter/pkg/kinetic"
)

func TestBCP47KnownCode(t *testing.T) {
	t.Parallel()
	var warnings []Warning
	tag := bcp47("sv", &warnings)
	if tag != "sv-SE" {
		t.Errorf("bcp47(sv) = %q, want sv-SE", tag)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings for a known code, got %+v", warnings)
	}
}

func TestBCP47UnknownCodeWarns(t *testing.T) {
	t.Parallel()
	var warnings []Warning
	tag := bcp47("xx", &warnings)
	if tag == "" {
		t.Error("expected a non-empty sentinel tag")
	}
	if len(warnings) != 1 || warnings[0].Kind != WarningUnknownLanguage {
		t.Fatalf("warnings = %+v, want one UnknownLanguage warning", warnings)
	}
	if warnings[0].Detail != "xx" {
		t.Errorf("warning detail = %q, want xx", warnings[0].Detail)
	}
}

func TestBCP47EmptyCodeSilent(t *testing.T) {
	t.Parallel()
	var warnings []Warning
	bcp47("", &warnings)
	if len(warnings) != 0 {
		t.Errorf("expected no warning for an empty (absent) language code, got %+v", warnings)
	}
}

func TestEditorJSONSplitsAtEOS(t *testing.T) {
	t.Parallel()
	tr := &ir.Transcript{
		Words: []ir.Word{
			{Kind: ir.WordKindWord, Text: "Hi", StartS: 0, DurationS: 0.2, EOS: true, Speaker: ir.NoSpeaker, Language: "en"},
			{Kind: ir.WordKindPunct, Text: ".", StartS: 0.2, DurationS: 0.01, EOS: false, Speaker: ir.NoSpeaker, Language: "en"},
			{Kind: ir.WordKindWord, Text: "Bye", StartS: 0.3, DurationS: 0.2, EOS: false, Speaker: ir.NoSpeaker, Language: "en"},
		},
		Speakers: map[string]ir.SpeakerInfo{},
	}

	segments, warnings := EditorJSON(tr)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", warnings)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(segments), segments)
	}
	if len(segments[0].Words) != 2 || len(segments[1].Words) != 1 {
		t.Errorf("segment word counts = %d, %d, want 2, 1", len(segments[0].Words), len(segments[1].Words))
	}
}

func TestEditorJSONTagsNeverNull(t *testing.T) {
	t.Parallel()
	tr := &ir.Transcript{
		Words: []ir.Word{
			{Kind: ir.WordKindWord, Text: "Hi", StartS: 0, DurationS: 0.2, EOS: true, Speaker: ir.NoSpeaker},
		},
		Speakers: map[string]ir.SpeakerInfo{},
	}
	segments, _ := EditorJSON(tr)
	if segments[0].Words[0].Tags == nil {
		t.Error("expected non-nil empty Tags slice")
	}

	data, err := MarshalEditorJSON(segments)
	if err != nil {
		t.Fatalf("MarshalEditorJSON() error = %v", err)
	}
	if strings.Contains(string(data), `"tags":null`) {
		t.Errorf("marshaled output contains null tags: %s", data)
	}
}

func TestEditorJSONSpeakerResolvedFromFirstWord(t *testing.T) {
	t.Parallel()
	tr := &ir.Transcript{
		Words: []ir.Word{
			{Kind: ir.WordKindWord, Text: "Hi", StartS: 0, DurationS: 0.2, EOS: true, Speaker: "1"},
		},
		Speakers: map[string]ir.SpeakerInfo{
			"1": {SourceLabel: "1", DisplayName: "Speaker 1", UUID: "uuid-1"},
		},
	}
	segments, _ := EditorJSON(tr)
	if segments[0].Speaker != "uuid-1" {
		t.Errorf("Speaker = %q, want uuid-1", segments[0].Speaker)
	}
}

func TestSRTTimestampFormat(t *testing.T) {
	t.Parallel()
	if got, want := formatTimestamp(3661.234), "01:01:01,234"; got != want {
		t.Errorf("formatTimestamp(3661.234) = %q, want %q", got, want)
	}
	if got, want := formatTimestamp(0), "00:00:00,000"; got != want {
		t.Errorf("formatTimestamp(0) = %q, want %q", got, want)
	}
}

func TestSRTMinDisplayDurFloor(t *testing.T) {
	t.Parallel()
	segments := []caption.CaptionSegment{
		{StartS: 0, EndS: 0.1, Lines: []string{"hi"}},
	}
	out := SRT(segments, 1.0)
	if !strings.Contains(out, "00:00:00,000 --> 00:00:01,000") {
		t.Errorf("expected floored end time, got: %s", out)
	}
}

func TestSRTCapsBeforeNextCue(t *testing.T) {
	t.Parallel()
	segments := []caption.CaptionSegment{
		{StartS: 0, EndS: 5.0, Lines: []string{"hi"}},
		{StartS: 5.02, EndS: 6.0, Lines: []string{"bye"}},
	}
	out := SRT(segments, 0.5)
	if !strings.Contains(out, "--> 00:00:04,970") {
		t.Errorf("expected first cue's end capped to next.start-0.05, got: %s", out)
	}
}

func TestKineticOneSegmentPerEntry(t *testing.T) {
	t.Parallel()
	row := []kinetic.RowEntry{
		{Text: "hi", Appear: 0.1, DurationS: 0.5},
		{Text: "there", Appear: 0.7, DurationS: 0.4},
	}
	segments := Kinetic(row)
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Words[0].Text != "hi" || segments[0].Start != 0.1 || segments[0].Duration != 0.5 {
		t.Errorf("segment 0 = %+v, want text=hi start=0.1 duration=0.5", segments[0])
	}
}

func TestPlainTextDelegatesToKinetic(t *testing.T) {
	t.Parallel()
	tr := &ir.Transcript{Words: []ir.Word{
		{Kind: ir.WordKindWord, Text: "Hello", StartS: 0, DurationS: 0.1},
		{Kind: ir.WordKindPunct, Text: ",", StartS: 0.1, DurationS: 0.01},
		{Kind: ir.WordKindWord, Text: "world", StartS: 0.2, DurationS: 0.1},
	}}
	if got, want := PlainText(tr), "Hello, world"; got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
}
