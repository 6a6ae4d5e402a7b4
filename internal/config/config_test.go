package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/floke75/soniox-converter/pkg/caption"
)

func TestResolveDefaultPresetIsBroadcast(t *testing.T) {
	t.Parallel()
	fc := &FileConfig{}
	cfg, err := fc.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.MaxLineChars != caption.Broadcast().MaxLineChars {
		t.Errorf("MaxLineChars = %d, want broadcast default %d", cfg.MaxLineChars, caption.Broadcast().MaxLineChars)
	}
}

func TestResolveSocialPresetWithOverride(t *testing.T) {
	t.Parallel()
	fc := &FileConfig{Preset: "social", MaxLineChars: 30}
	cfg, err := fc.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.MaxLineChars != 30 {
		t.Errorf("MaxLineChars = %d, want overridden 30", cfg.MaxLineChars)
	}
	if cfg.MaxLines != caption.Social().MaxLines {
		t.Errorf("MaxLines = %d, want untouched social default %d", cfg.MaxLines, caption.Social().MaxLines)
	}
}

func TestResolveUnknownPreset(t *testing.T) {
	t.Parallel()
	fc := &FileConfig{Preset: "cinema"}
	_, err := fc.Resolve()
	var upErr *UnknownPresetError
	if !errors.As(err, &upErr) {
		t.Fatalf("Resolve() error = %v, want *UnknownPresetError", err)
	}
	if !errors.Is(err, ErrUnknownPreset) {
		t.Error("expected errors.Is(err, ErrUnknownPreset) to be true")
	}
}

func TestResolveWeakWordsOverride(t *testing.T) {
	t.Parallel()
	fc := &FileConfig{Preset: "broadcast", WeakWords: []string{"liksom"}}
	cfg, err := fc.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !cfg.WeakWords["liksom"] {
		t.Error("expected overridden weak word set to contain 'liksom'")
	}
}

func TestLoadFromReaderValid(t *testing.T) {
	t.Parallel()
	doc := strings.NewReader("preset: social\nmax_line_chars: 20\n")
	fc, err := LoadFromReader(doc)
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if fc.Preset != "social" || fc.MaxLineChars != 20 {
		t.Errorf("got %+v, want preset=social max_line_chars=20", fc)
	}
}

func TestLoadFromReaderRejectsUnknownField(t *testing.T) {
	t.Parallel()
	doc := strings.NewReader("preset: social\nbogus_field: 1\n")
	_, err := LoadFromReader(doc)
	if err == nil {
		t.Fatal("expected an error for an unknown YAML field, got nil")
	}
}

func TestLoadFromReaderRejectsInvalidPreset(t *testing.T) {
	t.Parallel()
	doc := strings.NewReader("preset: cinema\n")
	_, err := LoadFromReader(doc)
	if err == nil {
		t.Fatal("expected an error for an unknown preset, got nil")
	}
}

func TestValidateNegativeField(t *testing.T) {
	t.Parallel()
	fc := &FileConfig{MaxLineChars: -5}
	err := Validate(fc)
	if err == nil {
		t.Fatal("expected an error for negative max_line_chars, got nil")
	}
}

func TestValidateCrossFieldCueDuration(t *testing.T) {
	t.Parallel()
	fc := &FileConfig{MinCueDur: 5, MaxCueDur: 1}
	err := Validate(fc)
	if err == nil {
		t.Fatal("expected an error for max_cue_dur < min_cue_dur, got nil")
	}
}

func TestValidateCrossFieldCPS(t *testing.T) {
	t.Parallel()
	fc := &FileConfig{TargetCPS: 20, MaxCPS: 10}
	err := Validate(fc)
	if err == nil {
		t.Fatal("expected an error for max_cps < target_cps, got nil")
	}
}

func TestValidateOKReturnsNil(t *testing.T) {
	t.Parallel()
	fc := &FileConfig{Preset: "broadcast"}
	if err := Validate(fc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDiffConfigsPresetChanged(t *testing.T) {
	t.Parallel()
	old := &FileConfig{Preset: "broadcast"}
	next := &FileConfig{Preset: "social"}
	d := DiffConfigs(old, next)
	if !d.PresetChanged || d.NewPreset != "social" {
		t.Errorf("diff = %+v, want PresetChanged=true NewPreset=social", d)
	}
}

func TestDiffConfigsCapsChanged(t *testing.T) {
	t.Parallel()
	old := &FileConfig{MaxLineChars: 42}
	next := &FileConfig{MaxLineChars: 50}
	d := DiffConfigs(old, next)
	if !d.CapsChanged {
		t.Error("expected CapsChanged=true")
	}
}

func TestDiffConfigsWeakWordsChanged(t *testing.T) {
	t.Parallel()
	old := &FileConfig{WeakWords: []string{"och"}}
	next := &FileConfig{WeakWords: []string{"och", "men"}}
	d := DiffConfigs(old, next)
	if !d.WeakWordsChanged {
		t.Error("expected WeakWordsChanged=true")
	}
}

func TestDiffConfigsNoChange(t *testing.T) {
	t.Parallel()
	fc := &FileConfig{Preset: "broadcast", MaxLineChars: 42, WeakWords: []string{"och"}}
	d := DiffConfigs(fc, fc)
	if d.PresetChanged || d.CapsChanged || d.WeakWordsChanged {
		t.Errorf("diff of identical configs = %+v, want all false", d)
	}
}
