package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownPreset is the sentinel wrapped by [UnknownPresetError].
var ErrUnknownPreset = errors.New("config: unknown preset")

// UnknownPresetError reports a house-style file naming a preset other
// than "broadcast" or "social".
type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("config: unknown preset %q", e.Name)
}

func (e *UnknownPresetError) Unwrap() error { return ErrUnknownPreset }

// Load reads the YAML house-style file at path and returns a validated
// [FileConfig]; call [FileConfig.Resolve] to turn it into a
// caption.Config. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	fc, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return fc, nil
}

// LoadFromReader decodes a YAML house-style document from r and
// validates the result. Useful in tests where configs are constructed
// from string literals.
func LoadFromReader(r io.Reader) (*FileConfig, error) {
	fc := &FileConfig{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(fc); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(fc); err != nil {
		return nil, err
	}
	return fc, nil
}

// Validate checks that fc describes a coherent, resolvable
// configuration. It returns a joined (errors.Join) list of every
// validation failure found, or nil.
func Validate(fc *FileConfig) error {
	var errs []error

	switch fc.Preset {
	case "", "broadcast", "social":
	default:
		errs = append(errs, &UnknownPresetError{Name: fc.Preset})
	}

	negativeIntField := func(name string, v int) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("config: %s must not be negative, got %d", name, v))
		}
	}
	negativeFloatField := func(name string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("config: %s must not be negative, got %v", name, v))
		}
	}

	negativeIntField("max_lines", fc.MaxLines)
	negativeIntField("max_line_chars", fc.MaxLineChars)
	negativeIntField("max_cue_chars", fc.MaxCueChars)
	negativeIntField("target_line_chars", fc.TargetLineChars)
	negativeIntField("prefer_split_over", fc.PreferSplitOver)
	negativeIntField("min_line_chars", fc.MinLineChars)
	negativeIntField("target_cue_chars", fc.TargetCueChars)
	negativeIntField("max_lookback_words", fc.MaxLookbackWords)
	negativeFloatField("target_cps", fc.TargetCPS)
	negativeFloatField("max_cps", fc.MaxCPS)
	negativeFloatField("min_cue_dur", fc.MinCueDur)
	negativeFloatField("max_cue_dur", fc.MaxCueDur)
	negativeFloatField("min_display_dur", fc.MinDisplayDur)

	if fc.MaxCueDur != 0 && fc.MinCueDur != 0 && fc.MaxCueDur < fc.MinCueDur {
		errs = append(errs, fmt.Errorf("config: max_cue_dur (%v) must not be less than min_cue_dur (%v)", fc.MaxCueDur, fc.MinCueDur))
	}
	if fc.MaxCPS != 0 && fc.TargetCPS != 0 && fc.MaxCPS < fc.TargetCPS {
		errs = append(errs, fmt.Errorf("config: max_cps (%v) must not be less than target_cps (%v)", fc.MaxCPS, fc.TargetCPS))
	}

	return errors.Join(errs...)
}
