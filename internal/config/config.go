// Package config loads a caption-segmenter house style from YAML: a
// named reference preset plus field-level overrides, resolved into an
// immutable [caption.Config] value. Unlike the segmenter itself,
// which never touches the filesystem, this package is the one place
// house-style files are read and validated before being handed to the
// pure core.
package config

import "github.com/floke75/soniox-converter/pkg/caption"

// FileConfig is the on-disk shape of a house-style file: a named
// preset plus optional overrides. Zero-value override fields are left
// untouched on the preset — there is no way to express "set this field
// to its zero value" from YAML, which matches every caption.Config
// field here being a positive cap or weight.
type FileConfig struct {
	// Preset selects the base configuration: "broadcast" or "social".
	Preset string `yaml:"preset"`

	MaxLines         int      `yaml:"max_lines,omitempty"`
	MaxLineChars     int      `yaml:"max_line_chars,omitempty"`
	MaxCueChars      int      `yaml:"max_cue_chars,omitempty"`
	TargetLineChars  int      `yaml:"target_line_chars,omitempty"`
	PreferSplitOver  int      `yaml:"prefer_split_over,omitempty"`
	MinLineChars     int      `yaml:"min_line_chars,omitempty"`
	TargetCPS        float64  `yaml:"target_cps,omitempty"`
	MaxCPS           float64  `yaml:"max_cps,omitempty"`
	MinCueDur        float64  `yaml:"min_cue_dur,omitempty"`
	MaxCueDur        float64  `yaml:"max_cue_dur,omitempty"`
	MinDisplayDur    float64  `yaml:"min_display_dur,omitempty"`
	TargetCueChars   int      `yaml:"target_cue_chars,omitempty"`
	MaxLookbackWords int      `yaml:"max_lookback_words,omitempty"`
	WeakWords        []string `yaml:"weak_words,omitempty"`
}

// Resolve applies fc's overrides on top of its named preset and
// returns the resulting caption.Config. Callers should call [Validate]
// first; Resolve does not itself validate.
func (fc *FileConfig) Resolve() (caption.Config, error) {
	cfg, err := basePreset(fc.Preset)
	if err != nil {
		return caption.Config{}, err
	}

	if fc.MaxLines != 0 {
		cfg.MaxLines = fc.MaxLines
	}
	if fc.MaxLineChars != 0 {
		cfg.MaxLineChars = fc.MaxLineChars
	}
	if fc.MaxCueChars != 0 {
		cfg.MaxCueChars = fc.MaxCueChars
	}
	if fc.TargetLineChars != 0 {
		cfg.TargetLineChars = fc.TargetLineChars
	}
	if fc.PreferSplitOver != 0 {
		cfg.PreferSplitOver = fc.PreferSplitOver
	}
	if fc.MinLineChars != 0 {
		cfg.MinLineChars = fc.MinLineChars
	}
	if fc.TargetCPS != 0 {
		cfg.TargetCPS = fc.TargetCPS
	}
	if fc.MaxCPS != 0 {
		cfg.MaxCPS = fc.MaxCPS
	}
	if fc.MinCueDur != 0 {
		cfg.MinCueDur = fc.MinCueDur
	}
	if fc.MaxCueDur != 0 {
		cfg.MaxCueDur = fc.MaxCueDur
	}
	if fc.MinDisplayDur != 0 {
		cfg.MinDisplayDur = fc.MinDisplayDur
	}
	if fc.TargetCueChars != 0 {
		cfg.TargetCueChars = fc.TargetCueChars
	}
	if fc.MaxLookbackWords != 0 {
		cfg = cfg.WithMaxLookbackWords(fc.MaxLookbackWords)
	}
	if len(fc.WeakWords) > 0 {
		set := make(map[string]bool, len(fc.WeakWords))
		for _, w := range fc.WeakWords {
			set[w] = true
		}
		cfg = cfg.WithWeakWords(set)
	}

	return cfg, nil
}

func basePreset(name string) (caption.Config, error) {
	switch name {
	case "broadcast", "":
		return caption.Broadcast(), nil
	case "social":
		return caption.Social(), nil
	default:
		return caption.Config{}, &UnknownPresetError{Name: name}
	}
}
