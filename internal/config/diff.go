package config

// Diff describes what changed between two house-style files, for the
// batch-to-batch hot-reload case (a caption house-style file changing
// between runs over the same show). Only fields that affect the
// segmenter's output are tracked.
type Diff struct {
	PresetChanged bool
	NewPreset     string

	CapsChanged      bool
	WeakWordsChanged bool
}

// DiffConfigs compares old and new and reports what changed.
func DiffConfigs(old, new *FileConfig) Diff {
	d := Diff{}

	if old.Preset != new.Preset {
		d.PresetChanged = true
		d.NewPreset = new.Preset
	}

	if old.MaxLines != new.MaxLines ||
		old.MaxLineChars != new.MaxLineChars ||
		old.MaxCueChars != new.MaxCueChars ||
		old.TargetLineChars != new.TargetLineChars ||
		old.PreferSplitOver != new.PreferSplitOver ||
		old.MinLineChars != new.MinLineChars ||
		old.TargetCPS != new.TargetCPS ||
		old.MaxCPS != new.MaxCPS ||
		old.MinCueDur != new.MinCueDur ||
		old.MaxCueDur != new.MaxCueDur ||
		old.MinDisplayDur != new.MinDisplayDur ||
		old.TargetCueChars != new.TargetCueChars ||
		old.MaxLookbackWords != new.MaxLookbackWords {
		d.CapsChanged = true
	}

	d.WeakWordsChanged = !stringSlicesEqual(old.WeakWords, new.WeakWords)

	return d
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
