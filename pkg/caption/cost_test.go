package caption

import "testing"

func TestBestLineBreakPrefersSingleLineWhenItFits(t *testing.T) {
	t.Parallel()
	cfg := Broadcast()
	lb, ok := bestLineBreak("short line", 0, 2, cfg)
	if !ok {
		t.Fatal("expected a valid line break")
	}
	if len(lb.lines) != 1 {
		t.Errorf("got %d lines, want 1: %v", len(lb.lines), lb.lines)
	}
}

func TestBestLineBreakRejectsOverCap(t *testing.T) {
	t.Parallel()
	cfg := Social() // max_line_chars = 25, max_lines = 1
	text := "this sentence is definitely longer than twenty five characters"
	_, ok := bestLineBreak(text, 0, 4, cfg)
	if ok {
		t.Fatal("expected no valid single-line break for social config given an over-length text")
	}
}

func TestBoundaryTermPrecedence(t *testing.T) {
	t.Parallel()
	cfg := Broadcast()

	if got := boundaryTerm("done.", cfg); got != cfg.Weights.BoundaryPunct {
		t.Errorf("terminal punct boundary term = %v, want %v", got, cfg.Weights.BoundaryPunct)
	}
	if got, want := boundaryTerm("wait,", cfg), 0.3*cfg.Weights.BoundaryPunct; got != want {
		t.Errorf("comma-like boundary term = %v, want %v", got, want)
	}
	if got := boundaryTerm("", cfg); got != 0 {
		t.Errorf("empty text boundary term = %v, want 0", got)
	}
}

func TestCPSPenaltyZeroWithinTarget(t *testing.T) {
	t.Parallel()
	cfg := Broadcast()
	// 10 visible chars over 2 seconds = 5 cps, well under target (14).
	if got := cpsPenalty(10, 0, 2, cfg); got != 0 {
		t.Errorf("cpsPenalty = %v, want 0", got)
	}
}

func TestCPSPenaltyPositiveAboveTarget(t *testing.T) {
	t.Parallel()
	cfg := Broadcast()
	// 60 visible chars over 1 second = 60 cps, above both thresholds.
	if got := cpsPenalty(60, 0, 1, cfg); got <= 0 {
		t.Errorf("cpsPenalty = %v, want > 0", got)
	}
}

func TestVisibleLenStripsMarkup(t *testing.T) {
	t.Parallel()
	if got, want := visibleLen("hello <i>world</i>"), len("hello world"); got != want {
		t.Errorf("visibleLen() = %d, want %d", got, want)
	}
}

func TestVisibleLenCountsRunesNotBytes(t *testing.T) {
	t.Parallel()
	// "å" is 2 bytes in UTF-8 but 1 rune.
	if got, want := visibleLen("blåbär"), 6; got != want {
		t.Errorf("visibleLen(%q) = %d, want %d", "blåbär", got, want)
	}
}
