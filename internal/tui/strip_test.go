package tui

import (
	"strings"
	"testing"
)

func TestBuildStripPrefixAndCursor(t *testing.T) {
	runes := buildStrip(0, "14", "")
	if len(runes) != 5 {
		t.Fatalf("expected prefix, 2 digits and cursor, got %d", len(runes))
	}
	if runes[0].s != prefixStyle.Render("3") || runes[2].s != correctStyle.Render("1") {
		t.Fatalf("unexpected prefix or digit styling")
	}
	if runes[4].s != cursorStyle.Render("_") {
		t.Fatalf("expected cursor placeholder")
	}
}

func TestBuildStripHintCursor(t *testing.T) {
	runes := buildStrip(0, "1", "41")
	if runes[3].s != cursorStyle.Render("4") || runes[4].s != pendingStyle.Render("1") {
		t.Fatalf("expected first hint digit underlined and the rest pending")
	}
}

func TestBuildStripSeparatesBlocks(t *testing.T) {
	runes := buildStrip(0, "1415926535", "8")
	spaces := 0
	for _, r := range runes {
		if r.isSpace {
			spaces++
		}
	}
	if spaces != 1 {
		t.Fatalf("expected one block separator, got %d", spaces)
	}
	if !runes[12].isSpace {
		t.Fatalf("expected separator after ten digits")
	}
}

func TestBuildStripOffsetUsesEllipsis(t *testing.T) {
	runes := buildStrip(25, "38", "")
	if runes[0].s != prefixStyle.Render("…") {
		t.Fatalf("expected ellipsis prefix")
	}
}

func TestWrapBreaksAtBlocks(t *testing.T) {
	runes := buildStrip(0, "14159265358979323846", "")
	out := wrapStyledRunes(runes, 14)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lineWidthOf(runes) <= 14 {
		t.Fatalf("expected strip to exceed width")
	}
}
