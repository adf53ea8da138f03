package mnemonic

import (
	"strings"
	"testing"
)

func TestHintBlocks(t *testing.T) {
	if !strings.HasPrefix(Hint(0), "産医師") || Hint(9) != Hint(0) {
		t.Fatalf("expected first block phrase for 0-9")
	}
	if !strings.HasPrefix(Hint(10), "薬なく") {
		t.Fatalf("expected second block phrase at 10, got %q", Hint(10))
	}
	if !strings.HasPrefix(Hint(199), "腰組王様") {
		t.Fatalf("expected last phrase at 199, got %q", Hint(199))
	}
}

func TestHintBounds(t *testing.T) {
	if Hint(-1) != "" {
		t.Fatalf("expected no hint before the sequence")
	}
	if Hint(Covered()) != beyondTable || Hint(5000) != beyondTable {
		t.Fatalf("expected fallback line past the table")
	}
	if Covered() != 200 {
		t.Fatalf("expected 200 covered digits, got %d", Covered())
	}
}

func TestBlockStart(t *testing.T) {
	if BlockStart(37) != 30 || BlockStart(40) != 40 || BlockStart(-2) != 0 {
		t.Fatalf("unexpected block starts")
	}
}
