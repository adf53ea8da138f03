package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/piflow/internal/digits"
	"github.com/verte-zerg/piflow/internal/record"
)

func TestConfusionLines(t *testing.T) {
	pb := record.Default()
	pb.DigitConfusion["1"] = map[string]int{"2": 12}
	lines := ConfusionLines(pb)
	if len(lines) != 11 {
		t.Fatalf("expected header plus 10 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "exp\\typed") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	fields := strings.Fields(lines[2])
	if fields[0] != "1" || fields[2] != "-" || fields[3] != "12" {
		t.Fatalf("unexpected row for 1: %q", lines[2])
	}
}

func TestRenderPositionTable(t *testing.T) {
	now := time.UnixMilli(10_000_000)
	weak := []WeakPosition{{Position: 2, Count: 1, Attempts: 2, ErrorRate: 0.5, LastError: now.Add(-time.Hour)}}
	var buf bytes.Buffer
	if err := RenderPositionTable(&buf, weak, digits.New(10), now); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Weak Positions", "Error Rate", "50.0%", "1 hour ago"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	lines := strings.Split(out, "\n")
	fields := strings.Fields(lines[2])
	if fields[0] != "3" || fields[1] != "1" {
		t.Fatalf("expected 1-based position and reference digit, got %q", lines[2])
	}
}

func TestRenderPositionTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPositionTable(&buf, nil, nil, time.Now()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No mistakes recorded.") {
		t.Fatalf("expected empty notice")
	}
}

func TestRenderConfusionListsTopPairs(t *testing.T) {
	pb := record.Default()
	pb.DigitConfusion["9"] = map[string]int{"6": 4}
	var buf bytes.Buffer
	if err := RenderConfusion(&buf, pb, 3); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "9 typed as 6: 4") {
		t.Fatalf("expected top pair line:\n%s", buf.String())
	}
}
