package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Console(&buf, "warn")
	logger.Info().Msg("hidden")
	logger.Warn().Str("key", "piflow_personal_best").Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info to be filtered: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "piflow_personal_best") {
		t.Fatalf("expected warn line with field: %s", out)
	}
}

func TestParseLevelFallback(t *testing.T) {
	if parseLevel("bogus") != zerolog.InfoLevel {
		t.Fatalf("expected info fallback")
	}
	if parseLevel(" DEBUG ") != zerolog.DebugLevel {
		t.Fatalf("expected debug level")
	}
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "piflow.log")
	logger, closer, err := OpenFile(path, "info")
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	logger.Error().Msg("failed to save record")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"message":"failed to save record"`) {
		t.Fatalf("unexpected log contents: %s", data)
	}
}
