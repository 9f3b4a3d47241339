package hllog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewDefaultsToInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Writer: &buf})

	log.Debug().Msg("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered at default info level, got %q", buf.String())
	}

	log.Info().Msg("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected info message in output, got %q", buf.String())
	}
}

func TestNewHonorsExplicitLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Writer: &buf, Level: "debug"})

	log.Debug().Msg("debug line")
	if !strings.Contains(buf.String(), "debug line") {
		t.Fatalf("expected debug line to be emitted, got %q", buf.String())
	}
}

func TestNewDevelopmentUsesConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Writer: &buf, Development: true, Level: "info"})

	log.Info().Msg("hello")
	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected console (non-JSON) output in development mode, got %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("expected message text in console output, got %q", out)
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	if log.GetLevel() != zerolog.Disabled {
		t.Fatalf("expected Nop logger to be disabled, got level %v", log.GetLevel())
	}
}
