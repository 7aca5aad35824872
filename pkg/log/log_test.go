package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, JSONOutput: true, Output: &buf})

	Logger.Info().Msg("hello")
	line := buf.String()
	if !strings.Contains(line, `"message":"hello"`) {
		t.Errorf("output = %s, want JSON message field", line)
	}
	if !strings.Contains(line, `"time"`) {
		t.Errorf("output = %s, want timestamp field", line)
	}
}

func TestInitLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: ErrorLevel, JSONOutput: true, Output: &buf})

	Logger.Info().Msg("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info logged at error level: %s", buf.String())
	}
	Logger.Error().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("error not logged at error level")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: DebugLevel, JSONOutput: true, Output: &buf})

	l := WithComponent("manager")
	l.Info().Msg("wired")
	if !strings.Contains(buf.String(), `"component":"manager"`) {
		t.Errorf("output = %s, want component field", buf.String())
	}
}

func TestWithSessionID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: DebugLevel, JSONOutput: true, Output: &buf})

	l := WithSessionID("S01")
	l.Info().Msg("wired")
	if !strings.Contains(buf.String(), `"session_id":"S01"`) {
		t.Errorf("output = %s, want session_id field", buf.String())
	}
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, JSONOutput: true, Output: &buf})

	Errorf("command failed", errors.New("boom"))
	line := buf.String()
	if !strings.Contains(line, `"error":"boom"`) {
		t.Errorf("output = %s, want error field", line)
	}
	if !strings.Contains(line, `"message":"command failed"`) {
		t.Errorf("output = %s, want message field", line)
	}
}
