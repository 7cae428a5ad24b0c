package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestLevelString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(99), "unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String(): expected %q, got %q", tt.level, tt.want, got)
		}
	}
}

func TestLevelOrdering(t *testing.T) {
	t.Parallel()

	if !(LevelDebug < LevelInfo && LevelInfo < LevelWarn && LevelWarn < LevelError) {
		t.Error("Expected levels ordered debug < info < warn < error")
	}
}

// =============================================================================
// Output Tests
// =============================================================================

func captureOutput(fn func()) string {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)
	fn()
	return buf.String()
}

func TestInfoCarriesPrefix(t *testing.T) {
	out := captureOutput(func() {
		Info("hello %s", "world")
	})

	if !strings.Contains(out, "[INFO] hello world") {
		t.Errorf("Expected [INFO] prefix, got %q", out)
	}
}

func TestWarnAndErrorAlwaysEmitAtDefaultLevel(t *testing.T) {
	out := captureOutput(func() {
		Warn("watch out")
		Error("it broke")
	})

	if !strings.Contains(out, "[WARN] watch out") {
		t.Errorf("Expected warn output, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] it broke") {
		t.Errorf("Expected error output, got %q", out)
	}
}

func TestDebugSuppressedAtDefaultLevel(t *testing.T) {
	// Default level is info unless the environment says otherwise.
	if IsDebugEnabled() {
		t.Skip("debug logging enabled in environment")
	}

	out := captureOutput(func() {
		Debug("noise")
	})

	if strings.Contains(out, "noise") {
		t.Errorf("Expected debug output suppressed, got %q", out)
	}
}
