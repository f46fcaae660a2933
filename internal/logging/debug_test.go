package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDebugEnabled(t *testing.T) {
	os.Unsetenv("JT_DEBUG")
	if DebugEnabled() {
		t.Error("DebugEnabled() should return false when JT_DEBUG is not set")
	}

	t.Setenv("JT_DEBUG", "")
	if DebugEnabled() {
		t.Error("DebugEnabled() should return false when JT_DEBUG is empty")
	}

	t.Setenv("JT_DEBUG", "1")
	if !DebugEnabled() {
		t.Error("DebugEnabled() should return true when JT_DEBUG is set")
	}
}

func TestDebugf(t *testing.T) {
	var buf bytes.Buffer
	prev := SetDebugOutput(&buf)
	defer SetDebugOutput(prev)

	t.Setenv("JT_DEBUG", "")
	Debugf("hidden %s\n", "line")
	if buf.Len() != 0 {
		t.Errorf("Debugf wrote %q with debug disabled", buf.String())
	}

	t.Setenv("JT_DEBUG", "1")
	Debugf("shift %s: %d activities\n", "s1", 3)
	if got := buf.String(); got != "shift s1: 3 activities\n" {
		t.Errorf("Debugf wrote %q", got)
	}
}

func TestNew(t *testing.T) {
	t.Setenv("JT_DEBUG", "")

	tests := []struct {
		name      string
		level     string
		wantLevel log.Level
		wantErr   bool
	}{
		{name: "default", level: "", wantLevel: log.InfoLevel},
		{name: "warn", level: "warn", wantLevel: log.WarnLevel},
		{name: "bogus", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(&bytes.Buffer{}, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Error("New() should reject an unknown level")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if logger.GetLevel() != tt.wantLevel {
				t.Errorf("level = %v, want %v", logger.GetLevel(), tt.wantLevel)
			}
		})
	}
}

func TestNew_WritesKeyValues(t *testing.T) {
	t.Setenv("JT_DEBUG", "")
	var buf bytes.Buffer
	logger, err := New(&buf, "info")
	if err != nil {
		t.Fatal(err)
	}

	logger.Warn("catalog lookup failed", "area", "area-3")
	if !strings.Contains(buf.String(), "area=area-3") {
		t.Errorf("expected key/value in output, got %q", buf.String())
	}
}

func TestDebugEnvForcesDebugLevel(t *testing.T) {
	t.Setenv("JT_DEBUG", "1")
	logger, err := New(&bytes.Buffer{}, "error")
	if err != nil {
		t.Fatal(err)
	}
	if logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", logger.GetLevel())
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Error("OrDiscard(nil) should return a logger")
	}
}
