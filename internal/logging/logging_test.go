package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"loud", InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultLogger_LevelRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut, InfoLevel, false)

	l.Debug("hidden")
	l.Info("shown", Fields{"frame": 3})
	l.Warn("careful")
	l.Error(errors.New("boom"), "failed")

	if strings.Contains(out.String(), "hidden") {
		t.Error("debug message written below the configured level")
	}
	if !strings.Contains(out.String(), "[INFO] shown frame=3") {
		t.Errorf("stdout missing info line: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[WARN] careful") {
		t.Errorf("stderr missing warn line: %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "[ERROR] failed: boom") {
		t.Errorf("stderr missing error line: %q", errOut.String())
	}
}

func TestDefaultLogger_WithFieldsDoesNotMutateParent(t *testing.T) {
	var out bytes.Buffer
	parent := New(&out, &out, DebugLevel, false)
	child := parent.WithFields(Fields{"sink": "png"})

	child.Info("child")
	parent.Info("parent")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "sink=png") {
		t.Errorf("child line missing preset field: %q", lines[0])
	}
	if strings.Contains(lines[1], "sink=png") {
		t.Errorf("parent line picked up child field: %q", lines[1])
	}
}

func TestDefaultLogger_MultilineFieldTrails(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, &out, InfoLevel, false)
	l.Error(errors.New("x"), "failed", Fields{"trace": "line1\nline2", "a": 1})

	s := out.String()
	if !strings.Contains(s, "failed: x a=1\nline1\nline2") {
		t.Errorf("unexpected layout: %q", s)
	}
}

func TestDefaultLogger_FatalExits(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, &out, InfoLevel, true)
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatal(errors.New("dead"), "giving up")

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(strings.SplitN(out.String(), " ", 3)[2], ColorBold+ColorRed) {
		t.Errorf("fatal line not colored: %q", out.String())
	}
}

func TestSetGlobalLoggerNil(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	SetGlobalLogger(nil)
	if _, ok := GetGlobalLogger().(*NoOpLogger); !ok {
		t.Errorf("nil logger should install NoOpLogger, got %T", GetGlobalLogger())
	}
	Info("dropped")
}
