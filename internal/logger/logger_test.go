package logger

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

func reset() {
	SetVerbose(false)
	SetQuiet(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestVerboseOnlyLevels(t *testing.T) {
	tests := []struct {
		name    string
		log     func()
		verbose bool
		want    string
	}{
		{"debug verbose", func() { Debug("parsed %s", "quiz") }, true, "[DEBUG] parsed quiz\n"},
		{"debug quiet", func() { Debug("parsed %s", "quiz") }, false, ""},
		{"info verbose", func() { Info("indexed %d", 3) }, true, "[INFO] indexed 3\n"},
		{"info quiet", func() { Info("indexed %d", 3) }, false, ""},
		{"section verbose", func() { Section("Build") }, true, "\n=== Build ===\n"},
		{"section quiet", func() { Section("Build") }, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer reset()

			var buf bytes.Buffer
			SetOutput(&buf)
			SetVerbose(tt.verbose)

			tt.log()

			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWarn(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Warn("skipped %s block", "quiz")
	if got := buf.String(); got != "[WARN] skipped quiz block\n" {
		t.Errorf("unexpected warn output: %q", got)
	}

	buf.Reset()
	SetQuiet(true)
	Warn("hidden")
	if buf.Len() > 0 {
		t.Errorf("expected no output in quiet mode, got %q", buf.String())
	}

	SetVerbose(true)
	Warn("shown")
	if got := buf.String(); got != "[WARN] shown\n" {
		t.Errorf("verbose should override quiet, got %q", got)
	}
}

func TestTimed(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Timed("extract", time.Now())

	if got := buf.String(); !strings.HasPrefix(got, "[INFO] extract took ") {
		t.Errorf("unexpected timing output: %q", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer reset()

	SetOutput(io.Discard)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			SetVerbose(true)
			Debug("concurrent %d", i)
			Warn("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
