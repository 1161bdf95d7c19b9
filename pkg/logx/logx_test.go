package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newBufferLogger(format Format, level Level) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.Format = format
	cfg.Level = level
	cfg.EnableColors = false
	cfg.Output = buf
	return NewLogger(cfg), buf
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	l, buf := newBufferLogger(FormatConsole, LevelWarn)

	l.WithField("job_id", "abc").Info("dropped")
	l.WithField("job_id", "abc").Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "kept") || !strings.Contains(out, "job_id=abc") {
		t.Fatalf("expected warn line with fields, got %q", out)
	}
}

func TestJSONFormatter_IncludesFieldsAndError(t *testing.T) {
	l, buf := newBufferLogger(FormatJSON, LevelDebug)

	l.WithFields(Fields{"attempt": 2}).WithError(errors.New("boom")).Error("translation failed")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid json line %q: %v", buf.String(), err)
	}
	if line["message"] != "translation failed" || line["level"] != "ERROR" {
		t.Fatalf("unexpected line: %v", line)
	}
	if line["error"] != "boom" || line["attempt"] != float64(2) {
		t.Fatalf("missing fields: %v", line)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, "WARNING": LevelWarn, "off": LevelOff, "???": LevelInfo}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelOffDisablesEverything(t *testing.T) {
	if LevelOff.Enabled(LevelFatal) {
		t.Fatal("LevelOff must not enable fatal messages")
	}
	if !LevelWarn.Enabled(LevelError) || LevelWarn.Enabled(LevelInfo) {
		t.Fatal("LevelWarn must pass errors and drop info")
	}
	if got := ParseLevel("trace"); got != LevelDebug {
		t.Fatalf("ParseLevel(trace) = %v", got)
	}
}
