package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestZerologAdapter_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapterWithLogger(zerolog.New(&buf))

	adapter.Info("chunk sent",
		Frame("telemetry"),
		Int("bytes", 200),
		Duration("elapsed", time.Second),
		Err(errors.New("boom")),
		Any("raw", []byte{0xca, 0xfe}),
	)

	out := buf.String()
	for _, want := range []string{`"frame":"telemetry"`, `"bytes":200`, `"error":"boom"`, `"raw":"cafe"`, `"message":"chunk sent"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %s", out, want)
		}
	}
}

func TestConsoleAdapter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewConsoleAdapter(&buf, zerolog.WarnLevel)

	adapter.Debug("hidden")
	adapter.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn level, got %q", buf.String())
	}

	adapter.Warn("visible", Path("/tmp/x"))
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected warn message, got %q", buf.String())
	}
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	l.Debug("a")
	l.Info("b")
	l.Warn("c")
	l.Error("d", Err(errors.New("e")))
}
