package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf)
	logger.SetLevel(LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()

	if strings.Contains(output, "debug message") {
		t.Error("debug message should be filtered out")
	}
	if strings.Contains(output, "info message") {
		t.Error("info message should be filtered out")
	}
	if !strings.Contains(output, "level=warning") {
		t.Errorf("warn message should be present, got: %s", output)
	}
	if !strings.Contains(output, "level=error") {
		t.Errorf("error message should be present, got: %s", output)
	}
}

func TestLoggerFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf)
	logger.SetLevel(LevelDebug)

	logger.Info("fetching page %d of %s", 3, "/app/api")

	output := buf.String()
	if !strings.Contains(output, "level=info") {
		t.Errorf("expected info level, got: %s", output)
	}
	if !strings.Contains(output, "fetching page 3 of /app/api") {
		t.Errorf("expected formatted message, got: %s", output)
	}
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf)
	logger.SetLevel(LevelDebug)

	logger.WithField("component", "stream").Info("fetching")

	output := buf.String()
	if !strings.Contains(output, "component=stream") {
		t.Errorf("expected field in output, got: %s", output)
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf)
	logger.SetLevel(LevelDebug)

	logger.WithFields(map[string]interface{}{
		"pages":  4,
		"events": 120,
	}).Info("done")

	output := buf.String()
	if !strings.Contains(output, "pages=4") {
		t.Errorf("expected pages field, got: %s", output)
	}
	if !strings.Contains(output, "events=120") {
		t.Errorf("expected events field, got: %s", output)
	}
}

func TestLoggerChainedWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf)
	logger.SetLevel(LevelDebug)

	logger.WithField("a", 1).WithField("b", 2).Info("test")

	output := buf.String()
	if !strings.Contains(output, "a=1") {
		t.Errorf("expected a field, got: %s", output)
	}
	if !strings.Contains(output, "b=2") {
		t.Errorf("expected b field, got: %s", output)
	}
}

func TestDerivedLoggerSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithOutput(&buf)
	derived := base.WithField("component", "runner")

	derived.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at the default level, got: %s", buf.String())
	}

	base.SetLevel(LevelDebug)
	derived.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("derived logger should follow the parent's level, got: %s", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	nop := NopLogger{}

	nop.Debug("test")
	nop.Info("test")
	nop.Warn("test")
	nop.Error("test")

	chained := nop.WithField("key", "value")
	if _, ok := chained.(NopLogger); !ok {
		t.Error("WithField should return NopLogger")
	}

	chained = nop.WithFields(map[string]interface{}{"key": "value"})
	if _, ok := chained.(NopLogger); !ok {
		t.Error("WithFields should return NopLogger")
	}

	nop.SetLevel(LevelDebug)
	nop.SetOutput(&bytes.Buffer{})
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	testLogger := NewWithOutput(&buf)
	testLogger.SetLevel(LevelDebug)
	SetDefault(testLogger)

	Debug("debug test")
	Info("info test")
	Warn("warn test")
	Error("error test")

	output := buf.String()
	for _, want := range []string{"debug test", "info test", "warn test", "error test"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestLoggerImmutability(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithOutput(&buf)
	base.SetLevel(LevelDebug)

	derived := base.WithField("source", "derived")

	buf.Reset()
	base.Info("base message")
	if strings.Contains(buf.String(), "source=derived") {
		t.Error("base logger should not have derived field")
	}

	buf.Reset()
	derived.Info("derived message")
	if !strings.Contains(buf.String(), "source=derived") {
		t.Error("derived logger should have field")
	}
}
