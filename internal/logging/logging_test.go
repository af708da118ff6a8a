package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v want %v", in, got, want)
		}
	}
}

func TestStartSpanNestsIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug", "text")
	ctx := WithLogger(context.Background(), logger)

	ctx, parent := StartSpan(ctx, "parent")
	parentID := SpanIDFromContext(ctx)
	traceID := TraceIDFromContext(ctx)
	if parentID == "" || traceID == "" {
		t.Fatal("expected span and trace ids on context")
	}

	child, span := StartSpan(ctx, "child")
	if TraceIDFromContext(child) != traceID {
		t.Fatal("child span should share the trace id")
	}
	if SpanIDFromContext(child) == parentID {
		t.Fatal("child span should get its own id")
	}

	span.Fail(errors.New("boom"))
	span.End()
	parent.End()

	out := buf.String()
	if !strings.Contains(out, "span failed") || !strings.Contains(out, "parent_span_id="+parentID) {
		t.Fatalf("unexpected log output: %s", out)
	}
	if !strings.Contains(out, "span completed") {
		t.Fatalf("expected completion entry: %s", out)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Fatal("expected default logger")
	}
}
