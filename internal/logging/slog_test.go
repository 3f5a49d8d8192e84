package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTextLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTextLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	want := []string{
		"level=DEBUG msg=dbg a=1",
		"level=INFO msg=inf b=2",
		"level=WARN msg=wrn c=3",
		"level=ERROR msg=err d=4",
	}
	for i, w := range want {
		assert.Contains(t, lines[i], w)
	}
}

func TestSlogLogger_WithKeepsModule(t *testing.T) {
	log, buf := newTextLogger(t)

	log.With("module", "account_service").Info(context.Background(), "account registered", "referred", true)

	out := buf.String()
	for _, s := range []string{"module=account_service", `msg="account registered"`, "referred=true"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestSlogLogger_RequestIDFromContext(t *testing.T) {
	log, buf := newTextLogger(t)

	ctx := WithRequestID(context.Background(), "req-42")
	log.With("module", "web").Warn(ctx, "admin action on unknown account")
	log.Info(context.Background(), "no request")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "request_id=req-42")
	assert.NotContains(t, lines[1], "request_id")
}

func TestSlogLogger_NilContext(t *testing.T) {
	log, buf := newTextLogger(t)

	//nolint:staticcheck // a nil context must not panic
	log.Info(nil, "still logged")
	assert.Contains(t, buf.String(), "still logged")
}

func TestNewSlogJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewSlogJSON(&buf, "warn")
	require.NoError(t, err)

	log.Info(context.Background(), "dropped")
	log.Warn(WithRequestID(context.Background(), "r1"), "kept", "n", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "r1", rec["request_id"])
	assert.EqualValues(t, 1, rec["n"])

	_, err = NewSlogJSON(&buf, "chatty")
	assert.Error(t, err)
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	//nolint:staticcheck // nil is tolerated
	assert.Empty(t, RequestID(nil))
	assert.Equal(t, "abc", RequestID(WithRequestID(context.Background(), "abc")))
}
