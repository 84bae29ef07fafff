package logx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestHTTPMiddlewareLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := Ctx(r.Context())
		l.Info().Msg("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-1" {
		t.Fatalf("X-Request-ID: want=%q got=%q", "req-1", got)
	}

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("want 2 log lines, got %d: %s", len(lines), buf.String())
	}
	var inner map[string]any
	if err := json.Unmarshal(lines[0], &inner); err != nil {
		t.Fatalf("decode handler line: %v", err)
	}
	if inner[FieldRequestID] != "req-1" {
		t.Fatalf("handler logger missing request_id: %s", lines[0])
	}

	var line map[string]any
	if err := json.Unmarshal(lines[1], &line); err != nil {
		t.Fatalf("decode log line %q: %v", lines[1], err)
	}
	if line[FieldRequestID] != "req-1" {
		t.Fatalf("request_id: got=%v", line[FieldRequestID])
	}
	if line[FieldStatus] != float64(http.StatusTeapot) {
		t.Fatalf("status: got=%v", line[FieldStatus])
	}
	if line[FieldPath] != "/health" {
		t.Fatalf("path: got=%v", line[FieldPath])
	}
}

func TestHTTPMiddlewareGeneratesRequestID(t *testing.T) {
	h := HTTPMiddleware(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated X-Request-ID")
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("WARN") != zerolog.WarnLevel {
		t.Fatalf("WARN should parse to warn level")
	}
	if parseLevel("bogus") != zerolog.InfoLevel {
		t.Fatalf("unknown levels should default to info")
	}
}
