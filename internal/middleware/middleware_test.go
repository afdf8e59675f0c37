package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"barbs-dog-rescue/internal/platform/logger"
)

func newTestRouter(buf *bytes.Buffer) http.Handler {
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Output: buf})

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(log))
	r.Use(Recover(log))

	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context(), nil).Info("inside handler", nil)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/rid", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chimw.GetReqID(r.Context())))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	return r
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", sc.Text(), err)
		}
		out = append(out, m)
	}
	return out
}

func TestRequestLogger_PropagatesRequestID(t *testing.T) {
	var buf bytes.Buffer
	h := newTestRouter(&buf)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get(RequestIDHeader); got != "req-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}

	lines := logLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}
	for _, l := range lines {
		if l["request_id"] != "req-123" {
			t.Fatalf("expected request_id on every line, got %v", l)
		}
	}
	last := lines[1]
	if last["msg"] != "request completed" || last["status"] != float64(200) || last["path"] != "/ok" {
		t.Fatalf("unexpected access log %v", last)
	}
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var buf bytes.Buffer
	h := newTestRouter(&buf)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header"},
		{name: "blank header", header: "   "},
		{name: "oversized header", header: strings.Repeat("x", maxRequestIDLen+1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/rid", nil)
			if tc.header != "" {
				req.Header.Set(RequestIDHeader, tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			got := rr.Header().Get(RequestIDHeader)
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected generated uuid, got %q", got)
			}
			// el handler ve el mismo id por chimw.GetReqID
			if rr.Body.String() != got {
				t.Fatalf("expected context id %q, got %q", got, rr.Body.String())
			}
		})
	}
}

func TestRequestID_KeepsIncomingInContext(t *testing.T) {
	var buf bytes.Buffer
	h := newTestRouter(&buf)

	req := httptest.NewRequest(http.MethodGet, "/rid", nil)
	req.Header.Set(RequestIDHeader, "req-abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Body.String() != "req-abc" || rr.Header().Get(RequestIDHeader) != "req-abc" {
		t.Fatalf("expected incoming id kept, body=%q header=%q", rr.Body.String(), rr.Header().Get(RequestIDHeader))
	}
}

func TestRecover_ReturnsJSON500AndLogs(t *testing.T) {
	var buf bytes.Buffer
	h := newTestRouter(&buf)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body["code"] != "internal" {
		t.Fatalf("expected JSON error body, got %q", rr.Body.String())
	}
	if _, err := uuid.Parse(rr.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("expected generated request id header, got %q", rr.Header().Get(RequestIDHeader))
	}

	lines := logLines(t, &buf)
	if len(lines) != 2 || lines[0]["msg"] != "panic recovered" || lines[0]["panic"] != "boom" {
		t.Fatalf("expected panic log first, got %v", lines)
	}
	if lines[1]["level"] != "error" || lines[1]["status"] != float64(500) {
		t.Fatalf("expected 500 access log at error level, got %v", lines[1])
	}
}
