package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	return entry
}

func TestLoggerRecordsResponse(t *testing.T) {
	tests := []struct {
		name   string
		inner  http.HandlerFunc
		status float64
		bytes  float64
		level  string
	}{
		{
			"implicit 200",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("hello")) },
			200, 5, "INFO",
		},
		{
			"explicit 404",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
			404, 0, "INFO",
		},
		{
			"server error at warn",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("upstream"))
			},
			502, 8, "WARN",
		},
		{
			"nothing written",
			func(w http.ResponseWriter, r *http.Request) {},
			200, 0, "INFO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			rr := httptest.NewRecorder()
			Logger(tt.inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/parties", nil))

			entry := lastLine(t, buf)
			if entry["msg"] != "http request" {
				t.Errorf("msg: got %v", entry["msg"])
			}
			if entry["status"] != tt.status {
				t.Errorf("status: got %v, want %v", entry["status"], tt.status)
			}
			if entry["bytes"] != tt.bytes {
				t.Errorf("bytes: got %v, want %v", entry["bytes"], tt.bytes)
			}
			if entry["level"] != tt.level {
				t.Errorf("level: got %v, want %v", entry["level"], tt.level)
			}
			if entry["path"] != "/api/parties" {
				t.Errorf("path: got %v", entry["path"])
			}
		})
	}
}

func TestLoggerFirstStatusWins(t *testing.T) {
	buf := captureLogs(t)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	})
	Logger(inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got := lastLine(t, buf)["status"]; got != float64(http.StatusTeapot) {
		t.Errorf("status: got %v, want 418", got)
	}
}

func TestLoggerUsesRoutePatternAndRequestID(t *testing.T) {
	buf := captureLogs(t)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Get("/api/politicians/{slug}", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/politicians/asha-rao", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := lastLine(t, buf)
	if entry["route"] != "/api/politicians/{slug}" {
		t.Errorf("route: got %v", entry["route"])
	}
	if entry["request_id"] != "trace-42" {
		t.Errorf("request_id: got %v", entry["request_id"])
	}
}

func TestStatusRecorderUnwrap(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: rr}
	if rec.Unwrap() != rr {
		t.Error("Unwrap should return the wrapped writer")
	}
	if err := http.NewResponseController(rec).Flush(); err != nil {
		t.Errorf("flush through controller: %v", err)
	}
}
