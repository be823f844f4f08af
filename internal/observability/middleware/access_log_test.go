package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithAccessLogRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := WithRequestAndTrace(WithAccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sources?secret=1", nil)
	req.Header.Set("X-Request-ID", "req-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["path"] != "/api/v1/sources" {
		t.Fatalf("unexpected path %v", entry["path"])
	}
	if entry["status"] != float64(http.StatusNotFound) {
		t.Fatalf("unexpected status %v", entry["status"])
	}
	if entry["request_id"] != "req-7" {
		t.Fatalf("unexpected request id %v", entry["request_id"])
	}
}
