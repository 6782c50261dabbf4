package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/sheetmerge/internal/logging"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"untrusted keeps socket", nil, "203.0.113.9:5000", map[string]string{"X-Real-IP": "1.2.3.4"}, "203.0.113.9:5000"},
		{"trusted real ip", []string{"10.0.0.0/8"}, "10.1.2.3:5000", map[string]string{"X-Real-IP": "1.2.3.4"}, "1.2.3.4"},
		{"trusted forwarded first hop", []string{"10.0.0.0/8"}, "10.1.2.3:5000", map[string]string{"X-Forwarded-For": "5.6.7.8, 10.1.2.3"}, "5.6.7.8"},
		{"single address entry", []string{"127.0.0.1"}, "127.0.0.1:80", map[string]string{"X-Real-IP": "9.9.9.9"}, "9.9.9.9"},
		{"invalid header ignored", []string{"10.0.0.0/8"}, "10.1.2.3:5000", map[string]string{"X-Real-IP": "not-an-ip"}, "10.1.2.3:5000"},
		{"bad entry skipped", []string{"garbage"}, "10.1.2.3:5000", map[string]string{"X-Real-IP": "1.2.3.4"}, "10.1.2.3:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoteIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::ffff:192.0.2.1]:443"
	if got := RemoteIP(req).String(); got != "192.0.2.1" {
		t.Errorf("RemoteIP() = %q, want %q", got, "192.0.2.1")
	}

	req.RemoteAddr = "nonsense"
	if RemoteIP(req).IsValid() {
		t.Error("RemoteIP() should be invalid for unparsable addresses")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "debug", "text"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/batches/x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := buf.String()
	for _, want := range []string{"level=WARN", "status=404", "bytes=7", "path=/api/batches/x"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
