package shield

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(DefaultHeaders())(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("missing Content-Security-Policy")
	}
}

func TestTraceID(t *testing.T) {
	var gotTrace string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTrace = GetTraceID(r.Context())
		if GetLogger(r.Context()) == nil {
			t.Error("no request logger in context")
		}
	})

	rec := httptest.NewRecorder()
	TraceID(inner).ServeHTTP(rec, httptest.NewRequest("GET", "/api/banks", nil))

	if gotTrace == "" {
		t.Fatal("no trace ID in context")
	}
	if rec.Header().Get("X-Trace-ID") != gotTrace {
		t.Errorf("header trace %q != context trace %q", rec.Header().Get("X-Trace-ID"), gotTrace)
	}
}

func TestHeadToGet(t *testing.T) {
	var method string
	inner := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		method = r.Method
	})

	rec := httptest.NewRecorder()
	HeadToGet(inner).ServeHTTP(rec, httptest.NewRequest("HEAD", "/health", nil))
	if method != "GET" {
		t.Errorf("method = %q, want GET", method)
	}
}

func TestMaxJSONBody(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(200)
	})
	h := MaxJSONBody(8)(inner)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/import", strings.NewReader("tiny")))
	if rec.Code != 200 {
		t.Errorf("small body rejected: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/import", strings.NewReader("well over the eight byte cap")))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body accepted: %d", rec.Code)
	}
}
