package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name       string
		incoming   string
		wantReused bool
	}{
		{name: "generated when absent", incoming: ""},
		{name: "reused when well formed", incoming: "req-abc-123", wantReused: true},
		{name: "replaced when too long", incoming: strings.Repeat("a", maxRequestIDLength+1)},
		{name: "replaced when it contains spaces", incoming: "bad id"},
		{name: "replaced when it contains newlines", incoming: "bad\nid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromCtx = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			header := rec.Header().Get(RequestIDHeader)
			if header != fromCtx {
				t.Errorf("header %q and context %q differ", header, fromCtx)
			}

			if tt.wantReused {
				if fromCtx != tt.incoming {
					t.Errorf("request id = %q, want %q", fromCtx, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(fromCtx); err != nil {
				t.Errorf("expected generated UUID, got %q", fromCtx)
			}
		})
	}
}

func TestRequestID_TraceID(t *testing.T) {
	var traceID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = GetTraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(TraceIDHeader, "trace-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if traceID != "trace-1" {
		t.Errorf("trace id = %q, want trace-1", traceID)
	}
	if rec.Header().Get(TraceIDHeader) != "trace-1" {
		t.Errorf("trace id header not echoed")
	}
}
