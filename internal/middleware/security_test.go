package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	secured := SecurityHeaders(handler)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	secured.ServeHTTP(w, req)

	tests := []struct {
		header   string
		expected string
		contains bool
	}{
		{"X-Frame-Options", "DENY", false},
		{"X-Content-Type-Options", "nosniff", false},
		{"Referrer-Policy", "strict-origin-when-cross-origin", false},
		{"Content-Security-Policy", "connect-src 'self' ws: wss:", true},
		{"Permissions-Policy", "camera=()", true},
	}

	for _, tc := range tests {
		got := w.Header().Get(tc.header)
		if tc.contains {
			require.Contains(t, got, tc.expected, tc.header)
		} else {
			require.Equal(t, tc.expected, got, tc.header)
		}
	}
}

func TestSecurityHeaders_PassesThrough(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte("Hello"))
	})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	SecurityHeaders(handler).ServeHTTP(w, req)

	require.True(t, called)
	require.Equal(t, "Hello", w.Body.String())
}
