package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitKey(t *testing.T) {
	cases := []struct {
		name      string
		remote    string
		forwarded string
		want      string
	}{
		{name: "peer address", remote: "192.0.2.7:5555", want: "login:192.0.2.7"},
		{name: "loopback proxy", remote: "127.0.0.1:4000", forwarded: "198.51.100.2, 10.0.0.1", want: "login:198.51.100.2"},
		{name: "untrusted forwarded header", remote: "192.0.2.7:5555", forwarded: "198.51.100.2", want: "login:192.0.2.7"},
		{name: "no port", remote: "192.0.2.9", want: "login:192.0.2.9"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = tc.remote
		if tc.forwarded != "" {
			req.Header.Set("X-Forwarded-For", tc.forwarded)
		}
		if got := rateLimitKey(req, "login"); got != tc.want {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.want, got)
		}
	}
}

func TestAllowRequestWithoutLimiter(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	if !allowRequest(nil, req, "login") {
		t.Fatal("expected requests to pass without a limiter")
	}
}
