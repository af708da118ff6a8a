package httpserver

import (
	"context"
	"net/http"
	"testing"
)

func TestNewJoinsHostAndPort(t *testing.T) {
	srv := New("127.0.0.1", 8080, http.NotFoundHandler())
	if got := srv.Addr(); got != "127.0.0.1:8080" {
		t.Fatalf("expected 127.0.0.1:8080 got %s", got)
	}

	srv = New("::1", 9000, http.NotFoundHandler())
	if got := srv.Addr(); got != "[::1]:9000" {
		t.Fatalf("expected bracketed ipv6 address got %s", got)
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	srv := New("127.0.0.1", 0, http.NotFoundHandler())
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("start after shutdown should report a clean close, got %v", err)
	}
}
