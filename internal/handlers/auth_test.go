package handlers

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"strings"
	"testing"
)

func TestAuthHandlerRegister(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.doJSON(t, http.MethodPost, "/api/v1/auth/register", registerRequest{Email: "Test@Example.com", Password: "supersafe", Name: "Tess"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d", http.StatusCreated, rec.Code)
	}
	if strings.Contains(rec.Body.String(), "passwordHash") {
		t.Fatalf("response leaked password hash: %s", rec.Body.String())
	}

	var resp sessionResponse
	decode(t, rec, &resp)
	if resp.User.Email != "test@example.com" || resp.User.Bio != "Just vibing." {
		t.Fatalf("unexpected profile %+v", resp.User)
	}
	if !strings.HasPrefix(resp.User.FriendCode, "VLOG") {
		t.Fatalf("unexpected friend code %q", resp.User.FriendCode)
	}

	users, err := srv.store.Users(context.Background())
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if users["test@example.com"].PasswordHash == "" {
		t.Fatal("expected stored password hash")
	}

	rec = srv.doJSON(t, http.MethodPost, "/api/v1/auth/register", registerRequest{Email: "test@example.com", Password: "supersafe", Name: "Tess"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected conflict got %d", rec.Code)
	}

	rec = srv.doJSON(t, http.MethodPost, "/api/v1/auth/register", registerRequest{Email: "short@example.com", Password: "x", Name: "Tess"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for short password got %d", rec.Code)
	}
}

func TestAuthHandlerLoginAndSession(t *testing.T) {
	srv := newTestServer(t, nil)
	user := srv.register(t, "user@example.com")

	if rec := srv.do(t, http.MethodPost, "/api/v1/auth/logout", nil, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204 got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/api/v1/session", nil, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("session after logout: expected 401 got %d", rec.Code)
	}

	rec := srv.doJSON(t, http.MethodPost, "/api/v1/auth/login", loginRequest{Email: "user@example.com", Password: "wrong-password"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password got %d", rec.Code)
	}

	rec = srv.doJSON(t, http.MethodPost, "/api/v1/auth/login", loginRequest{Email: "user@example.com", Password: "supersafe"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200 got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/api/v1/session", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("session: expected 200 got %d", rec.Code)
	}
	var resp sessionResponse
	decode(t, rec, &resp)
	if resp.User.ID != user.ID {
		t.Fatalf("expected session for %s got %s", user.ID, resp.User.ID)
	}
}

func TestAuthHandlerInvalidBody(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthHandlerRateLimited(t *testing.T) {
	srv := newTestServer(t, denyLimiter{})

	rec := srv.doJSON(t, http.MethodPost, "/api/v1/auth/login", loginRequest{Email: "a@example.com", Password: "supersafe"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("login: expected 429 got %d", rec.Code)
	}
	rec = srv.doJSON(t, http.MethodPost, "/api/v1/auth/register", registerRequest{Email: "a@example.com", Password: "supersafe", Name: "A"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("register: expected 429 got %d", rec.Code)
	}
}

func TestAuthHandlerFederated(t *testing.T) {
	srv := newTestServer(t, nil)

	first := srv.do(t, http.MethodPost, "/api/v1/auth/federated", nil, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", first.Code)
	}
	var a sessionResponse
	decode(t, first, &a)

	second := srv.do(t, http.MethodPost, "/api/v1/auth/federated", nil, nil)
	var b sessionResponse
	decode(t, second, &b)

	if a.User.ID != b.User.ID || a.User.Email != "google_user@gmail.com" {
		t.Fatalf("expected the same federated identity, got %+v and %+v", a.User, b.User)
	}
	if !strings.HasPrefix(a.User.FriendCode, "G") {
		t.Fatalf("unexpected friend code %q", a.User.FriendCode)
	}
}

func TestProfileHandlerUpdate(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.register(t, "me@example.com")

	rec := srv.doJSON(t, http.MethodPut, "/api/v1/profile", profileRequest{Name: "New Name", Bio: "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var resp sessionResponse
	decode(t, rec, &resp)
	if resp.User.Name != "New Name" || resp.User.Bio != "hello" {
		t.Fatalf("unexpected profile %+v", resp.User)
	}

	rec = srv.doJSON(t, http.MethodPut, "/api/v1/profile", profileRequest{Name: "x", Email: "not-an-email"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestProfileHandlerStats(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.register(t, "me@example.com")

	rec := srv.do(t, http.MethodGet, "/api/v1/profile/stats", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"posts":0`) {
		t.Fatalf("unexpected stats %s", rec.Body.String())
	}
}

func TestProfileHandlerAvatar(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.register(t, "me@example.com")

	img := image.NewRGBA(image.Rect(0, 0, 800, 400))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	rec := srv.do(t, http.MethodPut, "/api/v1/profile/avatar", &buf, map[string]string{"Content-Type": "image/png"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var resp sessionResponse
	decode(t, rec, &resp)
	if !strings.HasPrefix(resp.User.Avatar, "data:image/jpeg;base64,") {
		t.Fatalf("expected inline jpeg avatar, got %.40s", resp.User.Avatar)
	}

	rec = srv.do(t, http.MethodPut, "/api/v1/profile/avatar", strings.NewReader("not an image"), nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}
