package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vlogit/core/internal/auth"
	"github.com/vlogit/core/internal/friends"
	"github.com/vlogit/core/internal/imaging"
	"github.com/vlogit/core/internal/posts"
	"github.com/vlogit/core/internal/prompts"
	"github.com/vlogit/core/internal/repositories"
	"github.com/vlogit/core/internal/storage"
	"github.com/vlogit/core/internal/videos"
)

var sampleVideo = append([]byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom"), make([]byte, 64)...)

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool { return false }

type testServer struct {
	mux      *http.ServeMux
	store    *repositories.Store
	registry *videos.MediaRegistry
	accounts *auth.Service
	posts    *posts.Service
}

func newTestServer(t *testing.T, limiter RateLimiter) *testServer {
	t.Helper()

	store := repositories.NewStore(repositories.NewMemoryBackend())
	blobs := storage.NewMemoryStore()
	registry := videos.NewMediaRegistry("/media", 16, time.Minute)
	directory := friends.NewStaticDirectory(time.Now())

	accounts := auth.NewService(store, auth.NewManager(store), auth.ServiceOptions{
		Reserved: directory,
		Avatars:  imaging.NewTranscoder(),
		Location: time.UTC,
		HashCost: bcrypt.MinCost,
	})
	promptSvc := prompts.NewService(nil, time.Second)
	postSvc := posts.NewService(posts.Dependencies{
		Store:    store,
		Blobs:    blobs,
		Hydrator: videos.NewHydrator(blobs, registry),
		Accounts: accounts,
		Comments: promptSvc,
		Media:    registry,
	})

	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{
		Accounts: accounts,
		Friends:  friends.NewService(directory, store),
		Posts:    postSvc,
		Prompts:  promptSvc,
		Media:    registry,
		Limiter:  limiter,
	})
	return &testServer{mux: mux, store: store, registry: registry, accounts: accounts, posts: postSvc}
}

func (s *testServer) do(t *testing.T, method, target string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(t *testing.T, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return s.do(t, method, target, bytes.NewReader(body), map[string]string{"Content-Type": "application/json"})
}

func (s *testServer) register(t *testing.T, email string) profileResponse {
	t.Helper()
	rec := s.doJSON(t, http.MethodPost, "/api/v1/auth/register", registerRequest{Email: email, Password: "supersafe", Name: "Vlogger"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var resp sessionResponse
	decode(t, rec, &resp)
	return resp.User
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestRoutesRequireSession(t *testing.T) {
	srv := newTestServer(t, nil)

	cases := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/v1/session"},
		{http.MethodPut, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/profile/stats"},
		{http.MethodGet, "/api/v1/friends"},
		{http.MethodPost, "/api/v1/friends"},
		{http.MethodPost, "/api/v1/posts"},
		{http.MethodGet, "/api/v1/posts/mine"},
		{http.MethodDelete, "/api/v1/posts/abc"},
	}
	for _, tc := range cases {
		rec := srv.do(t, tc.method, tc.target, bytes.NewReader([]byte("{}")), nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.target, rec.Code)
		}
	}
}

func TestRoutesMetricsAndHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	if rec := srv.do(t, http.MethodGet, "/healthz", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200 got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/metrics", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200 got %d", rec.Code)
	}
}

func TestStatusForUnknownError(t *testing.T) {
	if got := statusFor(io.ErrUnexpectedEOF); got != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", got)
	}
	if got := statusFor(posts.ErrUnsupportedMedia); got != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 got %d", got)
	}
}
