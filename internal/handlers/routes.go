package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Started: time.Now()}
	auth := AuthHandler{Accounts: deps.Accounts, Limiter: deps.Limiter}
	profile := ProfileHandler{Accounts: deps.Accounts, Posts: deps.Posts}
	friends := FriendHandler{Accounts: deps.Accounts, Friends: deps.Friends}
	posts := PostHandler{Accounts: deps.Accounts, Posts: deps.Posts, MaxUploadBytes: deps.MaxUploadBytes}
	media := MediaHandler{Media: deps.Media}
	prompts := PromptHandler{Prompts: deps.Prompts}

	mux.HandleFunc("/healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/auth/register", auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", auth.Login)
	mux.HandleFunc("POST /api/v1/auth/federated", auth.Federated)
	mux.HandleFunc("POST /api/v1/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/v1/session", auth.Session)

	mux.HandleFunc("PUT /api/v1/profile", profile.Update)
	mux.HandleFunc("PUT /api/v1/profile/avatar", profile.Avatar)
	mux.HandleFunc("GET /api/v1/profile/stats", profile.Stats)

	mux.HandleFunc("GET /api/v1/friends", friends.List)
	mux.HandleFunc("POST /api/v1/friends", friends.Add)

	mux.HandleFunc("GET /api/v1/posts", posts.Feed)
	mux.HandleFunc("POST /api/v1/posts", posts.Create)
	mux.HandleFunc("GET /api/v1/posts/mine", posts.Mine)
	mux.HandleFunc("DELETE /api/v1/posts/{id}", posts.Delete)

	mux.HandleFunc("GET /media/{token}", media.Serve)

	mux.HandleFunc("GET /api/v1/prompt", prompts.Daily)
	mux.HandleFunc("POST /api/v1/prompt/comment", prompts.Comment)

	mux.Handle("GET /metrics", promhttp.Handler())
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Accounts       AccountService
	Friends        FriendService
	Posts          PostService
	Prompts        PromptService
	Media          MediaSource
	Limiter        RateLimiter
	MaxUploadBytes int64
}
