package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vlogit/core/internal/auth"
	"github.com/vlogit/core/internal/config"
	"github.com/vlogit/core/internal/db"
	"github.com/vlogit/core/internal/friends"
	"github.com/vlogit/core/internal/handlers"
	"github.com/vlogit/core/internal/imaging"
	"github.com/vlogit/core/internal/middleware"
	"github.com/vlogit/core/internal/posts"
	"github.com/vlogit/core/internal/prompts"
	"github.com/vlogit/core/internal/repositories"
	"github.com/vlogit/core/internal/storage"
	"github.com/vlogit/core/internal/videos"
)

const limiterTTL = 10 * time.Minute

// services holds the wired application core shared by serve and the CLI commands.
type services struct {
	store    *repositories.Store
	blobs    storage.BlobStore
	registry *videos.MediaRegistry
	accounts *auth.Service
	friends  *friends.Service
	posts    *posts.Service
	prompts  *prompts.Service
	limiter  middleware.RateLimiter
	upload   int64
}

// handlerDependencies exposes the services to the HTTP layer.
func (s services) handlerDependencies() handlers.Dependencies {
	return handlers.Dependencies{
		Accounts: s.accounts,
		Friends:  s.friends,
		Posts:    s.posts,
		Prompts:  s.prompts,
		Media:    s.registry,
		Limiter:  s.limiter,

		MaxUploadBytes: s.upload,
	}
}

// buildServices wires together the concrete implementations selected by cfg.
// The returned cleanup releases the database pool when one was opened.
func buildServices(ctx context.Context, cfg config.Config) (services, func(), error) {
	cleanup := func() {}

	var pool *pgxpool.Pool
	if cfg.UsesPostgres() {
		p, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return services{}, cleanup, err
		}
		pool = p
		cleanup = pool.Close
	}

	records, err := recordBackend(cfg, pool)
	if err != nil {
		cleanup()
		return services{}, func() {}, err
	}
	blobs, err := blobStore(ctx, cfg, pool)
	if err != nil {
		cleanup()
		return services{}, func() {}, err
	}

	store := repositories.NewStore(records)
	registry := videos.NewMediaRegistry(cfg.Media.BaseURL, cfg.Media.CacheSize, cfg.Media.CacheTTL)
	directory := friends.NewStaticDirectory(time.Now())

	accounts := auth.NewService(store, auth.NewManager(store), auth.ServiceOptions{
		Limiter:  middleware.NewKeyedLimiter(cfg.Login.PerMinute, time.Minute, cfg.Login.Burst, limiterTTL),
		Reserved: directory,
		Avatars:  imaging.NewTranscoder(),
		Location: cfg.Location,
	})

	var generator prompts.Generator
	if cfg.Gemini.APIKey != "" {
		gemini, err := prompts.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			cleanup()
			return services{}, func() {}, err
		}
		generator = gemini
	} else {
		slog.Default().Info("no gemini api key configured, prompts use fallbacks")
	}
	promptSvc := prompts.NewService(generator, cfg.Gemini.Timeout)

	postSvc := posts.NewService(posts.Dependencies{
		Store:       store,
		Blobs:       blobs,
		Hydrator:    videos.NewHydrator(blobs, registry),
		Accounts:    accounts,
		Comments:    promptSvc,
		Thumbnailer: videos.NewThumbnailer(cfg.Media.FFmpegPath, cfg.Media.ThumbnailTimeout),
		Media:       registry,
	})

	return services{
		store:    store,
		blobs:    blobs,
		registry: registry,
		accounts: accounts,
		friends:  friends.NewService(directory, store),
		posts:    postSvc,
		prompts:  promptSvc,
		limiter:  middleware.NewKeyedLimiter(cfg.Login.PerMinute, time.Minute, cfg.Login.Burst, limiterTTL),
		upload:   cfg.Media.MaxUploadBytes,
	}, cleanup, nil
}

func recordBackend(cfg config.Config, pool *pgxpool.Pool) (repositories.Backend, error) {
	switch cfg.RecordBackend {
	case config.BackendMemory:
		return repositories.NewMemoryBackend(), nil
	case config.BackendPostgres:
		return repositories.NewPostgresBackend(pool), nil
	case config.BackendFile:
		return repositories.NewFileBackend(filepath.Join(cfg.DataDir, "records"))
	default:
		return nil, fmt.Errorf("unknown record backend %q", cfg.RecordBackend)
	}
}

func blobStore(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) (storage.BlobStore, error) {
	switch cfg.BlobBackend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil
	case config.BackendPostgres:
		return storage.NewPostgresStore(pool), nil
	case config.BackendS3:
		return storage.NewS3Store(ctx, cfg.ObjectStore)
	case config.BackendFile:
		return storage.NewFileStore(filepath.Join(cfg.DataDir, "media"))
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}
