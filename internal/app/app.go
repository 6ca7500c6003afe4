package app

import (
	"context"
	"log/slog"

	httpapp "everafter/internal/app/http"
	"everafter/internal/config"
	"everafter/internal/repository"
	checklistservice "everafter/internal/services/checklist_service"
	galleryservice "everafter/internal/services/gallery_service"
	tokenservice "everafter/internal/services/token_service"
	userservice "everafter/internal/services/user_service"
	weddingservice "everafter/internal/services/wedding_service"
	redisapp "everafter/internal/storage/redis"
	httprouters "everafter/internal/transport/http"
)

// App owns every long-lived resource: the database pool, the redis client
// and the HTTP server.
type App struct {
	HTTPServer *httpapp.Server

	repo  *repository.Repository
	redis *redisapp.Client
	log   *slog.Logger
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	repo, err := repository.NewRepository(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}

	redisClient := redisapp.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.HealthCheck(ctx); err != nil {
		repo.Close()
		return nil, err
	}

	tokens := tokenservice.NewTokenService(repository.NewRedisTokenRepo(redisClient), cfg.TokenSecret, cfg.TokenTTL)
	users := userservice.NewUserService(log, repo.User, tokens)
	weddings := weddingservice.NewWeddingService(log, repo.Wedding)
	checklists := checklistservice.NewChecklistService(log, repo.Task)
	gallery := galleryservice.NewGalleryService(log, repo.Wedding)

	routers := httprouters.NewRouters(log, users, tokens, gallery, weddings, checklists)

	server := httpapp.New(log, cfg.TokenSecret, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	return &App{
		HTTPServer: server,
		repo:       repo,
		redis:      redisClient,
		log:        log,
	}, nil
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("failed to stop http server", slog.Any("error", err))
	}

	if err := a.redis.Close(); err != nil {
		a.log.Error("failed to close redis client", slog.Any("error", err))
	}

	a.repo.Close()
}
