package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api"
	"github.com/FindHome-mobile/FindHome-Backend/internal/auth"
	"github.com/FindHome-mobile/FindHome-Backend/internal/config"
	"github.com/FindHome-mobile/FindHome-Backend/internal/db"
	"github.com/FindHome-mobile/FindHome-Backend/internal/logger"
	"github.com/FindHome-mobile/FindHome-Backend/internal/metrics"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository/cache"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository/memory"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository/mongodb"
	"github.com/FindHome-mobile/FindHome-Backend/internal/services"
	"github.com/FindHome-mobile/FindHome-Backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("store", "backend", cfg.Store, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	listingCache := repo.ListingCache(cache.Noop{})
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("redis unavailable, listing cache disabled", "err", err)
		} else {
			defer rc.Close()
			listingCache = cache.NewRedis(rc, cfg.CacheTTL, log)
			log.Info("listing cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		}
	}

	var tokens *auth.TokenManager
	if cfg.JWTEnabled() {
		tokens = auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	}

	wp := worker.NewPool(cfg.Workers)
	defer wp.Stop()

	images := services.NewImageStore(cfg.UploadsDir, cfg.PublicBaseURL, cfg.MaxUploadMB<<20, cfg.MaxImages, log)
	userSvc := services.NewUserService(repos.Users, images, tokens, log)
	listingSvc := services.NewListingService(repos, listingCache, images, wp, log)
	svc := api.Services{
		Users:         userSvc,
		Listings:      listingSvc,
		Favorites:     services.NewFavoriteService(repos, listingSvc, log),
		Messages:      services.NewMessageService(repos.Messages, log),
		OwnerRequests: services.NewOwnerRequestService(repos, log),
	}

	metrics.Init()
	r := api.NewRouter(cfg, log, svc)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env, "store", cfg.Store, "jwt", tokens != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

// openStore returns the configured repository backend and its close func.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (repo.Repositories, func(), error) {
	if cfg.Store == "memory" {
		log.Warn("using in-memory store, data is lost on restart")
		return memory.NewRepositories(), func() {}, nil
	}

	client, err := db.NewClient(ctx, cfg.MongoURI)
	if err != nil {
		return repo.Repositories{}, nil, err
	}
	closeFn := func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}
	database := client.Database(cfg.MongoDB)
	if cfg.Migrate {
		if err := db.RunMigrations(ctx, database); err != nil {
			closeFn()
			return repo.Repositories{}, nil, err
		}
	}
	return mongodb.NewRepositories(database), closeFn, nil
}
