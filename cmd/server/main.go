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

	"github.com/redis/go-redis/v9"

	"github.com/glosshq/gloss/internal/checks"
	"github.com/glosshq/gloss/internal/config"
	"github.com/glosshq/gloss/internal/cookie"
	"github.com/glosshq/gloss/internal/handler"
	"github.com/glosshq/gloss/internal/logger"
	"github.com/glosshq/gloss/internal/postgres"
	"github.com/glosshq/gloss/internal/session"
	"github.com/glosshq/gloss/internal/trans"
)

type appConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CookieSecrets   []string      `env:"COOKIE_SECRETS,required" envSeparator:","`
	RedisURL        string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	Log      logger.Config
	Postgres postgres.Config
	Session  session.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)
	log := logger.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(cfg appConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}
	log.InfoContext(ctx, "database ready", logger.Component("postgres"))

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return err
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}

	cookies, err := cookie.New(cfg.CookieSecrets)
	if err != nil {
		return err
	}
	sessions := session.NewManager(
		session.NewRedisStore[handler.SessionData](redisClient), cookies, cfg.Session)

	units := postgres.NewUnitRepo(pool)
	changes := postgres.NewChangeRepo(pool)
	suggestions := postgres.NewSuggestionRepo(pool)
	comments := postgres.NewCommentRepo(pool)
	catalog := postgres.NewCatalogRepo(pool)
	users := postgres.NewUserRepo(pool)

	svc := trans.NewService(log, units, changes, suggestions, comments, users, catalog,
		trans.WithChecks(checks.Default()))
	h := handler.New(log, sessions, svc, units, changes, suggestions, comments, catalog, users)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "http server listening", logger.Component("http"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	log.InfoContext(shutdownCtx, "shutting down", logger.Component("http"))
	return srv.Shutdown(shutdownCtx)
}
