package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"publicaciones/api"
	"publicaciones/bot"
	"publicaciones/config"
	"publicaciones/db"
	"publicaciones/discord"
	"publicaciones/storage"
	"publicaciones/telegram"
)

func main() {
	if err := run(); err != nil {
		slog.Error("startup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	persister, closeDB, err := newPersister(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	posts := storage.NewStore(persister, log.With(slog.String("component", "store")))
	posts.Load(ctx)
	log.Info("posts loaded", slog.Int("count", len(posts.All())))

	profiles := storage.NewProfiles()
	svc := bot.NewService(posts, profiles, log.With(slog.String("component", "interactions")))

	dc, err := discord.New(cfg.BotToken, cfg.DiscordGuildID, svc, log)
	if err != nil {
		return err
	}
	if err := dc.Open(); err != nil {
		return err
	}
	defer dc.Close()

	if cfg.TelegramToken != "" {
		tg, err := telegram.New(cfg.TelegramToken, svc, log)
		if err != nil {
			return err
		}
		go tg.Run(ctx)
	}

	app := api.NewApp(&api.Handlers{
		Posts:    posts,
		Profiles: profiles,
		Log:      log.With(slog.String("component", "api")),
	})
	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", slog.String("addr", "http://localhost:"+cfg.Port))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error("api shutdown failed", slog.String("error", err.Error()))
	}
	return nil
}

// newPersister picks Postgres when DATABASE_URL is set and the JSON file
// otherwise.
func newPersister(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Persister, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("persisting posts to file", slog.String("path", cfg.PostsFile))
		return storage.NewFileStore(cfg.PostsFile), func() {}, nil
	}

	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, conn, log); err != nil {
		conn.Close()
		return nil, nil, err
	}
	log.Info("persisting posts to postgres")
	return db.NewPostStore(conn), func() { conn.Close() }, nil
}
