package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var ErrMissingToken = errors.New("BOT_TOKEN is not set")

type Config struct {
	BotToken       string
	DiscordGuildID string
	TelegramToken  string
	Port           string
	PostsFile      string
	DatabaseURL    string
	LogLevel       slog.Level
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:       os.Getenv("BOT_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		Port:           getenvDefault("PORT", "3000"),
		PostsFile:      getenvDefault("POSTS_FILE", "posts.json"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       parseLevel(os.Getenv("LOG_LEVEL")),
	}
	if cfg.BotToken == "" {
		return nil, ErrMissingToken
	}
	return cfg, nil
}

func getenvDefault(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
