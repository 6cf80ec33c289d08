package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"publicaciones/bot"
	"publicaciones/session"
)

// API is the part of *tgbotapi.BotAPI the update handlers use.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api      *tgbotapi.BotAPI
	client   API
	svc      *bot.Service
	sessions *session.Manager
	log      *slog.Logger
}

func New(token string, svc *bot.Service, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log = log.With(slog.String("platform", "telegram"))
	log.Info("bot ready", slog.String("user", api.Self.UserName))

	return &Bot{
		api:      api,
		client:   api,
		svc:      svc,
		sessions: session.NewManager(),
		log:      log,
	}, nil
}

func newWithClient(c API, svc *bot.Service, log *slog.Logger) *Bot {
	return &Bot{client: c, svc: svc, sessions: session.NewManager(), log: log}
}

// Run polls for updates and handles them one at a time until ctx is done.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}
