package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"publicaciones/bot"
)

// Client is the part of *discordgo.Session the interaction handlers use.
type Client interface {
	InteractionRespond(i *discordgo.Interaction, r *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponse(i *discordgo.Interaction, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Bot struct {
	session *discordgo.Session
	client  Client
	svc     *bot.Service
	guildID string
	log     *slog.Logger
}

func New(token, guildID string, svc *bot.Service, log *slog.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	b := &Bot{
		session: s,
		client:  s,
		svc:     svc,
		guildID: guildID,
		log:     log.With(slog.String("platform", "discord")),
	}
	s.AddHandler(b.onReady)
	s.AddHandler(b.onInteraction)
	return b, nil
}

// newWithClient builds a Bot without a gateway session.
func newWithClient(c Client, svc *bot.Service, log *slog.Logger) *Bot {
	return &Bot{client: c, svc: svc, log: log}
}

func (b *Bot) Open() error {
	return b.session.Open()
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("bot ready", slog.String("user", r.User.Username))

	_, err := s.ApplicationCommandBulkOverwrite(r.User.ID, b.guildID, Commands())
	if err != nil {
		b.log.Error("command registration failed", slog.String("error", err.Error()))
		return
	}
	b.log.Info("commands registered", slog.String("guild_id", b.guildID))
}

func (b *Bot) onInteraction(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
	b.Handle(context.Background(), ic.Interaction)
}

// Commands returns the application commands the bot answers.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{{
		Name:        bot.CommandPublish,
		Description: bot.TextCommandDesc,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        bot.OptionMessage,
				Description: bot.TextMessageDesc,
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionAttachment,
				Name:        bot.OptionImage,
				Description: bot.TextImageDesc,
			},
		},
	}}
}
