package discord

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"publicaciones/bot"
	"publicaciones/storage"
)

// Handle dispatches one interaction. Errors are logged and, where the user is
// waiting on an answer, reported back ephemerally.
func (b *Bot) Handle(ctx context.Context, i *discordgo.Interaction) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == bot.CommandPublish {
			b.handlePublish(ctx, i)
		}
	case discordgo.InteractionMessageComponent:
		switch i.MessageComponentData().CustomID {
		case bot.ButtonLike:
			b.handleLike(ctx, i)
		case bot.ButtonComment:
			b.handleCommentButton(i)
		}
	case discordgo.InteractionModalSubmit:
		if i.ModalSubmitData().CustomID == bot.ModalComment {
			b.handleCommentSubmit(ctx, i)
		}
	}
}

func (b *Bot) handlePublish(ctx context.Context, i *discordgo.Interaction) {
	text, image := publishOptions(i.ApplicationCommandData())
	user := interactionUser(i)

	err := b.client.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{toEmbed(bot.NewCard(text, image))},
			Components: postButtons(),
		},
	})
	if err != nil {
		b.logError("reply failed", i, err)
		return
	}

	msg, err := b.client.InteractionResponse(i)
	if err != nil {
		b.logError("fetch reply failed", i, err)
		return
	}

	if _, err := b.svc.CreatePost(ctx, user, msg.ID, text, image); err != nil {
		b.logError("create post failed", i, err)
	}
}

func (b *Bot) handleLike(ctx context.Context, i *discordgo.Interaction) {
	post, err := b.svc.ToggleLike(ctx, i.Message.ID, interactionUser(i))
	if errors.Is(err, storage.ErrPostNotFound) {
		b.replyEphemeral(i, bot.UserMessage(err))
		return
	}
	if err != nil {
		b.logError("toggle like failed", i, err)
	}

	b.updateCard(i, post)
	err = b.client.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		b.logError("ack failed", i, err)
	}
}

func (b *Bot) handleCommentButton(i *discordgo.Interaction) {
	err := b.client.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: commentModal(),
	})
	if err != nil {
		b.logError("show modal failed", i, err)
	}
}

func (b *Bot) handleCommentSubmit(ctx context.Context, i *discordgo.Interaction) {
	if i.Message == nil {
		b.replyEphemeral(i, bot.TextPostNotFound)
		return
	}

	text := modalValue(i.ModalSubmitData(), bot.InputComment)
	post, err := b.svc.AddComment(ctx, i.Message.ID, interactionUser(i), text)
	switch {
	case errors.Is(err, storage.ErrPostNotFound),
		errors.Is(err, bot.ErrEmptyComment),
		errors.Is(err, bot.ErrCommentTooLong):
		b.replyEphemeral(i, bot.UserMessage(err))
		return
	case err != nil:
		b.logError("add comment failed", i, err)
	}

	b.updateCard(i, post)
	b.replyEphemeral(i, bot.TextCommentAdded)
}

func (b *Bot) updateCard(i *discordgo.Interaction, post storage.Post) {
	edit := discordgo.NewMessageEdit(i.ChannelID, i.Message.ID).
		SetEmbeds([]*discordgo.MessageEmbed{renderEmbed(i.Message, post)})
	if _, err := b.client.ChannelMessageEditComplex(edit); err != nil {
		b.logError("edit card failed", i, err)
	}
}

func (b *Bot) replyEphemeral(i *discordgo.Interaction, content string) {
	err := b.client.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logError("reply failed", i, err)
	}
}

func (b *Bot) logError(msg string, i *discordgo.Interaction, err error) {
	attrs := []any{
		slog.String("interaction_id", i.ID),
		slog.String("user_id", interactionUser(i).ID),
		slog.String("error", err.Error()),
	}
	if i.Message != nil {
		attrs = append(attrs, slog.String("post_id", i.Message.ID))
	}
	b.log.Error(msg, attrs...)
}

func publishOptions(data discordgo.ApplicationCommandInteractionData) (string, *string) {
	var text string
	var image *string
	for _, opt := range data.Options {
		switch opt.Name {
		case bot.OptionMessage:
			text = opt.StringValue()
		case bot.OptionImage:
			id, _ := opt.Value.(string)
			if data.Resolved == nil {
				continue
			}
			if att, ok := data.Resolved.Attachments[id]; ok && att != nil {
				url := att.URL
				image = &url
			}
		}
	}
	return text, image
}

func modalValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok && input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}

func interactionUser(i *discordgo.Interaction) bot.User {
	u := i.User
	if i.Member != nil && i.Member.User != nil {
		u = i.Member.User
	}
	if u == nil {
		return bot.User{}
	}
	user := bot.User{ID: u.ID, Username: u.Username}
	if u.Avatar != "" {
		avatar := u.AvatarURL("")
		user.Avatar = &avatar
	}
	return user
}
