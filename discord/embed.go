package discord

import (
	"github.com/bwmarrin/discordgo"

	"publicaciones/bot"
	"publicaciones/storage"
)

func toEmbed(card bot.Card) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       card.Title,
		Description: card.Description,
		Fields:      toFields(card.Fields),
	}
	if card.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: card.Footer}
	}
	if card.Image != nil {
		e.Image = &discordgo.MessageEmbedImage{URL: *card.Image}
	}
	return e
}

func toFields(fields []bot.Field) []*discordgo.MessageEmbedField {
	if len(fields) == 0 {
		return nil
	}
	out := make([]*discordgo.MessageEmbedField, 0, len(fields))
	for _, f := range fields {
		out = append(out, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return out
}

// renderEmbed starts from the message's current embed and replaces its footer
// and fields with the post's live state.
func renderEmbed(msg *discordgo.Message, post storage.Post) *discordgo.MessageEmbed {
	var embed discordgo.MessageEmbed
	if msg != nil && len(msg.Embeds) > 0 && msg.Embeds[0] != nil {
		embed = *msg.Embeds[0]
	} else {
		embed = *toEmbed(bot.NewCard(post.Title, post.Image))
	}

	card := bot.Render(bot.Card{}, post, bot.DiscordMention)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: card.Footer}
	embed.Fields = toFields(card.Fields)
	return &embed
}

func postButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: bot.ButtonLike,
					Label:    bot.LabelLike,
					Style:    discordgo.PrimaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: bot.EmojiLike},
				},
				discordgo.Button{
					CustomID: bot.ButtonComment,
					Label:    bot.LabelComment,
					Style:    discordgo.SecondaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: bot.EmojiComment},
				},
			},
		},
	}
}

func commentModal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: bot.ModalComment,
		Title:    bot.TextModalTitle,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:  bot.InputComment,
						Label:     bot.TextCommentPrompt,
						Style:     discordgo.TextInputShort,
						Required:  true,
						MaxLength: bot.MaxCommentLength,
					},
				},
			},
		},
	}
}
