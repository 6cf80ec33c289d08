package telegram

import (
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"publicaciones/bot"
	"publicaciones/storage"
)

func mention(c storage.Comment) string {
	return `<a href="tg://user?id=` + c.UserID + `">` + c.UserNickname + `</a>`
}

// cardText renders a card as HTML for a message text or photo caption.
// Card contents must already be escaped.
func cardText(card bot.Card) string {
	var sb strings.Builder
	sb.WriteString("<b>" + card.Title + "</b>\n\n")
	sb.WriteString(card.Description)
	for _, f := range card.Fields {
		sb.WriteString("\n\n<b>" + f.Name + "</b>\n" + f.Value)
	}
	sb.WriteString("\n\n<i>" + card.Footer + "</i>")
	return sb.String()
}

func newCardText(text string) string {
	return cardText(bot.NewCard(html.EscapeString(text), nil))
}

func renderCardText(post storage.Post) string {
	return cardText(bot.CardFor(escapePost(post), mention))
}

func escapePost(p storage.Post) storage.Post {
	p.Title = html.EscapeString(p.Title)
	comments := make([]storage.Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		c.UserNickname = html.EscapeString(c.UserNickname)
		c.Text = html.EscapeString(c.Text)
		comments = append(comments, c)
	}
	p.Comments = comments
	return p
}

func postKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(bot.EmojiLike+" "+bot.LabelLike, bot.ButtonLike),
			tgbotapi.NewInlineKeyboardButtonData(bot.EmojiComment+" "+bot.LabelComment, bot.ButtonComment),
		),
	)
}
