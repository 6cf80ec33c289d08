package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"publicaciones/bot"
	"publicaciones/session"
	"publicaciones/storage"
)

const (
	stateAwaitComment = "awaiting_comment"
	keyPostID         = "post_id"
)

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil && update.Message.From != nil {
		msg := update.Message
		key := session.Key{ChatID: msg.Chat.ID, UserID: msg.From.ID}

		if s, ok := b.sessions.Lookup(key); ok && s.State == stateAwaitComment && !msg.IsCommand() {
			b.handleCommentText(ctx, msg, key, s)
			return
		}
		if text, photo, ok := publishRequest(msg); ok {
			b.sessions.Reset(key)
			b.handlePublish(ctx, msg, text, photo)
		}
		return
	}

	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handlePublish(ctx context.Context, msg *tgbotapi.Message, text, photo string) {
	if strings.TrimSpace(text) == "" {
		b.reply(msg, bot.TextCommandHelp)
		return
	}

	var card tgbotapi.Chattable
	var image *string
	if photo != "" {
		p := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileID(photo))
		p.Caption = newCardText(text)
		p.ParseMode = tgbotapi.ModeHTML
		p.ReplyMarkup = postKeyboard()
		card = p
		image = &photo
	} else {
		m := tgbotapi.NewMessage(msg.Chat.ID, newCardText(text))
		m.ParseMode = tgbotapi.ModeHTML
		m.ReplyMarkup = postKeyboard()
		card = m
	}

	sent, err := b.client.Send(card)
	if err != nil {
		b.log.Error("send card failed", slog.Int64("chat_id", msg.Chat.ID), slog.String("error", err.Error()))
		return
	}

	id := postID(sent.Chat.ID, sent.MessageID)
	if _, err := b.svc.CreatePost(ctx, user(msg.From), id, text, image); err != nil {
		b.log.Error("create post failed", slog.String("post_id", id), slog.String("error", err.Error()))
	}
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.Message == nil || q.From == nil {
		b.answer(q, bot.TextPostNotFound, true)
		return
	}
	id := postID(q.Message.Chat.ID, q.Message.MessageID)

	switch q.Data {
	case bot.ButtonLike:
		post, err := b.svc.ToggleLike(ctx, id, user(q.From))
		if errors.Is(err, storage.ErrPostNotFound) {
			b.answer(q, bot.UserMessage(err), true)
			return
		}
		if err != nil {
			b.log.Error("toggle like failed", slog.String("post_id", id), slog.String("error", err.Error()))
		}
		b.updateCard(post)
		b.answer(q, "", false)

	case bot.ButtonComment:
		if _, err := b.svc.Post(id); err != nil {
			b.answer(q, bot.UserMessage(err), true)
			return
		}
		s := b.sessions.Get(session.Key{ChatID: q.Message.Chat.ID, UserID: q.From.ID})
		s.State = stateAwaitComment
		s.Data[keyPostID] = id

		prompt := tgbotapi.NewMessage(q.Message.Chat.ID, bot.TextCommentPrompt)
		prompt.ReplyToMessageID = q.Message.MessageID
		prompt.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true, Selective: true}
		if _, err := b.client.Send(prompt); err != nil {
			b.log.Error("send prompt failed", slog.String("post_id", id), slog.String("error", err.Error()))
		}
		b.answer(q, "", false)
	}
}

func (b *Bot) handleCommentText(ctx context.Context, msg *tgbotapi.Message, key session.Key, s *session.Session) {
	id := s.Data[keyPostID]
	post, err := b.svc.AddComment(ctx, id, user(msg.From), msg.Text)
	switch {
	case errors.Is(err, bot.ErrEmptyComment), errors.Is(err, bot.ErrCommentTooLong):
		// keep waiting for a valid comment
		b.reply(msg, bot.UserMessage(err))
		return
	case errors.Is(err, storage.ErrPostNotFound):
		b.sessions.Reset(key)
		b.reply(msg, bot.UserMessage(err))
		return
	case err != nil:
		b.log.Error("add comment failed", slog.String("post_id", id), slog.String("error", err.Error()))
	}

	b.sessions.Reset(key)
	b.updateCard(post)
	b.reply(msg, bot.TextCommentAdded)
}

func (b *Bot) updateCard(post storage.Post) {
	chatID, msgID, err := parsePostID(post.ID)
	if err != nil {
		b.log.Error("bad post id", slog.String("post_id", post.ID), slog.String("error", err.Error()))
		return
	}

	keyboard := postKeyboard()
	var edit tgbotapi.Chattable
	if post.Image != nil {
		e := tgbotapi.NewEditMessageCaption(chatID, msgID, renderCardText(post))
		e.ParseMode = tgbotapi.ModeHTML
		e.ReplyMarkup = &keyboard
		edit = e
	} else {
		e := tgbotapi.NewEditMessageText(chatID, msgID, renderCardText(post))
		e.ParseMode = tgbotapi.ModeHTML
		e.ReplyMarkup = &keyboard
		edit = e
	}
	if _, err := b.client.Request(edit); err != nil {
		b.log.Error("edit card failed", slog.String("post_id", post.ID), slog.String("error", err.Error()))
	}
}

func (b *Bot) answer(q *tgbotapi.CallbackQuery, text string, alert bool) {
	cb := tgbotapi.NewCallback(q.ID, text)
	cb.ShowAlert = alert
	if _, err := b.client.Request(cb); err != nil {
		b.log.Error("answer callback failed", slog.String("callback_id", q.ID), slog.String("error", err.Error()))
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	m := tgbotapi.NewMessage(msg.Chat.ID, text)
	m.ReplyToMessageID = msg.MessageID
	if _, err := b.client.Send(m); err != nil {
		b.log.Error("reply failed", slog.Int64("chat_id", msg.Chat.ID), slog.String("error", err.Error()))
	}
}

// publishRequest extracts the post text and optional photo file id from a
// /publicar command, sent either as text or as a photo caption.
func publishRequest(msg *tgbotapi.Message) (text, photo string, ok bool) {
	if msg.IsCommand() {
		if msg.Command() != bot.CommandPublish {
			return "", "", false
		}
		return msg.CommandArguments(), "", true
	}

	if len(msg.Photo) == 0 {
		return "", "", false
	}
	cmd, rest, _ := strings.Cut(msg.Caption, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	if cmd != "/"+bot.CommandPublish {
		return "", "", false
	}
	// the last size is the largest
	return strings.TrimSpace(rest), msg.Photo[len(msg.Photo)-1].FileID, true
}

func user(u *tgbotapi.User) bot.User {
	name := u.UserName
	if name == "" {
		name = u.FirstName
	}
	return bot.User{ID: strconv.FormatInt(u.ID, 10), Username: name}
}

// postID keys a Telegram post by chat and message, as message ids are only
// unique within a chat.
func postID(chatID int64, messageID int) string {
	return fmt.Sprintf("%d:%d", chatID, messageID)
}

func parsePostID(id string) (int64, int, error) {
	chat, msg, ok := strings.Cut(id, ":")
	if !ok {
		return 0, 0, fmt.Errorf("post id %q: missing separator", id)
	}
	chatID, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("post id %q: %w", id, err)
	}
	msgID, err := strconv.Atoi(msg)
	if err != nil {
		return 0, 0, fmt.Errorf("post id %q: %w", id, err)
	}
	return chatID, msgID, nil
}
