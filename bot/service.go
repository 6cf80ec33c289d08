package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"publicaciones/storage"
)

const MaxCommentLength = 90

var (
	ErrEmptyComment   = errors.New("comment is empty")
	ErrCommentTooLong = fmt.Errorf("comment longer than %d characters", MaxCommentLength)
)

// User is the acting user of an interaction as reported by the platform.
type User struct {
	ID       string
	Username string
	Avatar   *string
}

// Service applies interactions to the post store and profile index. It is
// shared by every platform adapter.
type Service struct {
	posts    *storage.Store
	profiles *storage.Profiles
	log      *slog.Logger
}

func NewService(posts *storage.Store, profiles *storage.Profiles, log *slog.Logger) *Service {
	return &Service{posts: posts, profiles: profiles, log: log}
}

// CreatePost records a post whose card was already sent as messageID.
func (s *Service) CreatePost(ctx context.Context, author User, messageID, text string, image *string) (storage.Post, error) {
	post, err := s.posts.Add(ctx, storage.Post{
		ID:           messageID,
		Title:        text,
		Image:        image,
		UserID:       author.ID,
		UserNickname: author.Username,
	})
	if errors.Is(err, storage.ErrDuplicatePost) {
		return storage.Post{}, err
	}
	// a failed save leaves the post in memory, so the profile still follows it
	s.profiles.AddPost(author.ID, author.Username, author.Avatar, messageID)
	if err != nil {
		return post, err
	}

	s.log.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("user_id", author.ID),
		slog.Bool("image", image != nil),
	)
	return post, nil
}

func (s *Service) ToggleLike(ctx context.Context, messageID string, user User) (storage.Post, error) {
	post, liked, err := s.posts.ToggleLike(ctx, messageID, user.ID)
	if err != nil {
		return post, err
	}
	s.log.Debug("like toggled",
		slog.String("post_id", messageID),
		slog.String("user_id", user.ID),
		slog.Bool("liked", liked),
	)
	return post, nil
}

func (s *Service) AddComment(ctx context.Context, messageID string, user User, text string) (storage.Post, error) {
	text, err := ValidateComment(text)
	if err != nil {
		return storage.Post{}, err
	}
	post, err := s.posts.AddComment(ctx, messageID, storage.Comment{
		UserID:       user.ID,
		UserNickname: user.Username,
		Text:         text,
	})
	if err != nil {
		return post, err
	}
	s.log.Debug("comment added",
		slog.String("post_id", messageID),
		slog.String("user_id", user.ID),
		slog.Int("comments", len(post.Comments)),
	)
	return post, nil
}

// Post looks up the post bound to messageID.
func (s *Service) Post(messageID string) (storage.Post, error) {
	return s.posts.Get(messageID)
}

// ValidateComment trims text and enforces the comment input limits.
func ValidateComment(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyComment
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return "", ErrCommentTooLong
	}
	return text, nil
}

// UserMessage maps an interaction error to the text shown to the acting user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrPostNotFound):
		return TextPostNotFound
	case errors.Is(err, ErrEmptyComment):
		return TextEmptyComment
	case errors.Is(err, ErrCommentTooLong):
		return TextCommentTooLong
	default:
		return TextGenericError
	}
}
