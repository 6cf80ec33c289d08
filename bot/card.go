package bot

import (
	"fmt"
	"strings"

	"publicaciones/storage"
)

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Card is the platform-neutral display of a post.
type Card struct {
	Title       string
	Description string
	Image       *string
	Footer      string
	Fields      []Field
}

// MentionFunc renders a reference to the comment's author.
type MentionFunc func(c storage.Comment) string

func DiscordMention(c storage.Comment) string {
	return "<@" + c.UserID + ">"
}

// NewCard builds the card sent when a post is created.
func NewCard(text string, image *string) Card {
	return Card{
		Title:       TextCardTitle,
		Description: text,
		Image:       image,
		Footer:      Footer(0),
	}
}

// Render returns base with its footer and fields rebuilt from post. Title,
// description and image of base are kept.
func Render(base Card, post storage.Post, mention MentionFunc) Card {
	base.Footer = Footer(len(post.Likes))
	base.Fields = []Field{{
		Name:  TextCommentsField,
		Value: CommentLines(post.Comments, mention),
	}}
	return base
}

// CardFor rebuilds a full card from post alone.
func CardFor(post storage.Post, mention MentionFunc) Card {
	return Render(NewCard(post.Title, post.Image), post, mention)
}

func Footer(likes int) string {
	return fmt.Sprintf("Reacciones: %d", likes)
}

func CommentLines(comments []storage.Comment, mention MentionFunc) string {
	if len(comments) == 0 {
		return TextNoComments
	}
	lines := make([]string, 0, len(comments))
	for _, c := range comments {
		lines = append(lines, fmt.Sprintf("%s (%s): %s", mention(c), c.UserNickname, c.Text))
	}
	return strings.Join(lines, "\n")
}
