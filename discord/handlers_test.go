package discord

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publicaciones/bot"
	"publicaciones/storage"
)

type fakeClient struct {
	responses  []*discordgo.InteractionResponse
	edits      []*discordgo.MessageEdit
	replyID    string
	respondErr error
	editErr    error
}

func (f *fakeClient) InteractionRespond(_ *discordgo.Interaction, r *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.responses = append(f.responses, r)
	return f.respondErr
}

func (f *fakeClient) InteractionResponse(_ *discordgo.Interaction, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{ID: f.replyID, ChannelID: "c1"}, nil
}

func (f *fakeClient) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID}, f.editErr
}

type nopPersister struct{}

func (nopPersister) Load(context.Context) ([]storage.Post, error) { return nil, nil }
func (nopPersister) Save(context.Context, []storage.Post) error    { return nil }

type fixture struct {
	bot      *Bot
	client   *fakeClient
	svc      *bot.Service
	posts    *storage.Store
	profiles *storage.Profiles
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	posts := storage.NewStore(nopPersister{}, log)
	profiles := storage.NewProfiles()
	svc := bot.NewService(posts, profiles, log)
	client := &fakeClient{replyID: "m1"}
	return &fixture{
		bot:      newWithClient(client, svc, log),
		client:   client,
		svc:      svc,
		posts:    posts,
		profiles: profiles,
	}
}

func member(id, name string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: id, Username: name}}
}

func publishInteraction(text string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	data := discordgo.ApplicationCommandInteractionData{
		Name: bot.CommandPublish,
		Options: append([]*discordgo.ApplicationCommandInteractionDataOption{{
			Name:  bot.OptionMessage,
			Type:  discordgo.ApplicationCommandOptionString,
			Value: text,
		}}, opts...),
	}
	return &discordgo.Interaction{
		ID:        "i1",
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "c1",
		Member:    member("u1", "Al"),
		Data:      data,
	}
}

func buttonInteraction(customID string, msg *discordgo.Message, m *discordgo.Member) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        "i2",
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: "c1",
		Member:    m,
		Message:   msg,
		Data:      discordgo.MessageComponentInteractionData{CustomID: customID},
	}
}

func modalInteraction(text string, msg *discordgo.Message, m *discordgo.Member) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        "i3",
		Type:      discordgo.InteractionModalSubmit,
		ChannelID: "c1",
		Member:    m,
		Message:   msg,
		Data: discordgo.ModalSubmitInteractionData{
			CustomID: bot.ModalComment,
			Components: []discordgo.MessageComponent{
				&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: bot.InputComment, Value: text},
				}},
			},
		},
	}
}

// editedEmbed decodes the first embed of an edit through its JSON form.
func editedEmbed(t *testing.T, edit *discordgo.MessageEdit) *discordgo.MessageEmbed {
	t.Helper()
	raw, err := json.Marshal(edit)
	require.NoError(t, err)
	var body struct {
		Embeds []*discordgo.MessageEmbed `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotEmpty(t, body.Embeds)
	return body.Embeds[0]
}

func cardMessage(id string) *discordgo.Message {
	return &discordgo.Message{
		ID:        id,
		ChannelID: "c1",
		Embeds:    []*discordgo.MessageEmbed{toEmbed(bot.NewCard("hello", nil))},
	}
}

func TestHandle_Publish(t *testing.T) {
	f := newFixture(t)

	f.bot.Handle(context.Background(), publishInteraction("hello"))

	require.Len(t, f.client.responses, 1)
	resp := f.client.responses[0]
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	require.Len(t, resp.Data.Embeds, 1)
	assert.Equal(t, "Nueva Publicación", resp.Data.Embeds[0].Title)
	assert.Equal(t, "hello", resp.Data.Embeds[0].Description)
	assert.Equal(t, "Reacciones: 0", resp.Data.Embeds[0].Footer.Text)
	assert.Nil(t, resp.Data.Embeds[0].Image)
	require.Len(t, resp.Data.Components, 1)

	all := f.posts.All()
	require.Len(t, all, 1)
	assert.Equal(t, "m1", all[0].ID)
	assert.Equal(t, "hello", all[0].Title)
	assert.Nil(t, all[0].Image)

	prof, ok := f.profiles.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "Al", prof.Nombre)
	assert.Nil(t, prof.Avatar)
	assert.Equal(t, []string{"m1"}, prof.Posts)
}

func TestHandle_PublishWithImage(t *testing.T) {
	f := newFixture(t)
	i := publishInteraction("pic", &discordgo.ApplicationCommandInteractionDataOption{
		Name:  bot.OptionImage,
		Type:  discordgo.ApplicationCommandOptionAttachment,
		Value: "att1",
	})
	data := i.Data.(discordgo.ApplicationCommandInteractionData)
	data.Resolved = &discordgo.ApplicationCommandInteractionDataResolved{
		Attachments: map[string]*discordgo.MessageAttachment{
			"att1": {ID: "att1", URL: "https://cdn.discordapp.com/x.png"},
		},
	}
	i.Data = data

	f.bot.Handle(context.Background(), i)

	require.Len(t, f.client.responses, 1)
	require.NotNil(t, f.client.responses[0].Data.Embeds[0].Image)
	assert.Equal(t, "https://cdn.discordapp.com/x.png", f.client.responses[0].Data.Embeds[0].Image.URL)

	post, err := f.posts.Get("m1")
	require.NoError(t, err)
	require.NotNil(t, post.Image)
	assert.Equal(t, "https://cdn.discordapp.com/x.png", *post.Image)
}

func TestHandle_PublishReplyFailure(t *testing.T) {
	f := newFixture(t)
	f.client.respondErr = errors.New("unknown interaction")

	f.bot.Handle(context.Background(), publishInteraction("hello"))

	assert.Empty(t, f.posts.All())
}

func TestHandle_LikeToggles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreatePost(ctx, bot.User{ID: "u1", Username: "Al"}, "m1", "hello", nil)
	require.NoError(t, err)

	f.bot.Handle(ctx, buttonInteraction(bot.ButtonLike, cardMessage("m1"), member("u2", "Bo")))

	require.Len(t, f.client.edits, 1)
	assert.Equal(t, "m1", f.client.edits[0].ID)
	assert.Equal(t, "c1", f.client.edits[0].Channel)
	embed := editedEmbed(t, f.client.edits[0])
	assert.Equal(t, "Reacciones: 1", embed.Footer.Text)
	assert.Equal(t, "hello", embed.Description)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "No hay comentarios.", embed.Fields[0].Value)

	require.Len(t, f.client.responses, 1)
	assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, f.client.responses[0].Type)

	f.bot.Handle(ctx, buttonInteraction(bot.ButtonLike, cardMessage("m1"), member("u2", "Bo")))
	post, err := f.posts.Get("m1")
	require.NoError(t, err)
	assert.Empty(t, post.Likes)
	assert.Equal(t, "Reacciones: 0", editedEmbed(t, f.client.edits[1]).Footer.Text)
}

func TestHandle_LikeMissingPost(t *testing.T) {
	f := newFixture(t)

	f.bot.Handle(context.Background(), buttonInteraction(bot.ButtonLike, cardMessage("ghost"), member("u2", "Bo")))

	assert.Empty(t, f.client.edits)
	require.Len(t, f.client.responses, 1)
	resp := f.client.responses[0]
	assert.Equal(t, bot.TextPostNotFound, resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
}

func TestHandle_LikeEditFailureStillAcks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreatePost(ctx, bot.User{ID: "u1"}, "m1", "hello", nil)
	require.NoError(t, err)
	f.client.editErr = errors.New("missing access")

	f.bot.Handle(ctx, buttonInteraction(bot.ButtonLike, cardMessage("m1"), member("u2", "Bo")))

	post, err := f.posts.Get("m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, post.Likes)
	require.Len(t, f.client.responses, 1)
}

func TestHandle_CommentButtonShowsModal(t *testing.T) {
	f := newFixture(t)

	f.bot.Handle(context.Background(), buttonInteraction(bot.ButtonComment, cardMessage("m1"), member("u2", "Bo")))

	require.Len(t, f.client.responses, 1)
	resp := f.client.responses[0]
	assert.Equal(t, discordgo.InteractionResponseModal, resp.Type)
	assert.Equal(t, bot.ModalComment, resp.Data.CustomID)
	assert.Equal(t, "Agregar Comentario", resp.Data.Title)

	row := resp.Data.Components[0].(discordgo.ActionsRow)
	input := row.Components[0].(discordgo.TextInput)
	assert.Equal(t, bot.InputComment, input.CustomID)
	assert.Equal(t, 90, input.MaxLength)
	assert.Equal(t, discordgo.TextInputShort, input.Style)
	assert.Empty(t, f.posts.All())
}

func TestHandle_CommentSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreatePost(ctx, bot.User{ID: "u1", Username: "Al"}, "m1", "hello", nil)
	require.NoError(t, err)

	f.bot.Handle(ctx, modalInteraction("hi", cardMessage("m1"), member("u2", "Bo")))

	post, err := f.posts.Get("m1")
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, storage.Comment{UserID: "u2", UserNickname: "Bo", Text: "hi"}, post.Comments[0])

	require.Len(t, f.client.edits, 1)
	embed := editedEmbed(t, f.client.edits[0])
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Comentarios", embed.Fields[0].Name)
	assert.Equal(t, "<@u2> (Bo): hi", embed.Fields[0].Value)

	require.Len(t, f.client.responses, 1)
	assert.Equal(t, bot.TextCommentAdded, f.client.responses[0].Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, f.client.responses[0].Data.Flags)
}

func TestHandle_CommentSubmitRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreatePost(ctx, bot.User{ID: "u1"}, "m1", "hello", nil)
	require.NoError(t, err)

	f.bot.Handle(ctx, modalInteraction(strings.Repeat("x", 91), cardMessage("m1"), member("u2", "Bo")))
	f.bot.Handle(ctx, modalInteraction("hi", cardMessage("ghost"), member("u2", "Bo")))
	f.bot.Handle(ctx, modalInteraction("hi", nil, member("u2", "Bo")))

	assert.Empty(t, f.client.edits)
	require.Len(t, f.client.responses, 3)
	assert.Equal(t, bot.TextCommentTooLong, f.client.responses[0].Data.Content)
	assert.Equal(t, bot.TextPostNotFound, f.client.responses[1].Data.Content)
	assert.Equal(t, bot.TextPostNotFound, f.client.responses[2].Data.Content)
}

func TestRenderEmbed_WithoutExistingEmbed(t *testing.T) {
	img := "https://cdn/x.png"
	post := storage.Post{ID: "m1", Title: "hello", Image: &img, Likes: []string{"a", "b"}}

	embed := renderEmbed(&discordgo.Message{ID: "m1"}, post)
	assert.Equal(t, "Nueva Publicación", embed.Title)
	assert.Equal(t, img, embed.Image.URL)
	assert.Equal(t, "Reacciones: 2", embed.Footer.Text)
}

func TestInteractionUser(t *testing.T) {
	dm := &discordgo.Interaction{User: &discordgo.User{ID: "u9", Username: "Dee", Avatar: "abc"}}
	u := interactionUser(dm)
	assert.Equal(t, "u9", u.ID)
	require.NotNil(t, u.Avatar)
	assert.Contains(t, *u.Avatar, "abc")

	assert.Equal(t, bot.User{}, interactionUser(&discordgo.Interaction{}))
}

func TestCommands(t *testing.T) {
	cmds := Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "publicar", cmds[0].Name)
	require.Len(t, cmds[0].Options, 2)
	assert.True(t, cmds[0].Options[0].Required)
	assert.Equal(t, discordgo.ApplicationCommandOptionAttachment, cmds[0].Options[1].Type)
	assert.False(t, cmds[0].Options[1].Required)
}
