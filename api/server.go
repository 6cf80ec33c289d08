package api

import (
	_ "embed"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"publicaciones/storage"
)

//go:embed static/index.html
var indexHTML []byte

// Handlers serves read-only views of the post store and profile index.
type Handlers struct {
	Posts    *storage.Store
	Profiles *storage.Profiles
	Log      *slog.Logger
}

type profileResponse struct {
	Nombre string         `json:"nombre"`
	Avatar *string        `json:"avatar"`
	Posts  []storage.Post `json:"posts"`
}

func NewApp(h *Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "publicaciones",
		DisableStartupMessage: true,
	})

	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/", h.Index)
	app.Get("/posts", h.ListPosts)
	app.Get("/profile/:userId", h.GetProfile)
	return app
}

func (h *Handlers) Index(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(indexHTML)
}

func (h *Handlers) ListPosts(c *fiber.Ctx) error {
	return c.JSON(h.Posts.All())
}

func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	userID := c.Params("userId")
	prof, ok := h.Profiles.Get(userID)
	if !ok {
		h.Log.Debug("profile not found", slog.String("user_id", userID))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Perfil no encontrado"})
	}

	return c.JSON(profileResponse{
		Nombre: prof.Nombre,
		Avatar: prof.Avatar,
		Posts:  h.Posts.Resolve(prof.Posts),
	})
}
