package handlers

import (
	"errors"

	"skytone/internal/app"
	bgmController "skytone/internal/controllers/bgm"
	playlistController "skytone/internal/controllers/playlist"
	"skytone/internal/handlers/middleware"
	"skytone/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewWeatherHandler(*app, api).Register()
	NewBGMHandler(*app, api).Register()
	NewPlaylistHandler(*app, api).Register()
	NewMusicHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

// statusForError maps controller and service sentinels onto HTTP status
// codes. The second return reports whether the error was recognized;
// unrecognized errors are 500s whose message must not leak to clients.
func statusForError(err error) (int, bool) {
	switch {
	case errors.Is(err, bgmController.ErrValidation),
		errors.Is(err, playlistController.ErrValidation),
		errors.Is(err, services.ErrInvalidDuration):
		return fiber.StatusBadRequest, true
	case errors.Is(err, bgmController.ErrNotFound),
		errors.Is(err, playlistController.ErrNotFound),
		errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrLocationNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, services.ErrProviderNotConfigured):
		return fiber.StatusServiceUnavailable, true
	case errors.Is(err, services.ErrUpstreamUnavailable),
		errors.Is(err, services.ErrSynthesisFailed),
		errors.Is(err, services.ErrSynthesisTimeout):
		return fiber.StatusInternalServerError, true
	default:
		return fiber.StatusInternalServerError, false
	}
}

func dataResponse(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func emptyResponse(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func errorResponse(c *fiber.Ctx, err error, fallback string) error {
	status, recognized := statusForError(err)
	msg := err.Error()
	if !recognized {
		msg = fallback
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}
