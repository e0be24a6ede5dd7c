package handlers

import (
	"errors"
	"io/fs"

	"skytone/internal/app"
	"skytone/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type MusicHandler struct {
	Handler
	synthesisService  *services.SynthesisService
	elevenLabsService *services.ElevenLabsService
	audioStoreService *services.AudioStoreService
}

func NewMusicHandler(app app.App, router fiber.Router) *MusicHandler {
	log := logger.New("handlers").File("music_handler")
	return &MusicHandler{
		synthesisService:  app.Services.Synthesis,
		elevenLabsService: app.Services.ElevenLabs,
		audioStoreService: app.Services.AudioStore,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *MusicHandler) Register() {
	music := h.router.Group("/music")
	music.Get("/status", h.status)
	music.Get("/:filename", h.serveAudio)
}

// status reports provider readiness. The ElevenLabs subscription lookup
// is best effort; a failed call degrades to configured-only data rather
// than failing the endpoint.
func (h *MusicHandler) status(c *fiber.Ctx) error {
	log := h.log.Function("status")

	providers := h.synthesisService.Status()

	data := fiber.Map{"providers": providers}

	if h.elevenLabsService.IsConfigured() {
		subscription, err := h.elevenLabsService.FetchSubscription(c.UserContext())
		if err != nil {
			log.Warn("failed to fetch subscription", "error", err)
		} else {
			data["elevenlabsSubscription"] = subscription
		}
	}

	return dataResponse(c, fiber.StatusOK, data)
}

func (h *MusicHandler) serveAudio(c *fiber.Ctx) error {
	fileName := c.Params("filename")

	path, err := h.audioStoreService.Path(fileName)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFileName) {
			return badRequest(c, "Invalid file name")
		}
		if errors.Is(err, fs.ErrNotExist) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Audio file not found",
			})
		}
		return errorResponse(c, err, "Failed to serve audio")
	}

	// Synthesized files are immutable once written.
	c.Set(fiber.HeaderContentType, "audio/mpeg")
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")

	return c.SendFile(path)
}
