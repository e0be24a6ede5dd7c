package handlers

import (
	"strconv"

	"skytone/internal/app"
	bgmController "skytone/internal/controllers/bgm"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type BGMHandler struct {
	Handler
	bgmController bgmController.BGMControllerInterface
}

func NewBGMHandler(app app.App, router fiber.Router) *BGMHandler {
	log := logger.New("handlers").File("bgm_handler")
	return &BGMHandler{
		bgmController: app.Controllers.BGM,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BGMHandler) Register() {
	bgm := h.router.Group("/bgm")
	bgm.Post("/generate", h.generate)
	bgm.Get("", h.list)
	bgm.Delete("", h.clearAll)
	bgm.Get("/:id", h.get)
	bgm.Delete("/:id", h.delete)
	bgm.Post("/:id/favorite", h.toggleFavorite)
	bgm.Post("/:id/audio", h.synthesizeAudio)

	h.router.Get("/favorites", h.listFavorites)
}

func parseIDParam(c *fiber.Ctx, name string) (int, bool) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *BGMHandler) generate(c *fiber.Ctx) error {
	var req bgmController.GenerateBGMRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	bgm, err := h.bgmController.Generate(c.UserContext(), &req)
	if err != nil {
		return errorResponse(c, err, "Failed to generate track")
	}

	return dataResponse(c, fiber.StatusCreated, bgm)
}

func (h *BGMHandler) list(c *fiber.Ctx) error {
	bgms, err := h.bgmController.List(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "Failed to list tracks")
	}

	return dataResponse(c, fiber.StatusOK, bgms)
}

func (h *BGMHandler) listFavorites(c *fiber.Ctx) error {
	bgms, err := h.bgmController.ListFavorites(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "Failed to list favorites")
	}

	return dataResponse(c, fiber.StatusOK, bgms)
}

func (h *BGMHandler) get(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid track ID")
	}

	bgm, err := h.bgmController.Get(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err, "Failed to get track")
	}

	return dataResponse(c, fiber.StatusOK, bgm)
}

func (h *BGMHandler) delete(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid track ID")
	}

	if err := h.bgmController.Delete(c.UserContext(), id); err != nil {
		return errorResponse(c, err, "Failed to delete track")
	}

	return emptyResponse(c)
}

func (h *BGMHandler) clearAll(c *fiber.Ctx) error {
	if err := h.bgmController.ClearAll(c.UserContext()); err != nil {
		return errorResponse(c, err, "Failed to clear history")
	}

	return emptyResponse(c)
}

func (h *BGMHandler) toggleFavorite(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid track ID")
	}

	bgm, err := h.bgmController.ToggleFavorite(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err, "Failed to toggle favorite")
	}

	return dataResponse(c, fiber.StatusOK, bgm)
}

func (h *BGMHandler) synthesizeAudio(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid track ID")
	}

	req := bgmController.SynthesizeAudioRequest{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	bgm, err := h.bgmController.SynthesizeAudio(c.UserContext(), id, &req)
	if err != nil {
		return errorResponse(c, err, "Failed to synthesize audio")
	}

	return dataResponse(c, fiber.StatusOK, bgm)
}
