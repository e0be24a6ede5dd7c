package handlers

import (
	"skytone/internal/app"
	playlistController "skytone/internal/controllers/playlist"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type PlaylistHandler struct {
	Handler
	playlistController playlistController.PlaylistControllerInterface
}

func NewPlaylistHandler(app app.App, router fiber.Router) *PlaylistHandler {
	log := logger.New("handlers").File("playlist_handler")
	return &PlaylistHandler{
		playlistController: app.Controllers.Playlist,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PlaylistHandler) Register() {
	playlists := h.router.Group("/playlists")
	playlists.Post("", h.create)
	playlists.Get("", h.list)
	playlists.Get("/:id", h.get)
	playlists.Delete("/:id", h.delete)
	playlists.Get("/:id/items", h.listItems)
	playlists.Post("/:id/items/:bgmId", h.addItem)
	playlists.Delete("/:id/items/:bgmId", h.removeItem)
}

func (h *PlaylistHandler) create(c *fiber.Ctx) error {
	var req playlistController.CreatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	playlist, err := h.playlistController.Create(c.UserContext(), &req)
	if err != nil {
		return errorResponse(c, err, "Failed to create playlist")
	}

	return dataResponse(c, fiber.StatusCreated, playlist)
}

func (h *PlaylistHandler) list(c *fiber.Ctx) error {
	playlists, err := h.playlistController.List(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "Failed to list playlists")
	}

	return dataResponse(c, fiber.StatusOK, playlists)
}

func (h *PlaylistHandler) get(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid playlist ID")
	}

	playlist, err := h.playlistController.Get(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err, "Failed to get playlist")
	}

	return dataResponse(c, fiber.StatusOK, playlist)
}

func (h *PlaylistHandler) delete(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid playlist ID")
	}

	if err := h.playlistController.Delete(c.UserContext(), id); err != nil {
		return errorResponse(c, err, "Failed to delete playlist")
	}

	return emptyResponse(c)
}

func (h *PlaylistHandler) listItems(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid playlist ID")
	}

	items, err := h.playlistController.ListItems(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err, "Failed to list playlist items")
	}

	return dataResponse(c, fiber.StatusOK, items)
}

func (h *PlaylistHandler) addItem(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid playlist ID")
	}

	bgmID, ok := parseIDParam(c, "bgmId")
	if !ok {
		return badRequest(c, "Invalid track ID")
	}

	item, err := h.playlistController.AddItem(c.UserContext(), id, bgmID)
	if err != nil {
		return errorResponse(c, err, "Failed to add track to playlist")
	}

	return dataResponse(c, fiber.StatusCreated, item)
}

func (h *PlaylistHandler) removeItem(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid playlist ID")
	}

	bgmID, ok := parseIDParam(c, "bgmId")
	if !ok {
		return badRequest(c, "Invalid track ID")
	}

	if err := h.playlistController.RemoveItem(c.UserContext(), id, bgmID); err != nil {
		return errorResponse(c, err, "Failed to remove track from playlist")
	}

	return emptyResponse(c)
}
