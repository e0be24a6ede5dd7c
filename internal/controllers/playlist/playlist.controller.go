package playlistController

import (
	"context"
	"errors"
	"strings"

	"skytone/config"
	"skytone/internal/database"
	"skytone/internal/events"
	. "skytone/internal/models"
	"skytone/internal/repositories"
	"skytone/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const MaxNameLength = 120

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type PlaylistController struct {
	playlistRepo       repositories.PlaylistRepository
	bgmRepo            repositories.BGMRepository
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	db                 database.DB
	log                logger.Logger
	Config             config.Config
}

type CreatePlaylistRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// PlaylistWithItems is the detail view: the playlist row plus its
// member tracks in position order.
type PlaylistWithItems struct {
	*Playlist
	Items []*BGM `json:"items"`
}

type PlaylistControllerInterface interface {
	Create(ctx context.Context, request *CreatePlaylistRequest) (*Playlist, error)
	List(ctx context.Context) ([]*Playlist, error)
	Get(ctx context.Context, id int) (*PlaylistWithItems, error)
	Delete(ctx context.Context, id int) error
	ListItems(ctx context.Context, playlistID int) ([]*BGM, error)
	AddItem(ctx context.Context, playlistID, bgmID int) (*PlaylistItem, error)
	RemoveItem(ctx context.Context, playlistID, bgmID int) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) PlaylistControllerInterface {
	return &PlaylistController{
		playlistRepo:       repos.Playlist,
		bgmRepo:            repos.BGM,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		log:                logger.New("playlistController"),
		Config:             config,
	}
}

func (c *PlaylistController) Create(
	ctx context.Context,
	request *CreatePlaylistRequest,
) (*Playlist, error) {
	log := c.log.Function("Create")

	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, log.Err("playlist name is required", ErrValidation)
	}
	if len(name) > MaxNameLength {
		return nil, log.Err(
			"playlist name too long",
			ErrValidation,
			"length", len(name),
			"max", MaxNameLength,
		)
	}

	playlist := &Playlist{
		Name:        name,
		Description: request.Description,
	}

	if err := c.playlistRepo.Create(ctx, c.db.SQLWithContext(ctx), playlist); err != nil {
		return nil, log.Err("failed to create playlist", err, "name", name)
	}

	log.Info("Playlist created", "playlistID", playlist.ID, "name", playlist.Name)

	c.broadcast(map[string]any{"playlistId": playlist.ID, "action": "created"})

	return playlist, nil
}

func (c *PlaylistController) List(ctx context.Context) ([]*Playlist, error) {
	return c.playlistRepo.ListAll(ctx, c.db.SQLWithContext(ctx))
}

func (c *PlaylistController) Get(ctx context.Context, id int) (*PlaylistWithItems, error) {
	log := c.log.Function("Get")

	playlist, err := c.playlistRepo.GetByID(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, log.Err("failed to get playlist", err, "playlistID", id)
	}
	if playlist == nil {
		return nil, ErrNotFound
	}

	items, err := c.playlistRepo.ListItems(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, log.Err("failed to list playlist items", err, "playlistID", id)
	}

	return &PlaylistWithItems{Playlist: playlist, Items: items}, nil
}

func (c *PlaylistController) Delete(ctx context.Context, id int) error {
	log := c.log.Function("Delete")

	found, err := c.playlistRepo.Delete(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return log.Err("failed to delete playlist", err, "playlistID", id)
	}
	if !found {
		return ErrNotFound
	}

	log.Info("Playlist deleted", "playlistID", id)

	c.broadcast(map[string]any{"playlistId": id, "action": "deleted"})

	return nil
}

func (c *PlaylistController) ListItems(ctx context.Context, playlistID int) ([]*BGM, error) {
	log := c.log.Function("ListItems")

	playlist, err := c.playlistRepo.GetByID(ctx, c.db.SQLWithContext(ctx), playlistID)
	if err != nil {
		return nil, log.Err("failed to get playlist", err, "playlistID", playlistID)
	}
	if playlist == nil {
		return nil, ErrNotFound
	}

	return c.playlistRepo.ListItems(ctx, c.db.SQLWithContext(ctx), playlistID)
}

func (c *PlaylistController) AddItem(
	ctx context.Context,
	playlistID, bgmID int,
) (*PlaylistItem, error) {
	log := c.log.Function("AddItem")

	playlist, err := c.playlistRepo.GetByID(ctx, c.db.SQLWithContext(ctx), playlistID)
	if err != nil {
		return nil, log.Err("failed to get playlist", err, "playlistID", playlistID)
	}
	if playlist == nil {
		return nil, ErrNotFound
	}

	bgm, err := c.bgmRepo.GetByID(ctx, c.db.SQLWithContext(ctx), bgmID)
	if err != nil {
		return nil, log.Err("failed to get track", err, "bgmID", bgmID)
	}
	if bgm == nil {
		return nil, ErrNotFound
	}

	item, err := c.playlistRepo.AddItem(ctx, c.db.SQLWithContext(ctx), playlistID, bgmID)
	if err != nil {
		return nil, log.Err(
			"failed to add track to playlist",
			err,
			"playlistID", playlistID,
			"bgmID", bgmID,
		)
	}

	log.Info("Track added to playlist", "playlistID", playlistID, "bgmID", bgmID, "position", item.Position)

	c.broadcast(map[string]any{"playlistId": playlistID, "action": "item_added", "bgmId": bgmID})

	return item, nil
}

func (c *PlaylistController) RemoveItem(ctx context.Context, playlistID, bgmID int) error {
	log := c.log.Function("RemoveItem")

	found, err := c.playlistRepo.RemoveItem(ctx, c.db.SQLWithContext(ctx), playlistID, bgmID)
	if err != nil {
		return log.Err(
			"failed to remove track from playlist",
			err,
			"playlistID", playlistID,
			"bgmID", bgmID,
		)
	}
	if !found {
		return ErrNotFound
	}

	log.Info("Track removed from playlist", "playlistID", playlistID, "bgmID", bgmID)

	c.broadcast(map[string]any{"playlistId": playlistID, "action": "item_removed", "bgmId": bgmID})

	return nil
}

func (c *PlaylistController) broadcast(data map[string]any) {
	if c.eventBus == nil {
		return
	}
	if err := c.eventBus.Broadcast(events.PLAYLIST_UPDATED, data); err != nil {
		c.log.Function("broadcast").Warn("failed to publish event", "error", err)
	}
}
