package repositories

import (
	"context"
	"errors"

	. "skytone/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type PlaylistRepository interface {
	Create(ctx context.Context, tx *gorm.DB, playlist *Playlist) error
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Playlist, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*Playlist, error)
	Delete(ctx context.Context, tx *gorm.DB, id int) (bool, error)
	AddItem(ctx context.Context, tx *gorm.DB, playlistID, bgmID int) (*PlaylistItem, error)
	RemoveItem(ctx context.Context, tx *gorm.DB, playlistID, bgmID int) (bool, error)
	ListItems(ctx context.Context, tx *gorm.DB, playlistID int) ([]*BGM, error)
}

type playlistRepository struct {
	log logger.Logger
}

func NewPlaylistRepository() PlaylistRepository {
	return &playlistRepository{
		log: logger.New("playlistRepository"),
	}
}

func (r *playlistRepository) Create(ctx context.Context, tx *gorm.DB, playlist *Playlist) error {
	log := r.log.Function("Create")

	err := gorm.G[Playlist](tx).Create(ctx, playlist)
	if err != nil {
		return log.Err("failed to create playlist", err, "name", playlist.Name)
	}

	return nil
}

func (r *playlistRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Playlist, error) {
	log := r.log.Function("GetByID")

	playlist, err := gorm.G[*Playlist](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get playlist", err, "id", id)
	}

	return playlist, nil
}

func (r *playlistRepository) ListAll(ctx context.Context, tx *gorm.DB) ([]*Playlist, error) {
	log := r.log.Function("ListAll")

	playlists, err := gorm.G[*Playlist](tx).
		Order("created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list playlists", err)
	}

	return playlists, nil
}

// Delete removes the playlist and its items. The referenced tracks are
// untouched. Returns false when the playlist does not exist.
func (r *playlistRepository) Delete(ctx context.Context, tx *gorm.DB, id int) (bool, error) {
	log := r.log.Function("Delete")

	if _, err := gorm.G[*PlaylistItem](tx).Where("playlist_id = ?", id).Delete(ctx); err != nil {
		return false, log.Err("failed to delete playlist items", err, "playlistID", id)
	}

	rowsAffected, err := gorm.G[*Playlist](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return false, log.Err("failed to delete playlist", err, "id", id)
	}

	return rowsAffected > 0, nil
}

// AddItem appends a track to the playlist. Position is the membership
// count at insertion time. Adding a track already in the playlist is a
// no-op that returns the existing membership.
func (r *playlistRepository) AddItem(
	ctx context.Context,
	tx *gorm.DB,
	playlistID, bgmID int,
) (*PlaylistItem, error) {
	log := r.log.Function("AddItem")

	existing, err := gorm.G[*PlaylistItem](tx).
		Where("playlist_id = ? AND bgm_id = ?", playlistID, bgmID).
		First(ctx)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, log.Err(
			"failed to check playlist membership",
			err,
			"playlistID",
			playlistID,
			"bgmID",
			bgmID,
		)
	}

	count, err := gorm.G[*PlaylistItem](tx).
		Where("playlist_id = ?", playlistID).
		Count(ctx, "*")
	if err != nil {
		return nil, log.Err("failed to count playlist items", err, "playlistID", playlistID)
	}

	item := &PlaylistItem{
		PlaylistID: playlistID,
		BGMID:      bgmID,
		Position:   int(count),
	}

	if err := gorm.G[PlaylistItem](tx).Create(ctx, item); err != nil {
		return nil, log.Err(
			"failed to add playlist item",
			err,
			"playlistID",
			playlistID,
			"bgmID",
			bgmID,
		)
	}

	r.touchPlaylist(ctx, tx, playlistID)

	return item, nil
}

// RemoveItem drops a track from the playlist. Remaining positions are
// left as-is; gaps are harmless since ordering only needs ascending
// positions. Returns false when the track was not in the playlist.
func (r *playlistRepository) RemoveItem(
	ctx context.Context,
	tx *gorm.DB,
	playlistID, bgmID int,
) (bool, error) {
	log := r.log.Function("RemoveItem")

	rowsAffected, err := gorm.G[*PlaylistItem](tx).
		Where("playlist_id = ? AND bgm_id = ?", playlistID, bgmID).
		Delete(ctx)
	if err != nil {
		return false, log.Err(
			"failed to remove playlist item",
			err,
			"playlistID",
			playlistID,
			"bgmID",
			bgmID,
		)
	}

	if rowsAffected == 0 {
		return false, nil
	}

	r.touchPlaylist(ctx, tx, playlistID)

	return true, nil
}

// ListItems returns the playlist's tracks in insertion order.
func (r *playlistRepository) ListItems(
	ctx context.Context,
	tx *gorm.DB,
	playlistID int,
) ([]*BGM, error) {
	log := r.log.Function("ListItems")

	var bgms []*BGM
	err := tx.WithContext(ctx).
		Model(&BGM{}).
		Joins("JOIN playlist_items ON playlist_items.bgm_id = bgms.id").
		Where("playlist_items.playlist_id = ?", playlistID).
		Order("playlist_items.position ASC").
		Find(&bgms).Error
	if err != nil {
		return nil, log.Err("failed to list playlist items", err, "playlistID", playlistID)
	}

	return bgms, nil
}

func (r *playlistRepository) touchPlaylist(ctx context.Context, tx *gorm.DB, playlistID int) {
	result := tx.WithContext(ctx).Model(&Playlist{}).
		Where("id = ?", playlistID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if result.Error != nil {
		r.log.Warn("failed to touch playlist", "playlistID", playlistID, "error", result.Error)
	}
}
