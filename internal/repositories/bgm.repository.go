package repositories

import (
	"context"
	"errors"
	"time"

	"skytone/internal/database"
	. "skytone/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	BGM_LIST_CACHE_PREFIX = "bgm_list"
	BGM_LIST_CACHE_KEY    = "all"
	BGM_LIST_CACHE_EXPIRY = 5 * time.Minute
)

type BGMRepository interface {
	Create(ctx context.Context, tx *gorm.DB, bgm *BGM) error
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*BGM, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*BGM, error)
	ListFavorites(ctx context.Context, tx *gorm.DB) ([]*BGM, error)
	Delete(ctx context.Context, tx *gorm.DB, id int) (bool, error)
	ClearAll(ctx context.Context, tx *gorm.DB) error
	ToggleFavorite(ctx context.Context, tx *gorm.DB, id int) (*BGM, error)
	SetAudioURL(ctx context.Context, tx *gorm.DB, id int, audioURL string) (*BGM, error)
}

type bgmRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewBGMRepository(cache database.CacheClient) BGMRepository {
	return &bgmRepository{
		cache: cache,
		log:   logger.New("bgmRepository"),
	}
}

func (r *bgmRepository) Create(ctx context.Context, tx *gorm.DB, bgm *BGM) error {
	log := r.log.Function("Create")

	err := gorm.G[BGM](tx).Create(ctx, bgm)
	if err != nil {
		return log.Err(
			"failed to create bgm",
			err,
			"title",
			bgm.Title,
			"condition",
			bgm.WeatherCondition,
		)
	}

	r.clearListCache(ctx)

	return nil
}

// GetByID returns (nil, nil) when no record exists so callers can map
// absence to a not-found response without inspecting gorm errors.
func (r *bgmRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*BGM, error) {
	log := r.log.Function("GetByID")

	bgm, err := gorm.G[*BGM](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get bgm", err, "id", id)
	}

	return bgm, nil
}

func (r *bgmRepository) ListAll(ctx context.Context, tx *gorm.DB) ([]*BGM, error) {
	log := r.log.Function("ListAll")

	if r.cache != nil {
		var cached []*BGM
		found, err := database.NewCacheBuilder(r.cache, BGM_LIST_CACHE_KEY).
			WithContext(ctx).
			WithHash(BGM_LIST_CACHE_PREFIX).
			Get(&cached)
		if err != nil {
			log.Warn("failed to get bgm list from cache", "error", err)
		}

		if found {
			return cached, nil
		}
	}

	bgms, err := gorm.G[*BGM](tx).
		Order("created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list bgms", err)
	}

	if r.cache != nil {
		err = database.NewCacheBuilder(r.cache, BGM_LIST_CACHE_KEY).
			WithContext(ctx).
			WithHash(BGM_LIST_CACHE_PREFIX).
			WithStruct(bgms).
			WithTTL(BGM_LIST_CACHE_EXPIRY).
			Set()
		if err != nil {
			log.Warn("failed to set bgm list in cache", "error", err)
		}
	}

	return bgms, nil
}

func (r *bgmRepository) ListFavorites(ctx context.Context, tx *gorm.DB) ([]*BGM, error) {
	log := r.log.Function("ListFavorites")

	bgms, err := gorm.G[*BGM](tx).
		Where("is_favorite = ?", true).
		Order("created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list favorite bgms", err)
	}

	return bgms, nil
}

// Delete removes the track and its playlist memberships. Returns false
// when no track with the given id exists.
func (r *bgmRepository) Delete(ctx context.Context, tx *gorm.DB, id int) (bool, error) {
	log := r.log.Function("Delete")

	if _, err := gorm.G[*PlaylistItem](tx).Where("bgm_id = ?", id).Delete(ctx); err != nil {
		return false, log.Err("failed to delete playlist memberships", err, "bgmID", id)
	}

	rowsAffected, err := gorm.G[*BGM](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return false, log.Err("failed to delete bgm", err, "id", id)
	}

	if rowsAffected == 0 {
		return false, nil
	}

	r.clearListCache(ctx)

	return true, nil
}

// ClearAll wipes every generated track. Playlist memberships go first to
// keep referential integrity; playlists themselves survive, emptied.
func (r *bgmRepository) ClearAll(ctx context.Context, tx *gorm.DB) error {
	log := r.log.Function("ClearAll")

	if err := tx.WithContext(ctx).Exec("DELETE FROM playlist_items").Error; err != nil {
		return log.Err("failed to clear playlist items", err)
	}

	if err := tx.WithContext(ctx).Exec("DELETE FROM bgms").Error; err != nil {
		return log.Err("failed to clear bgms", err)
	}

	r.clearListCache(ctx)

	return nil
}

// ToggleFavorite flips the favorite flag and returns the updated record,
// or (nil, nil) when the track does not exist.
func (r *bgmRepository) ToggleFavorite(ctx context.Context, tx *gorm.DB, id int) (*BGM, error) {
	log := r.log.Function("ToggleFavorite")

	bgm, err := r.GetByID(ctx, tx, id)
	if err != nil || bgm == nil {
		return nil, err
	}

	bgm.IsFavorite = !bgm.IsFavorite
	result := tx.WithContext(ctx).Model(&BGM{}).
		Where("id = ?", id).
		Update("is_favorite", bgm.IsFavorite)
	if result.Error != nil {
		return nil, log.Err("failed to toggle favorite", result.Error, "id", id)
	}

	r.clearListCache(ctx)

	return bgm, nil
}

// SetAudioURL records the synthesized audio location. Idempotent: once
// set, subsequent calls return the existing record unchanged.
func (r *bgmRepository) SetAudioURL(
	ctx context.Context,
	tx *gorm.DB,
	id int,
	audioURL string,
) (*BGM, error) {
	log := r.log.Function("SetAudioURL")

	bgm, err := r.GetByID(ctx, tx, id)
	if err != nil || bgm == nil {
		return nil, err
	}

	if bgm.AudioURL != nil && *bgm.AudioURL != "" {
		return bgm, nil
	}

	result := tx.WithContext(ctx).Model(&BGM{}).
		Where("id = ?", id).
		Update("audio_url", audioURL)
	if result.Error != nil {
		return nil, log.Err("failed to set audio url", result.Error, "id", id)
	}

	bgm.AudioURL = &audioURL
	r.clearListCache(ctx)

	return bgm, nil
}

func (r *bgmRepository) clearListCache(ctx context.Context) {
	if r.cache == nil {
		return
	}

	err := database.NewCacheBuilder(r.cache, BGM_LIST_CACHE_KEY).
		WithContext(ctx).
		WithHash(BGM_LIST_CACHE_PREFIX).
		Delete()
	if err != nil {
		r.log.Warn("failed to clear bgm list cache", "error", err)
	}
}
