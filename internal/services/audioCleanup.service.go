package services

import (
	"context"
	"strings"
	"time"

	"skytone/internal/database"
	"skytone/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

// Orphans younger than this are left alone; the synthesis that wrote
// them may not have committed its audio URL yet.
const orphanMinAge = time.Hour

// AudioCleanupService reaps audio files no track references anymore,
// left behind by deleted tracks and history clears.
type AudioCleanupService struct {
	db      database.DB
	store   *AudioStoreService
	bgmRepo repositories.BGMRepository
	log     logger.Logger
}

func NewAudioCleanupService(
	db database.DB,
	store *AudioStoreService,
	bgmRepo repositories.BGMRepository,
) *AudioCleanupService {
	return &AudioCleanupService{
		db:      db,
		store:   store,
		bgmRepo: bgmRepo,
		log:     logger.New("audioCleanupService"),
	}
}

func (acs *AudioCleanupService) CleanupOrphans(ctx context.Context) error {
	log := acs.log.Function("CleanupOrphans")

	files, err := acs.store.List()
	if err != nil {
		return log.Err("failed to list stored audio", err)
	}

	if len(files) == 0 {
		return nil
	}

	bgms, err := acs.bgmRepo.ListAll(ctx, acs.db.SQLWithContext(ctx))
	if err != nil {
		return log.Err("failed to list tracks", err)
	}

	referenced := make(map[string]bool, len(bgms))
	for _, bgm := range bgms {
		if bgm.AudioURL == nil {
			continue
		}
		if name, ok := strings.CutPrefix(*bgm.AudioURL, "/api/music/"); ok {
			referenced[name] = true
		}
	}

	removed := 0
	for _, file := range files {
		if referenced[file.Name] {
			continue
		}
		if time.Since(file.ModTime) < orphanMinAge {
			continue
		}

		if err := acs.store.Remove(file.Name); err != nil {
			log.Warn("failed to remove orphaned audio", "fileName", file.Name, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Info("orphaned audio removed", "count", removed, "scanned", len(files))
	}

	return nil
}
