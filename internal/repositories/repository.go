package repositories

import (
	"skytone/internal/database"
)

type Repository struct {
	BGM          BGMRepository
	Playlist     PlaylistRepository
	SynthesisJob SynthesisJobRepository
}

func New(db database.DB) Repository {
	return Repository{
		BGM:          NewBGMRepository(db.Cache.General), // BGM repo caches the track list
		Playlist:     NewPlaylistRepository(),
		SynthesisJob: NewSynthesisJobRepository(),
	}
}
