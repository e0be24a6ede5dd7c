package controllers

import (
	"skytone/config"
	"skytone/internal/database"
	"skytone/internal/events"
	"skytone/internal/repositories"
	"skytone/internal/services"

	bgmController "skytone/internal/controllers/bgm"
	playlistController "skytone/internal/controllers/playlist"
)

type Controllers struct {
	BGM      bgmController.BGMControllerInterface
	Playlist playlistController.PlaylistControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		BGM:      bgmController.New(repos, services, eventBus, config, db),
		Playlist: playlistController.New(repos, services, eventBus, config, db),
	}
}
