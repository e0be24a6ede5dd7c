package seed

import (
	"skytone/config"
	. "skytone/internal/models"
	"skytone/internal/types"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

// Seed loads a small demo library so a fresh development environment
// has something to render immediately.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	bgms := []BGM{
		{
			Title:            "Rainy Night Vibes",
			Description:      "Perfect ambient music for a rainy night. Let the sounds help you focus and stay productive.",
			Mood:             "Dreamy & Calm",
			Genre:            "Ethereal Wave",
			Tempo:            types.TempoSlow,
			WeatherCondition: types.ConditionRainy,
			TimeOfDay:        types.TimeNight,
			IsFavorite:       true,
		},
		{
			Title:            "Sunny Morning Vibes",
			Description:      "Perfect ambient music for a sunny morning. Let the sounds help you focus and stay productive.",
			Mood:             "Bright & Energetic",
			Genre:            "Indie Folk",
			Tempo:            types.TempoUpbeat,
			WeatherCondition: types.ConditionSunny,
			TimeOfDay:        types.TimeMorning,
		},
		{
			Title:            "Foggy Evening Vibes",
			Description:      "Perfect ambient music for a foggy evening. Let the sounds help you focus and stay productive.",
			Mood:             "Mysterious & Soft",
			Genre:            "Dark Ambient",
			Tempo:            types.TempoSlow,
			WeatherCondition: types.ConditionFoggy,
			TimeOfDay:        types.TimeEvening,
		},
	}

	for i := range bgms {
		var existing BGM
		if err := db.First(&existing, "title = ?", bgms[i].Title).Error; err == nil {
			log.Info("Track already exists", "title", bgms[i].Title)
			continue
		}
		log.Info("Seeding track", "title", bgms[i].Title)
		if err := db.Create(&bgms[i]).Error; err != nil {
			return log.Err("failed to create track", err, "title", bgms[i].Title)
		}
	}

	playlist := Playlist{
		Name:        "Late Night Focus",
		Description: stringPtr("Slow ambient tracks for after-hours work."),
	}

	var existingPlaylist Playlist
	if err := db.First(&existingPlaylist, "name = ?", playlist.Name).Error; err == nil {
		log.Info("Playlist already exists", "name", playlist.Name)
		return nil
	}

	if err := db.Create(&playlist).Error; err != nil {
		return log.Err("failed to create playlist", err, "name", playlist.Name)
	}

	position := 0
	for _, bgm := range bgms {
		if bgm.Tempo != types.TempoSlow {
			continue
		}
		item := PlaylistItem{
			PlaylistID: playlist.ID,
			BGMID:      bgm.ID,
			Position:   position,
		}
		if err := db.Create(&item).Error; err != nil {
			return log.Err("failed to add track to playlist", err, "title", bgm.Title)
		}
		position++
	}

	log.Info("Seeding complete")
	return nil
}
