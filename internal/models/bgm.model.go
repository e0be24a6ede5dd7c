package models

import (
	"skytone/internal/types"
)

// BGM is a generated music concept, optionally realized as audio.
// WeatherCondition and TimeOfDay capture the moment of generation and
// are immutable afterward; AudioURL is nil until synthesis succeeds and
// is never cleared by normal operation.
type BGM struct {
	BaseModel
	Title            string                 `gorm:"not null"                        json:"title"`
	Description      string                 `gorm:"type:text;not null"              json:"description"`
	Mood             string                 `gorm:"not null"                        json:"mood"`
	Genre            string                 `gorm:"not null"                        json:"genre"`
	Tempo            types.Tempo            `gorm:"type:varchar(16);not null"       json:"tempo"`
	WeatherCondition types.WeatherCondition `gorm:"type:varchar(16);not null;index" json:"weatherCondition"`
	TimeOfDay        types.TimeOfDay        `gorm:"type:varchar(16);not null"       json:"timeOfDay"`
	IsFavorite       bool                   `gorm:"not null;default:false;index"    json:"isFavorite"`
	AudioURL         *string                `gorm:"type:text"                       json:"audioUrl"`
}

// BGMConcept is the generator's output before persistence. The
// generator guarantees every field is non-empty and Tempo is valid.
type BGMConcept struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Mood        string      `json:"mood"`
	Genre       string      `json:"genre"`
	Tempo       types.Tempo `json:"tempo"`
}

// ToBGM stamps the concept with the generation-time weather and clock
// context, producing an insertable record.
func (c BGMConcept) ToBGM(condition types.WeatherCondition, timeOfDay types.TimeOfDay) *BGM {
	return &BGM{
		Title:            c.Title,
		Description:      c.Description,
		Mood:             c.Mood,
		Genre:            c.Genre,
		Tempo:            c.Tempo,
		WeatherCondition: condition,
		TimeOfDay:        timeOfDay,
	}
}
