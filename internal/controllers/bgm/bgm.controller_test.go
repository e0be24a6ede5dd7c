package bgmController

import (
	"context"
	"testing"

	"skytone/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func testController() *BGMController {
	return &BGMController{log: logger.New("bgmController")}
}

func TestGenerate_RejectsInvalidWeatherCondition(t *testing.T) {
	c := testController()

	_, err := c.Generate(context.Background(), &GenerateBGMRequest{
		Weather:   types.WeatherData{Condition: "drizzle"},
		TimeOfDay: types.TimeNight,
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestGenerate_RejectsInvalidTimeOfDay(t *testing.T) {
	c := testController()

	_, err := c.Generate(context.Background(), &GenerateBGMRequest{
		Weather:   types.WeatherData{Condition: types.ConditionRainy},
		TimeOfDay: "midnight",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestGenerate_RejectsUnknownPreferredGenre(t *testing.T) {
	c := testController()

	_, err := c.Generate(context.Background(), &GenerateBGMRequest{
		Weather:        types.WeatherData{Condition: types.ConditionRainy},
		TimeOfDay:      types.TimeNight,
		PreferredGenre: "vaporwave",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestSynthesizeDefaults(t *testing.T) {
	assert.Equal(t, "elevenlabs", DefaultProvider)
	assert.Equal(t, 30, DefaultDurationSeconds)
}
