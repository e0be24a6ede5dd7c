package types

// WeatherCondition is the closed set of condition buckets every raw
// provider code is normalized into.
type WeatherCondition string

const (
	ConditionSunny  WeatherCondition = "sunny"
	ConditionCloudy WeatherCondition = "cloudy"
	ConditionRainy  WeatherCondition = "rainy"
	ConditionSnowy  WeatherCondition = "snowy"
	ConditionStormy WeatherCondition = "stormy"
	ConditionFoggy  WeatherCondition = "foggy"
	ConditionWindy  WeatherCondition = "windy"
	ConditionClear  WeatherCondition = "clear"
)

var WeatherConditions = []WeatherCondition{
	ConditionSunny,
	ConditionCloudy,
	ConditionRainy,
	ConditionSnowy,
	ConditionStormy,
	ConditionFoggy,
	ConditionWindy,
	ConditionClear,
}

func (c WeatherCondition) IsValid() bool {
	for _, condition := range WeatherConditions {
		if c == condition {
			return true
		}
	}
	return false
}

func (c WeatherCondition) String() string {
	return string(c)
}

// TimeOfDay is derived from the local clock hour by the client and
// captured immutably on generated records.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

var TimesOfDay = []TimeOfDay{TimeMorning, TimeAfternoon, TimeEvening, TimeNight}

func (t TimeOfDay) IsValid() bool {
	for _, timeOfDay := range TimesOfDay {
		if t == timeOfDay {
			return true
		}
	}
	return false
}

func (t TimeOfDay) String() string {
	return string(t)
}

// Tempo is the coarse playback-speed bucket. It is a closed enum; any
// other value coming back from the language model is replaced before it
// reaches storage.
type Tempo string

const (
	TempoSlow     Tempo = "slow"
	TempoModerate Tempo = "moderate"
	TempoUpbeat   Tempo = "upbeat"
)

var Tempos = []Tempo{TempoSlow, TempoModerate, TempoUpbeat}

func (t Tempo) IsValid() bool {
	for _, tempo := range Tempos {
		if t == tempo {
			return true
		}
	}
	return false
}

func (t Tempo) String() string {
	return string(t)
}

// MusicGenres are the user-selectable steering genres for generation.
// "auto" lets the weather decide.
var MusicGenres = []string{
	"auto",
	"lo-fi",
	"jazz",
	"classical",
	"electronic",
	"ambient",
	"acoustic",
	"piano",
}

func IsValidGenre(genre string) bool {
	for _, g := range MusicGenres {
		if genre == g {
			return true
		}
	}
	return false
}

// WeatherData is the transient weather snapshot consumed by the
// generator. It is never persisted; only Condition survives inside the
// BGM record.
type WeatherData struct {
	Condition   WeatherCondition `json:"condition"`
	Temperature int              `json:"temperature"`
	Humidity    int              `json:"humidity,omitempty"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
}
