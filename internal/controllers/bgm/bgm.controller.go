package bgmController

import (
	"context"
	"errors"

	"skytone/config"
	"skytone/internal/database"
	"skytone/internal/events"
	. "skytone/internal/models"
	"skytone/internal/repositories"
	"skytone/internal/services"
	"skytone/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	DefaultProvider        = services.ProviderElevenLabs
	DefaultDurationSeconds = 30
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type BGMController struct {
	bgmRepo            repositories.BGMRepository
	conceptService     *services.ConceptService
	synthesisService   *services.SynthesisService
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	db                 database.DB
	log                logger.Logger
	Config             config.Config
}

type GenerateBGMRequest struct {
	Weather        types.WeatherData `json:"weather"`
	TimeOfDay      types.TimeOfDay   `json:"timeOfDay"`
	PreferredGenre string            `json:"preferredGenre,omitempty"`
}

type SynthesizeAudioRequest struct {
	Provider        string `json:"provider,omitempty"`
	DurationSeconds int    `json:"duration,omitempty"`
}

type BGMControllerInterface interface {
	Generate(ctx context.Context, request *GenerateBGMRequest) (*BGM, error)
	List(ctx context.Context) ([]*BGM, error)
	ListFavorites(ctx context.Context) ([]*BGM, error)
	Get(ctx context.Context, id int) (*BGM, error)
	Delete(ctx context.Context, id int) error
	ClearAll(ctx context.Context) error
	ToggleFavorite(ctx context.Context, id int) (*BGM, error)
	SynthesizeAudio(ctx context.Context, id int, request *SynthesizeAudioRequest) (*BGM, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) BGMControllerInterface {
	return &BGMController{
		bgmRepo:            repos.BGM,
		conceptService:     services.Concept,
		synthesisService:   services.Synthesis,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		log:                logger.New("bgmController"),
		Config:             config,
	}
}

func (c *BGMController) Generate(
	ctx context.Context,
	request *GenerateBGMRequest,
) (*BGM, error) {
	log := c.log.Function("Generate")

	if !request.Weather.Condition.IsValid() {
		return nil, log.Err(
			"invalid weather condition",
			ErrValidation,
			"condition", request.Weather.Condition,
		)
	}

	if !request.TimeOfDay.IsValid() {
		return nil, log.Err("invalid time of day", ErrValidation, "timeOfDay", request.TimeOfDay)
	}

	if request.PreferredGenre != "" && !types.IsValidGenre(request.PreferredGenre) {
		return nil, log.Err(
			"invalid preferred genre",
			ErrValidation,
			"preferredGenre", request.PreferredGenre,
		)
	}

	concept := c.conceptService.Generate(
		ctx,
		request.Weather,
		request.TimeOfDay,
		request.PreferredGenre,
	)

	bgm := concept.ToBGM(request.Weather.Condition, request.TimeOfDay)
	if err := c.bgmRepo.Create(ctx, c.db.SQLWithContext(ctx), bgm); err != nil {
		return nil, log.Err("failed to persist generated track", err)
	}

	log.Info("Track generated", "bgmID", bgm.ID, "title", bgm.Title, "condition", bgm.WeatherCondition)

	c.broadcast(events.BGM_CREATED, map[string]any{
		"id":    bgm.ID,
		"title": bgm.Title,
	})

	return bgm, nil
}

func (c *BGMController) List(ctx context.Context) ([]*BGM, error) {
	return c.bgmRepo.ListAll(ctx, c.db.SQLWithContext(ctx))
}

func (c *BGMController) ListFavorites(ctx context.Context) ([]*BGM, error) {
	return c.bgmRepo.ListFavorites(ctx, c.db.SQLWithContext(ctx))
}

func (c *BGMController) Get(ctx context.Context, id int) (*BGM, error) {
	log := c.log.Function("Get")

	bgm, err := c.bgmRepo.GetByID(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, log.Err("failed to get track", err, "bgmID", id)
	}
	if bgm == nil {
		return nil, ErrNotFound
	}

	return bgm, nil
}

func (c *BGMController) Delete(ctx context.Context, id int) error {
	log := c.log.Function("Delete")

	var found bool
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var txErr error
		found, txErr = c.bgmRepo.Delete(ctx, tx, id)
		return txErr
	})
	if err != nil {
		return log.Err("failed to delete track", err, "bgmID", id)
	}
	if !found {
		return ErrNotFound
	}

	log.Info("Track deleted", "bgmID", id)

	c.broadcast(events.BGM_DELETED, map[string]any{"id": id})

	return nil
}

func (c *BGMController) ClearAll(ctx context.Context) error {
	log := c.log.Function("ClearAll")

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.bgmRepo.ClearAll(ctx, tx)
	})
	if err != nil {
		return log.Err("failed to clear history", err)
	}

	log.Info("History cleared")

	c.broadcast(events.HISTORY_CLEARED, map[string]any{})

	return nil
}

func (c *BGMController) ToggleFavorite(ctx context.Context, id int) (*BGM, error) {
	log := c.log.Function("ToggleFavorite")

	bgm, err := c.bgmRepo.ToggleFavorite(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, log.Err("failed to toggle favorite", err, "bgmID", id)
	}
	if bgm == nil {
		return nil, ErrNotFound
	}

	c.broadcast(events.BGM_FAVORITED, map[string]any{
		"id":         bgm.ID,
		"isFavorite": bgm.IsFavorite,
	})

	return bgm, nil
}

func (c *BGMController) SynthesizeAudio(
	ctx context.Context,
	id int,
	request *SynthesizeAudioRequest,
) (*BGM, error) {
	log := c.log.Function("SynthesizeAudio")

	provider := request.Provider
	if provider == "" {
		provider = DefaultProvider
	}

	duration := request.DurationSeconds
	if duration == 0 {
		duration = DefaultDurationSeconds
	}

	bgm, err := c.synthesisService.Synthesize(
		ctx,
		c.db.SQLWithContext(ctx),
		id,
		provider,
		duration,
	)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	log.Info("Audio ready", "bgmID", bgm.ID, "provider", provider)

	if bgm.AudioURL != nil {
		c.broadcast(events.BGM_AUDIO_READY, map[string]any{
			"id":       bgm.ID,
			"audioUrl": *bgm.AudioURL,
		})
	}

	return bgm, nil
}

func (c *BGMController) broadcast(eventType events.MessageType, data map[string]any) {
	if c.eventBus == nil {
		return
	}
	if err := c.eventBus.Broadcast(eventType, data); err != nil {
		c.log.Function("broadcast").Warn("failed to publish event", "eventType", eventType, "error", err)
	}
}
