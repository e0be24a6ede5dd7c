package services

import (
	"context"
	"errors"
	"fmt"

	"skytone/internal/models"
	"skytone/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound              = errors.New("record not found")
	ErrProviderNotConfigured = errors.New("synthesis provider not configured")
	ErrInvalidDuration       = errors.New("invalid synthesis duration")
	ErrSynthesisFailed       = errors.New("music synthesis failed")
	ErrSynthesisTimeout      = errors.New("music synthesis timed out")
)

const (
	ProviderElevenLabs = "elevenlabs"
	ProviderReplicate  = "replicate"

	ElevenLabsMinDuration = 10
	ElevenLabsMaxDuration = 300
	ReplicateMinDuration  = 1
	ReplicateMaxDuration  = 190
)

type musicComposer interface {
	IsConfigured() bool
	ComposeMusic(ctx context.Context, prompt string, durationSeconds int) ([]byte, error)
}

type musicPredictor interface {
	IsConfigured() bool
	GenerateMusic(ctx context.Context, prompt string, durationSeconds int) ([]byte, int, error)
}

type audioStore interface {
	FileName(bgmID int, provider string) string
	Store(fileName string, data []byte) error
}

// SynthesisService orchestrates audio generation: provider selection,
// duration bounds, job bookkeeping, and persisting the audio location.
type SynthesisService struct {
	elevenlabs musicComposer
	replicate  musicPredictor
	store      audioStore
	bgmRepo    repositories.BGMRepository
	jobRepo    repositories.SynthesisJobRepository
	log        logger.Logger
}

func NewSynthesisService(
	elevenlabs *ElevenLabsService,
	replicate *ReplicateService,
	store *AudioStoreService,
	bgmRepo repositories.BGMRepository,
	jobRepo repositories.SynthesisJobRepository,
) *SynthesisService {
	return &SynthesisService{
		elevenlabs: elevenlabs,
		replicate:  replicate,
		store:      store,
		bgmRepo:    bgmRepo,
		jobRepo:    jobRepo,
		log:        logger.New("SynthesisService"),
	}
}

// BuildMusicPrompt renders the track metadata into the text prompt both
// providers consume.
func BuildMusicPrompt(bgm *models.BGM) string {
	return fmt.Sprintf(
		"%s music. %s. Mood: %s. Tempo: %s. Perfect for %s weather during %s. Instrumental only, no vocals.",
		bgm.Genre,
		bgm.Description,
		bgm.Mood,
		bgm.Tempo,
		bgm.WeatherCondition,
		bgm.TimeOfDay,
	)
}

// ValidateDuration enforces per-provider duration bounds in seconds.
func ValidateDuration(provider string, durationSeconds int) error {
	switch provider {
	case ProviderElevenLabs:
		if durationSeconds < ElevenLabsMinDuration || durationSeconds > ElevenLabsMaxDuration {
			return fmt.Errorf(
				"%w: elevenlabs duration must be between %d and %d seconds",
				ErrInvalidDuration,
				ElevenLabsMinDuration,
				ElevenLabsMaxDuration,
			)
		}
	case ProviderReplicate:
		if durationSeconds < ReplicateMinDuration || durationSeconds > ReplicateMaxDuration {
			return fmt.Errorf(
				"%w: replicate duration must be between %d and %d seconds",
				ErrInvalidDuration,
				ReplicateMinDuration,
				ReplicateMaxDuration,
			)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidDuration, provider)
	}
	return nil
}

// Synthesize generates audio for a stored track. Idempotent: a track
// that already has audio is returned unchanged without touching any
// provider.
func (ss *SynthesisService) Synthesize(
	ctx context.Context,
	tx *gorm.DB,
	bgmID int,
	provider string,
	durationSeconds int,
) (*models.BGM, error) {
	log := ss.log.Function("Synthesize")

	if err := ValidateDuration(provider, durationSeconds); err != nil {
		return nil, err
	}

	if err := ss.checkConfigured(provider); err != nil {
		return nil, err
	}

	bgm, err := ss.bgmRepo.GetByID(ctx, tx, bgmID)
	if err != nil {
		return nil, err
	}
	if bgm == nil {
		return nil, ErrNotFound
	}

	if bgm.AudioURL != nil && *bgm.AudioURL != "" {
		log.Info("audio already exists, skipping synthesis", "bgmID", bgmID)
		return bgm, nil
	}

	prompt := BuildMusicPrompt(bgm)

	job := &models.SynthesisJob{
		BGMID:           bgm.ID,
		Provider:        provider,
		Status:          models.SynthesisStatusPending,
		DurationSeconds: durationSeconds,
	}
	if err := ss.jobRepo.Create(ctx, tx, job); err != nil {
		return nil, err
	}

	audio, attempts, err := ss.generate(ctx, provider, prompt, durationSeconds)
	job.Attempts = attempts
	if err != nil {
		ss.finishJob(ctx, tx, job, statusForSynthesisError(err), err.Error())
		return nil, err
	}

	fileName := ss.store.FileName(bgm.ID, provider)
	if err := ss.store.Store(fileName, audio); err != nil {
		ss.finishJob(ctx, tx, job, models.SynthesisStatusFailed, err.Error())
		return nil, err
	}

	audioURL := "/api/music/" + fileName
	updated, err := ss.bgmRepo.SetAudioURL(ctx, tx, bgm.ID, audioURL)
	if err != nil {
		ss.finishJob(ctx, tx, job, models.SynthesisStatusFailed, err.Error())
		return nil, err
	}

	job.FileName = fileName
	job.ProviderPayload = datatypes.JSON(fmt.Sprintf(`{"bytes":%d}`, len(audio)))
	ss.finishJob(ctx, tx, job, models.SynthesisStatusSucceeded, "")

	log.Info(
		"audio synthesized",
		"bgmID", bgm.ID,
		"provider", provider,
		"fileName", fileName,
		"attempts", attempts,
	)

	return updated, nil
}

// ProviderStatus reports which providers are usable.
type ProviderStatus struct {
	Configured bool `json:"configured"`
	Available  bool `json:"available"`
}

func (ss *SynthesisService) Status() map[string]ProviderStatus {
	return map[string]ProviderStatus{
		ProviderElevenLabs: {
			Configured: ss.elevenlabs.IsConfigured(),
			Available:  ss.elevenlabs.IsConfigured(),
		},
		ProviderReplicate: {
			Configured: ss.replicate.IsConfigured(),
			Available:  ss.replicate.IsConfigured(),
		},
	}
}

func (ss *SynthesisService) checkConfigured(provider string) error {
	switch provider {
	case ProviderElevenLabs:
		if !ss.elevenlabs.IsConfigured() {
			return fmt.Errorf("%w: elevenlabs", ErrProviderNotConfigured)
		}
	case ProviderReplicate:
		if !ss.replicate.IsConfigured() {
			return fmt.Errorf("%w: replicate", ErrProviderNotConfigured)
		}
	}
	return nil
}

func (ss *SynthesisService) generate(
	ctx context.Context,
	provider, prompt string,
	durationSeconds int,
) ([]byte, int, error) {
	if provider == ProviderReplicate {
		return ss.replicate.GenerateMusic(ctx, prompt, durationSeconds)
	}

	audio, err := ss.elevenlabs.ComposeMusic(ctx, prompt, durationSeconds)
	return audio, 1, err
}

func (ss *SynthesisService) finishJob(
	ctx context.Context,
	tx *gorm.DB,
	job *models.SynthesisJob,
	status, errMsg string,
) {
	job.Status = status
	job.Error = errMsg
	if err := ss.jobRepo.Update(ctx, tx, job); err != nil {
		ss.log.Warn("failed to update synthesis job", "jobID", job.ID, "error", err)
	}
}

func statusForSynthesisError(err error) string {
	if errors.Is(err, ErrSynthesisTimeout) {
		return models.SynthesisStatusTimeout
	}
	return models.SynthesisStatusFailed
}
