package services

import (
	"context"
	"fmt"
	"testing"

	"skytone/internal/models"
	"skytone/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubBGMRepo struct {
	bgms map[int]*models.BGM
}

func (s *stubBGMRepo) Create(ctx context.Context, tx *gorm.DB, bgm *models.BGM) error {
	s.bgms[bgm.ID] = bgm
	return nil
}

func (s *stubBGMRepo) GetByID(ctx context.Context, tx *gorm.DB, id int) (*models.BGM, error) {
	return s.bgms[id], nil
}

func (s *stubBGMRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.BGM, error) {
	bgms := make([]*models.BGM, 0, len(s.bgms))
	for _, bgm := range s.bgms {
		bgms = append(bgms, bgm)
	}
	return bgms, nil
}

func (s *stubBGMRepo) ListFavorites(ctx context.Context, tx *gorm.DB) ([]*models.BGM, error) {
	return nil, nil
}

func (s *stubBGMRepo) Delete(ctx context.Context, tx *gorm.DB, id int) (bool, error) {
	_, ok := s.bgms[id]
	delete(s.bgms, id)
	return ok, nil
}

func (s *stubBGMRepo) ClearAll(ctx context.Context, tx *gorm.DB) error {
	s.bgms = map[int]*models.BGM{}
	return nil
}

func (s *stubBGMRepo) ToggleFavorite(
	ctx context.Context,
	tx *gorm.DB,
	id int,
) (*models.BGM, error) {
	return s.bgms[id], nil
}

func (s *stubBGMRepo) SetAudioURL(
	ctx context.Context,
	tx *gorm.DB,
	id int,
	audioURL string,
) (*models.BGM, error) {
	bgm := s.bgms[id]
	if bgm == nil {
		return nil, nil
	}
	if bgm.AudioURL == nil || *bgm.AudioURL == "" {
		bgm.AudioURL = &audioURL
	}
	return bgm, nil
}

type stubJobRepo struct {
	jobs []*models.SynthesisJob
}

func (s *stubJobRepo) Create(ctx context.Context, tx *gorm.DB, job *models.SynthesisJob) error {
	job.ID = len(s.jobs) + 1
	s.jobs = append(s.jobs, job)
	return nil
}

func (s *stubJobRepo) Update(ctx context.Context, tx *gorm.DB, job *models.SynthesisJob) error {
	return nil
}

func (s *stubJobRepo) ListByBGM(
	ctx context.Context,
	tx *gorm.DB,
	bgmID int,
) ([]*models.SynthesisJob, error) {
	return s.jobs, nil
}

type stubComposer struct {
	configured bool
	audio      []byte
	err        error
	prompts    []string
}

func (s *stubComposer) IsConfigured() bool { return s.configured }

func (s *stubComposer) ComposeMusic(
	ctx context.Context,
	prompt string,
	durationSeconds int,
) ([]byte, error) {
	s.prompts = append(s.prompts, prompt)
	return s.audio, s.err
}

type stubPredictor struct {
	configured bool
	audio      []byte
	attempts   int
	err        error
}

func (s *stubPredictor) IsConfigured() bool { return s.configured }

func (s *stubPredictor) GenerateMusic(
	ctx context.Context,
	prompt string,
	durationSeconds int,
) ([]byte, int, error) {
	return s.audio, s.attempts, s.err
}

type stubStore struct {
	stored   map[string][]byte
	storeErr error
}

func (s *stubStore) FileName(bgmID int, provider string) string {
	return fmt.Sprintf("bgm_%d_%s_1700000000000.mp3", bgmID, provider)
}

func (s *stubStore) Store(fileName string, data []byte) error {
	if s.storeErr != nil {
		return s.storeErr
	}
	s.stored[fileName] = data
	return nil
}

type synthesisFixture struct {
	service  *SynthesisService
	bgmRepo  *stubBGMRepo
	jobRepo  *stubJobRepo
	composer *stubComposer
	replica  *stubPredictor
	store    *stubStore
}

func newSynthesisFixture() *synthesisFixture {
	bgmRepo := &stubBGMRepo{bgms: map[int]*models.BGM{}}
	jobRepo := &stubJobRepo{}
	composer := &stubComposer{configured: true, audio: []byte("el-audio")}
	predictor := &stubPredictor{configured: true, audio: []byte("rep-audio"), attempts: 4}
	store := &stubStore{stored: map[string][]byte{}}

	return &synthesisFixture{
		service: &SynthesisService{
			elevenlabs: composer,
			replicate:  predictor,
			store:      store,
			bgmRepo:    bgmRepo,
			jobRepo:    jobRepo,
			log:        logger.New("SynthesisService"),
		},
		bgmRepo:  bgmRepo,
		jobRepo:  jobRepo,
		composer: composer,
		replica:  predictor,
		store:    store,
	}
}

func fixtureBGM(id int) *models.BGM {
	return &models.BGM{
		BaseModel:        models.BaseModel{ID: id},
		Title:            "Rainy Night Echoes",
		Description:      "Soft piano over rainfall",
		Mood:             "Dreamy & Calm",
		Genre:            "Ethereal Wave",
		Tempo:            types.TempoSlow,
		WeatherCondition: types.ConditionRainy,
		TimeOfDay:        types.TimeNight,
	}
}

func TestBuildMusicPrompt(t *testing.T) {
	prompt := BuildMusicPrompt(fixtureBGM(1))

	assert.Equal(
		t,
		"Ethereal Wave music. Soft piano over rainfall. Mood: Dreamy & Calm. Tempo: slow. "+
			"Perfect for rainy weather during night. Instrumental only, no vocals.",
		prompt,
	)
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(ProviderElevenLabs, 10))
	assert.NoError(t, ValidateDuration(ProviderElevenLabs, 300))
	assert.ErrorIs(t, ValidateDuration(ProviderElevenLabs, 9), ErrInvalidDuration)
	assert.ErrorIs(t, ValidateDuration(ProviderElevenLabs, 301), ErrInvalidDuration)

	assert.NoError(t, ValidateDuration(ProviderReplicate, 1))
	assert.NoError(t, ValidateDuration(ProviderReplicate, 190))
	assert.ErrorIs(t, ValidateDuration(ProviderReplicate, 0), ErrInvalidDuration)
	assert.ErrorIs(t, ValidateDuration(ProviderReplicate, 191), ErrInvalidDuration)

	assert.ErrorIs(t, ValidateDuration("suno", 30), ErrInvalidDuration)
}

func TestSynthesisService_Synthesize_ElevenLabs(t *testing.T) {
	fixture := newSynthesisFixture()
	fixture.bgmRepo.bgms[1] = fixtureBGM(1)

	bgm, err := fixture.service.Synthesize(context.Background(), nil, 1, ProviderElevenLabs, 30)
	require.NoError(t, err)
	require.NotNil(t, bgm)
	require.NotNil(t, bgm.AudioURL)
	assert.Equal(t, "/api/music/bgm_1_elevenlabs_1700000000000.mp3", *bgm.AudioURL)

	// Audio was written before the URL was recorded
	assert.Equal(t, []byte("el-audio"), fixture.store.stored["bgm_1_elevenlabs_1700000000000.mp3"])

	// Prompt came from the track metadata
	require.Len(t, fixture.composer.prompts, 1)
	assert.Contains(t, fixture.composer.prompts[0], "Ethereal Wave music.")

	require.Len(t, fixture.jobRepo.jobs, 1)
	job := fixture.jobRepo.jobs[0]
	assert.Equal(t, models.SynthesisStatusSucceeded, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.Equal(t, "bgm_1_elevenlabs_1700000000000.mp3", job.FileName)
}

func TestSynthesisService_Synthesize_ReplicateRecordsAttempts(t *testing.T) {
	fixture := newSynthesisFixture()
	fixture.bgmRepo.bgms[2] = fixtureBGM(2)

	bgm, err := fixture.service.Synthesize(context.Background(), nil, 2, ProviderReplicate, 60)
	require.NoError(t, err)
	require.NotNil(t, bgm.AudioURL)
	assert.Equal(t, "/api/music/bgm_2_replicate_1700000000000.mp3", *bgm.AudioURL)

	require.Len(t, fixture.jobRepo.jobs, 1)
	assert.Equal(t, 4, fixture.jobRepo.jobs[0].Attempts)
	assert.Equal(t, models.SynthesisStatusSucceeded, fixture.jobRepo.jobs[0].Status)
}

func TestSynthesisService_Synthesize_Idempotent(t *testing.T) {
	fixture := newSynthesisFixture()
	existing := "/api/music/bgm_3_elevenlabs_1.mp3"
	bgm := fixtureBGM(3)
	bgm.AudioURL = &existing
	fixture.bgmRepo.bgms[3] = bgm

	result, err := fixture.service.Synthesize(context.Background(), nil, 3, ProviderElevenLabs, 30)
	require.NoError(t, err)
	assert.Equal(t, existing, *result.AudioURL)

	// No provider call, no job row
	assert.Empty(t, fixture.composer.prompts)
	assert.Empty(t, fixture.jobRepo.jobs)
}

func TestSynthesisService_Synthesize_NotFound(t *testing.T) {
	fixture := newSynthesisFixture()

	_, err := fixture.service.Synthesize(context.Background(), nil, 99, ProviderElevenLabs, 30)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSynthesisService_Synthesize_ProviderNotConfigured(t *testing.T) {
	fixture := newSynthesisFixture()
	fixture.composer.configured = false
	fixture.bgmRepo.bgms[1] = fixtureBGM(1)

	_, err := fixture.service.Synthesize(context.Background(), nil, 1, ProviderElevenLabs, 30)
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestSynthesisService_Synthesize_FailureMarksJob(t *testing.T) {
	fixture := newSynthesisFixture()
	fixture.bgmRepo.bgms[1] = fixtureBGM(1)
	fixture.replica.err = fmt.Errorf("%w: generator exploded", ErrSynthesisFailed)
	fixture.replica.attempts = 2

	_, err := fixture.service.Synthesize(context.Background(), nil, 1, ProviderReplicate, 60)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSynthesisFailed)

	require.Len(t, fixture.jobRepo.jobs, 1)
	job := fixture.jobRepo.jobs[0]
	assert.Equal(t, models.SynthesisStatusFailed, job.Status)
	assert.Equal(t, 2, job.Attempts)
	assert.Contains(t, job.Error, "generator exploded")

	// Track remains audio-less
	assert.Nil(t, fixture.bgmRepo.bgms[1].AudioURL)
}

func TestSynthesisService_Synthesize_TimeoutMarksJob(t *testing.T) {
	fixture := newSynthesisFixture()
	fixture.bgmRepo.bgms[1] = fixtureBGM(1)
	fixture.replica.err = ErrSynthesisTimeout
	fixture.replica.attempts = 60

	_, err := fixture.service.Synthesize(context.Background(), nil, 1, ProviderReplicate, 60)
	assert.ErrorIs(t, err, ErrSynthesisTimeout)

	require.Len(t, fixture.jobRepo.jobs, 1)
	assert.Equal(t, models.SynthesisStatusTimeout, fixture.jobRepo.jobs[0].Status)
	assert.Equal(t, 60, fixture.jobRepo.jobs[0].Attempts)
}

func TestSynthesisService_Synthesize_StoreFailure(t *testing.T) {
	fixture := newSynthesisFixture()
	fixture.bgmRepo.bgms[1] = fixtureBGM(1)
	fixture.store.storeErr = fmt.Errorf("disk full")

	_, err := fixture.service.Synthesize(context.Background(), nil, 1, ProviderElevenLabs, 30)
	require.Error(t, err)

	require.Len(t, fixture.jobRepo.jobs, 1)
	assert.Equal(t, models.SynthesisStatusFailed, fixture.jobRepo.jobs[0].Status)
	assert.Nil(t, fixture.bgmRepo.bgms[1].AudioURL)
}

func TestSynthesisService_Status(t *testing.T) {
	fixture := newSynthesisFixture()
	fixture.replica.configured = false

	status := fixture.service.Status()
	assert.True(t, status[ProviderElevenLabs].Configured)
	assert.False(t, status[ProviderReplicate].Configured)
}
