package repositories_test

import (
	"context"
	"testing"

	"skytone/internal/models"
	"skytone/internal/repositories"
	"skytone/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylistRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPlaylistRepository()
	ctx := context.Background()

	description := "Music for rainy evenings"
	playlist := &models.Playlist{Name: "Rain Sounds", Description: &description}
	require.NoError(t, repo.Create(ctx, db, playlist))
	assert.NotZero(t, playlist.ID)

	playlists, err := repo.ListAll(ctx, db)
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, "Rain Sounds", playlists[0].Name)
	require.NotNil(t, playlists[0].Description)
	assert.Equal(t, description, *playlists[0].Description)
}

func TestPlaylistRepository_AddItem_PositionOrdering(t *testing.T) {
	db := setupTestDB(t)
	playlistRepo := repositories.NewPlaylistRepository()
	bgmRepo := repositories.NewBGMRepository(nil)
	ctx := context.Background()

	playlist := &models.Playlist{Name: "Ordered"}
	require.NoError(t, playlistRepo.Create(ctx, db, playlist))

	titles := []string{"Alpha", "Beta", "Gamma"}
	ids := make([]int, 0, len(titles))
	for _, title := range titles {
		bgm := newTestBGM(title, types.ConditionCloudy)
		require.NoError(t, bgmRepo.Create(ctx, db, bgm))
		ids = append(ids, bgm.ID)
	}

	for i, id := range ids {
		item, err := playlistRepo.AddItem(ctx, db, playlist.ID, id)
		require.NoError(t, err)
		assert.Equal(t, i, item.Position)
	}

	bgms, err := playlistRepo.ListItems(ctx, db, playlist.ID)
	require.NoError(t, err)
	require.Len(t, bgms, 3)
	for i, title := range titles {
		assert.Equal(t, title, bgms[i].Title)
	}
}

func TestPlaylistRepository_AddItem_DuplicateReturnsExisting(t *testing.T) {
	db := setupTestDB(t)
	playlistRepo := repositories.NewPlaylistRepository()
	bgmRepo := repositories.NewBGMRepository(nil)
	ctx := context.Background()

	playlist := &models.Playlist{Name: "Dedupe"}
	require.NoError(t, playlistRepo.Create(ctx, db, playlist))

	bgm := newTestBGM("Solo", types.ConditionClear)
	require.NoError(t, bgmRepo.Create(ctx, db, bgm))

	first, err := playlistRepo.AddItem(ctx, db, playlist.ID, bgm.ID)
	require.NoError(t, err)

	second, err := playlistRepo.AddItem(ctx, db, playlist.ID, bgm.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Position, second.Position)

	bgms, err := playlistRepo.ListItems(ctx, db, playlist.ID)
	require.NoError(t, err)
	assert.Len(t, bgms, 1)
}

func TestPlaylistRepository_RemoveItem_KeepsSurvivorOrder(t *testing.T) {
	db := setupTestDB(t)
	playlistRepo := repositories.NewPlaylistRepository()
	bgmRepo := repositories.NewBGMRepository(nil)
	ctx := context.Background()

	playlist := &models.Playlist{Name: "Gaps"}
	require.NoError(t, playlistRepo.Create(ctx, db, playlist))

	ids := make([]int, 0, 3)
	for _, title := range []string{"Keep1", "Drop", "Keep2"} {
		bgm := newTestBGM(title, types.ConditionRainy)
		require.NoError(t, bgmRepo.Create(ctx, db, bgm))
		_, err := playlistRepo.AddItem(ctx, db, playlist.ID, bgm.ID)
		require.NoError(t, err)
		ids = append(ids, bgm.ID)
	}

	removed, err := playlistRepo.RemoveItem(ctx, db, playlist.ID, ids[1])
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = playlistRepo.RemoveItem(ctx, db, playlist.ID, ids[1])
	require.NoError(t, err)
	assert.False(t, removed)

	bgms, err := playlistRepo.ListItems(ctx, db, playlist.ID)
	require.NoError(t, err)
	require.Len(t, bgms, 2)
	assert.Equal(t, "Keep1", bgms[0].Title)
	assert.Equal(t, "Keep2", bgms[1].Title)
}

func TestPlaylistRepository_Delete_CascadesItemsNotTracks(t *testing.T) {
	db := setupTestDB(t)
	playlistRepo := repositories.NewPlaylistRepository()
	bgmRepo := repositories.NewBGMRepository(nil)
	ctx := context.Background()

	playlist := &models.Playlist{Name: "Doomed"}
	require.NoError(t, playlistRepo.Create(ctx, db, playlist))

	bgm := newTestBGM("Survivor", types.ConditionWindy)
	require.NoError(t, bgmRepo.Create(ctx, db, bgm))
	_, err := playlistRepo.AddItem(ctx, db, playlist.ID, bgm.ID)
	require.NoError(t, err)

	deleted, err := playlistRepo.Delete(ctx, db, playlist.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := playlistRepo.GetByID(ctx, db, playlist.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Tracks are never removed by playlist deletion
	track, err := bgmRepo.GetByID(ctx, db, bgm.ID)
	require.NoError(t, err)
	assert.NotNil(t, track)

	deleted, err = playlistRepo.Delete(ctx, db, 9999)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSynthesisJobRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	jobRepo := repositories.NewSynthesisJobRepository()
	bgmRepo := repositories.NewBGMRepository(nil)
	ctx := context.Background()

	bgm := newTestBGM("Job Target", types.ConditionSnowy)
	require.NoError(t, bgmRepo.Create(ctx, db, bgm))

	job := &models.SynthesisJob{
		BGMID:           bgm.ID,
		Provider:        "replicate",
		Status:          models.SynthesisStatusPending,
		DurationSeconds: 30,
	}
	require.NoError(t, jobRepo.Create(ctx, db, job))
	assert.NotZero(t, job.ID)

	job.Status = models.SynthesisStatusSucceeded
	job.Attempts = 3
	job.FileName = "bgm_1_replicate_1700000000000.mp3"
	require.NoError(t, jobRepo.Update(ctx, db, job))

	jobs, err := jobRepo.ListByBGM(ctx, db, bgm.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.SynthesisStatusSucceeded, jobs[0].Status)
	assert.Equal(t, 3, jobs[0].Attempts)
}
