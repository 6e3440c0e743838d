package repositories

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimgiray/streakcard/internal/models"
	"github.com/alimgiray/streakcard/pkg/database"
)

func newTestRepository(t *testing.T) *CardRenderRepository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCardRenderRepository(db)
}

func TestCardRenderRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepository(t)

	render := models.NewCardRender("octocat", models.CardVariantWithAvatar, models.RenderStatusOK)
	render.AvatarEmbedded = true
	render.DurationMS = 42
	require.NoError(t, repo.Create(render))

	renders, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, renders, 1)

	got := renders[0]
	assert.Equal(t, render.ID, got.ID)
	assert.Equal(t, "octocat", got.Username)
	assert.Equal(t, models.CardVariantWithAvatar, got.Variant)
	assert.Equal(t, models.RenderStatusOK, got.Status)
	assert.True(t, got.AvatarEmbedded)
	assert.Equal(t, int64(42), got.DurationMS)
	assert.WithinDuration(t, render.CreatedAt, got.CreatedAt, time.Second)
}

func TestCardRenderRepositorySummary(t *testing.T) {
	repo := newTestRepository(t)

	records := []struct {
		username string
		status   models.RenderStatus
		avatar   bool
	}{
		{"octocat", models.RenderStatusOK, true},
		{"octocat", models.RenderStatusOK, false},
		{"octocat", models.RenderStatusError, false},
		{"alice", models.RenderStatusOK, true},
		{"bob", models.RenderStatusOK, false},
		{"bob", models.RenderStatusError, false},
	}
	for _, rec := range records {
		render := models.NewCardRender(rec.username, models.CardVariantPlain, rec.status)
		render.AvatarEmbedded = rec.avatar
		require.NoError(t, repo.Create(render))
	}

	summary, err := repo.Summary(2)
	require.NoError(t, err)

	assert.Equal(t, 6, summary.TotalRenders)
	assert.Equal(t, 2, summary.ErrorRenders)
	assert.Equal(t, 2, summary.AvatarEmbedded)
	assert.Equal(t, []models.UsernameCount{
		{Username: "octocat", Count: 3},
		{Username: "bob", Count: 2},
	}, summary.TopUsernames)
}

func TestCardRenderRepositoryEmptySummary(t *testing.T) {
	repo := newTestRepository(t)

	summary, err := repo.Summary(5)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalRenders)
	assert.Empty(t, summary.TopUsernames)

	renders, err := repo.List(5)
	require.NoError(t, err)
	assert.Empty(t, renders)
}
