package services

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alimgiray/streakcard/internal/models"
)

type stubUsageRepository struct {
	summary *models.UsageSummary
	renders []*models.CardRender
	err     error
	topSeen int
}

func (r *stubUsageRepository) Summary(topLimit int) (*models.UsageSummary, error) {
	r.topSeen = topLimit
	return r.summary, r.err
}

func (r *stubUsageRepository) List(limit int) ([]*models.CardRender, error) {
	return r.renders, r.err
}

func TestUsageServiceSummary(t *testing.T) {
	repo := &stubUsageRepository{summary: &models.UsageSummary{TotalRenders: 3}}

	summary, err := NewUsageService(repo).Summary(0)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalRenders)
	assert.Equal(t, DefaultTopUsernames, repo.topSeen)

	repo.err = errors.New("db closed")
	_, err = NewUsageService(repo).Summary(5)
	assert.Error(t, err)
}

func TestUsageServiceExportXLSX(t *testing.T) {
	render := models.NewCardRender("octocat", models.CardVariantWithAvatar, models.RenderStatusOK)
	render.AvatarEmbedded = true
	render.DurationMS = 12
	render.CreatedAt = time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC)

	repo := &stubUsageRepository{
		summary: &models.UsageSummary{
			TotalRenders:   1,
			AvatarEmbedded: 1,
			TopUsernames:   []models.UsernameCount{{Username: "octocat", Count: 1}},
		},
		renders: []*models.CardRender{render},
	}

	var buf bytes.Buffer
	require.NoError(t, NewUsageService(repo).ExportXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Renders"}, f.GetSheetList())

	summaryRows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Total renders", "1"}, summaryRows[1])
	assert.Equal(t, []string{"octocat", "1"}, summaryRows[6])

	renderRows, err := f.GetRows("Renders")
	require.NoError(t, err)
	require.Len(t, renderRows, 2)
	assert.Equal(t, "ID", renderRows[0][0])
	assert.Equal(t, render.ID, renderRows[1][0])
	assert.Equal(t, "card-with-avatar", renderRows[1][2])
	assert.Equal(t, "2024-03-09T10:00:00Z", renderRows[1][6])
}
