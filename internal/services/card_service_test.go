package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimgiray/streakcard/internal/models"
)

type stubStats struct {
	payload *models.StatisticsPayload
	err     error
	calls   int
}

func (s *stubStats) Fetch(ctx context.Context, username string) (*models.StatisticsPayload, error) {
	s.calls++
	return s.payload, s.err
}

type stubAvatars struct {
	data []byte
	err  error
	urls []string
}

func (s *stubAvatars) Fetch(ctx context.Context, avatarURL string) ([]byte, error) {
	s.urls = append(s.urls, avatarURL)
	return s.data, s.err
}

type memoryRecorder struct {
	mu      sync.Mutex
	renders []*models.CardRender
}

func (r *memoryRecorder) Record(render *models.CardRender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, render)
}

func octocatPayload() *models.StatisticsPayload {
	return &models.StatisticsPayload{
		Username:           "octocat",
		CurrentStreak:      float64(5),
		LongestStreak:      float64(20),
		TotalContributions: float64(1500),
		PublicRepos:        float64(8),
		Followers:          float64(300),
		JoinedDate:         "2011-01-25T18:44:36Z",
		AvatarURL:          "https://avatars.example.com/u/1",
		TopLanguages:       []any{"Go", "Rust"},
	}
}

func TestCardServiceGenerateWithAvatar(t *testing.T) {
	stats := &stubStats{payload: octocatPayload()}
	avatars := &stubAvatars{data: []byte("\x89PNG\r\n\x1a\nfake")}
	recorder := &memoryRecorder{}

	result := NewCardService(stats, avatars, nil, recorder).Generate(context.Background(), CardRequest{
		Username:    "octocat",
		ThemeParam:  `{"accentColor":"#ff0000"}`,
		EmbedAvatar: true,
	})

	require.True(t, result.OK)
	assert.NoError(t, result.Err)
	assert.True(t, result.AvatarEmbedded)
	assert.Equal(t, []string{"https://avatars.example.com/u/1"}, avatars.urls)

	out := string(result.SVG)
	assert.Contains(t, out, "data:image/png;base64,")
	assert.Contains(t, out, `"#ff0000"`)
	assert.Contains(t, out, ">20 days</text>")

	require.Len(t, recorder.renders, 1)
	assert.Equal(t, models.CardVariantWithAvatar, recorder.renders[0].Variant)
	assert.Equal(t, models.RenderStatusOK, recorder.renders[0].Status)
	assert.True(t, recorder.renders[0].AvatarEmbedded)
}

func TestCardServiceAvatarFailureFallsBack(t *testing.T) {
	stats := &stubStats{payload: octocatPayload()}
	avatars := &stubAvatars{err: errors.New("boom")}

	result := NewCardService(stats, avatars, nil, nil).Generate(context.Background(), CardRequest{
		Username:    "octocat",
		EmbedAvatar: true,
	})

	require.True(t, result.OK)
	assert.False(t, result.AvatarEmbedded)
	assert.NotContains(t, string(result.SVG), "<image")
	assert.Contains(t, string(result.SVG), ">O</text>")
}

func TestCardServicePlainVariantSkipsAvatar(t *testing.T) {
	stats := &stubStats{payload: octocatPayload()}
	avatars := &stubAvatars{data: []byte("png")}

	result := NewCardService(stats, avatars, nil, nil).Generate(context.Background(), CardRequest{Username: "octocat"})

	require.True(t, result.OK)
	assert.Empty(t, avatars.urls)
	assert.NotContains(t, string(result.SVG), "<image")
}

func TestCardServiceFetchFailureServesErrorCard(t *testing.T) {
	stats := &stubStats{err: &AcquisitionError{Username: "ghost", StatusCode: 500, Reason: "unexpected status"}}
	recorder := &memoryRecorder{}

	result := NewCardService(stats, nil, nil, recorder).Generate(context.Background(), CardRequest{Username: "ghost", EmbedAvatar: true})

	assert.False(t, result.OK)
	assert.Error(t, result.Err)
	assert.Contains(t, string(result.SVG), "Failed to fetch user data")
	require.Len(t, recorder.renders, 1)
	assert.Equal(t, models.RenderStatusError, recorder.renders[0].Status)
}

func TestCardServiceRequiresUsername(t *testing.T) {
	stats := &stubStats{payload: octocatPayload()}

	result := NewCardService(stats, nil, nil, nil).Generate(context.Background(), CardRequest{Username: "  "})

	assert.ErrorIs(t, result.Err, ErrUsernameRequired)
	assert.Nil(t, result.SVG)
	assert.Zero(t, stats.calls)
}

func TestCardServiceUsernameLimitPerVariant(t *testing.T) {
	payload := octocatPayload()
	payload.Username = "abcdefghijklmnopqrst"

	plain := NewCardService(&stubStats{payload: payload}, nil, nil, nil).Generate(context.Background(), CardRequest{Username: "x"})
	withAvatar := NewCardService(&stubStats{payload: payload}, nil, nil, nil).Generate(context.Background(), CardRequest{Username: "x", EmbedAvatar: true})

	assert.Contains(t, string(plain.SVG), "abcdefghijkl...")
	assert.Contains(t, string(withAvatar.SVG), "abcdefghijkl...")
}

func TestCardServicePreset(t *testing.T) {
	result := NewCardService(&stubStats{payload: octocatPayload()}, nil, nil, nil).Generate(context.Background(), CardRequest{
		Username: "octocat",
		Preset:   "forest",
	})

	assert.Contains(t, string(result.SVG), "#14532d")
}
