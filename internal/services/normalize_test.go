package services

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimgiray/streakcard/internal/models"
)

func decodePayload(t *testing.T, body string) *models.StatisticsPayload {
	t.Helper()
	payload, err := decodeStatistics(strings.NewReader(body))
	require.NoError(t, err)
	return payload
}

func TestCoerceNumber(t *testing.T) {
	testCases := []struct {
		name     string
		in       any
		expected int64
	}{
		{name: "absent", in: nil, expected: 0},
		{name: "json number", in: json.Number("42"), expected: 42},
		{name: "json fraction", in: json.Number("12.9"), expected: 12},
		{name: "float", in: float64(7), expected: 7},
		{name: "numeric string", in: " 15 ", expected: 15},
		{name: "exponent string", in: "1e3", expected: 1000},
		{name: "empty string", in: "", expected: 0},
		{name: "non-numeric string", in: "lots", expected: 0},
		{name: "NaN string", in: "NaN", expected: 0},
		{name: "NaN float", in: math.NaN(), expected: 0},
		{name: "infinity", in: math.Inf(1), expected: 0},
		{name: "true", in: true, expected: 1},
		{name: "false", in: false, expected: 0},
		{name: "array", in: []any{json.Number("3")}, expected: 0},
		{name: "object", in: map[string]any{"n": 1}, expected: 0},
		{name: "huge", in: 1e300, expected: 1 << 53},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, coerceNumber(tc.in))
		})
	}
}

func TestNormalizeMalformedPayload(t *testing.T) {
	payload := decodePayload(t, `{
		"username": "octocat",
		"currentStreak": null,
		"longestStreak": "abc",
		"totalContributions": "NaN",
		"publicRepos": {"count": 3},
		"followers": [1, 2],
		"joinedDate": "not a date",
		"topLanguages": []
	}`)

	stats := Normalize(payload, NormalizeOptions{MaxUsername: MaxUsernameWithAvatar})

	assert.Equal(t, "octocat", stats.Username)
	assert.Zero(t, stats.CurrentStreak)
	assert.Zero(t, stats.LongestStreak)
	assert.Zero(t, stats.TotalContributions)
	assert.Zero(t, stats.ContributionsThisYear)
	assert.Zero(t, stats.PublicRepos)
	assert.Zero(t, stats.Followers)
	assert.Equal(t, FallbackJoinedYear, stats.JoinedYear)
	assert.Equal(t, []string{"JavaScript", "TypeScript"}, stats.TopLanguages)
}

func TestNormalizeWellFormedPayload(t *testing.T) {
	payload := decodePayload(t, `{
		"username": "octocat",
		"currentStreak": 5,
		"longestStreak": 20,
		"totalContributions": 1500,
		"contributionsThisYear": "321",
		"publicRepos": 8,
		"followers": 300,
		"joinedDate": "2011-01-25T18:44:36Z",
		"avatarUrl": "https://avatars.githubusercontent.com/u/583231?v=4",
		"topLanguages": ["Go", "Rust", 7, ""]
	}`)

	stats := Normalize(payload, NormalizeOptions{})

	assert.Equal(t, int64(5), stats.CurrentStreak)
	assert.Equal(t, int64(20), stats.LongestStreak)
	assert.Equal(t, int64(1500), stats.TotalContributions)
	assert.Equal(t, int64(321), stats.ContributionsThisYear)
	assert.Equal(t, int64(8), stats.PublicRepos)
	assert.Equal(t, int64(300), stats.Followers)
	assert.Equal(t, 2011, stats.JoinedYear)
	assert.Equal(t, "https://avatars.githubusercontent.com/u/583231?v=4", stats.AvatarURL)
	assert.Equal(t, []string{"Go", "Rust"}, stats.TopLanguages)
}

func TestNormalizeJoinedYear(t *testing.T) {
	testCases := []struct {
		name     string
		in       any
		expected int
	}{
		{name: "date only", in: "2011-01-01", expected: 2011},
		{name: "year and month", in: "2011-01", expected: 2011},
		{name: "year only", in: "2011", expected: 2011},
		{name: "rfc3339", in: "2015-06-30T23:00:00Z", expected: 2015},
		{name: "epoch millis", in: json.Number("1293840000000"), expected: 2011},
		{name: "absent", in: nil, expected: FallbackJoinedYear},
		{name: "garbage", in: "yesterday", expected: FallbackJoinedYear},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, coerceJoinedYear(tc.in))
		})
	}
}

func TestNormalizeUsernameLimits(t *testing.T) {
	long := "abcdefghijklmnopqrst" // 20 characters

	withAvatar := Normalize(&models.StatisticsPayload{Username: long}, NormalizeOptions{MaxUsername: MaxUsernameWithAvatar})
	plain := Normalize(&models.StatisticsPayload{Username: long + "uvw"}, NormalizeOptions{MaxUsername: MaxUsernamePlain})

	assert.Equal(t, "abcdefghijklmno", withAvatar.Username)
	assert.Len(t, withAvatar.Username, 15)
	assert.Equal(t, long, plain.Username)
}

func TestNormalizeDefaults(t *testing.T) {
	stats := Normalize(nil, NormalizeOptions{})

	assert.Equal(t, FallbackUsername, stats.Username)
	assert.Equal(t, FallbackJoinedYear, stats.JoinedYear)
	assert.Equal(t, []string{"JavaScript", "TypeScript"}, stats.TopLanguages)
	assert.Empty(t, stats.AvatarURL)
}

func TestNormalizeRejectsNonHTTPAvatar(t *testing.T) {
	for _, raw := range []any{"javascript:alert(1)", "file:///etc/passwd", "not a url", 12} {
		stats := Normalize(&models.StatisticsPayload{AvatarURL: raw}, NormalizeOptions{})
		assert.Empty(t, stats.AvatarURL)
	}
}
