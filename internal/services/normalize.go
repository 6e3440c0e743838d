package services

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alimgiray/streakcard/internal/models"
)

const (
	// MaxUsernameWithAvatar caps the normalized username for the embedded-avatar card.
	MaxUsernameWithAvatar = 15
	// MaxUsernamePlain caps the normalized username for the plain card.
	MaxUsernamePlain = 20

	FallbackUsername   = "user"
	FallbackJoinedYear = 2020

	maxSafeInteger = 1 << 53
)

var fallbackLanguages = []string{"JavaScript", "TypeScript"}

var joinedDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// NormalizeOptions controls the variant-specific limits of Normalize.
type NormalizeOptions struct {
	MaxUsername int
}

// Normalize coerces an untrusted payload into display-safe statistics. It never fails:
// unusable numbers become 0, the join year falls back to 2020 and languages to
// JavaScript/TypeScript.
func Normalize(payload *models.StatisticsPayload, opts NormalizeOptions) models.Statistics {
	if payload == nil {
		payload = &models.StatisticsPayload{}
	}
	if opts.MaxUsername <= 0 {
		opts.MaxUsername = MaxUsernameWithAvatar
	}

	return models.Statistics{
		Username:              truncateRunes(coerceUsername(payload.Username), opts.MaxUsername),
		CurrentStreak:         coerceNumber(payload.CurrentStreak),
		LongestStreak:         coerceNumber(payload.LongestStreak),
		TotalContributions:    coerceNumber(payload.TotalContributions),
		ContributionsThisYear: coerceNumber(payload.ContributionsThisYear),
		PublicRepos:           coerceNumber(payload.PublicRepos),
		Followers:             coerceNumber(payload.Followers),
		JoinedYear:            coerceJoinedYear(payload.JoinedDate),
		AvatarURL:             coerceAvatarURL(payload.AvatarURL),
		TopLanguages:          coerceLanguages(payload.TopLanguages),
	}
}

// coerceNumber maps anything that is not a finite number to 0.
func coerceNumber(v any) int64 {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	if f > maxSafeInteger {
		f = maxSafeInteger
	}
	if f < -maxSafeInteger {
		f = -maxSafeInteger
	}
	return int64(f)
}

func coerceUsername(v any) string {
	switch s := v.(type) {
	case string:
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	case json.Number:
		if s != "" && s != "0" {
			return string(s)
		}
	}
	return FallbackUsername
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func coerceJoinedYear(v any) int {
	switch d := v.(type) {
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range joinedDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC().Year()
			}
		}
	case json.Number:
		if ms, err := d.Int64(); err == nil && ms != 0 {
			return time.UnixMilli(ms).UTC().Year()
		}
	case float64:
		if !math.IsNaN(d) && !math.IsInf(d, 0) && d != 0 {
			return time.UnixMilli(int64(d)).UTC().Year()
		}
	}
	return FallbackJoinedYear
}

func coerceAvatarURL(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return s
}

func coerceLanguages(v any) []string {
	var languages []string
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				languages = append(languages, strings.TrimSpace(s))
			}
		}
	case []string:
		for _, s := range list {
			if strings.TrimSpace(s) != "" {
				languages = append(languages, strings.TrimSpace(s))
			}
		}
	}

	if len(languages) == 0 {
		return append([]string(nil), fallbackLanguages...)
	}
	return languages
}
