package models

import (
	"time"

	"github.com/google/uuid"
)

// CardVariant identifies which card endpoint produced a render.
type CardVariant string

const (
	CardVariantPlain      CardVariant = "card"
	CardVariantWithAvatar CardVariant = "card-with-avatar"
)

// RenderStatus records whether the real card or the error card was served.
type RenderStatus string

const (
	RenderStatusOK    RenderStatus = "ok"
	RenderStatusError RenderStatus = "error"
)

// CardRender is usage metadata for one served card. The SVG itself is never stored.
type CardRender struct {
	ID             string       `json:"id"`
	Username       string       `json:"username"`
	Variant        CardVariant  `json:"variant"`
	Status         RenderStatus `json:"status"`
	AvatarEmbedded bool         `json:"avatar_embedded"`
	DurationMS     int64        `json:"duration_ms"`
	CreatedAt      time.Time    `json:"created_at"`
}

// NewCardRender creates a CardRender with a generated UUID
func NewCardRender(username string, variant CardVariant, status RenderStatus) *CardRender {
	return &CardRender{
		ID:        uuid.New().String(),
		Username:  username,
		Variant:   variant,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
}

// UsernameCount is one row of the most-requested usernames.
type UsernameCount struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// UsageSummary aggregates recorded card renders.
type UsageSummary struct {
	TotalRenders   int             `json:"total_renders"`
	ErrorRenders   int             `json:"error_renders"`
	AvatarEmbedded int             `json:"avatar_embedded"`
	TopUsernames   []UsernameCount `json:"top_usernames"`
}
