package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alimgiray/streakcard/internal/models"
	"github.com/alimgiray/streakcard/internal/render"
	"github.com/alimgiray/streakcard/pkg/logger"
)

// StatsFetcher returns the raw statistics payload for a username.
type StatsFetcher interface {
	Fetch(ctx context.Context, username string) (*models.StatisticsPayload, error)
}

// AvatarFetcher returns avatar bytes ready to embed as image/png.
type AvatarFetcher interface {
	Fetch(ctx context.Context, avatarURL string) ([]byte, error)
}

// Recorder receives usage metadata for every served card. Record must not block.
type Recorder interface {
	Record(render *models.CardRender)
}

// CardRequest is one card generation request.
type CardRequest struct {
	Username    string
	Preset      string
	ThemeParam  string
	EmbedAvatar bool
	RequestID   string
}

// CardResult is always renderable: SVG holds either the card or the error card.
type CardResult struct {
	SVG            []byte
	OK             bool
	AvatarEmbedded bool
	Err            error
}

// CardService runs the fetch, normalize, theme, avatar and render pipeline.
type CardService struct {
	stats    StatsFetcher
	avatars  AvatarFetcher
	themes   *ThemeService
	recorder Recorder
	now      func() time.Time
}

// NewCardService creates a card service. avatars and recorder may be nil.
func NewCardService(stats StatsFetcher, avatars AvatarFetcher, themes *ThemeService, recorder Recorder) *CardService {
	if themes == nil {
		themes = NewThemeService(nil)
	}
	return &CardService{
		stats:    stats,
		avatars:  avatars,
		themes:   themes,
		recorder: recorder,
		now:      time.Now,
	}
}

// Generate produces the card for req. A failed statistics fetch yields the error card
// with OK=false; a failed avatar fetch only downgrades to the placeholder.
func (s *CardService) Generate(ctx context.Context, req CardRequest) CardResult {
	start := s.now()
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return CardResult{Err: ErrUsernameRequired}
	}

	ctx = WithRequestID(ctx, req.RequestID)
	variant := models.CardVariantPlain
	maxUsername := MaxUsernamePlain
	if req.EmbedAvatar {
		variant = models.CardVariantWithAvatar
		maxUsername = MaxUsernameWithAvatar
	}

	log := logger.WithFields(logrus.Fields{
		"username":   username,
		"request_id": req.RequestID,
		"variant":    variant,
	})

	payload, err := s.stats.Fetch(ctx, username)
	if err != nil {
		log.WithError(err).Warn("Serving error card")
		s.record(username, variant, models.RenderStatusError, false, start)
		return CardResult{SVG: render.RenderError(render.FetchFailedMessage), Err: err}
	}

	stats := Normalize(payload, NormalizeOptions{MaxUsername: maxUsername})
	theme := s.themes.Resolve(req.Preset, req.ThemeParam)

	var avatar []byte
	if req.EmbedAvatar && stats.AvatarURL != "" && s.avatars != nil {
		avatar, err = s.avatars.Fetch(ctx, stats.AvatarURL)
		if err != nil {
			log.WithError(err).Warn("Avatar unavailable, using placeholder")
			avatar = nil
		}
	}

	doc := render.RenderCard(stats, theme, render.CardOptions{
		Avatar:     avatar,
		AvatarMIME: render.DefaultAvatarMIME,
		RenderedAt: start,
	})

	embedded := len(avatar) > 0
	s.record(username, variant, models.RenderStatusOK, embedded, start)
	log.WithField("avatar", embedded).Info("Card rendered")

	return CardResult{SVG: doc, OK: true, AvatarEmbedded: embedded}
}

func (s *CardService) record(username string, variant models.CardVariant, status models.RenderStatus, embedded bool, start time.Time) {
	if s.recorder == nil {
		return
	}
	r := models.NewCardRender(username, variant, status)
	r.AvatarEmbedded = embedded
	r.DurationMS = s.now().Sub(start).Milliseconds()
	s.recorder.Record(r)
}
