package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alimgiray/streakcard/pkg/config"
	"github.com/alimgiray/streakcard/pkg/imgkit"
)

const (
	DefaultAvatarMaxBytes = 5 << 20
	DefaultAvatarSize     = 120
)

// AvatarService downloads avatar images and prepares them for embedding.
type AvatarService struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	size      int
}

// NewAvatarService creates an avatar service. Non-positive limits fall back to defaults.
func NewAvatarService(userAgent string, timeout time.Duration, maxBytes int64, size int) *AvatarService {
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = DefaultAvatarMaxBytes
	}
	if size <= 0 {
		size = DefaultAvatarSize
	}
	return &AvatarService{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		size:      size,
	}
}

// Fetch downloads the avatar at avatarURL and returns it as a circular PNG.
func (s *AvatarService) Fetch(ctx context.Context, avatarURL string) ([]byte, error) {
	raw, err := s.download(ctx, avatarURL)
	if err != nil {
		return nil, err
	}

	out, err := imgkit.Avatar(raw, s.size)
	if err != nil {
		return nil, fmt.Errorf("prepare avatar: %w", err)
	}
	return out, nil
}

func (s *AvatarService) download(ctx context.Context, avatarURL string) ([]byte, error) {
	if avatarURL == "" {
		return nil, fmt.Errorf("empty avatar url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("avatar exceeds %d bytes", s.maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty avatar body")
	}
	return data, nil
}
