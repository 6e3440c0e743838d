package services

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ReadmeSnippet is the embeddable markdown for a card.
type ReadmeSnippet struct {
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
}

// ReadmeService builds README snippets that point at this deployment's card routes.
type ReadmeService struct {
	themes *ThemeService
}

// NewReadmeService creates a new README service
func NewReadmeService(themes *ThemeService) *ReadmeService {
	if themes == nil {
		themes = NewThemeService(nil)
	}
	return &ReadmeService{themes: themes}
}

// Build returns the card URL and the centered markdown image for username. The resolved
// theme is embedded in full so the card does not depend on server-side preset changes.
func (s *ReadmeService) Build(baseURL, username, preset, themeParam string, avatar bool) (*ReadmeSnippet, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	theme := s.themes.Resolve(preset, themeParam)
	encoded, err := json.Marshal(theme)
	if err != nil {
		return nil, fmt.Errorf("failed to encode theme: %w", err)
	}

	endpoint := "card"
	if avatar {
		endpoint = "card-with-avatar"
	}

	cardURL := fmt.Sprintf("%s/api/%s?username=%s&theme=%s",
		strings.TrimRight(baseURL, "/"), endpoint, url.QueryEscape(username), url.QueryEscape(string(encoded)))

	return &ReadmeSnippet{
		URL:      cardURL,
		Markdown: fmt.Sprintf("<div align=\"center\">\n\n![GitHub Streak](%s)\n\n</div>", cardURL),
	}, nil
}
