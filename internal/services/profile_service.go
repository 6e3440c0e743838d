package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/alimgiray/streakcard/internal/models"
)

// ErrUserNotFound is returned when GitHub has no such user.
var ErrUserNotFound = errors.New("user not found")

const maxProfileLanguages = 5

// ProfileService builds a statistics payload from the GitHub REST API. Streak and
// contribution counts are not available there and are left out of the payload.
type ProfileService struct {
	client *github.Client
}

// NewProfileService creates a GitHub backed provider. token and baseURL are optional.
func NewProfileService(token, baseURL string, timeout time.Duration) (*ProfileService, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	client := createGitHubClient(token, httpClient)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
		}
		client.BaseURL = parsed
	}

	return &ProfileService{client: client}, nil
}

// createGitHubClient creates a GitHub client, authenticated when a token is provided
func createGitHubClient(token string, httpClient *http.Client) *github.Client {
	if token == "" {
		return github.NewClient(httpClient)
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = httpClient.Timeout
	return github.NewClient(tc)
}

// Fetch returns the profile payload for username.
func (s *ProfileService) Fetch(ctx context.Context, username string) (*models.StatisticsPayload, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	user, resp, err := s.client.Users.Get(ctx, username)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	opt := &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	repos, _, err := s.client.Repositories.ListByUser(ctx, username, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	payload := &models.StatisticsPayload{
		Username:    user.GetLogin(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
		AvatarURL:   user.GetAvatarURL(),
	}
	if created := user.GetCreatedAt(); !created.Time.IsZero() {
		payload.JoinedDate = created.Time.UTC().Format(time.RFC3339)
	}
	if languages := rankLanguages(repos); len(languages) > 0 {
		payload.TopLanguages = languages
	}

	return payload, nil
}

// rankLanguages orders the primary languages of owned, non-fork repositories by
// repository count, ties broken by name.
func rankLanguages(repos []*github.Repository) []string {
	counts := make(map[string]int)
	for _, repo := range repos {
		if repo.GetFork() || repo.GetLanguage() == "" {
			continue
		}
		counts[repo.GetLanguage()]++
	}

	languages := make([]string, 0, len(counts))
	for lang := range counts {
		languages = append(languages, lang)
	}
	sort.Slice(languages, func(i, j int) bool {
		if counts[languages[i]] != counts[languages[j]] {
			return counts[languages[i]] > counts[languages[j]]
		}
		return languages[i] < languages[j]
	})

	if len(languages) > maxProfileLanguages {
		languages = languages[:maxProfileLanguages]
	}
	return languages
}
