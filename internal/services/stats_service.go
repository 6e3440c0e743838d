package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alimgiray/streakcard/internal/models"
	"github.com/alimgiray/streakcard/pkg/config"
	"github.com/alimgiray/streakcard/pkg/logger"
)

// ErrUsernameRequired is returned before any network call when the username is blank.
var ErrUsernameRequired = errors.New("username is required")

// AcquisitionError describes a failed statistics fetch.
type AcquisitionError struct {
	Username   string
	StatusCode int
	Reason     string
	Err        error
}

func (e *AcquisitionError) Error() string {
	msg := fmt.Sprintf("fetch statistics for %q: %s", e.Username, e.Reason)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// StatsService fetches raw statistics from the upstream statistics endpoint.
type StatsService struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewStatsService creates a stats service for the given endpoint.
func NewStatsService(baseURL, userAgent string, timeout time.Duration) *StatsService {
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &StatsService{
		client:    &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

// BaseURL returns the endpoint the service queries.
func (s *StatsService) BaseURL() string {
	return s.baseURL
}

// Fetch performs a single GET <baseURL>?username=<username> and decodes the payload.
func (s *StatsService) Fetch(ctx context.Context, username string) (*models.StatisticsPayload, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	log := logger.WithFields(logrus.Fields{
		"username":   username,
		"request_id": RequestIDFromContext(ctx),
	})
	log.Debug("Fetching statistics")

	payload, err := s.fetch(ctx, username)
	if err != nil {
		log.WithError(err).Warn("Statistics fetch failed")
		return nil, err
	}

	if name, ok := payload.Username.(string); !ok || strings.TrimSpace(name) == "" {
		payload.Username = username
	}

	log.Debug("Statistics fetched")
	return payload, nil
}

func (s *StatsService) fetch(ctx context.Context, username string) (*models.StatisticsPayload, error) {
	endpoint, err := statsEndpoint(s.baseURL, username)
	if err != nil {
		return nil, &AcquisitionError{Username: username, Reason: "invalid statistics endpoint", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &AcquisitionError{Username: username, Reason: "new request", Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &AcquisitionError{Username: username, Reason: "do request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &AcquisitionError{Username: username, StatusCode: resp.StatusCode, Reason: "unexpected status"}
	}

	payload, err := decodeStatistics(resp.Body)
	if err != nil {
		return nil, &AcquisitionError{Username: username, StatusCode: resp.StatusCode, Reason: "decode response", Err: err}
	}

	if truthy(payload.Error) {
		return nil, &AcquisitionError{
			Username:   username,
			StatusCode: resp.StatusCode,
			Reason:     fmt.Sprintf("upstream error: %v", payload.Error),
		}
	}

	return payload, nil
}

func statsEndpoint(baseURL, username string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%q is not an absolute URL", baseURL)
	}
	q := u.Query()
	q.Set("username", username)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// decodeStatistics decodes a statistics object, keeping numbers as json.Number so that
// loosely typed fields never fail decoding.
func decodeStatistics(r io.Reader) (*models.StatisticsPayload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("response is not a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var payload models.StatisticsPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return &payload, nil
}

// truthy reports whether a decoded JSON value is set: non-empty, non-zero or true.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	case float64:
		return val != 0
	default:
		return true
	}
}
