// Package ingest pulls new raw comments from the external feedback API
// and drives them through the ingestion pipeline into storage, with the
// text normalizer attached so words are precomputed at write time.
package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/lega0208/upd-new-sub004/internal/logging"
	"github.com/lega0208/upd-new-sub004/internal/models"
)

var reScheme = regexp.MustCompile(`^https?://`)

// APIConfig locates the external feedback API.
type APIConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// Client fetches raw problem reports from the feedback API. A bearer
// token is obtained per call from the separate token endpoint; retry and
// backoff are left to the scheduler.
type Client struct {
	http *resty.Client
	cfg  APIConfig
	log  logging.Logger
}

// NewClient builds a feedback API client.
func NewClient(cfg APIConfig, log logging.Logger) *Client {
	return &Client{
		http: resty.New().SetTimeout(30 * time.Second),
		cfg:  cfg,
		log:  log,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// problemRecord is the wire shape of one feedback entry.
type problemRecord struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	URL      string `json:"url"`
	Language string `json:"language"`
	Details  string `json:"problemDetails"`
	Theme    string `json:"theme"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	var tok tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
		}).
		SetResult(&tok).
		Post(c.cfg.TokenURL)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("token request: status %s", resp.Status())
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token request: empty access token")
	}
	return tok.AccessToken, nil
}

// Problems fetches the raw feedback records submitted in [start, end)
// and maps them into RawComments.
func (c *Client) Problems(ctx context.Context, start, end time.Time) ([]models.RawComment, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var records []problemRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"dateFrom": start.UTC().Format("2006-01-02"),
			"dateTo":   end.UTC().Format("2006-01-02"),
		}).
		SetResult(&records).
		Get(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch problems: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch problems: status %s", resp.Status())
	}

	comments := make([]models.RawComment, 0, len(records))
	for _, r := range records {
		comments = append(comments, mapRecord(r))
	}
	return comments, nil
}

// mapRecord converts a wire record to the stored shape: scheme-stripped
// URL, lowercase language code and a generated id when the source did
// not supply one.
func mapRecord(r problemRecord) models.RawComment {
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		date, _ = time.Parse("2006-01-02", r.Date)
	}
	return models.RawComment{
		ID:      id,
		Date:    date.UTC(),
		URL:     reScheme.ReplaceAllString(strings.TrimSpace(r.URL), ""),
		Lang:    strings.ToLower(r.Language),
		Comment: r.Details,
		Theme:   r.Theme,
	}
}
