package upstream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/agenthands/factwatch/internal/config"
)

type ClaimSearchParams struct {
	Query     string
	Lang      string
	PageSize  string
	PageToken string
}

// ClaimsClient forwards searches to the claim-search API.
type ClaimsClient struct {
	endpoint string
	apiKey   string
	referer  string
	maxBytes int64
	http     *http.Client
	logger   *slog.Logger
}

func NewClaimsClient(cfg config.FactCheckConfig, httpClient *http.Client, maxBytes int64, logger *slog.Logger) *ClaimsClient {
	return &ClaimsClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		referer:  cfg.Referer,
		maxBytes: maxBytes,
		http:     httpClient,
		logger:   logger,
	}
}

// Search relays one claims:search call. The upstream status and body come
// back unchanged, except that a non-JSON body is wrapped under "error".
func (c *ClaimsClient) Search(ctx context.Context, p ClaimSearchParams) (*Response, error) {
	if p.Query == "" {
		return nil, ErrMissingQuery
	}
	if c.apiKey == "" {
		return nil, &MissingCredentialError{Env: config.FactCheckKeyEnv}
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse claims endpoint: %w", err)
	}
	q := u.Query()
	q.Set("query", p.Query)
	q.Set("languageCode", p.Lang)
	q.Set("pageSize", p.PageSize)
	if p.PageToken != "" {
		q.Set("pageToken", p.PageToken)
	}
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", redactError(err))
	}
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}
	req.Header.Set("Cache-Control", "no-store")

	status, body, err := do(c.http, req, c.maxBytes)
	if err != nil {
		c.logger.Warn("claim search failed", "url", RedactURL(u.String()), "error", err)
		return nil, err
	}

	c.logger.Debug("claim search relayed", "lang", p.Lang, "page_token", p.PageToken != "", "status", status)
	return passthrough(status, body, false), nil
}
