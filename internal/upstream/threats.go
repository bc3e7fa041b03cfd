package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/agenthands/factwatch/internal/config"
	"github.com/agenthands/factwatch/internal/model"
)

type clientInfo struct {
	ClientID      string `json:"clientId"`
	ClientVersion string `json:"clientVersion"`
}

type threatInfo struct {
	ThreatTypes      []string            `json:"threatTypes"`
	PlatformTypes    []string            `json:"platformTypes"`
	ThreatEntryTypes []string            `json:"threatEntryTypes"`
	ThreatEntries    []model.ThreatEntry `json:"threatEntries"`
}

type findRequest struct {
	Client     clientInfo `json:"client"`
	ThreatInfo threatInfo `json:"threatInfo"`
}

// ThreatsClient forwards URL lookups to the threat-list API.
type ThreatsClient struct {
	endpoint      string
	apiKey        string
	clientID      string
	clientVersion string
	maxBytes      int64
	http          *http.Client
	logger        *slog.Logger
}

func NewThreatsClient(cfg config.SafeBrowsingConfig, httpClient *http.Client, maxBytes int64, logger *slog.Logger) *ThreatsClient {
	return &ThreatsClient{
		endpoint:      cfg.Endpoint,
		apiKey:        cfg.APIKey,
		clientID:      cfg.ClientID,
		clientVersion: cfg.ClientVersion,
		maxBytes:      maxBytes,
		http:          httpClient,
		logger:        logger,
	}
}

func newFindRequest(clientID, clientVersion, target string) findRequest {
	return findRequest{
		Client: clientInfo{ClientID: clientID, ClientVersion: clientVersion},
		ThreatInfo: threatInfo{
			ThreatTypes:      model.ThreatTypes,
			PlatformTypes:    model.PlatformTypes,
			ThreatEntryTypes: model.ThreatEntryTypes,
			ThreatEntries:    []model.ThreatEntry{{URL: target}},
		},
	}
}

// Find relays one threatMatches:find call for target. An empty upstream body
// is the API's "no match" answer and comes back as {}.
func (c *ThreatsClient) Find(ctx context.Context, target string) (*Response, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ErrMissingURL
	}
	if c.apiKey == "" {
		return nil, &MissingCredentialError{Env: config.SafeBrowsingKeyEnv}
	}

	payload, err := json.Marshal(newFindRequest(c.clientID, c.clientVersion, target))
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse safebrowsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", redactError(err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	status, body, err := do(c.http, req, c.maxBytes)
	if err != nil {
		c.logger.Warn("threat lookup failed", "url", RedactURL(u.String()), "error", err)
		return nil, err
	}

	c.logger.Debug("threat lookup relayed", "status", status, "bytes", len(body))
	return passthrough(status, body, true), nil
}
