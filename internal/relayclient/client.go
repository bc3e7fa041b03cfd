// Package relayclient talks to the factwatch relay endpoints over HTTP and
// turns their responses into model values or a single display string.
package relayclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/agenthands/factwatch/internal/model"
)

const (
	claimsPath  = "/api/factcheck"
	threatsPath = "/api/httpcheck"

	snippetRunes = 200
)

// Error is a relay response the views should show as-is.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) SearchClaims(ctx context.Context, q model.ClaimQuery) (*model.ClaimSearchResponse, error) {
	params := url.Values{}
	params.Set("query", strings.TrimSpace(q.Query))
	params.Set("lang", q.Lang)
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.PageToken != "" {
		params.Set("pageToken", q.PageToken)
	}

	var resp model.ClaimSearchResponse
	if err := c.get(ctx, claimsPath, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CheckURL(ctx context.Context, target string) (*model.ThreatMatchResponse, error) {
	params := url.Values{}
	params.Set("url", target)

	var resp model.ThreatMatchResponse
	if err := c.get(ctx, threatsPath, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return &Error{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(body), snippetRunes)),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error json.RawMessage `json:"error"`
		}
		_ = json.Unmarshal(body, &envelope)
		msg := ErrorMessage(envelope.Error)
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ErrorMessage flattens a relay "error" value into display text: strings as
// they are, objects by their "message" field, anything else as JSON text.
func ErrorMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
