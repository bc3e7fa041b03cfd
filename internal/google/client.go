// Package google queries the Fact Check Tools and Safe Browsing APIs
// directly through the typed Google API clients, for use without a relay.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/factchecktools/v1alpha1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/safebrowsing/v4"

	"github.com/agenthands/factwatch/internal/config"
	"github.com/agenthands/factwatch/internal/model"
	"github.com/agenthands/factwatch/internal/upstream"
)

type Client struct {
	claims        *factchecktools.Service
	threats       *safebrowsing.Service
	referer       string
	clientID      string
	clientVersion string
}

// New builds services for whichever API keys are configured. Extra options
// apply to both services.
func New(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*Client, error) {
	c := &Client{
		referer:       cfg.FactCheck.Referer,
		clientID:      cfg.SafeBrowsing.ClientID,
		clientVersion: cfg.SafeBrowsing.ClientVersion,
	}

	if cfg.FactCheck.APIKey != "" {
		svc, err := factchecktools.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(cfg.FactCheck.APIKey)}, opts...)...)
		if err != nil {
			return nil, fmt.Errorf("create factchecktools service: %w", err)
		}
		c.claims = svc
	}

	if cfg.SafeBrowsing.APIKey != "" {
		svc, err := safebrowsing.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(cfg.SafeBrowsing.APIKey)}, opts...)...)
		if err != nil {
			return nil, fmt.Errorf("create safebrowsing service: %w", err)
		}
		c.threats = svc
	}

	return c, nil
}

func (c *Client) SearchClaims(ctx context.Context, q model.ClaimQuery) (*model.ClaimSearchResponse, error) {
	if q.Query == "" {
		return nil, upstream.ErrMissingQuery
	}
	if c.claims == nil {
		return nil, &upstream.MissingCredentialError{Env: config.FactCheckKeyEnv}
	}

	call := c.claims.Claims.Search().Query(q.Query).LanguageCode(q.Lang).Context(ctx)
	if q.PageSize > 0 {
		call = call.PageSize(int64(q.PageSize))
	}
	if q.PageToken != "" {
		call = call.PageToken(q.PageToken)
	}
	if c.referer != "" {
		call.Header().Set("Referer", c.referer)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, describe(err)
	}

	out := &model.ClaimSearchResponse{NextPageToken: resp.NextPageToken}
	for _, cl := range resp.Claims {
		if cl == nil {
			continue
		}
		out.Claims = append(out.Claims, convertClaim(cl))
	}
	return out, nil
}

func (c *Client) CheckURL(ctx context.Context, target string) (*model.ThreatMatchResponse, error) {
	if target == "" {
		return nil, upstream.ErrMissingURL
	}
	if c.threats == nil {
		return nil, &upstream.MissingCredentialError{Env: config.SafeBrowsingKeyEnv}
	}

	req := &safebrowsing.GoogleSecuritySafebrowsingV4FindThreatMatchesRequest{
		Client: &safebrowsing.GoogleSecuritySafebrowsingV4ClientInfo{
			ClientId:      c.clientID,
			ClientVersion: c.clientVersion,
		},
		ThreatInfo: &safebrowsing.GoogleSecuritySafebrowsingV4ThreatInfo{
			ThreatTypes:      model.ThreatTypes,
			PlatformTypes:    model.PlatformTypes,
			ThreatEntryTypes: model.ThreatEntryTypes,
			ThreatEntries: []*safebrowsing.GoogleSecuritySafebrowsingV4ThreatEntry{
				{Url: target},
			},
		},
	}

	resp, err := c.threats.ThreatMatches.Find(req).Context(ctx).Do()
	if err != nil {
		return nil, describe(err)
	}

	out := &model.ThreatMatchResponse{}
	for _, m := range resp.Matches {
		if m == nil {
			continue
		}
		match := model.ThreatMatch{
			ThreatType:      m.ThreatType,
			PlatformType:    m.PlatformType,
			ThreatEntryType: m.ThreatEntryType,
			CacheDuration:   m.CacheDuration,
		}
		if m.Threat != nil {
			match.Threat = &model.ThreatEntry{URL: m.Threat.Url}
		}
		out.Matches = append(out.Matches, match)
	}
	return out, nil
}

func convertClaim(cl *factchecktools.GoogleFactcheckingFactchecktoolsV1alpha1Claim) model.Claim {
	claim := model.Claim{
		Text:      cl.Text,
		Claimant:  cl.Claimant,
		ClaimDate: cl.ClaimDate,
	}
	for _, r := range cl.ClaimReview {
		if r == nil {
			continue
		}
		review := model.ClaimReview{
			URL:           r.Url,
			Title:         r.Title,
			TextualRating: r.TextualRating,
			ReviewDate:    r.ReviewDate,
			LanguageCode:  r.LanguageCode,
		}
		if r.Publisher != nil {
			review.Publisher = &model.Publisher{Name: r.Publisher.Name, Site: r.Publisher.Site}
		}
		claim.ClaimReview = append(claim.ClaimReview, review)
	}
	return claim
}

// describe turns API errors into the same "HTTP <code>: <message>" text the
// relay views show.
func describe(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = http.StatusText(gerr.Code)
		}
		return fmt.Errorf("HTTP %d: %s", gerr.Code, msg)
	}
	return err
}
