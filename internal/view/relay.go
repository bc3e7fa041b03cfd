// Package view holds the per-visitor state of the search page and the URL
// check page, independent of how it is rendered.
package view

import (
	"context"

	"github.com/agenthands/factwatch/internal/model"
)

// Relay is how the views reach the claim-search and threat-lookup relays.
type Relay interface {
	SearchClaims(ctx context.Context, q model.ClaimQuery) (*model.ClaimSearchResponse, error)
	CheckURL(ctx context.Context, target string) (*model.ThreatMatchResponse, error)
}

const fallbackError = "something went wrong"

func errorText(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackError
}
