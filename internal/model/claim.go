package model

import (
	"encoding/json"
	"strings"
)

type Publisher struct {
	Name string `json:"name,omitempty"`
	Site string `json:"site,omitempty"`
}

type ClaimReview struct {
	Publisher     *Publisher `json:"publisher,omitempty"`
	URL           string     `json:"url,omitempty"`
	Title         string     `json:"title,omitempty"`
	TextualRating string     `json:"textualRating,omitempty"`
	ReviewDate    string     `json:"reviewDate,omitempty"`
	LanguageCode  string     `json:"languageCode,omitempty"`
}

func (r ClaimReview) PublisherName() string {
	if r.Publisher == nil {
		return ""
	}
	return r.Publisher.Name
}

func (r ClaimReview) PublisherSite() string {
	if r.Publisher == nil {
		return ""
	}
	return r.Publisher.Site
}

// Reviewer is the publisher name, falling back to its site.
func (r ClaimReview) Reviewer() string {
	if name := r.PublisherName(); name != "" {
		return name
	}
	return r.PublisherSite()
}

type Claim struct {
	Text        string        `json:"text,omitempty"`
	Claimant    string        `json:"claimant,omitempty"`
	ClaimDate   string        `json:"claimDate,omitempty"`
	ClaimReview []ClaimReview `json:"claimReview,omitempty"`
}

// MatchesRating reports whether any review's textual rating contains term,
// ignoring case. An empty term matches every claim.
func (c Claim) MatchesRating(term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, r := range c.ClaimReview {
		if strings.Contains(strings.ToLower(r.TextualRating), needle) {
			return true
		}
	}
	return false
}

// ClaimQuery is one request to the claim-search relay.
type ClaimQuery struct {
	Query     string
	Lang      string
	PageSize  int
	PageToken string
}

type ClaimSearchResponse struct {
	Claims        []Claim         `json:"claims,omitempty"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
	Error         json.RawMessage `json:"error,omitempty"`
}
