package view

import (
	"context"
	"strings"
	"sync"

	"github.com/agenthands/factwatch/internal/model"
)

type SearchState string

const (
	SearchIdle          SearchState = "idle"
	SearchSearching     SearchState = "searching"
	SearchSearchingMore SearchState = "searching-more"
	SearchResults       SearchState = "results"
	SearchError         SearchState = "error"
)

// RatingPresets are the filter shortcuts offered next to the search box.
var RatingPresets = []string{"false", "misleading", "true", "correct"}

// Search is the state of one search page. The mutex is never held across a
// relay call, so overlapping submits are possible and the last one to finish
// wins.
type Search struct {
	mu sync.Mutex

	state     SearchState
	query     string
	lang      string
	pageSize  int
	claims    []model.Claim
	nextToken string
	filter    string
	err       string
}

func NewSearch(lang string, pageSize int) *Search {
	return &Search{
		state:    SearchIdle,
		lang:     lang,
		pageSize: pageSize,
	}
}

// SearchSnapshot is a consistent copy of a Search for rendering.
type SearchSnapshot struct {
	State     SearchState
	Query     string
	Lang      string
	Claims    []model.Claim
	Filtered  []model.Claim
	NextToken string
	Filter    string
	Error     string
}

func (s SearchSnapshot) Loading() bool {
	return s.State == SearchSearching
}

func (s SearchSnapshot) LoadingMore() bool {
	return s.State == SearchSearchingMore
}

// CanLoadMore mirrors when the load-more control is offered.
func (s SearchSnapshot) CanLoadMore() bool {
	return s.State != SearchSearching && s.Error == "" && len(s.Claims) > 0 && s.NextToken != ""
}

// Search runs a fresh search. A blank query does nothing. Success replaces
// the held claims; failure clears them.
func (s *Search) Search(ctx context.Context, relay Relay, query, lang string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	s.mu.Lock()
	s.query = query
	if lang != "" {
		s.lang = lang
	}
	s.nextToken = ""
	s.err = ""
	s.state = SearchSearching
	q := model.ClaimQuery{Query: s.query, Lang: s.lang, PageSize: s.pageSize}
	s.mu.Unlock()

	resp, err := relay.SearchClaims(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = errorText(err)
		s.claims = nil
		s.state = SearchError
		return err
	}
	s.nextToken = resp.NextPageToken
	s.claims = append([]model.Claim(nil), resp.Claims...)
	s.state = SearchResults
	return nil
}

// LoadMore fetches the next page with the held continuation token and
// appends it. Without a token it does nothing. Failure keeps held claims.
func (s *Search) LoadMore(ctx context.Context, relay Relay) error {
	s.mu.Lock()
	if s.nextToken == "" {
		s.mu.Unlock()
		return nil
	}
	s.err = ""
	s.state = SearchSearchingMore
	q := model.ClaimQuery{Query: s.query, Lang: s.lang, PageSize: s.pageSize, PageToken: s.nextToken}
	s.mu.Unlock()

	resp, err := relay.SearchClaims(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = errorText(err)
		s.state = SearchError
		return err
	}
	s.nextToken = resp.NextPageToken
	s.claims = append(s.claims, resp.Claims...)
	s.state = SearchResults
	return nil
}

// SetFilter changes the rating filter. Held claims are untouched.
func (s *Search) SetFilter(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = strings.TrimSpace(term)
}

// Filtered returns the held claims whose reviews match the rating filter.
func (s *Search) Filtered() []model.Claim {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterByRating(s.claims, s.filter)
}

func (s *Search) Snapshot() SearchSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SearchSnapshot{
		State:     s.state,
		Query:     s.query,
		Lang:      s.lang,
		Claims:    append([]model.Claim(nil), s.claims...),
		Filtered:  FilterByRating(s.claims, s.filter),
		NextToken: s.nextToken,
		Filter:    s.filter,
		Error:     s.err,
	}
}

// FilterByRating returns a new slice with the claims that match term. The
// input slice is not modified.
func FilterByRating(claims []model.Claim, term string) []model.Claim {
	out := make([]model.Claim, 0, len(claims))
	for _, c := range claims {
		if c.MatchesRating(term) {
			out = append(out, c)
		}
	}
	return out
}
