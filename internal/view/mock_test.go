package view

import (
	"context"
	"sync"

	"github.com/agenthands/factwatch/internal/model"
)

type MockRelay struct {
	mu sync.Mutex

	Pages        map[string]*model.ClaimSearchResponse // keyed by page token
	SearchErr    error
	Threats      *model.ThreatMatchResponse
	CheckErr     error
	ClaimQueries []model.ClaimQuery
	CheckedURLs  []string
}

func (m *MockRelay) SearchClaims(ctx context.Context, q model.ClaimQuery) (*model.ClaimSearchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClaimQueries = append(m.ClaimQueries, q)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if resp, ok := m.Pages[q.PageToken]; ok {
		return resp, nil
	}
	return &model.ClaimSearchResponse{}, nil
}

func (m *MockRelay) CheckURL(ctx context.Context, target string) (*model.ThreatMatchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckedURLs = append(m.CheckedURLs, target)
	if m.CheckErr != nil {
		return nil, m.CheckErr
	}
	if m.Threats == nil {
		return &model.ThreatMatchResponse{}, nil
	}
	return m.Threats, nil
}

func claim(text string, ratings ...string) model.Claim {
	c := model.Claim{Text: text}
	for _, r := range ratings {
		c.ClaimReview = append(c.ClaimReview, model.ClaimReview{TextualRating: r})
	}
	return c
}

func texts(claims []model.Claim) []string {
	out := make([]string, 0, len(claims))
	for _, c := range claims {
		out = append(out, c.Text)
	}
	return out
}
