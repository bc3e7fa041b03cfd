package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agenthands/factwatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"example.com":          "http://example.com",
		"  example.com/path  ": "http://example.com/path",
		"http://example.com":   "http://example.com",
		"HTTPS://Example.com":  "HTTPS://Example.com",
		"ftp://example.com":    "http://ftp://example.com",
		"":                     "",
		"   ":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeURL(in), "input %q", in)
	}
}

func fixedCheck() *URLCheck {
	u := NewURLCheck()
	u.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return u
}

func TestURLCheck_Safe(t *testing.T) {
	relay := &MockRelay{}
	u := fixedCheck()

	require.NoError(t, u.Check(context.Background(), relay, "example.com"))
	snap := u.Snapshot()
	assert.Equal(t, CheckSafe, snap.State)
	assert.True(t, snap.HasResult())
	assert.False(t, snap.Unsafe())
	assert.Equal(t, "http://example.com", snap.Target)
	assert.Equal(t, []string{"http://example.com"}, relay.CheckedURLs)
	assert.Equal(t, 2025, snap.CheckedAt.Year())
}

func TestURLCheck_Unsafe(t *testing.T) {
	relay := &MockRelay{Threats: &model.ThreatMatchResponse{
		Matches: []model.ThreatMatch{{ThreatType: "SOCIAL_ENGINEERING", Threat: &model.ThreatEntry{URL: "http://bad.example/"}}},
	}}
	u := fixedCheck()

	require.NoError(t, u.Check(context.Background(), relay, "http://bad.example/"))
	snap := u.Snapshot()
	assert.Equal(t, CheckUnsafe, snap.State)
	assert.True(t, snap.Unsafe())
	require.Len(t, snap.Matches, 1)
	assert.Equal(t, "http://bad.example/", snap.Matches[0].ThreatURL())
}

func TestURLCheck_BlankIsNoop(t *testing.T) {
	relay := &MockRelay{}
	u := fixedCheck()

	require.NoError(t, u.Check(context.Background(), relay, "  "))
	assert.Empty(t, relay.CheckedURLs)
	assert.Equal(t, CheckIdle, u.Snapshot().State)
}

func TestURLCheck_ErrorThenRecover(t *testing.T) {
	relay := &MockRelay{CheckErr: errors.New("Missing SAFE_BROWSING_API_KEY")}
	u := fixedCheck()
	ctx := context.Background()

	require.Error(t, u.Check(ctx, relay, "example.com"))
	snap := u.Snapshot()
	assert.Equal(t, CheckError, snap.State)
	assert.Equal(t, "Missing SAFE_BROWSING_API_KEY", snap.Error)
	assert.False(t, snap.HasResult())

	relay.CheckErr = nil
	require.NoError(t, u.Check(ctx, relay, "example.com"))
	snap = u.Snapshot()
	assert.Equal(t, CheckSafe, snap.State)
	assert.Empty(t, snap.Error)
}
