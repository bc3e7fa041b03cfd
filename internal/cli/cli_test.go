package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/factwatch/internal/config"
)

// fakeRelay serves the relay endpoints of a running factwatch server.
func fakeRelay(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/factcheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "abc" {
			_, _ = io.WriteString(w, `{"claims":[{"text":"third","claimReview":[{"textualRating":"Misleading"}]}]}`)
			return
		}
		_, _ = io.WriteString(w, `{
			"claims":[
				{"text":"first","claimant":"someone","claimReview":[{"publisher":{"name":"AFP"},"textualRating":"False","url":"https://afp.example/1"}]},
				{"text":"second","claimReview":[{"publisher":{"site":"example.org"},"textualRating":"True"}]}
			],
			"nextPageToken":"abc"}`)
	})
	mux.HandleFunc("/api/httpcheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("url") == "http://bad.example" {
			_, _ = io.WriteString(w, `{"matches":[{"threatType":"MALWARE","threat":{"url":"http://bad.example"}}]}`)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	args = append(args, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	code := run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := execute(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "factwatch dev\n", out)
}

func TestSearch_TextOutputWithFilterAndMore(t *testing.T) {
	ts := fakeRelay(t)

	code, out, _ := execute(t, "search", "covid", "--server", ts.URL, "--more", "1", "--rating", "false")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Showing 1 of 3 claims\n")
	assert.Contains(t, out, "1. first")
	assert.Contains(t, out, "[False] AFP (th, reviewed -)")
	assert.Contains(t, out, "https://afp.example/1")
	assert.NotContains(t, out, "second")
	assert.NotContains(t, out, "third")
}

func TestSearch_JSONOutput(t *testing.T) {
	ts := fakeRelay(t)

	code, out, _ := execute(t, "search", "covid", "--server", ts.URL, "--lang", "en", "--json")
	require.Equal(t, 0, code)

	var got searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "covid", got.Query)
	assert.Equal(t, "en", got.Lang)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, "abc", got.NextPageToken)
	require.Len(t, got.Claims, 2)
	assert.Equal(t, "example.org", got.Claims[1].ClaimReview[0].Reviewer())
}

func TestCheck_SafeAndUnsafe(t *testing.T) {
	ts := fakeRelay(t)

	code, out, _ := execute(t, "check", "example.com", "--server", ts.URL)
	assert.Equal(t, 0, code)
	assert.Equal(t, "SAFE http://example.com\n", out)

	code, out, errOut := execute(t, "check", "bad.example", "--server", ts.URL)
	assert.Equal(t, exitUnsafe, code)
	assert.Contains(t, out, "UNSAFE http://bad.example")
	assert.Contains(t, out, "MALWARE on ANY_PLATFORM: http://bad.example")
	assert.Empty(t, errOut)
}

func TestCheck_JSONOutput(t *testing.T) {
	ts := fakeRelay(t)

	code, out, _ := execute(t, "check", "bad.example", "--server", ts.URL, "--json")
	assert.Equal(t, exitUnsafe, code)

	var got checkOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Safe)
	assert.Equal(t, "http://bad.example", got.URL)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, "MALWARE", got.Matches[0].ThreatType)
}

func TestRelayErrorsAreReported(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"Missing FACTCHECK_API_KEY"}`)
	}))
	t.Cleanup(ts.Close)

	code, _, errOut := execute(t, "search", "covid", "--server", ts.URL)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Missing FACTCHECK_API_KEY")
}

func TestDirectWithoutKey(t *testing.T) {
	t.Setenv(config.FactCheckKeyEnv, "")
	code, _, errOut := execute(t, "search", "covid", "--direct")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Missing FACTCHECK_API_KEY")
}

func TestServerAndDirectConflict(t *testing.T) {
	code, _, errOut := execute(t, "check", "example.com", "--direct", "--server", "http://localhost:1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "mutually exclusive")
}

func TestBlankInputs(t *testing.T) {
	code, _, errOut := execute(t, "check", "  ", "--server", "http://localhost:1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "url is blank")

	code, _, errOut = execute(t, "search", " ", "--server", "http://localhost:1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "query is blank")
}

func TestConfigShow_RedactsKeys(t *testing.T) {
	t.Setenv(config.FactCheckKeyEnv, "super-secret")
	t.Setenv("PORT", "9999")

	code, out, errOut := execute(t, "config", "show")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "port: 9999")
	assert.Contains(t, out, "api_key: '********'")
	assert.Contains(t, out, "ttl: 30m0s")
	assert.NotContains(t, out, "super-secret")
}

func TestLoadConfig_GlobalFlags(t *testing.T) {
	a := &app{v: viper.New()}
	a.v.Set("config", filepath.Join(t.TempDir(), "missing.toml"))
	a.v.Set("log-level", "warn")

	cfg, err := a.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)

	a.v.Set("verbose", true)
	cfg, err = a.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestListenAddr(t *testing.T) {
	cfg := config.Default()
	addr, err := listenAddr(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.RelayBaseURL())

	addr, err = listenAddr(cfg, ":3000")
	require.NoError(t, err)
	assert.Equal(t, ":3000", addr)
	assert.Equal(t, "http://127.0.0.1:3000", cfg.RelayBaseURL())

	cfg = config.Default()
	cfg.Server.RelayURL = "http://relay.internal"
	_, err = listenAddr(cfg, "0.0.0.0:4000")
	require.NoError(t, err)
	assert.Equal(t, "http://relay.internal", cfg.RelayBaseURL())

	_, err = listenAddr(cfg, "nonsense")
	assert.Error(t, err)
}
