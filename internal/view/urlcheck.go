package view

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/agenthands/factwatch/internal/model"
)

type CheckState string

const (
	CheckIdle     CheckState = "idle"
	CheckChecking CheckState = "checking"
	CheckSafe     CheckState = "safe"
	CheckUnsafe   CheckState = "unsafe"
	CheckError    CheckState = "error"
)

// ExampleURL is a known-bad address published for testing threat lookups.
type ExampleURL struct {
	Label string
	URL   string
}

var ExampleURLs = []ExampleURL{
	{Label: "Phishing (test)", URL: "https://testsafebrowsing.appspot.com/s/phishing.html"},
	{Label: "Malware (test)", URL: "https://testsafebrowsing.appspot.com/s/malware.html"},
	{Label: "Unwanted (test)", URL: "https://testsafebrowsing.appspot.com/s/unwanted.html"},
}

// NormalizeURL trims input and prefixes http:// when no http or https scheme
// is present. Blank input yields "".
func NormalizeURL(input string) string {
	t := strings.TrimSpace(input)
	if t == "" {
		return ""
	}
	lower := strings.ToLower(t)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return t
	}
	return "http://" + t
}

type URLCheck struct {
	mu sync.Mutex

	state     CheckState
	input     string
	target    string
	matches   []model.ThreatMatch
	checkedAt time.Time
	err       string

	now func() time.Time
}

func NewURLCheck() *URLCheck {
	return &URLCheck{state: CheckIdle, now: time.Now}
}

type CheckSnapshot struct {
	State     CheckState
	Input     string
	Target    string
	Matches   []model.ThreatMatch
	CheckedAt time.Time
	Error     string
}

func (s CheckSnapshot) Unsafe() bool {
	return s.State == CheckUnsafe
}

func (s CheckSnapshot) HasResult() bool {
	return s.State == CheckSafe || s.State == CheckUnsafe
}

// Check normalizes input and looks it up. Blank input does nothing.
func (u *URLCheck) Check(ctx context.Context, relay Relay, input string) error {
	target := NormalizeURL(input)
	if target == "" {
		return nil
	}

	u.mu.Lock()
	u.input = strings.TrimSpace(input)
	u.target = target
	u.matches = nil
	u.err = ""
	u.state = CheckChecking
	u.mu.Unlock()

	resp, err := relay.CheckURL(ctx, target)

	u.mu.Lock()
	defer u.mu.Unlock()
	if err != nil {
		u.err = errorText(err)
		u.state = CheckError
		return err
	}
	u.matches = append([]model.ThreatMatch(nil), resp.Matches...)
	u.checkedAt = u.now()
	if len(u.matches) > 0 {
		u.state = CheckUnsafe
	} else {
		u.state = CheckSafe
	}
	return nil
}

func (u *URLCheck) Snapshot() CheckSnapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	return CheckSnapshot{
		State:     u.state,
		Input:     u.input,
		Target:    u.target,
		Matches:   append([]model.ThreatMatch(nil), u.matches...),
		CheckedAt: u.checkedAt,
		Error:     u.err,
	}
}
