package model

import "encoding/json"

// Fixed lookup shape sent to the threat-list API.
var (
	ThreatTypes = []string{
		"MALWARE",
		"SOCIAL_ENGINEERING",
		"UNWANTED_SOFTWARE",
		"POTENTIALLY_HARMFUL_APPLICATION",
	}
	PlatformTypes    = []string{"ANY_PLATFORM"}
	ThreatEntryTypes = []string{"URL"}
)

type ThreatEntry struct {
	URL string `json:"url,omitempty"`
}

type ThreatMatch struct {
	ThreatType      string       `json:"threatType,omitempty"`
	PlatformType    string       `json:"platformType,omitempty"`
	ThreatEntryType string       `json:"threatEntryType,omitempty"`
	Threat          *ThreatEntry `json:"threat,omitempty"`
	CacheDuration   string       `json:"cacheDuration,omitempty"`
}

func (m ThreatMatch) ThreatURL() string {
	if m.Threat == nil {
		return ""
	}
	return m.Threat.URL
}

type ThreatMatchResponse struct {
	Matches []ThreatMatch   `json:"matches,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}
