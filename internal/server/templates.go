package server

import (
	"embed"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

func loadTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl"))
}

var templateFuncs = template.FuncMap{
	"badgeClass": badgeClass,
	"date":       formatDate,
	"orDefault":  orDefault,
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	},
}

func badgeClass(rating string) string {
	switch strings.ToLower(strings.TrimSpace(rating)) {
	case "false":
		return "badge badge-red"
	case "misleading":
		return "badge badge-amber"
	case "true", "correct":
		return "badge badge-green"
	default:
		return "badge badge-grey"
	}
}

// formatDate shows the day part of an RFC 3339 timestamp. Anything else is
// shown as received.
func formatDate(raw string) string {
	if raw == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format("2006-01-02")
	}
	return raw
}

func orDefault(fallback, value string) string {
	if value == "" {
		return fallback
	}
	return value
}
