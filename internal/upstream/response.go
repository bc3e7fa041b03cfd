package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Response is an upstream reply ready to hand back to the caller. Body is
// always valid JSON.
type Response struct {
	Status int
	Body   []byte
}

// passthrough keeps a JSON body verbatim and wraps anything else as
// {"error": <raw text>}. When emptyAsObject is set an empty body reads as {}.
func passthrough(status int, raw []byte, emptyAsObject bool) *Response {
	text := raw
	if len(text) == 0 && emptyAsObject {
		text = []byte("{}")
	}
	if len(text) > 0 && json.Valid(text) {
		return &Response{Status: status, Body: text}
	}

	body, err := json.Marshal(map[string]string{"error": string(raw)})
	if err != nil {
		body = []byte(`{"error":""}`)
	}
	return &Response{Status: status, Body: body}
}

func do(client *http.Client, req *http.Request, maxBytes int64) (int, []byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrUnavailable, redactError(err))
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if maxBytes > 0 {
		reader = io.LimitReader(resp.Body, maxBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, redactError(err))
	}
	return resp.StatusCode, body, nil
}

// RedactURL masks the key query parameter so credentials never reach logs.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func redactError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = RedactURL(uerr.URL)
	}
	return err
}
