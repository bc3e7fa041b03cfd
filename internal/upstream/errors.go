package upstream

import (
	"errors"
	"fmt"
)

var (
	ErrMissingQuery = errors.New("missing query")
	ErrMissingURL   = errors.New("missing url")
	// ErrUnavailable wraps transport failures talking to an upstream API.
	ErrUnavailable = errors.New("upstream unavailable")
)

// MissingCredentialError reports an API key that the operator has not set.
type MissingCredentialError struct {
	Env string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("Missing %s", e.Env)
}
