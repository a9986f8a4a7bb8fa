package robotevents

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTeamNotFound is returned when a team number does not resolve to a provider id.
var ErrTeamNotFound = errors.New("team not found")

// ProviderError is a non-2xx or malformed response from the provider.
type ProviderError struct {
	StatusCode int
	URL        string
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("robotevents %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("robotevents %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err signals provider throttling. Errors that lost
// their type on the way up are matched on their message.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) && pe.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "status 429") || strings.Contains(msg, "Too Many Requests")
}
