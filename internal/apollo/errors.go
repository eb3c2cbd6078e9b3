package apollo

import (
	"errors"
	"fmt"
)

// APIError is returned for every provider or transport failure: HTTP error
// statuses, exhausted rate-limit retries, non-JSON bodies, and connection
// errors. Exactly one of Status/Err may be zero.
type APIError struct {
	Status      int    // HTTP status code; 0 for transport-level failures
	Detail      string // provider error message or body preview
	RateLimited bool   // set when 429 retries were exhausted
	Err         error  // underlying cause, if any
}

func (e *APIError) Error() string {
	switch {
	case e.RateLimited:
		return fmt.Sprintf("apollo rate limit reached and maximum retries exceeded (status %d)", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("apollo request failed: %v", e.Err)
	case e.Status >= 400:
		return fmt.Sprintf("apollo api error %d: %s", e.Status, e.Detail)
	default:
		return fmt.Sprintf("apollo: %s", e.Detail)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err means the provider kept returning 429
// past the configured retry budget.
func IsRateLimited(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.RateLimited
}
