package ratelimit

import "time"

// EndpointClass categorizes endpoints for differentiated rate limiting.
type EndpointClass string

const (
	// ClassRead covers browse and lookup endpoints.
	ClassRead EndpointClass = "read"
	// ClassWrite covers submissions, scoring runs, and interest actions.
	ClassWrite EndpointClass = "write"
)

// IsValid checks if the endpoint class is one of the supported values.
func (c EndpointClass) IsValid() bool {
	return c == ClassRead || c == ClassWrite
}

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, only set when not allowed
}

// Key builds the bucket key for a caller and endpoint class.
func Key(caller string, class EndpointClass) string {
	return "ratelimit:" + string(class) + ":" + caller
}
