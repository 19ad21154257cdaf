package domain

import (
	"fmt"
	"time"
)

// SchemaError reports an upstream payload whose shape does not match the
// NeoWs contract: a required field is missing, empty, or of the wrong type.
// Path locates the offending field, e.g. "near_earth_objects.2025-08-19[2].id".
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema violation at %s: %s", e.Path, e.Reason)
}

// UpstreamError reports a failed NeoWs request: a non-success status or a
// transport failure. RetryAfter is non-zero only when the upstream rate
// limiter supplied a Retry-After header.
type UpstreamError struct {
	Status     int
	RetryAfter time.Duration
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// RateLimited reports whether the upstream rejected the request for quota
// reasons rather than a server fault.
func (e *UpstreamError) RateLimited() bool { return e.Status == 429 }

// NotFoundError reports a lookup for an object ID the upstream does not know.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("near-earth object %q not found", e.ID)
}

// ValidationError reports a caller-supplied parameter rejected before any
// upstream fetch: a malformed date, an inverted or oversized range, or an
// unknown sort policy.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}
