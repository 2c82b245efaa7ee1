// Package apierrors defines the error kinds from the error handling design
// and their HTTP status mapping. Insufficient inventory is deliberately not
// a member of this set — it is a normal business outcome, expressed as
// success:false, never as an error.
package apierrors

import "net/http"

// Kind is one of the error kinds the core can surface at a boundary.
type Kind string

const (
	// InvalidQuantity: qty missing, non-integer, or <= 0.
	InvalidQuantity Kind = "invalid_quantity"
	// UpstreamUnavailable: Remote Vacancy Client could not reach, or got a
	// transport failure / 5xx / malformed body from, the inventory peer.
	UpstreamUnavailable Kind = "upstream_unavailable"
	// DeadlineExceeded: Remote Vacancy Client's per-request deadline elapsed.
	DeadlineExceeded Kind = "deadline_exceeded"
	// InternalError: any other unanticipated condition.
	InternalError Kind = "internal_error"
)

// Error is the typed error carried through the core; it never gets
// swallowed, and each Kind maps to exactly one boundary status.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

// New constructs an *Error of the given kind.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Invalid is a convenience constructor for InvalidQuantity.
func Invalid(detail string) *Error { return New(InvalidQuantity, detail) }

// Upstream is a convenience constructor for UpstreamUnavailable.
func Upstream(detail string) *Error { return New(UpstreamUnavailable, detail) }

// Deadline is a convenience constructor for DeadlineExceeded.
func Deadline(detail string) *Error { return New(DeadlineExceeded, detail) }

// Internal is a convenience constructor for InternalError.
func Internal(detail string) *Error { return New(InternalError, detail) }

// StatusCode maps a Kind to the HTTP status the HTTP Surface must return.
func StatusCode(k Kind) int {
	switch k {
	case InvalidQuantity:
		return http.StatusBadRequest
	case UpstreamUnavailable, DeadlineExceeded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// As extracts *Error from err, if it is one.
func As(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
