package weather

import (
	"errors"
)

// Kind classifies every failure the dashboard can observe.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnsupported
	KindPermissionDenied
	KindNotFound
	KindNetworkFailure
)

func (k Kind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindNetworkFailure:
		return "network_failure"
	default:
		return "unknown"
	}
}

var (
	// ErrUnsupported is returned when the host has no geolocation capability.
	ErrUnsupported = errors.New("geolocation is not supported")
	// ErrPermissionDenied is returned when geolocation was refused or timed out.
	ErrPermissionDenied = errors.New("geolocation permission denied")
	// ErrNotFound is returned when the provider has no match for the query.
	ErrNotFound = errors.New("location not found")
	// ErrNetworkFailure wraps transport-level failures.
	ErrNetworkFailure = errors.New("network failure")
	// ErrMalformedResponse is returned when a payload cannot be normalized.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// KindOf maps an error onto the taxonomy. Malformed responses and anything
// unrecognized count as network failures.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrUnsupported):
		return KindUnsupported
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindNetworkFailure
	}
}
