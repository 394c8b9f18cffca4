package dataflows

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData means the upstream answered but returned no rows.
	ErrNoData = errors.New("no data returned")

	// ErrMisconfigured means a required credential or setting is absent.
	ErrMisconfigured = errors.New("misconfigured")
)

// UpstreamError is a failed call to an external provider.
type UpstreamError struct {
	Provider string
	Op       string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstream(provider, op string, err error) error {
	return &UpstreamError{Provider: provider, Op: op, Err: err}
}

func misconfigured(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMisconfigured, fmt.Sprintf(format, args...))
}

// IsUpstream reports whether err came from an external provider call.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
