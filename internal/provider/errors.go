package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"go.uber.org/multierr"
)

// Kind classifies a provider failure.
type Kind string

const (
	KindSymbolNotFound    Kind = "symbol_not_found"
	KindRateLimited       Kind = "rate_limited"
	KindUpstream          Kind = "upstream_error"
	KindMalformedResponse Kind = "malformed_response"
)

// Sentinels matched with errors.Is.
var (
	ErrSymbolNotFound     = errors.New("symbol not found")
	ErrRateLimited        = errors.New("rate limited")
	ErrUpstream           = errors.New("upstream error")
	ErrMalformedResponse  = errors.New("malformed response")
	ErrAllProvidersFailed = errors.New("all providers failed")
)

func (k Kind) sentinel() error {
	switch k {
	case KindSymbolNotFound:
		return ErrSymbolNotFound
	case KindRateLimited:
		return ErrRateLimited
	case KindMalformedResponse:
		return ErrMalformedResponse
	default:
		return ErrUpstream
	}
}

// Error is a classified failure of one provider call.
type Error struct {
	Provider   string
	Operation  string
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

// NewError builds a classified error without an underlying cause.
func NewError(providerID, op string, kind Kind, format string, args ...any) *Error {
	return &Error{Provider: providerID, Operation: op, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	if e.Operation != "" {
		b.WriteString(" ")
		b.WriteString(e.Operation)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.sentinel().Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// Timeout reports whether the call ran out of time.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Transient reports whether retrying later may succeed.
func (e *Error) Transient() bool {
	switch e.Kind {
	case KindRateLimited:
		return true
	case KindUpstream:
		if errors.Is(e.Err, context.Canceled) {
			return false
		}
		return e.StatusCode == 0 || e.StatusCode >= 500
	}
	return false
}

// Classify turns any error returned by an adapter into an *Error.
// Already classified errors are returned untouched; everything else is an
// upstream failure carrying the original cause.
func Classify(providerID, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	out := &Error{Provider: providerID, Operation: op, Kind: KindUpstream, Err: err}
	switch {
	case errors.Is(err, ErrSymbolNotFound):
		out.Kind = KindSymbolNotFound
	case errors.Is(err, ErrRateLimited):
		out.Kind = KindRateLimited
	case errors.Is(err, ErrMalformedResponse):
		out.Kind = KindMalformedResponse
	case errors.Is(err, context.DeadlineExceeded):
		out.Message = "timeout"
	}
	return out
}

// KindOf returns the kind of a classified error, or "" for anything else.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// Attempt is one step of a fallback chain that did not produce a result.
type Attempt struct {
	Provider string `json:"provider"`
	Kind     Kind   `json:"kind"`
	Message  string `json:"message"`
	err      error
}

// AllProvidersFailedError is returned when no provider produced a result.
// Attempts lists every provider tried, in the order they were tried.
type AllProvidersFailedError struct {
	Operation string
	Symbol    string
	Attempts  []Attempt
	cause     error
}

// NewAllProvidersFailed builds the aggregate error from classified failures.
func NewAllProvidersFailed(op, symbol string, errs []*Error) *AllProvidersFailedError {
	out := &AllProvidersFailedError{Operation: op, Symbol: symbol, Attempts: make([]Attempt, 0, len(errs))}
	for _, e := range errs {
		out.Attempts = append(out.Attempts, Attempt{Provider: e.Provider, Kind: e.Kind, Message: e.Error(), err: e})
		out.cause = multierr.Append(out.cause, e)
	}
	return out
}

func (e *AllProvidersFailedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Message)
	}
	target := e.Operation
	if e.Symbol != "" {
		target += " " + e.Symbol
	}
	if len(parts) == 0 {
		return fmt.Sprintf("all providers failed for %s: no provider attempted", target)
	}
	return fmt.Sprintf("all providers failed for %s: %s", target, strings.Join(parts, "; "))
}

// Unwrap makes errors.Is match ErrAllProvidersFailed and the kind of any attempt.
func (e *AllProvidersFailedError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrAllProvidersFailed}
	}
	return []error{ErrAllProvidersFailed, e.cause}
}

// Errors returns the per-attempt errors in order.
func (e *AllProvidersFailedError) Errors() []error {
	return multierr.Errors(e.cause)
}

// AllOfKind reports whether every attempt failed with kind k.
func (e *AllProvidersFailedError) AllOfKind(k Kind) bool {
	if len(e.Attempts) == 0 {
		return false
	}
	for _, a := range e.Attempts {
		if a.Kind != k {
			return false
		}
	}
	return true
}

// Transient reports whether at least one attempt failed for a reason that may
// clear up on retry (rate limit, timeout, 5xx).
func (e *AllProvidersFailedError) Transient() bool {
	for _, a := range e.Attempts {
		var pe *Error
		if errors.As(a.err, &pe) && pe.Transient() {
			return true
		}
	}
	return false
}
