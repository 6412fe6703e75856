package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ModelUnavailable means the model could not be reached or refused the call.
type ModelUnavailable struct {
	Source SourceName
	// Status is the provider HTTP status, 0 for transport failures.
	Status  int
	Timeout bool
	Err     error
}

func (e *ModelUnavailable) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: model call timed out: %v", sourceLabel(e.Source), e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: model http %d: %v", sourceLabel(e.Source), e.Status, e.Err)
	default:
		return fmt.Sprintf("%s: model unavailable: %v", sourceLabel(e.Source), e.Err)
	}
}

func (e *ModelUnavailable) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could succeed: transport
// failures, timeouts, 429 and 5xx.
func (e *ModelUnavailable) Retryable() bool {
	return e.Status == 0 || e.Timeout || e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// EmptyResponse means the call succeeded but produced no usable text.
type EmptyResponse struct {
	Source SourceName
	Reason string
}

func (e *EmptyResponse) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: model returned no text (%s)", sourceLabel(e.Source), e.Reason)
	}
	return fmt.Sprintf("%s: model returned no text", sourceLabel(e.Source))
}

// MalformedJSON means the sanitized model text is not valid JSON.
// Snippet holds a truncated copy of the offending text.
type MalformedJSON struct {
	Snippet string
	Err     error
}

func (e *MalformedJSON) Error() string {
	return fmt.Sprintf("model returned malformed JSON: %v; got: %q", e.Err, e.Snippet)
}

func (e *MalformedJSON) Unwrap() error { return e.Err }

// unavailable wraps a provider error, tagging deadlines as timeouts.
func unavailable(src SourceName, status int, err error) error {
	return &ModelUnavailable{
		Source:  src,
		Status:  status,
		Timeout: errors.Is(err, context.DeadlineExceeded),
		Err:     err,
	}
}

func sourceLabel(s SourceName) string {
	if s == "" {
		return "model"
	}
	return string(s)
}
