package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ModelClient sends one prompt to a chat model and returns the reply text.
type ModelClient interface {
	Complete(ctx context.Context, prompt, systemInstruction string) (string, error)
	// Name identifies provider and model, e.g. "openai/gpt-4o".
	Name() string
}

type LLMErrorKind string

const (
	LLMErrorAuth        LLMErrorKind = "auth"
	LLMErrorRateLimited LLMErrorKind = "rate_limited"
	LLMErrorServer      LLMErrorKind = "server"
	LLMErrorNetwork     LLMErrorKind = "network"
	LLMErrorTimeout     LLMErrorKind = "timeout"
)

const maxErrorBodyChars = 500

// LLMError is a classified model API failure.
type LLMError struct {
	Kind       LLMErrorKind
	StatusCode int
	Body       string
	Cause      error
}

func (e *LLMError) Error() string {
	msg := fmt.Sprintf("model API %s error", e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *LLMError) Unwrap() error {
	return e.Cause
}

// UserMessage is the text surfaced to API callers for this failure.
func (e *LLMError) UserMessage() string {
	switch e.Kind {
	case LLMErrorAuth:
		return "model API authentication failed; check the configured API key"
	case LLMErrorRateLimited:
		return "model API rate limit exceeded; try again later"
	case LLMErrorTimeout:
		return "model API request timed out"
	case LLMErrorNetwork:
		return "could not reach the model API"
	default:
		return "model API request failed"
	}
}

// classifyStatus maps a non-2xx HTTP status to an LLMError. The body is kept
// for diagnostics, cut to 500 characters.
func classifyStatus(status int, body string) *LLMError {
	kind := LLMErrorServer
	switch {
	case status == http.StatusUnauthorized:
		kind = LLMErrorAuth
	case status == http.StatusTooManyRequests:
		kind = LLMErrorRateLimited
	}
	return &LLMError{Kind: kind, StatusCode: status, Body: truncateForLog(body, maxErrorBodyChars)}
}

// classifyTransportError separates timeouts from other connection failures.
// Caller cancellation is returned unchanged so retries stop.
func classifyTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &LLMError{Kind: LLMErrorTimeout, Cause: err}
	}
	return &LLMError{Kind: LLMErrorNetwork, Cause: err}
}

// IsRetryableLLMError reports whether another attempt could succeed.
// Authentication failures and caller cancellation never are.
func IsRetryableLLMError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		return llmErr.Kind != LLMErrorAuth
	}
	return true
}
