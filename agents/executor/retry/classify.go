/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"errors"
	"net/http"

	"chainguard.dev/blogcrew/agents/failure"
)

// StatusOverloaded is the non-standard status Anthropic returns when the
// API is temporarily overloaded.
const StatusOverloaded = 529

// RetryableStatus reports whether an HTTP status signals a transient
// condition: rate limiting, request timeout, or an unavailable backend.
func RetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusRequestTimeout,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		StatusOverloaded:
		return true
	}
	return false
}

// ClassifyStatus wraps err as Retryable or Collaborator depending on the
// provider status code it carried.
func ClassifyStatus(op string, code int, err error) error {
	if RetryableStatus(code) {
		return failure.NewRetryable(op, err)
	}
	return failure.NewCollaborator(op, err)
}

// ClassifyContext handles errors caused by contexts. A per-call deadline
// that expired while parent is still live is a timeout and so Retryable.
// Cancellation of parent itself is returned unwrapped. ok is false when
// err was not caused by a context.
func ClassifyContext(parent context.Context, op string, err error) (classified error, ok bool) {
	if parent.Err() != nil {
		return parent.Err(), true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return failure.NewRetryable(op, err), true
	}
	return nil, false
}
