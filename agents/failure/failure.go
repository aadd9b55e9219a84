/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package failure

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Kind classifies an error so callers can decide how to react to it
// without inspecting error text.
type Kind int

const (
	// Collaborator is an ordinary failure inside a collaborator call.
	// The orchestrator absorbs it by substituting a degraded result.
	// It is the zero value so unclassified errors land here.
	Collaborator Kind = iota
	// Validation is a malformed call: empty topic, missing collaborator,
	// out-of-range configuration. Never retried.
	Validation
	// Retryable is a rate limit or timeout signal. The workflow re-raises it
	// so an outer retry wrapper can re-invoke the whole call.
	Retryable
	// Orchestration wraps an error that survived degradation handling,
	// with the workflow stage it happened in.
	Orchestration
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Collaborator:
		return "collaborator"
	case Validation:
		return "validation"
	case Retryable:
		return "retryable"
	case Orchestration:
		return "orchestration"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a classified error.
type Error struct {
	Kind Kind
	// Stage is the workflow stage the error surfaced in (e.g. "researching").
	Stage string
	// Op names the operation that failed (e.g. "research", "critique").
	Op string
	// Field is set for validation failures on a specific input.
	Field string
	Err   error
}

func (e *Error) Error() string {
	prefix := e.Kind.String()
	if e.Stage != "" {
		prefix += " failure during " + e.Stage
	} else {
		prefix += " failure"
	}
	if e.Op != "" {
		prefix += " (" + e.Op + ")"
	}
	if e.Err == nil {
		return prefix
	}
	return prefix + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validationf returns a Validation error for the named input field.
func Validationf(field, format string, args ...any) error {
	return &Error{
		Kind:  Validation,
		Field: field,
		Err:   fmt.Errorf(format, args...),
	}
}

// NewRetryable marks err as retryable. op names the failing operation.
func NewRetryable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Retryable, Op: op, Err: err}
}

// NewCollaborator marks err as an ordinary collaborator failure.
func NewCollaborator(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Collaborator, Op: op, Err: err}
}

// NewOrchestration wraps err with the workflow stage it escaped from.
// An existing Validation or Retryable classification is preserved.
func NewOrchestration(stage string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) && (fe.Kind == Validation || fe.Kind == Retryable) {
		return err
	}
	return &Error{Kind: Orchestration, Stage: stage, Err: err}
}

// KindOf reports the classification of err. Errors that were never
// classified are treated as Collaborator failures, except context
// cancellation which is reported as Orchestration.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, context.Canceled) {
		return Orchestration
	}
	return Collaborator
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Truncate shortens an error message to at most n bytes for embedding
// into degraded content, cutting on a rune boundary.
func Truncate(err error, n int) string {
	if err == nil || n <= 0 {
		return ""
	}
	msg := err.Error()
	if len(msg) <= n {
		return msg
	}
	for n > 0 && !utf8.RuneStart(msg[n]) {
		n--
	}
	return msg[:n]
}
