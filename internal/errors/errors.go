// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so callers classify failures on the Kind tag rather
// than by inspecting error text.
//
// The identity service client returns *E for every failed call. Session code decides
// whether a failure is authoritative (KindUnauthorized) or not (everything else).
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// KindTransport indicates the request could not complete (DNS, refused, timeout).
	KindTransport Kind = "transport"
	// KindUnauthorized indicates the service explicitly rejected the credential (401/403).
	KindUnauthorized Kind = "unauthorized"
	// KindValidation indicates the service rejected the input shape or content.
	KindValidation Kind = "validation"
	// KindUnknown covers server errors and undecodable responses.
	KindUnknown Kind = "unknown"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// WithStatus builds an error carrying the HTTP status that produced it.
func WithStatus(kind Kind, status int, msg string) *E {
	return &E{Kind: kind, Status: status, Message: msg}
}

// KindOf returns the Kind of the first *E in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status carried by err, or 0 when there was none.
func StatusOf(err error) int {
	var e *E
	if stderrors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsUnauthorized reports whether err is an authorization rejection.
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return KindOf(err) == KindTransport }

// Message returns the human-friendly message of err, without the kind prefix.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *E
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
