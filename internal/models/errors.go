// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package models

import (
	"errors"
	"fmt"
)

// Kind is the error taxonomy shared by every scheduler component (spec.md
// §7): NotFound, InvalidArgument, CatalogUnavailable, SchedulingConflict,
// Fatal. Handlers branch on Kind, never on string matching.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindInvalidArgument    Kind = "invalid_argument"
	KindCatalogUnavailable Kind = "catalog_unavailable"
	KindSchedulingConflict Kind = "scheduling_conflict"
	KindFatal              Kind = "fatal"
)

// Error is a taxonomy-tagged domain error. Wrapping preserves the original
// cause for logging while callers branch on Kind via errors.As.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError constructs a tagged Error with no wrapped cause.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags an existing error with a Kind, preserving it as the cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is (or wraps) an Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// NotFoundf, InvalidArgumentf, CatalogUnavailablef, SchedulingConflictf and
// Fatalf construct common-case errors for each taxonomy kind.
func NotFoundf(format string, args ...interface{}) *Error {
	return NewError(KindNotFound, fmt.Sprintf(format, args...))
}

func InvalidArgumentf(format string, args ...interface{}) *Error {
	return NewError(KindInvalidArgument, fmt.Sprintf(format, args...))
}

func CatalogUnavailablef(cause error, format string, args ...interface{}) *Error {
	return Wrap(KindCatalogUnavailable, fmt.Sprintf(format, args...), cause)
}

func SchedulingConflictf(format string, args ...interface{}) *Error {
	return NewError(KindSchedulingConflict, fmt.Sprintf(format, args...))
}

func Fatalf(cause error, format string, args ...interface{}) *Error {
	return Wrap(KindFatal, fmt.Sprintf(format, args...), cause)
}
