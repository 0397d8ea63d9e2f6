// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	apperrors "mealplan/cli/internal/errors"
)

var (
	// ErrNoSession is returned when an operation needs a credential and none is stored.
	ErrNoSession = apperrors.New(apperrors.KindUnauthorized, "not logged in")
	// ErrSessionInvalid is returned while the stored credential is known to be rejected.
	ErrSessionInvalid = apperrors.New(apperrors.KindUnauthorized, "session expired, please log in again")
)

// Result is the normalized outcome of a session operation.
type Result struct {
	Success bool
	User    *Profile
	Message string
	Error   string
	Kind    apperrors.Kind
	// Err is the underlying failure, for callers that explain transport errors.
	Err error
}

func success(user *Profile, msg string) Result {
	return Result{Success: true, User: user, Message: msg}
}

func failure(err error) Result {
	return Result{Error: apperrors.Message(err), Kind: apperrors.KindOf(err), Err: err}
}
