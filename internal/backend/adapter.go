// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the identity service.
// It defines the API contract for login, registration, token refresh, profile access and the
// email verification and password reset flows. The package includes both the interface
// definition and an HTTP-based implementation.
//
// Every failed call returns an *errors.E whose Kind tells the caller whether the failure
// was a transport problem, an authorization rejection, a validation failure or unknown.
package backend

import "context"

// API defines identity service operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide fakes for tests.
type API interface {
	// Login exchanges email and password for an access/refresh token pair.
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	// Register creates an account. No tokens are issued; the email must be verified first.
	Register(ctx context.Context, name, email, password string) (User, error)
	// GetMe retrieves the user that owns accessToken. It doubles as the lightweight
	// credential verification call.
	GetMe(ctx context.Context, accessToken string) (User, error)
	// RefreshToken exchanges a refresh token for a new access token.
	// Returns new access token and optionally a new refresh token.
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken string, newRefreshToken string, err error)
	// Logout revokes the refresh token held by the service for accessToken's user.
	Logout(ctx context.Context, accessToken string) error
	// UpdateProfile changes the name and/or email of the current user.
	UpdateProfile(ctx context.Context, accessToken string, update ProfileUpdate) (User, error)
	// VerifyEmail confirms an account with the code sent by email.
	VerifyEmail(ctx context.Context, code string) (message string, err error)
	// ResendVerification sends a new verification code.
	ResendVerification(ctx context.Context, email string) (message string, err error)
	// ForgotPassword sends a password reset code.
	ForgotPassword(ctx context.Context, email string) (message string, err error)
	// ResetPassword sets a new password using a reset code.
	ResetPassword(ctx context.Context, code, newPassword string) (message string, err error)
}
