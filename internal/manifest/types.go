// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest handles backend endpoint configuration for the identity service.
package manifest

import (
	"net/url"
	"strings"
)

// Manifest represents the endpoint configuration of the identity service.
type Manifest struct {
	BaseURL string        `json:"base_url"`
	HTTP    HTTPEndpoints `json:"http"`
}

// HTTPEndpoints contains REST API endpoint paths.
type HTTPEndpoints struct {
	Login              string `json:"login"`               // e.g., "/auth/login"
	Register           string `json:"register"`            // e.g., "/auth/register"
	Me                 string `json:"me"`                  // e.g., "/auth/me"
	Refresh            string `json:"refresh"`             // e.g., "/auth/refresh"
	Logout             string `json:"logout"`              // e.g., "/auth/logout"
	Profile            string `json:"profile"`             // e.g., "/auth/profile"
	VerifyEmail        string `json:"verify_email"`        // e.g., "/auth/verify-email"
	ResendVerification string `json:"resend_verification"` // e.g., "/auth/resend-verification"
	ForgotPassword     string `json:"forgot_password"`     // e.g., "/auth/forgot-password"
	ResetPassword      string `json:"reset_password"`      // e.g., "/auth/reset-password"
}

// DefaultEndpoints returns the paths served by the identity service.
func DefaultEndpoints() HTTPEndpoints {
	return HTTPEndpoints{
		Login:              "/auth/login",
		Register:           "/auth/register",
		Me:                 "/auth/me",
		Refresh:            "/auth/refresh",
		Logout:             "/auth/logout",
		Profile:            "/auth/profile",
		VerifyEmail:        "/auth/verify-email",
		ResendVerification: "/auth/resend-verification",
		ForgotPassword:     "/auth/forgot-password",
		ResetPassword:      "/auth/reset-password",
	}
}

// HTTPBaseURL returns the scheme and host of the configured base URL, plus any
// path prefix, without a trailing slash.
func (m *Manifest) HTTPBaseURL() string {
	u, err := url.Parse(strings.TrimSpace(m.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/")
}

// Host returns the host of the base URL for error messages.
func (m *Manifest) Host() string {
	u, err := url.Parse(m.BaseURL)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
