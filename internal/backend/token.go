// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"

	apperrors "mealplan/cli/internal/errors"
)

// RefreshToken calls POST /auth/refresh to get a new access token.
// It sends the refresh token and returns a new access token and optionally a new refresh token.
// The backend may choose to rotate the refresh token or keep it the same.
func (h *HTTP) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	body := map[string]string{
		"refresh_token": refreshToken,
	}

	var result map[string]any
	if err := h.call(ctx, "refresh", http.MethodPost, h.endpoints.Refresh, "", body, &result); err != nil {
		return "", "", err
	}

	// Extract access_token (required)
	newAccessToken := extractAccessToken(result)
	if newAccessToken == "" {
		return "", "", apperrors.New(apperrors.KindUnknown, "no access_token in refresh response")
	}

	// Extract refresh_token (optional - backend may return new one)
	newRefreshToken := extractRefreshToken(result)

	return newAccessToken, newRefreshToken, nil
}

// extractAccessToken extracts the access token from the response payload.
// It tries multiple common field names to be resilient to different response formats.
func extractAccessToken(result map[string]any) string {
	if v, ok := result["access_token"].(string); ok && v != "" {
		return v
	}
	if v, ok := result["accessToken"].(string); ok && v != "" {
		return v
	}
	if v, ok := result["token"].(string); ok && v != "" {
		return v
	}
	return ""
}

// extractRefreshToken extracts the refresh token from the response payload.
// Returns empty string if no refresh token is present (which is valid - backend may not rotate it).
func extractRefreshToken(result map[string]any) string {
	if v, ok := result["refresh_token"].(string); ok && v != "" {
		return v
	}
	if v, ok := result["refreshToken"].(string); ok && v != "" {
		return v
	}
	return ""
}
