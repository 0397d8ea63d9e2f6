// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"

	apperrors "mealplan/cli/internal/errors"
)

// GetMe calls GET /auth/me with Authorization header.
// There is no client-side caching here; the session layer owns the profile cache.
func (h *HTTP) GetMe(ctx context.Context, accessToken string) (User, error) {
	if accessToken == "" {
		return User{}, apperrors.New(apperrors.KindUnauthorized, "no access token")
	}
	var u User
	if err := h.call(ctx, "get-me", http.MethodGet, h.endpoints.Me, accessToken, nil, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// UpdateProfile calls PUT /auth/profile with the non-empty fields of update.
func (h *HTTP) UpdateProfile(ctx context.Context, accessToken string, update ProfileUpdate) (User, error) {
	if update.Name == "" && update.Email == "" {
		return User{}, apperrors.New(apperrors.KindValidation, "nothing to update")
	}
	var u User
	if err := h.call(ctx, "update-profile", http.MethodPut, h.endpoints.Profile, accessToken, update, &u); err != nil {
		return User{}, err
	}
	return u, nil
}
