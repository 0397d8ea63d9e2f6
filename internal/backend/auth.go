package backend

import (
	"context"
	"net/http"
	"strings"

	apperrors "mealplan/cli/internal/errors"
)

// Login calls POST /auth/login with {email, password}.
// A response without an access token is treated as an unknown failure so that no
// partial credential is ever handed to the caller.
func (h *HTTP) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	in := map[string]string{"email": email, "password": password}
	if err := h.call(ctx, "login", http.MethodPost, h.endpoints.Login, "", in, &out); err != nil {
		return LoginResponse{}, err
	}
	out.AccessToken = strings.TrimSpace(out.AccessToken)
	out.RefreshToken = strings.TrimSpace(out.RefreshToken)
	if out.AccessToken == "" || out.RefreshToken == "" {
		return LoginResponse{}, apperrors.New(apperrors.KindUnknown, "login response did not include both tokens")
	}
	return out, nil
}

// Register calls POST /auth/register with {name, email, password}.
// It returns the identity that was created; no tokens are issued.
func (h *HTTP) Register(ctx context.Context, name, email, password string) (User, error) {
	var out User
	in := map[string]string{"name": name, "email": email, "password": password}
	if err := h.call(ctx, "register", http.MethodPost, h.endpoints.Register, "", in, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// Logout calls POST /auth/logout with Authorization header.
// It revokes the refresh token the service holds for the current user.
func (h *HTTP) Logout(ctx context.Context, accessToken string) error {
	return h.call(ctx, "logout", http.MethodPost, h.endpoints.Logout, accessToken, nil, nil)
}

// VerifyEmail calls POST /auth/verify-email with {verification_code}.
func (h *HTTP) VerifyEmail(ctx context.Context, code string) (string, error) {
	return h.message(ctx, "verify-email", h.endpoints.VerifyEmail, map[string]string{"verification_code": code})
}

// ResendVerification calls POST /auth/resend-verification with {email}.
func (h *HTTP) ResendVerification(ctx context.Context, email string) (string, error) {
	return h.message(ctx, "resend-verification", h.endpoints.ResendVerification, map[string]string{"email": email})
}

// ForgotPassword calls POST /auth/forgot-password with {email}.
func (h *HTTP) ForgotPassword(ctx context.Context, email string) (string, error) {
	return h.message(ctx, "forgot-password", h.endpoints.ForgotPassword, map[string]string{"email": email})
}

// ResetPassword calls POST /auth/reset-password with {reset_code, new_password}.
func (h *HTTP) ResetPassword(ctx context.Context, code, newPassword string) (string, error) {
	in := map[string]string{"reset_code": code, "new_password": newPassword}
	return h.message(ctx, "reset-password", h.endpoints.ResetPassword, in)
}

// message posts body to path and returns the {message} field of the reply.
func (h *HTTP) message(ctx context.Context, op, path string, body map[string]string) (string, error) {
	var out messageResponse
	if err := h.call(ctx, op, http.MethodPost, path, "", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
