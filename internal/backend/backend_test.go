// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "mealplan/cli/internal/errors"
	"mealplan/cli/internal/identitytest"
	"mealplan/cli/internal/manifest"

	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*identitytest.Server, API) {
	t.Helper()
	srv := identitytest.New(t)
	return srv, New(srv.URL, manifest.DefaultEndpoints(), WithTimeout(2*time.Second))
}

func TestLoginAndGetMe(t *testing.T) {
	srv, api := newClient(t)
	id := srv.AddUser("ada@example.com", "correct-horse", "Ada", "admin")
	ctx := context.Background()

	lr, err := api.Login(ctx, "ada@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, lr.AccessToken)
	require.NotEmpty(t, lr.RefreshToken)
	require.Equal(t, ID(id), lr.UserID)

	u, err := api.GetMe(ctx, lr.AccessToken)
	require.NoError(t, err)
	require.Equal(t, User{ID: ID(id), Email: "ada@example.com", Name: "Ada", Role: "admin"}, u)
}

func TestLoginRejectedIsUnauthorized(t *testing.T) {
	srv, api := newClient(t)
	srv.AddUser("ada@example.com", "correct-horse", "Ada", "user")

	_, err := api.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	require.True(t, apperrors.IsUnauthorized(err))
	require.Equal(t, "Incorrect email or password", apperrors.Message(err))
}

func TestGetMeExpiredToken(t *testing.T) {
	srv, api := newClient(t)
	srv.AddUser("ada@example.com", "correct-horse", "Ada", "user")
	access, _ := srv.IssueTokens("ada@example.com")
	srv.ExpireAccessTokens()

	_, err := api.GetMe(context.Background(), access)
	var e *apperrors.E
	require.ErrorAs(t, err, &e)
	require.Equal(t, apperrors.KindUnauthorized, e.Kind)
	require.Equal(t, http.StatusUnauthorized, e.Status)
}

func TestRefreshToken(t *testing.T) {
	srv, api := newClient(t)
	srv.AddUser("ada@example.com", "correct-horse", "Ada", "user")
	old, refresh := srv.IssueTokens("ada@example.com")
	ctx := context.Background()

	access, rotated, err := api.RefreshToken(ctx, refresh)
	require.NoError(t, err)
	require.NotEqual(t, old, access)
	require.Empty(t, rotated, "service does not rotate refresh tokens")

	srv.FailRefresh(true)
	_, _, err = api.RefreshToken(ctx, refresh)
	require.True(t, apperrors.IsUnauthorized(err))
}

func TestRegisterValidationMessages(t *testing.T) {
	srv, api := newClient(t)
	srv.AddUser("taken@example.com", "correct-horse", "Taken", "user")
	ctx := context.Background()

	tests := []struct {
		name    string
		email   string
		pass    string
		wantMsg string
	}{
		{name: "detail array", email: "not-an-email", pass: "long-enough", wantMsg: "value is not a valid email address"},
		{name: "detail string", email: "new@example.com", pass: "short", wantMsg: "Password must be at least 8 characters long"},
		{name: "duplicate", email: "taken@example.com", pass: "long-enough", wantMsg: "Email already registered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := api.Register(ctx, "Someone", tt.email, tt.pass)
			require.Error(t, err)
			require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			require.Equal(t, tt.wantMsg, apperrors.Message(err))
		})
	}

	u, err := api.Register(ctx, "Grace", "grace@example.com", "long-enough")
	require.NoError(t, err)
	require.Equal(t, "grace@example.com", u.Email)
	require.NotEmpty(t, u.ID)
}

func TestVerificationAndPasswordReset(t *testing.T) {
	srv, api := newClient(t)
	ctx := context.Background()

	_, err := api.Register(ctx, "Grace", "grace@example.com", "long-enough")
	require.NoError(t, err)

	_, err = api.Login(ctx, "grace@example.com", "long-enough")
	require.True(t, apperrors.IsUnauthorized(err), "unverified accounts cannot log in")

	msg, err := api.ResendVerification(ctx, "grace@example.com")
	require.NoError(t, err)
	require.Equal(t, "Verification email sent", msg)

	msg, err = api.VerifyEmail(ctx, srv.VerificationCode("grace@example.com"))
	require.NoError(t, err)
	require.Equal(t, "Email verified successfully", msg)
	require.True(t, srv.Verified("grace@example.com"))

	_, err = api.ForgotPassword(ctx, "grace@example.com")
	require.NoError(t, err)
	_, err = api.ResetPassword(ctx, srv.ResetCode("grace@example.com"), "brand-new-password")
	require.NoError(t, err)

	_, err = api.Login(ctx, "grace@example.com", "brand-new-password")
	require.NoError(t, err)
}

func TestUpdateProfileAndLogout(t *testing.T) {
	srv, api := newClient(t)
	srv.AddUser("ada@example.com", "correct-horse", "Ada", "user")
	access, refresh := srv.IssueTokens("ada@example.com")
	ctx := context.Background()

	_, err := api.UpdateProfile(ctx, access, ProfileUpdate{})
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	u, err := api.UpdateProfile(ctx, access, ProfileUpdate{Name: "Ada L."})
	require.NoError(t, err)
	require.Equal(t, "Ada L.", u.Name)

	require.NoError(t, api.Logout(ctx, access))
	_, _, err = api.RefreshToken(ctx, refresh)
	require.True(t, apperrors.IsUnauthorized(err), "logout revokes the refresh token")
}

func TestTransportFailure(t *testing.T) {
	srv, api := newClient(t)
	srv.Close()

	_, err := api.GetMe(context.Background(), "token")
	require.True(t, apperrors.IsTransport(err))
}

func TestServerErrorIsUnknown(t *testing.T) {
	srv, api := newClient(t)
	srv.SetStatus(identitytest.RouteMe, http.StatusServiceUnavailable)

	_, err := api.GetMe(context.Background(), "token")
	require.Equal(t, apperrors.KindUnknown, apperrors.KindOf(err))
}

func TestStandardHeaders(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 7, "email": "a@b.c", "name": "A"})
	}))
	t.Cleanup(ts.Close)

	api := New(ts.URL, manifest.DefaultEndpoints(), WithUserAgent("mealplan-cli/test"))
	u, err := api.GetMe(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, ID("7"), u.ID, "numeric ids decode as strings")
	require.Equal(t, "Bearer tok", got.Get("Authorization"))
	require.Equal(t, "mealplan-cli/test", got.Get("User-Agent"))
	require.Len(t, got.Get("X-Request-ID"), 36)
}

func TestDetailMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "detail string", body: `{"detail":"Email not verified"}`, want: "Email not verified"},
		{name: "detail list", body: `{"detail":[{"msg":"field required"}]}`, want: "field required"},
		{name: "detail list without msg", body: `{"detail":[{}]}`, want: "Validation error occurred"},
		{name: "top level list", body: `[{"msg":"bad email"}]`, want: "bad email"},
		{name: "message key", body: `{"message":"nope"}`, want: "nope"},
		{name: "plain text", body: "  gateway exploded  ", want: "gateway exploded"},
		{name: "html", body: "<html>502</html>", want: ""},
		{name: "empty", body: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, detailMessage([]byte(tt.body)))
		})
	}
}
