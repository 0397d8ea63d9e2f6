package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "mealplan/cli/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"deadline", apperrors.Wrap(apperrors.KindTransport, "request failed", context.DeadlineExceeded), CategoryTimeout},
		{"dns", apperrors.Wrap(apperrors.KindTransport, "request failed", &net.DNSError{Err: "no such host", Name: "api.invalid"}), CategoryDNS},
		{"refused", apperrors.Wrap(apperrors.KindTransport, "request failed", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}), CategoryRefused},
		{"tls", apperrors.Wrap(apperrors.KindTransport, "request failed", errors.New("x509: certificate signed by unknown authority")), CategoryTLS},
		{"server", apperrors.WithStatus(apperrors.KindUnknown, 502, "Bad Gateway"), CategoryServer},
		{"other", errors.New("EOF"), CategoryGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestIsNetworkError(t *testing.T) {
	require.False(t, IsNetworkError(nil))
	require.True(t, IsNetworkError(apperrors.New(apperrors.KindTransport, "down")))
	require.True(t, IsNetworkError(fmt.Errorf("wrapped: %w", apperrors.WithStatus(apperrors.KindUnknown, 503, "x"))))
	require.False(t, IsNetworkError(apperrors.WithStatus(apperrors.KindUnauthorized, 401, "x")))
	require.False(t, IsNetworkError(apperrors.WithStatus(apperrors.KindValidation, 422, "x")))
}

func TestFormatNetworkErrorWraps(t *testing.T) {
	require.NoError(t, FormatNetworkError(nil, "logging in", "api"))
	base := apperrors.New(apperrors.KindTransport, "down")
	err := FormatNetworkError(base, "logging in", "api")
	require.ErrorIs(t, err, base)
}

func TestExtractHostFromURL(t *testing.T) {
	require.Equal(t, "api.mealplan.test:8443", ExtractHostFromURL("https://api.mealplan.test:8443/v1"))
	require.Equal(t, "server", ExtractHostFromURL("not a url"))
	require.Equal(t, "server", ExtractHostFromURL(""))
}
