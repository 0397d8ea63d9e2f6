package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"mealplan/cli/internal/auth"
	apperrors "mealplan/cli/internal/errors"
)

func TestNewWithWriterLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", false)
	require.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	require.Equal(t, zerolog.DebugLevel, NewWithWriter(&buf, "warn", true).GetLevel())
	require.Equal(t, zerolog.InfoLevel, NewWithWriter(&buf, "nonsense", false).GetLevel())
	require.Equal(t, zerolog.InfoLevel, NewWithWriter(&buf, "", false).GetLevel())
}

func TestLoggerMasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", false)
	log.Debug().Str("auth", "Bearer abc.def.ghi").Msg("request with token=xyz")

	out := buf.String()
	require.NotContains(t, out, "abc.def.ghi")
	require.NotContains(t, out, "xyz")
	require.Contains(t, out, "token=***")
}

func TestLoggerMasksErrorFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", false)
	err := apperrors.WithStatus(apperrors.KindValidation, 422, "invalid refresh_token=rt-secret-value")
	log.Debug().Err(err).Msg("refresh failed")

	out := buf.String()
	require.NotContains(t, out, "rt-secret-value")
	require.Contains(t, out, "refresh failed")
}

func TestFormatSessionErrorHints(t *testing.T) {
	tests := []struct {
		kind apperrors.Kind
		hint string
	}{
		{apperrors.KindUnauthorized, "mealplan login"},
		{apperrors.KindTransport, "session was not changed"},
		{apperrors.KindValidation, "Fix the input"},
		{apperrors.KindUnknown, "try again in a few moments"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			out := FormatSessionError("log in", tt.kind, "detail password=hunter2")
			require.Contains(t, out, tt.hint)
			require.Contains(t, out, "password=***")
			require.False(t, strings.Contains(out, "hunter2"))
		})
	}
}

func TestPresentResult(t *testing.T) {
	require.NoError(t, PresentResult("log out", auth.Result{Success: true}))

	err := PresentResult("log in", auth.Result{Error: "Incorrect email or password", Kind: apperrors.KindUnauthorized})
	require.EqualError(t, err, "log in: Incorrect email or password")
}
