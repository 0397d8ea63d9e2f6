package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "mealplan/cli/internal/errors"
	"mealplan/cli/internal/manifest"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// HTTP implements API client over REST endpoints.
// It is safe for concurrent use; it holds no per-user state.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "http://localhost:8000")
	baseURL string
	// endpoints contains the URL paths for the identity service endpoints
	endpoints manifest.HTTPEndpoints
	// client is the underlying HTTP client with configured timeout
	client    *http.Client
	userAgent string
	log       zerolog.Logger
}

// newHTTP creates a new HTTP client with the given base URL and endpoints.
// It configures a 10-second timeout for all requests.
func newHTTP(baseURL string, endpoints manifest.HTTPEndpoints) *HTTP {
	return &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: "mealplan-cli",
		log:       zerolog.Nop(),
	}
}

// setStandardHeaders adds headers every request carries.
func (h *HTTP) setStandardHeaders(req *http.Request) string {
	reqID := uuid.NewString()
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	return reqID
}

// call performs one JSON round trip. in may be nil for bodiless requests; out may be nil
// when the response body is not needed. op names the operation in errors and logs.
func (h *HTTP) call(ctx context.Context, op, method, path, accessToken string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return apperrors.Wrap(apperrors.KindUnknown, op+": encode request", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnknown, op+": build request", err)
	}
	reqID := h.setStandardHeaders(req)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Debug().Str("op", op).Str("request_id", reqID).Err(err).Msg("request failed")
		return apperrors.Wrap(apperrors.KindTransport, op+" request failed", err)
	}
	defer resp.Body.Close()

	h.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("identity service call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(op, resp.StatusCode, b)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.KindUnknown, op+": unexpected response", err)
	}
	return nil
}
