// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "mealplan/cli/internal/errors"
)

// statusError converts a non-2xx response into a typed error.
// 401 and 403 are authorization rejections; other 4xx are validation failures.
func statusError(op string, status int, body []byte) error {
	msg := detailMessage(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if msg == "" {
			msg = "unauthorized"
		}
		return apperrors.WithStatus(apperrors.KindUnauthorized, status, msg)
	case status >= 400 && status < 500:
		if msg == "" {
			msg = fmt.Sprintf("%s failed: %s", op, http.StatusText(status))
		}
		return apperrors.WithStatus(apperrors.KindValidation, status, msg)
	default:
		if msg == "" {
			msg = fmt.Sprintf("%s failed: %d %s", op, status, http.StatusText(status))
		}
		return apperrors.WithStatus(apperrors.KindUnknown, status, msg)
	}
}

// detailMessage extracts a human-readable message from an error body.
// Supported shapes: {"detail": "..."}, {"detail": [{"msg": "..."}]}, [{"msg": "..."}]
// and {"message": "..."}. Plain text bodies are returned trimmed.
func detailMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		if raw, ok := obj["detail"]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil {
				return strings.TrimSpace(s)
			}
			if m := firstMsg(raw); m != "" {
				return m
			}
			return "Validation error occurred"
		}
		if raw, ok := obj["message"]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}

	if m := firstMsg(body); m != "" {
		return m
	}
	if strings.HasPrefix(trimmed, "<") || strings.HasPrefix(trimmed, "[") {
		// HTML error pages and unrecognised arrays carry nothing useful for the user.
		return ""
	}
	if len(trimmed) > 200 {
		trimmed = trimmed[:200] + "..."
	}
	return trimmed
}

func firstMsg(raw []byte) string {
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	for _, it := range items {
		if m := strings.TrimSpace(it.Msg); m != "" {
			return m
		}
	}
	return ""
}
