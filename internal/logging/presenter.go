// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"mealplan/cli/internal/auth"
	apperrors "mealplan/cli/internal/errors"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// FormatSessionError renders a failed session operation with a hint that fits its kind.
func FormatSessionError(action string, kind apperrors.Kind, msg string) string {
	var b strings.Builder

	b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(titleFor(kind, action)))
	b.WriteString("\n")
	if msg = strings.TrimSpace(Mask(msg)); msg != "" {
		b.WriteString(msg)
		b.WriteString("\n")
	}

	switch kind {
	case apperrors.KindUnauthorized:
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Run 'mealplan login' to sign in again"))
	case apperrors.KindTransport:
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Check your connection and try again; your session was not changed"))
	case apperrors.KindValidation:
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Fix the input above and try again"))
	default:
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please try again in a few moments"))
	}
	return b.String()
}

func titleFor(kind apperrors.Kind, action string) string {
	switch kind {
	case apperrors.KindUnauthorized:
		return "Not authorized to " + action
	case apperrors.KindTransport:
		return "Could not reach the meal planner service to " + action
	case apperrors.KindValidation:
		return "Could not " + action
	default:
		return "Something went wrong trying to " + action
	}
}

// PresentSessionError prints FormatSessionError to the terminal.
func PresentSessionError(action string, kind apperrors.Kind, msg string) {
	fmt.Println()
	fmt.Println(FormatSessionError(action, kind, msg))
	fmt.Println()
}

// PresentResult prints a session operation outcome. It returns an error for
// failed results so commands can return it to cobra.
func PresentResult(action string, r auth.Result) error {
	if r.Success {
		if r.Message != "" {
			pterm.Success.Println(r.Message)
		}
		return nil
	}
	PresentSessionError(action, r.Kind, r.Error)
	return fmt.Errorf("%s: %s", action, Mask(r.Error))
}
