package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"mealplan/cli/internal/terminal"
)

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			a.svc.ResetTokenValidity()
			return report(a, "request a password reset", "requesting a reset code", a.svc.ForgotPassword(ctx, args[0]))
		})
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <code>",
	Short: "Set a new password using a reset code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			pw, err := promptNewPassword(terminal.NewPrompter())
			if err != nil {
				return err
			}
			return report(a, "reset the password", "resetting your password", a.svc.ResetPassword(ctx, args[0], pw))
		})
	},
}

func init() {
	rootCmd.AddCommand(forgotPasswordCmd, resetPasswordCmd)
}
