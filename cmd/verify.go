package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var verifyEmailCmd = &cobra.Command{
	Use:   "verify-email <code>",
	Short: "Confirm your email with the code you received",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return report(a, "verify email", "verifying your email", a.svc.VerifyEmail(ctx, args[0]))
		})
	},
}

var resendVerificationCmd = &cobra.Command{
	Use:   "resend-verification <email>",
	Short: "Send a new email verification code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return report(a, "resend verification", "requesting a verification code", a.svc.ResendVerification(ctx, args[0]))
		})
	},
}

func init() {
	rootCmd.AddCommand(verifyEmailCmd, resendVerificationCmd)
}
