// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mealplan/cli/internal/auth"
	"mealplan/cli/internal/terminal"
)

var (
	loginEmail    string
	loginPassword string
)

// loginCmd signs in with email and password and stores the credential pair.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"signin"},
	Short:   "Sign in with email and password",
	Long: `The login command exchanges your email and password for an access and refresh
token and stores them in the configured credential store (OS keychain by default).

If the stored session is still valid, login says so and does nothing else. Missing
flags are prompted for; the password is never echoed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			// entering login lifts a stale rejection memo
			a.svc.ResetTokenValidity()

			if a.svc.QuickCheck() {
				if ok, _ := a.svc.CheckAuthStatus(ctx); ok {
					fmt.Printf("Already logged in as %s\n", currentName(a))
					return nil
				}
			}

			p := terminal.NewPrompter()
			email, password := loginEmail, loginPassword
			var err error
			if email == "" {
				if email, err = p.Line("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				const prompt = "Password: "
				if password, err = p.Secret(prompt); err != nil {
					return err
				}
				terminal.ClearPreviousLines(len(prompt))
			}

			r := withSpinner("Signing in", func() auth.Result {
				return a.svc.Login(ctx, email, password)
			})
			if !r.Success {
				return report(a, "log in", "logging in", r)
			}
			fmt.Println(getRandomLoginGreeting(displayName(r.User)))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
}
