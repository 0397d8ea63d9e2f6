// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd clears the local session and asks the service to revoke it.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove saved credentials and end the session",
	Long: `The logout command clears the access and refresh tokens from the credential
store and forgets the cached profile. It also asks the identity service to revoke
the refresh token (best-effort; an offline logout still succeeds locally).`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if a.svc.QuickCheck() {
				rctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				if err := a.svc.RevokeRemote(rctx); err != nil {
					a.log.Debug().Err(err).Msg("remote logout failed, continuing locally")
				}
				cancel()
			}

			r := a.svc.Logout(ctx)
			if r.Err != nil {
				pterm.Warning.Printfln("%s: %v", r.Message, r.Err)
				return nil
			}
			fmt.Println("✅ All credentials and tokens have been removed")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
