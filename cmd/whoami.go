package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mealplan/cli/internal/auth"
)

// whoamiCmd shows the signed-in account.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show current authenticated account",
	Long: `The whoami command displays the currently signed-in account. The profile is
fetched from the identity service when it is not cached yet; an expired access
token is not refreshed here (use 'mealplan status' for a full check).`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if !a.svc.QuickCheck() {
				printNotLoggedIn()
				return nil
			}
			r := a.svc.FetchUserData(ctx)
			if !r.Success {
				if errors.Is(r.Err, auth.ErrSessionInvalid) || a.svc.State() == auth.StateInvalid {
					printSessionExpired()
					return nil
				}
				return report(a, "show the current user", "fetching your profile", r)
			}
			fmt.Println(getRandomWhoAmIPhrase(displayName(r.User)))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// getRandomWhoAmIPhrase returns a friendly phrase with the user's identifier
func getRandomWhoAmIPhrase(identifier string) string {
	return fmt.Sprintf("👤 Current user: %s", identifier)
}
