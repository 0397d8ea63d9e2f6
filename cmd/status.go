package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mealplan/cli/internal/auth"
)

var statusQuick bool

// statusCmd reports the session state.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the stored session is valid",
	Long: `The status command verifies the stored credentials with the identity service,
refreshing the access token once if it was rejected. With --quick it only reports
whether credentials are stored, without any network call.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if statusQuick {
				if a.svc.QuickCheck() {
					fmt.Println("🔑 Credentials stored (not verified)")
				} else {
					printNotLoggedIn()
				}
				return nil
			}

			ok, err := a.svc.CheckAuthStatus(ctx)
			switch {
			case ok:
				pterm.Success.Printf("Signed in as %s\n", currentName(a))
			case errors.Is(err, auth.ErrNoSession):
				printNotLoggedIn()
			case errors.Is(err, auth.ErrSessionInvalid):
				printSessionExpired()
			default:
				return reportErr(a, "check the session", "checking your session", err)
			}
			a.log.Debug().Str("state", a.svc.State().String()).Str("validity", a.svc.Validity().String()).Msg("status")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusQuick, "quick", false, "Only check whether credentials are stored")
}
