package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mealplan/cli/internal/auth"
	"mealplan/cli/internal/backend"
)

var (
	profileJSON    bool
	profileRefresh bool
	profileName    string
	profileEmail   string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the signed-in user's profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if !a.svc.QuickCheck() {
				printNotLoggedIn()
				return nil
			}
			var r auth.Result
			if profileRefresh {
				r = a.svc.RefreshProfile(ctx)
			} else {
				r = a.svc.FetchUserData(ctx)
			}
			if !r.Success {
				if errors.Is(r.Err, auth.ErrSessionInvalid) {
					printSessionExpired()
					return nil
				}
				return report(a, "show the profile", "fetching your profile", r)
			}
			if profileJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(r.User)
			}
			printProfile(*r.User)
			return nil
		})
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your name or email",
	RunE: func(cmd *cobra.Command, args []string) error {
		if profileName == "" && profileEmail == "" {
			return fmt.Errorf("nothing to update: pass --name and/or --email")
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			r := a.svc.UpdateProfile(ctx, backend.ProfileUpdate{Name: profileName, Email: profileEmail})
			if !r.Success {
				if errors.Is(r.Err, auth.ErrNoSession) {
					printNotLoggedIn()
					return nil
				}
				return report(a, "update the profile", "updating your profile", r)
			}
			if err := report(a, "update the profile", "updating your profile", r); err != nil {
				return err
			}
			printProfile(*r.User)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)
	profileShowCmd.Flags().BoolVar(&profileJSON, "json", false, "Print as JSON")
	profileShowCmd.Flags().BoolVar(&profileRefresh, "refresh", false, "Fetch from the service even if cached")
	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "New display name")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "New email")
}
