package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mealplan/cli/internal/terminal"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

// registerCmd creates an account. It never signs in; the email must be verified first.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a meal planner account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			a.svc.ResetTokenValidity()

			p := terminal.NewPrompter()
			name, email, password := registerName, registerEmail, registerPassword
			var err error
			if name == "" {
				if name, err = p.Line("Name: "); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = p.Line("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptNewPassword(p); err != nil {
					return err
				}
			}

			r := a.svc.Register(ctx, name, email, password)
			if !r.Success {
				return report(a, "register", "registering", r)
			}
			pterm.Success.Printf("Account created for %s\n", r.User.Email)
			fmt.Println("   Check your email, then run 'mealplan verify-email <code>'.")
			return nil
		})
	},
}

// promptNewPassword asks for a password twice.
func promptNewPassword(p *terminal.Prompter) (string, error) {
	const first, second = "Password: ", "Repeat password: "
	pw, err := p.Secret(first)
	if err != nil {
		return "", err
	}
	again, err := p.Secret(second)
	if err != nil {
		return "", err
	}
	terminal.ClearPreviousLines(len(first))
	terminal.ClearPreviousLines(len(second))
	if pw != again {
		return "", fmt.Errorf("passwords do not match")
	}
	return pw, nil
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (prompted when omitted)")
}
