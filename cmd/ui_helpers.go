package cmd

import (
	"fmt"
	"math/rand/v2"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"

	"mealplan/cli/internal/auth"
	"mealplan/cli/internal/httperrors"
	"mealplan/cli/internal/logging"
)

// report prints r and returns an error for failed results. Transport failures
// get the troubleshooting explanation; everything else the session error format.
func report(a *app, action, doing string, r auth.Result) error {
	if !r.Success && httperrors.IsNetworkError(r.Err) {
		return httperrors.FormatNetworkError(r.Err, doing, a.host)
	}
	return logging.PresentResult(action, r)
}

// reportErr is report for operations that return a plain error.
func reportErr(a *app, action, doing string, err error) error {
	if err == nil {
		return nil
	}
	if httperrors.IsNetworkError(err) {
		return httperrors.FormatNetworkError(err, doing, a.host)
	}
	return logging.PresentResult(action, auth.Result{Error: err.Error(), Err: err})
}

// withSpinner shows a pterm spinner while fn runs.
func withSpinner(text string, fn func() auth.Result) auth.Result {
	cursor.Hide()
	defer cursor.Show()

	spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(text)
	r := fn()
	if err == nil {
		_ = spinner.Stop()
	}
	return r
}

func printNotLoggedIn() {
	fmt.Println("🔒 You're not logged in yet!")
	fmt.Println("   Run 'mealplan login' to get started.")
}

func printSessionExpired() {
	fmt.Println("⌛ Your session has expired.")
	fmt.Println("   Run 'mealplan login' to sign in again.")
}

func printProfile(p auth.Profile) {
	rows := pterm.TableData{
		{"ID", p.ID},
		{"Email", p.Email},
		{"Name", p.Name},
	}
	if p.Role != "" {
		rows = append(rows, []string{"Role", p.Role})
	}
	_ = pterm.DefaultTable.WithData(rows).Render()
}

func currentName(a *app) string {
	p := a.svc.Profile().Profile
	return displayName(&p)
}

func displayName(p *auth.Profile) string {
	switch {
	case p == nil:
		return "there"
	case p.Name != "":
		return p.Name
	case p.Email != "":
		return p.Email
	default:
		return p.ID
	}
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🥗 Hungry, %s? Let's plan some meals.",
		"👋 Hello %s! What's cooking?",
		"✅ Signed in as %s",
		"🍳 You're in, %s!",
	}
	return fmt.Sprintf(greetings[rand.IntN(len(greetings))], identifier)
}
