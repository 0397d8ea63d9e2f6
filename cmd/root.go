// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the meal planner CLI.
// It implements subcommands for signing in and out, registration, email
// verification, password reset, profile management and configuration using the
// Cobra CLI framework, with pterm for terminal output.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	showVersion       bool
	flagVerbose       bool
	flagAPIURL        string
	flagCredentialSrc string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "mealplan",
	Short:         "Meal planner CLI: sign in and manage your account",
	Long:          `mealplan keeps one consistent session with the meal planner identity service and lets you manage your account from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("mealplan %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api", "", "Identity service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagCredentialSrc, "credential-backend", "", "Credential store: keyring, redis or memory (overrides config)")
}
