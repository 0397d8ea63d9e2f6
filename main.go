// Package main is the entry point for the mealplan CLI.
package main

import (
	"mealplan/cli/cmd"
)

func main() {
	cmd.Execute()
}
