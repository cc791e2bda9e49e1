package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "userauth",
	Short: "User registration, login and role management API",
	Long: `userauth serves the user registration, login and role-based user
management API. Configuration is read from the environment, and from a .env
file when ENV=development.

	userauth serve
	userauth migrate up
	userauth roles seed admin user
`,
	SilenceUsage: true,
}
