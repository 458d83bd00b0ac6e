/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "movieapi",
	Short: "myFlix movie catalog API",
	Long: `myFlix serves a movie catalog with user accounts, favorites and
bearer-token authentication. Usage:

	movieapi server
	movieapi migrate up
	movieapi events tail --channel myflix.users
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
