package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "credmask",
	Short: "Detect credential fields on web pages and mask usernames",
	Long: `credmask finds username and password inputs on a page, pairs them into
credential combinations and hides the username text in place.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
