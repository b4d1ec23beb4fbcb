package main

import (
	"credmask/internal/bootstrap"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the browser and start the interactive console",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap.NewApp().Run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
