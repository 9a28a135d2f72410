package main

import (
	"os"

	"github.com/spf13/cobra"

	"kiosko/cmd/agent"
	"kiosko/cmd/server"
)

var rootCmd = &cobra.Command{
	Use:          "kiosko",
	Short:        "Kiosko project showcase platform",
	SilenceUsage: true,
	Args:         cobra.MinimumNArgs(1),
}

func init() {
	rootCmd.AddCommand(server.StartCmd)
	rootCmd.AddCommand(agent.StartCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
