package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "teamforge",
	Short: "Teamforge backend",
	Long: `Teamforge lets people publish projects, apply to join them and
collaborate in a shared workspace. Running without a subcommand serves HTTP.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(ServeCmd)
	rootCmd.AddCommand(MigrateCmd)
	rootCmd.AddCommand(GenerateCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
