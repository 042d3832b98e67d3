package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/teamforge-backend/models"
)

var generateOut string

var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate typed query helpers for the models",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		log.Info().Str("out", generateOut).Msg("Generating models and query helpers...")
		return models.GenerateModels(db, generateOut)
	},
}

func init() {
	GenerateCmd.Flags().StringVar(&generateOut, "out", "./query", "output directory for generated code")
}
