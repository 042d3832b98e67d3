package main

import (
	"os"

	"github.com/rs/zerolog/log"
	_ "go.uber.org/automaxprocs"

	"github.com/rpupo63/teamforge-backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
