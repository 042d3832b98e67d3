package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/teamforge-backend/api"
	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/models"
	"github.com/rpupo63/teamforge-backend/services"
)

var skipMigrate bool

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	ServeCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate the schema on startup")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log.Info().Msg("Initializing app...")

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if !skipMigrate {
		if err := models.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}

	currentDB := database.New(db)
	svc := services.New(currentDB, store, services.NewNotifier(cfg.Email))

	server, err := api.NewServer(cfg, svc, currentDB, store)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	errChannel := make(chan error, 2)
	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
