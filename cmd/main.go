package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yungbote/hummingbird-backend/internal/app"
	appdb "github.com/yungbote/hummingbird-backend/internal/data/db"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

func main() {
	// A missing .env is fine; the environment wins over the file.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "hummingbird",
		Short:         "Adaptive chapter backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	root.AddCommand(
		&cobra.Command{Use: "serve", Short: "Run the HTTP API", RunE: serve},
		&cobra.Command{Use: "migrate", Short: "Apply database migrations and exit", RunE: migrate},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}

func migrate(cmd *cobra.Command, _ []string) error {
	cfg := app.LoadConfig()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	pg, err := appdb.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := appdb.Migrate(pg.DB(), log); err != nil {
		return err
	}
	log.Info("Migrations complete")
	return nil
}

