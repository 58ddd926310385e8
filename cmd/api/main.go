package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vaughan-dsouza/clinicbook/internal/config"
	"github.com/vaughan-dsouza/clinicbook/internal/db"
	"github.com/vaughan-dsouza/clinicbook/internal/handlers"
	"github.com/vaughan-dsouza/clinicbook/internal/session"
	"github.com/vaughan-dsouza/clinicbook/internal/storage"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic",
		Short: "Clinic appointment booking server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "init-db",
		Short: "Create the schema and seed the default admin and doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := setup()
			if err != nil {
				return err
			}
			if cfg.SetupRequired() {
				return errors.New("POSTGRES_URL or DATABASE_URL is required for this deployment")
			}
			if err := store.Bootstrap(cmd.Context()); err != nil {
				return err
			}
			log.Info().Msg("database initialised")
			return nil
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *storage.Storage, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	initLogger(cfg)

	backend, err := db.New(cfg.DSN(), cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("backend", backend.Name()).Msg("store selected")

	return cfg, storage.New(backend), nil
}

func initLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func serve() error {
	cfg, store, err := setup()
	if err != nil {
		return err
	}

	if cfg.UsesDevSecret() {
		log.Warn().Msg("SECRET_KEY not set; signing sessions with the development key")
	}
	if cfg.SetupRequired() {
		log.Warn().Msg("no database configured; serving the setup notice only")
	} else if err := store.EnsureReady(context.Background()); err != nil {
		// retried lazily by the first request
		log.Warn().Err(err).Msg("startup bootstrap failed")
	}

	sessions := session.NewManager(cfg.SecretKey, cfg.SessionTTL, !cfg.IsDevelopment())
	h := handlers.NewHandler(store, sessions)

	r := handlers.NewRouter(h, handlers.RouterConfig{
		SetupRequired: cfg.SetupRequired(),
		StaticDir:     cfg.StaticDir,
		Logger:        log.Logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited")
	return nil
}
