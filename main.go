package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/services"
)

func main() {
	setupLogging(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	log.Info().Msg("Initializing app...")

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}
	setupLogging(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(database.Options{
		DSN:        cfg.DatabaseURL,
		ReplicaDSN: cfg.DatabaseReplicaURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
	}
	database.LogSchemaDrift(ctx, db, log.With().Str("component", "schema").Logger())

	currentDB := database.New(db)
	defer func() {
		if err := currentDB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	images, err := services.NewS3ImageStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing image storage")
	}
	if !cfg.Storage.Enabled() {
		log.Warn().Msg("S3_BUCKET is not set, image uploads will fail")
	}

	svc := api.Services{
		Auth:   services.NewAuthService(currentDB.UserRepo(), cfg),
		Github: services.NewGithubService(cfg.Github, currentDB.GithubStatsRepo()),
		Dashboard: services.NewDashboardService(
			currentDB.ProjectRepo(),
			currentDB.BlogPostRepo(),
			currentDB.ContactRepo(),
			currentDB.SkillRepo(),
			currentDB.GithubStatsRepo(),
		),
		Images:   images,
		Notifier: services.NewContactNotifier(cfg.Mail),
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(cfg, currentDB, svc)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogging configures the global zerolog logger. Unknown levels fall back to info.
func setupLogging(level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
