package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zoebbogner/popcorn-palace/cmd"
	"github.com/zoebbogner/popcorn-palace/internal/data/repository"
	"github.com/zoebbogner/popcorn-palace/internal/event"
	"github.com/zoebbogner/popcorn-palace/internal/wire"
	"github.com/zoebbogner/popcorn-palace/pkg/database"
	"github.com/zoebbogner/popcorn-palace/pkg/utils"
)

func main() {
	// Load config
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	if err := run(config, logger); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("Application stopped")
}

func run(config *utils.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.CreateDatabaseSchema(ctx, db); err != nil {
			return err
		}
		logger.Info("Database schema applied")
	}

	// Domain events
	wmLogger := event.NewLoggerAdapter(logger)
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: config.Events.BufferSize,
	}, wmLogger)
	defer pubSub.Close()

	eventRouter, err := event.NewRouter(pubSub, wmLogger, logger)
	if err != nil {
		return err
	}
	events := event.NewPublisher(pubSub, logger)

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, db, events, config, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return eventRouter.Run(ctx)
	})

	g.Go(func() error {
		// don't accept requests before the audit consumer subscribed
		select {
		case <-eventRouter.Running():
		case <-ctx.Done():
			return nil
		}
		return cmd.APIServer(ctx, app.Router, config.App, logger)
	})

	return g.Wait()
}
