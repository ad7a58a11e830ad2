// main.go
package main

import (
	"context"
	"log"
	"os"

	"bus-reservation/cmd"
	"bus-reservation/internal/data/repository"
	"bus-reservation/internal/data/seed"
	"bus-reservation/internal/wire"
	"bus-reservation/pkg/database"
	"bus-reservation/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// "bus-reservation seed" creates the schema and sample data, then exits
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seed.Run(context.Background(), db, logger); err != nil {
			logger.Fatal("Seeding failed", zap.Error(err))
		}
		return
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)
	uow := repository.NewUnitOfWork(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, uow, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
