package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/secretkeeper/internal/logging"
	"github.com/dmitrijs2005/secretkeeper/internal/server"
	"github.com/dmitrijs2005/secretkeeper/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogFormat, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
