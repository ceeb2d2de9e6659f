package main

import (
	"context"
	"log"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/cli"
	"github.com/VijayPalsawdiya/ttrush-go/internal/client/config"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.NewDefault()

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
