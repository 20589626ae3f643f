// Command menu-api serves the menu HTTP routes behind API Gateway.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/jacentio/menutree/api"
	"github.com/jacentio/menutree/internal/config"
	"github.com/jacentio/menutree/internal/ddb"
	"github.com/jacentio/menutree/internal/logging"
	"github.com/jacentio/menutree/menu"
	"github.com/jacentio/menutree/store"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		bootLogger := logging.New(os.Stderr, "")
		bootLogger.Fatal().Err(err).Msg("load config")
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)

	client, err := ddb.NewClient(context.Background(), cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("create dynamodb client")
	}

	cfg.Store.Logger = logger.With().Str("component", "store").Logger()
	st := store.New(client, cfg.Store)
	handler := api.NewHandler(menu.NewService(st, st, logger), logger)

	logger.Info().
		Str("itemsTable", cfg.Store.ItemsTable).
		Int("numShards", cfg.Store.NumShards).
		Msg("menu api starting")
	lambda.Start(handler.Handle)
}
