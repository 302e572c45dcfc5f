package main

import (
	"context"
	"log"

	"github.com/atomist-global-seeds/blockstack-browser/internal/server"
	"github.com/atomist-global-seeds/blockstack-browser/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
