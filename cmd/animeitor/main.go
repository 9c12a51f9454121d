// v0
// cmd/animeitor/main.go
package main

import (
	"context"
	"log"

	"nrgchamp/animeitor/internal/app"
	"nrgchamp/animeitor/internal/config"
	"nrgchamp/animeitor/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The sede list is sourced out-of-band; an empty set is served until
	// a config file loader for it is wired.
	sedeConfig := domain.ConfigContest{}

	application, err := app.New(cfg, sedeConfig)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer application.Close()

	application.Logger().Info("animeitor starting", "listen", cfg.ListenAddress, "snapshot_source", cfg.SnapshotSource)

	if err := application.Run(context.Background()); err != nil {
		application.Logger().Error("animeitor terminated", "err", err)
	}
}
