package main

import (
	"fmt"

	"github.com/okorban/vidmeta/internal/config"
	"github.com/okorban/vidmeta/internal/search"
	"github.com/okorban/vidmeta/internal/storage"
)

// newOrchestrator wires the lookup client from config. The persistent store
// is optional: when it cannot be opened the client runs without history or
// analytics persistence. Callers close the returned store when non-nil.
var newOrchestrator = func() (*search.Orchestrator, *storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		printWarning("persistent state unavailable: %v", err)
		db = nil
	}

	state := search.NewStateStore(db)
	gateway := search.NewClient(cfg.Client.GatewayURL)
	return search.New(gateway, state, cfg.Client.ShareBase), db, nil
}

func withOrchestrator(fn func(o *search.Orchestrator, state *search.StateStore) error) error {
	o, db, err := newOrchestrator()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	return fn(o, search.NewStateStore(db))
}
