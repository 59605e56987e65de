package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sadopc/restman/internal/config"
	"github.com/sadopc/restman/internal/core/collection"
	"github.com/sadopc/restman/internal/core/cookies"
	"github.com/sadopc/restman/internal/core/environment"
	"github.com/sadopc/restman/internal/core/history"
	"github.com/sadopc/restman/internal/persist"
	httpclient "github.com/sadopc/restman/internal/protocol/http"
	"github.com/sadopc/restman/internal/runner"
)

// app wires the stores and the runner over the configured backend. Commands
// open it on demand and close it before exiting.
type app struct {
	cfg    config.Config
	port   persist.Store
	logger *log.Logger

	collections  *collection.Store
	environments *environment.Store
	history      *history.Store
	jar          *cookies.Jar
	runner       *runner.Runner
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	var port persist.Store
	switch cfg.Backend {
	case config.BackendSQLite:
		port, err = persist.NewSQLiteStore(filepath.Join(cfg.DataDir, "restman.db"))
	default:
		port, err = persist.NewFileStore(cfg.DataDir)
	}
	if err != nil {
		return nil, err
	}

	logger := log.New(os.Stderr, "", 0)

	a := &app{
		cfg:          cfg,
		port:         port,
		logger:       logger,
		collections:  collection.NewStore(port, logger),
		environments: environment.NewStore(port, logger),
		history:      history.NewStore(port, logger),
		jar:          cookies.New(port),
	}
	if err := a.jar.Load(); err != nil {
		logger.Printf("loading cookie jar: %v", err)
	}
	a.runner = runner.New(a.environments, a.history, httpclient.NewClient(a.jar), logger)
	return a, nil
}

func (a *app) close() {
	if err := a.jar.Save(); err != nil {
		a.logger.Printf("saving cookie jar: %v", err)
	}
	if err := a.port.Close(); err != nil {
		a.logger.Printf("closing store: %v", err)
	}
}
