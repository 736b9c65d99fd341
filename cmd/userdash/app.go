package main

import (
	"fmt"

	"go.uber.org/zap"

	"userdash/internal/auth"
	"userdash/internal/config"
	"userdash/internal/eventbus"
	"userdash/internal/logging"
	"userdash/internal/users"
)

// app carries the services every command shares
type app struct {
	cfg       *config.Config
	configSvc config.ConfigService
	logger    *zap.Logger
	bus       eventbus.EventBus
	client    *users.Client
	auth      *auth.Service
}

// newApp loads configuration and builds the shared services. The dashboard
// owns the terminal, so it logs to the configured file; console commands log
// warnings to stderr.
func newApp(opts *rootOptions, console bool) (*app, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	configSvc := config.NewConfigService(path)
	cfg, err := configSvc.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var logger *zap.Logger
	if console {
		logger, err = logging.Console(opts.verbose)
	} else {
		logger, err = logging.New(cfg.Log.File, cfg.Log.Level, opts.verbose)
	}
	if err != nil {
		return nil, err
	}

	bus := eventbus.New(eventbus.WithLogger(logger))
	// Saves go through the loading service so environment overrides stay out of the file
	configSvc.SetBus(bus)
	authSvc, err := auth.NewService(
		auth.NewFileSessionStore(cfg.Auth.SessionFile, logger),
		cfg.Auth.SigningKey,
		auth.WithBus(bus),
		auth.WithLogger(logger),
	)
	if err != nil {
		bus.Close()
		return nil, err
	}

	logger.Debug("config loaded", zap.String("path", path), zap.String("api", cfg.API.BaseURL))
	return &app{
		cfg:       cfg,
		configSvc: configSvc,
		logger:    logger,
		bus:       bus,
		client: users.NewClient(cfg.API.BaseURL,
			users.WithTimeout(cfg.API.Timeout.Std()),
			users.WithLogger(logger)),
		auth: authSvc,
	}, nil
}

// Close stops the bus and flushes the logger
func (a *app) Close() {
	a.bus.Close()
	_ = a.logger.Sync()
}
