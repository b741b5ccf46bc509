package commands

import (
	"fmt"
	"os"

	"github.com/wonny/fortunelab/internal/artifacts"
	"github.com/wonny/fortunelab/internal/dashboardconfig"
	"github.com/wonny/fortunelab/pkg/config"
	"github.com/wonny/fortunelab/pkg/database"
	"github.com/wonny/fortunelab/pkg/httputil"
	"github.com/wonny/fortunelab/pkg/logger"
	"github.com/wonny/fortunelab/pkg/redis"
)

// app bundles what every command needs
type app struct {
	cfg       *config.Config
	dashboard *dashboardconfig.Config
	log       *logger.Logger
	source    artifacts.Source
	loader    *artifacts.Loader
	db        *database.DB // postgres source only
	closers   []func()
}

// Close releases source connections
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// bootstrap loads both config layers, the logger and the artifact source
func bootstrap() (*app, error) {
	if configFile != "" {
		if err := config.LoadEnvFile(configFile); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}
	if env != "" {
		os.Setenv("ENV", env)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	dash, _, err := dashboardconfig.Load(cfg.DashboardConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load dashboard config: %w", err)
	}
	hash, err := dashboardconfig.Hash(dash)
	if err != nil {
		return nil, fmt.Errorf("hash dashboard config: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"path": cfg.DashboardConfigPath,
		"hash": hash[:12],
	}).Debug("Dashboard config loaded")

	a := &app{cfg: cfg, dashboard: dash, log: log}
	if err := a.openSource(); err != nil {
		a.Close()
		return nil, err
	}
	a.loader = artifacts.NewLoader(a.source, dash.ToNames(), log)

	return a, nil
}

// openSource builds the artifact source selected by ARTIFACT_SOURCE
func (a *app) openSource() error {
	cfg := a.cfg

	switch cfg.Artifacts.Source {
	case config.SourceFile:
		a.source = artifacts.NewFileSource(cfg.Artifacts.Dir)

	case config.SourceHTTP:
		client := httputil.New(a.log).WithRateLimit(cfg.Artifacts.RateLimit)
		a.source = artifacts.NewHTTPSource(client, cfg.Artifacts.BaseURL)

	case config.SourceRedis:
		rc, err := redis.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rc.Close() })
		a.source = artifacts.NewRedisSource(rc, cfg.Artifacts.KeyPrefix)

	case config.SourcePostgres:
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.db = db
		a.source = artifacts.NewPostgresSource(db.Pool)

	default:
		return fmt.Errorf("unknown artifact source %q", cfg.Artifacts.Source)
	}

	a.log.WithField("source", a.source.Kind()).Debug("Artifact source ready")
	return nil
}
