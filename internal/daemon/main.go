// Package daemon wires the configured database, the zone store, the
// optional PowerDNS mirror and the web service together.
package daemon

import (
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/zonekeeper/zonekeeper/internal/config"
	"github.com/zonekeeper/zonekeeper/internal/db/dsn"
	"github.com/zonekeeper/zonekeeper/internal/db/models"
	"github.com/zonekeeper/zonekeeper/internal/powerdns"
	"github.com/zonekeeper/zonekeeper/internal/store"
	"github.com/zonekeeper/zonekeeper/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start()
}

// WaitShutdown blocks until the web service has shut down gracefully.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	zoneStore, err := NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open zone store")
		return nil
	}

	return &Daemon{
		webService: web.New(cfg, zoneStore),
	}
}

// NewStore opens the configured database, migrates the schema and builds
// the zone store with the optional PowerDNS mirror. The maintenance CLI
// commands use it without starting the web service.
func NewStore(cfg *config.Config) (*store.Store, error) {
	db, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(&models.Zone{}); err != nil {
		return nil, err
	}

	repo, err := store.NewGormRepository(db)
	if err != nil {
		return nil, err
	}

	mirror, err := powerdns.Open(&cfg.PowerDNS)
	if err != nil {
		return nil, err
	}

	if mirror == nil {
		return store.New(repo, nil), nil
	}

	if err := mirror.Test(); err != nil {
		log.Warn().Err(err).Msg("PowerDNS mirror configured but unreachable")
	}

	return store.New(repo, mirror), nil
}

// openDialector selects the gorm driver from the configuration. sqlite is
// the default.
func openDialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.Driver {
	case config.DriverMySQL:
		return gormmysql.Open(dsn.MySQL(cfg))
	case config.DriverPostgres:
		return gormpostgres.Open(dsn.Postgres(cfg))
	default:
		return sqlite.Open(dsn.SQLite(cfg))
	}
}
