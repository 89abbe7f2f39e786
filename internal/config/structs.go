package config

import (
	"github.com/zonekeeper/zonekeeper/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	PowerDNS  PowerDNS
	Import    Import
}

// Webserver implement webserver settings.
type Webserver struct {
	CacheEnabled   bool   // true = enable cache, false = disable cache
	CleanPath      bool   // use clean path middleware to allow multi slash requests
	DisableRecover bool   // disable recover middleware
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
}

// PowerDNS configures the optional upstream authoritative API that
// committed zone changes are mirrored to.
type PowerDNS struct {
	Enabled bool
	URL     string // base url of the PowerDNS API
	VHost   string // virtual host, usually "localhost"
	APIKey  string
}

// Import holds the import engine defaults.
type Import struct {
	Strict bool // abort decoding on the first malformed line
}
