package importer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	zonesImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zonekeeper_import_zones_committed_total",
		Help: "Number of zones committed by imports.",
	})

	zonesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zonekeeper_import_zones_skipped_total",
		Help: "Number of zones skipped by imports because they already existed.",
	})

	zonesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zonekeeper_import_zones_failed_total",
		Help: "Number of zones an import could not commit.",
	})
)
