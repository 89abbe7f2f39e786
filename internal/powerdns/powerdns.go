// Package powerdns mirrors committed zone mutations to an upstream
// PowerDNS authoritative API when one is configured. Mirroring is best
// effort: the console is the source of truth, upstream failures are logged
// and never block a commit.
package powerdns

import (
	"context"
	"time"

	pdnsapi "github.com/joeig/go-powerdns/v3"
	"github.com/rs/zerolog/log"

	"github.com/zonekeeper/zonekeeper/internal/config"
	"github.com/zonekeeper/zonekeeper/internal/zone"
)

const defaultTimeout = 30 * time.Second

// Engine wraps the PowerDNS API client.
type Engine struct {
	client *pdnsapi.Client
}

// Open initializes the PowerDNS client from the configuration. It returns
// nil (no mirror) when no upstream is configured.
func Open(cfg *config.PowerDNS) (*Engine, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	if cfg.URL == "" {
		return nil, ErrNoServerURL
	}

	return &Engine{
		client: pdnsapi.New(cfg.URL, cfg.VHost, pdnsapi.WithAPIKey(cfg.APIKey)),
	}, nil
}

// Test verifies the API connection by listing zones.
func (e *Engine) Test() error {
	if e == nil || e.client == nil {
		return ErrClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	zones, err := e.client.Zones.List(ctx)
	if err != nil {
		return err
	}

	log.Info().Int("zone_count", len(zones)).Msg("PowerDNS API connection test successful")

	return nil
}

// ZoneChanged pushes the current RRSets of the zone upstream, creating the
// zone first when it does not exist there yet.
func (e *Engine) ZoneChanged(ctx context.Context, z *zone.Zone) {
	if e == nil || e.client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := e.client.Zones.Get(ctx, z.Name); err != nil {
		if _, err := e.client.Zones.AddNative(
			ctx, z.Name, z.DNSSEC, "", false, "", "", false, z.Nameservers,
		); err != nil {
			log.Error().Err(err).Str("zone_name", z.Name).Msg("failed to create upstream zone")

			return
		}
	}

	sets := make([]pdnsapi.RRset, 0, len(z.RRSets))

	for i := range z.RRSets {
		rrset := &z.RRSets[i]
		if rrset.Type == zone.TypeSOA {
			// The upstream server owns its SOA.
			continue
		}

		name := rrset.Name
		rrType := pdnsapi.RRType(rrset.Type)
		ttl := rrset.TTL
		changeType := pdnsapi.ChangeTypeReplace

		records := make([]pdnsapi.Record, 0, len(rrset.Records))
		for _, rec := range rrset.Records {
			content := rec.Content
			disabled := rec.Disabled
			records = append(records, pdnsapi.Record{Content: &content, Disabled: &disabled})
		}

		sets = append(sets, pdnsapi.RRset{
			Name:       &name,
			Type:       &rrType,
			TTL:        &ttl,
			ChangeType: &changeType,
			Records:    records,
		})
	}

	if len(sets) == 0 {
		return
	}

	if err := e.client.Records.Patch(ctx, z.Name, &pdnsapi.RRsets{Sets: sets}); err != nil {
		log.Error().Err(err).Str("zone_name", z.Name).Msg("failed to mirror zone records upstream")

		return
	}

	log.Debug().Str("zone_name", z.Name).Int("rrset_count", len(sets)).Msg("zone mirrored upstream")
}

// ZoneDeleted removes the zone from the upstream server.
func (e *Engine) ZoneDeleted(ctx context.Context, name string) {
	if e == nil || e.client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := e.client.Zones.Delete(ctx, name); err != nil {
		log.Error().Err(err).Str("zone_name", name).Msg("failed to delete upstream zone")

		return
	}

	log.Debug().Str("zone_name", name).Msg("zone deleted upstream")
}
