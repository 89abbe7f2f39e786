package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zonekeeper/zonekeeper/internal/zone"
)

// Mirror receives committed zone mutations, e.g. to push them to an
// upstream PowerDNS server. Mirroring is best effort: failures are logged
// by the implementation, never propagated into the store operation.
type Mirror interface {
	ZoneChanged(ctx context.Context, z *zone.Zone)
	ZoneDeleted(ctx context.Context, name string)
}

// Store exposes the zone operations on top of a Repository. Every mutation
// of a zone is a strict read-modify-write sequence: a per-zone-key mutex
// serializes overlapping operations on the same zone, while operations on
// different zones proceed independently. The store reassigns the zone
// serial on every mutation.
type Store struct {
	repo   Repository
	mirror Mirror
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Store over the given repository. mirror may be nil.
func New(repo Repository, mirror Mirror) *Store {
	return &Store{
		repo:   repo,
		mirror: mirror,
		now:    time.Now,
		locks:  map[string]*sync.Mutex{},
	}
}

// lock returns the mutex guarding one zone key, creating it on first use.
func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}

	return l
}

// GetZone returns the stored zone or ErrZoneNotFound.
func (s *Store) GetZone(_ context.Context, name string) (*zone.Zone, error) {
	if name == "" {
		return nil, ErrZoneNameEmpty
	}

	return s.repo.Get(zone.Canonical(name))
}

// ListZones returns the canonical names of all stored zones.
func (s *Store) ListZones(_ context.Context) ([]string, error) {
	return s.repo.List()
}

// CreateZone creates a zone with an auto-generated SOA and NS RRSet and an
// initial serial. Returns ErrZoneAlreadyExists when the name is taken.
func (s *Store) CreateZone(ctx context.Context, name string, kind zone.Kind, nameservers []string) (*zone.Zone, error) {
	if name == "" {
		return nil, ErrZoneNameEmpty
	}

	name = zone.Canonical(name)

	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	if _, err := s.repo.Get(name); err == nil {
		return nil, ErrZoneAlreadyExists
	}

	z := zone.New(name, kind, nameservers, zone.NextSerial(0, s.now()))

	if err := s.repo.Put(&z); err != nil {
		return nil, err
	}

	log.Info().Str("zone_name", name).Str("zone_kind", string(kind)).Msg("zone created")

	if s.mirror != nil {
		s.mirror.ZoneChanged(ctx, &z)
	}

	return &z, nil
}

// CreateFromZone stores an externally assembled zone (import path) under a
// fresh serial. Returns ErrZoneAlreadyExists when the name is taken.
func (s *Store) CreateFromZone(ctx context.Context, z zone.Zone) (*zone.Zone, error) {
	z.Name = zone.Canonical(z.Name)

	l := s.lock(z.Name)
	l.Lock()
	defer l.Unlock()

	if _, err := s.repo.Get(z.Name); err == nil {
		return nil, ErrZoneAlreadyExists
	}

	z.SetSerial(zone.NextSerial(z.Serial, s.now()))

	if err := s.repo.Put(&z); err != nil {
		return nil, err
	}

	if s.mirror != nil {
		s.mirror.ZoneChanged(ctx, &z)
	}

	return &z, nil
}

// UpdateZone applies the REPLACE/DELETE changes to the stored zone as one
// atomic read-modify-write, optionally rewriting the nameserver list, and
// reassigns the serial. Returns ErrZoneNotFound for unknown zones.
func (s *Store) UpdateZone(ctx context.Context, name string, changes []zone.Change, nameservers []string) (*zone.Zone, error) {
	if name == "" {
		return nil, ErrZoneNameEmpty
	}

	name = zone.Canonical(name)

	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	current, err := s.repo.Get(name)
	if err != nil {
		return nil, err
	}

	next := zone.Apply(*current, changes)

	if nameservers != nil {
		next.Nameservers = next.Nameservers[:0]

		records := make([]zone.Record, 0, len(nameservers))
		for _, ns := range nameservers {
			canonical := zone.Canonical(ns)
			next.Nameservers = append(next.Nameservers, canonical)
			records = append(records, zone.Record{Content: canonical})
		}

		next = zone.Apply(next, []zone.Change{{
			Name:       name,
			Type:       zone.TypeNS,
			ChangeType: zone.ChangeTypeReplace,
			TTL:        zone.DefaultTTL,
			Records:    records,
		}})
	}

	next.SetSerial(zone.NextSerial(current.Serial, s.now()))

	if err := s.repo.Put(&next); err != nil {
		return nil, err
	}

	log.Info().
		Str("zone_name", name).
		Int("change_count", len(changes)).
		Uint32("serial", next.Serial).
		Msg("zone updated")

	if s.mirror != nil {
		s.mirror.ZoneChanged(ctx, &next)
	}

	return &next, nil
}

// DeleteZone removes the zone. Descendant zones in the naming hierarchy are
// independent entities and stay untouched.
func (s *Store) DeleteZone(ctx context.Context, name string) error {
	if name == "" {
		return ErrZoneNameEmpty
	}

	name = zone.Canonical(name)

	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	if err := s.repo.Delete(name); err != nil {
		return err
	}

	log.Info().Str("zone_name", name).Msg("zone deleted")

	if s.mirror != nil {
		s.mirror.ZoneDeleted(ctx, name)
	}

	return nil
}
