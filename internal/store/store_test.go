package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zonekeeper/zonekeeper/internal/db/models"
	"github.com/zonekeeper/zonekeeper/internal/zone"
)

// recordingMirror captures mirror notifications for assertions.
type recordingMirror struct {
	mu      sync.Mutex
	changed []string
	deleted []string
}

func (m *recordingMirror) ZoneChanged(_ context.Context, z *zone.Zone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changed = append(m.changed, z.Name)
}

func (m *recordingMirror) ZoneDeleted(_ context.Context, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, name)
}

func testStore(t *testing.T) (*Store, *recordingMirror) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Zone{}))

	repo, err := NewGormRepository(db)
	require.NoError(t, err)

	mirror := &recordingMirror{}
	s := New(repo, mirror)
	s.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }

	return s, mirror
}

func TestCreateZone(t *testing.T) {
	s, mirror := testStore(t)
	ctx := context.Background()

	z, err := s.CreateZone(ctx, "example.com", zone.KindNative, []string{"ns1.example.com"})
	require.NoError(t, err)

	assert.Equal(t, "example.com.", z.Name)
	assert.Equal(t, uint32(2026082901), z.Serial)

	soa, ok := z.SOA()
	require.True(t, ok)
	assert.Equal(t, z.Serial, soa.Serial)

	got, err := s.GetZone(ctx, "example.com.")
	require.NoError(t, err)
	assert.Equal(t, z, got)

	assert.Equal(t, []string{"example.com."}, mirror.changed)
}

func TestCreateZoneDuplicate(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	_, err := s.CreateZone(ctx, "example.com", zone.KindNative, nil)
	require.NoError(t, err)

	// the bare and the canonical spelling are the same zone
	_, err = s.CreateZone(ctx, "example.com.", zone.KindNative, nil)
	assert.ErrorIs(t, err, ErrZoneAlreadyExists)
}

func TestCreateZoneEmptyName(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.CreateZone(context.Background(), "", zone.KindNative, nil)
	assert.ErrorIs(t, err, ErrZoneNameEmpty)
}

func TestCreateFromZone(t *testing.T) {
	s, mirror := testStore(t)
	ctx := context.Background()

	imported := zone.New("example.com", zone.KindMaster, []string{"ns1.example.com"}, 2026073101)

	z, err := s.CreateFromZone(ctx, imported)
	require.NoError(t, err)

	// the import serial is superseded by a fresh one
	assert.Equal(t, uint32(2026082901), z.Serial)
	assert.Equal(t, []string{"example.com."}, mirror.changed)

	_, err = s.CreateFromZone(ctx, imported)
	assert.ErrorIs(t, err, ErrZoneAlreadyExists)
}

func TestGetZoneNotFound(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.GetZone(context.Background(), "missing.example.com.")
	assert.ErrorIs(t, err, ErrZoneNotFound)
}

func TestListZones(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	names, err := s.ListZones(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = s.CreateZone(ctx, "example.org", zone.KindNative, nil)
	require.NoError(t, err)
	_, err = s.CreateZone(ctx, "example.com", zone.KindNative, nil)
	require.NoError(t, err)

	names, err = s.ListZones(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com.", "example.org."}, names)
}

func TestUpdateZone(t *testing.T) {
	s, mirror := testStore(t)
	ctx := context.Background()

	created, err := s.CreateZone(ctx, "example.com", zone.KindNative, []string{"ns1.example.com"})
	require.NoError(t, err)

	updated, err := s.UpdateZone(ctx, "example.com", []zone.Change{
		{
			Name:       "www.example.com",
			Type:       zone.TypeA,
			ChangeType: zone.ChangeTypeReplace,
			TTL:        300,
			Records:    []zone.Record{{Content: "192.0.2.1"}},
		},
	}, nil)
	require.NoError(t, err)

	assert.Greater(t, updated.Serial, created.Serial)
	assert.NotNil(t, updated.RRSet("www.example.com.", zone.TypeA))

	// serial inside the SOA content moved along
	soa, ok := updated.SOA()
	require.True(t, ok)
	assert.Equal(t, updated.Serial, soa.Serial)

	// the stored copy matches what was returned
	got, err := s.GetZone(ctx, "example.com.")
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	assert.Equal(t, []string{"example.com.", "example.com."}, mirror.changed)
}

func TestUpdateZoneSerialNeverDecreases(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	_, err := s.CreateZone(ctx, "example.com", zone.KindNative, nil)
	require.NoError(t, err)

	var last uint32

	for i := 0; i < 5; i++ {
		z, err := s.UpdateZone(ctx, "example.com", []zone.Change{
			{
				Name:       "www.example.com.",
				Type:       zone.TypeA,
				ChangeType: zone.ChangeTypeReplace,
				Records:    []zone.Record{{Content: "192.0.2.1"}},
			},
		}, nil)
		require.NoError(t, err)

		assert.Greater(t, z.Serial, last)
		last = z.Serial
	}
}

func TestUpdateZoneNameservers(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	_, err := s.CreateZone(ctx, "example.com", zone.KindNative, []string{"ns1.example.com"})
	require.NoError(t, err)

	updated, err := s.UpdateZone(ctx, "example.com", nil, []string{"ns1.provider.net", "ns2.provider.net"})
	require.NoError(t, err)

	assert.Equal(t, []string{"ns1.provider.net.", "ns2.provider.net."}, updated.Nameservers)

	rrset := updated.RRSet("example.com.", zone.TypeNS)
	require.NotNil(t, rrset)
	require.Len(t, rrset.Records, 2)
	assert.Equal(t, "ns1.provider.net.", rrset.Records[0].Content)
}

func TestUpdateZoneNotFound(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.UpdateZone(context.Background(), "missing.example.com", nil, nil)
	assert.ErrorIs(t, err, ErrZoneNotFound)
}

func TestDeleteZone(t *testing.T) {
	s, mirror := testStore(t)
	ctx := context.Background()

	_, err := s.CreateZone(ctx, "example.com", zone.KindNative, nil)
	require.NoError(t, err)
	_, err = s.CreateZone(ctx, "sub.example.com", zone.KindNative, nil)
	require.NoError(t, err)

	require.NoError(t, s.DeleteZone(ctx, "example.com"))

	_, err = s.GetZone(ctx, "example.com.")
	assert.ErrorIs(t, err, ErrZoneNotFound)

	// descendant zones are independent entities
	_, err = s.GetZone(ctx, "sub.example.com.")
	assert.NoError(t, err)

	assert.Equal(t, []string{"example.com."}, mirror.deleted)
}

func TestDeleteZoneNotFound(t *testing.T) {
	s, _ := testStore(t)

	err := s.DeleteZone(context.Background(), "missing.example.com")
	assert.ErrorIs(t, err, ErrZoneNotFound)
}

func TestConcurrentUpdatesSameZone(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	_, err := s.CreateZone(ctx, "example.com", zone.KindNative, nil)
	require.NoError(t, err)

	const workers = 8

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			_, err := s.UpdateZone(ctx, "example.com", []zone.Change{
				{
					Name:       "www.example.com.",
					Type:       zone.TypeA,
					ChangeType: zone.ChangeTypeReplace,
					Records:    []zone.Record{{Content: "192.0.2.1"}},
				},
			}, nil)
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	z, err := s.GetZone(ctx, "example.com.")
	require.NoError(t, err)

	// every update advanced the serial exactly once
	assert.Equal(t, uint32(2026082901+workers), z.Serial)
}
