// Package store persists zones keyed by their normalized FQDN and owns
// serial-number assignment. The patch algorithm itself lives in the zone
// package and is storage-independent; this package supplies the strict
// read-modify-write sequencing around it.
package store

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/zonekeeper/zonekeeper/internal/db/models"
	"github.com/zonekeeper/zonekeeper/internal/zone"
)

// Repository is the durable keyed zone collection. Keys are canonical
// trailing-dot zone names.
type Repository interface {
	Get(name string) (*zone.Zone, error)
	Put(z *zone.Zone) error
	Delete(name string) error
	List() ([]string, error)
}

// GormRepository stores zones as JSON blobs through gorm. It works with any
// of the configured drivers (sqlite, mysql, postgres).
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository wraps the given database handle.
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &GormRepository{db: db}, nil
}

// Get retrieves a zone by its canonical name.
func (r *GormRepository) Get(name string) (*zone.Zone, error) {
	var row models.Zone

	result := r.db.Where("name = ?", name).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}

		return nil, result.Error
	}

	var z zone.Zone
	if err := json.Unmarshal(row.Data, &z); err != nil {
		return nil, errors.Wrap(err, "corrupt zone blob for "+name)
	}

	return &z, nil
}

// Put creates or updates the persisted zone (upsert by name).
func (r *GormRepository) Put(z *zone.Zone) error {
	data, err := json.Marshal(z)
	if err != nil {
		return errors.Wrap(err, "failed to serialize zone "+z.Name)
	}

	var row models.Zone

	result := r.db.Where("name = ?", z.Name).First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		row = models.Zone{Name: z.Name, Serial: z.Serial, Data: data}

		return r.db.Create(&row).Error
	}

	if result.Error != nil {
		return result.Error
	}

	row.Serial = z.Serial
	row.Data = data

	return r.db.Save(&row).Error
}

// Delete removes the persisted zone. Deleting an absent zone returns
// ErrZoneNotFound.
func (r *GormRepository) Delete(name string) error {
	result := r.db.Where("name = ?", name).Delete(&models.Zone{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrZoneNotFound
	}

	return nil
}

// List returns the canonical names of all stored zones.
func (r *GormRepository) List() ([]string, error) {
	var names []string

	result := r.db.Model(&models.Zone{}).Order("name").Pluck("name", &names)
	if result.Error != nil {
		return nil, result.Error
	}

	return names, nil
}
