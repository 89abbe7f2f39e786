// Package models contains database model definitions.
package models

// Zone is the persisted form of a DNS zone: the canonical zone serialized
// as JSON, keyed by its trailing-dot FQDN. The serial is mirrored into its
// own column for listing without deserializing the blob.
type Zone struct {
	ID     uint64 `gorm:"primaryKey"`
	Name   string `gorm:"unique"`
	Serial uint32
	Data   []byte `gorm:"type:blob"`
}
