package zone

// ChangeType is the PowerDNS-style patch operation tag.
type ChangeType string

const (
	// ChangeTypeReplace removes any RRSet matching (name, type) and inserts
	// the supplied one.
	ChangeTypeReplace ChangeType = "REPLACE"

	// ChangeTypeDelete removes any RRSet matching (name, type).
	ChangeTypeDelete ChangeType = "DELETE"
)

// Change is one partial-update entry keyed by (name, type).
type Change struct {
	Name       string     `json:"name"`
	Type       RRType     `json:"type"`
	ChangeType ChangeType `json:"changetype"`
	TTL        uint32     `json:"ttl,omitempty"`
	Records    []Record   `json:"records,omitempty"`
	Comment    string     `json:"comment,omitempty"`
}

// Apply computes the zone resulting from applying the given changes in
// order. It is pure: the input zone is not modified and the serial is left
// untouched (the store reassigns it on commit).
//
// Per entry: the name is normalized to a trailing-dot FQDN; DELETE removes
// every RRSet matching (name, type) and is a no-op when none match; REPLACE
// removes matching RRSets and, only if the entry carries records, inserts a
// fresh RRSet with the given TTL (DefaultTTL when omitted). REPLACE with no
// records therefore behaves like a delete. Because REPLACE is
// remove-then-insert rather than a merge, applying the same patch twice
// yields the same zone.
func Apply(z Zone, changes []Change) Zone {
	rrsets := make([]RRSet, len(z.RRSets))
	copy(rrsets, z.RRSets)

	for _, change := range changes {
		name := Canonical(change.Name)

		kept := rrsets[:0:0]
		for _, rrset := range rrsets {
			if rrset.Name == name && rrset.Type == change.Type {
				continue
			}

			kept = append(kept, rrset)
		}

		rrsets = kept

		if change.ChangeType == ChangeTypeDelete || len(change.Records) == 0 {
			continue
		}

		ttl := change.TTL
		if ttl == 0 {
			ttl = DefaultTTL
		}

		records := make([]Record, len(change.Records))
		copy(records, change.Records)

		rrsets = append(rrsets, RRSet{
			Name:    name,
			Type:    change.Type,
			TTL:     ttl,
			Records: records,
			Comment: change.Comment,
		})
	}

	z.RRSets = rrsets

	return z
}
