// Package zone defines the canonical in-memory representation of a DNS zone
// and the operations on it: SOA handling, type-specific validation and the
// REPLACE/DELETE patch algorithm.
package zone

// Kind represents the authority role of a zone.
type Kind string

const (
	// KindNative represents a Native zone.
	KindNative Kind = "Native"

	// KindMaster represents a Primary/Master zone.
	KindMaster Kind = "Master"

	// KindSlave represents a Secondary/Slave zone.
	KindSlave Kind = "Slave"
)

// Record is one value within an RRSet.
type Record struct {
	Content  string `json:"content"`
	Disabled bool   `json:"disabled"`
}

// RRSet is a named, typed group of records sharing one TTL.
type RRSet struct {
	Name    string   `json:"name"`
	Type    RRType   `json:"type"`
	TTL     uint32   `json:"ttl"`
	Records []Record `json:"records"`
	Comment string   `json:"comment,omitempty"`
}

// Zone is the canonical zone shape. Identity is the fully-qualified name
// with a trailing dot. RRSets are unique by (Name, Type).
type Zone struct {
	Name        string   `json:"name"`
	Kind        Kind     `json:"kind"`
	DNSSEC      bool     `json:"dnssec"`
	Serial      uint32   `json:"serial"`
	Nameservers []string `json:"nameservers,omitempty"`
	RRSets      []RRSet  `json:"rrsets"`
}

const (
	// DefaultTTL is used when a change entry or codec carries no TTL.
	DefaultTTL uint32 = 3600

	defaultRefresh = 10800
	defaultRetry   = 3600
	defaultExpire  = 604800
	defaultMinimum = 3600
)

// New creates a zone with an auto-generated SOA RRSet and, when nameservers
// are given, an NS RRSet. The name is normalized to a trailing-dot FQDN.
func New(name string, kind Kind, nameservers []string, serial uint32) Zone {
	name = Canonical(name)

	primary := "ns1." + name
	if len(nameservers) > 0 {
		primary = Canonical(nameservers[0])
	}

	soa := SOA{
		Primary: primary,
		Mailbox: "hostmaster." + name,
		Serial:  serial,
		Refresh: defaultRefresh,
		Retry:   defaultRetry,
		Expire:  defaultExpire,
		Minimum: defaultMinimum,
	}

	z := Zone{
		Name:   name,
		Kind:   kind,
		Serial: serial,
		RRSets: []RRSet{
			{
				Name:    name,
				Type:    TypeSOA,
				TTL:     DefaultTTL,
				Records: []Record{{Content: soa.String()}},
			},
		},
	}

	if len(nameservers) > 0 {
		records := make([]Record, 0, len(nameservers))
		for _, ns := range nameservers {
			canonical := Canonical(ns)
			z.Nameservers = append(z.Nameservers, canonical)
			records = append(records, Record{Content: canonical})
		}

		z.RRSets = append(z.RRSets, RRSet{
			Name:    name,
			Type:    TypeNS,
			TTL:     DefaultTTL,
			Records: records,
		})
	}

	return z
}

// RRSet returns the RRSet matching (name, type), or nil.
func (z *Zone) RRSet(name string, t RRType) *RRSet {
	name = Canonical(name)

	for i := range z.RRSets {
		if z.RRSets[i].Name == name && z.RRSets[i].Type == t {
			return &z.RRSets[i]
		}
	}

	return nil
}

// SOA returns the parsed SOA of the zone, or false if the zone has no SOA
// record or its content does not parse.
func (z *Zone) SOA() (SOA, bool) {
	for i := range z.RRSets {
		if z.RRSets[i].Type != TypeSOA || len(z.RRSets[i].Records) == 0 {
			continue
		}

		soa, err := ParseSOA(z.RRSets[i].Records[0].Content)
		if err != nil {
			return SOA{}, false
		}

		return soa, true
	}

	return SOA{}, false
}

// SetSerial updates both the zone serial and the serial token inside the SOA
// record content, keeping the two views consistent.
func (z *Zone) SetSerial(serial uint32) {
	z.Serial = serial

	for i := range z.RRSets {
		if z.RRSets[i].Type != TypeSOA || len(z.RRSets[i].Records) == 0 {
			continue
		}

		soa, err := ParseSOA(z.RRSets[i].Records[0].Content)
		if err != nil {
			continue
		}

		soa.Serial = serial
		z.RRSets[i].Records[0].Content = soa.String()
	}
}

// RecordCount returns the number of records across all RRSets.
func (z *Zone) RecordCount() int {
	var n int
	for i := range z.RRSets {
		n += len(z.RRSets[i].Records)
	}

	return n
}
