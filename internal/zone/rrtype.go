package zone

import "strings"

// RRType is the closed set of resource record types the console manages.
// Codecs and the validator switch on it exhaustively; adding a type here is
// the single place a new record type is introduced.
type RRType string

const (
	// TypeSOA is the Start of Authority record type.
	TypeSOA RRType = "SOA"

	// TypeNS is the name server record type.
	TypeNS RRType = "NS"

	// TypeA is the IPv4 address record type.
	TypeA RRType = "A"

	// TypeAAAA is the IPv6 address record type.
	TypeAAAA RRType = "AAAA"

	// TypeCNAME is the canonical name record type.
	TypeCNAME RRType = "CNAME"

	// TypeMX is the mail exchange record type.
	TypeMX RRType = "MX"

	// TypeTXT is the text record type.
	TypeTXT RRType = "TXT"

	// TypeSRV is the service locator record type.
	TypeSRV RRType = "SRV"

	// TypePTR is the pointer record type.
	TypePTR RRType = "PTR"

	// TypeCAA is the certification authority authorization record type.
	TypeCAA RRType = "CAA"

	// TypeSPF is the sender policy framework record type.
	TypeSPF RRType = "SPF"
)

// rrTypes is the lookup set backing ParseRRType.
var rrTypes = map[RRType]struct{}{
	TypeSOA:   {},
	TypeNS:    {},
	TypeA:     {},
	TypeAAAA:  {},
	TypeCNAME: {},
	TypeMX:    {},
	TypeTXT:   {},
	TypeSRV:   {},
	TypePTR:   {},
	TypeCAA:   {},
	TypeSPF:   {},
}

// ParseRRType maps a token to a known record type, case-insensitively.
func ParseRRType(s string) (RRType, bool) {
	t := RRType(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := rrTypes[t]

	return t, ok
}

// Quoted reports whether record content of this type is conventionally
// wrapped in RFC 1035 quoted strings.
func (t RRType) Quoted() bool {
	return t == TypeTXT || t == TypeSPF
}
