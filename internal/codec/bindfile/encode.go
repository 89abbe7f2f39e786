package bindfile

import (
	"fmt"
	"strings"

	"github.com/zonekeeper/zonekeeper/internal/codec"
	"github.com/zonekeeper/zonekeeper/internal/zone"
)

const (
	nameColumnWidth = 24
	ttlColumnWidth  = 8
	typeColumnWidth = 6
)

// Encode renders the zone as BIND zone file text: an optional header
// comment block, an $ORIGIN line, a $TTL line carrying the most common TTL
// across RRSets, then one line per record. The TTL column is left blank for
// records matching the default. Disabled records are never emitted live:
// they are skipped, or commented out when opts.IncludeDisabled is set.
func Encode(z *zone.Zone, opts codec.EncodeOptions) string {
	var b strings.Builder

	if opts.HeaderComment != "" {
		for _, line := range strings.Split(strings.TrimRight(opts.HeaderComment, "\n"), "\n") {
			b.WriteString("; " + line + "\n")
		}

		b.WriteString(";\n")
	}

	defaultTTL := mostCommonTTL(z)

	fmt.Fprintf(&b, "$ORIGIN %s\n", z.Name)
	fmt.Fprintf(&b, "$TTL %d\n", defaultTTL)

	for i := range z.RRSets {
		rrset := &z.RRSets[i]

		if !opts.IncludeSOANS && (rrset.Type == zone.TypeSOA || rrset.Type == zone.TypeNS) {
			continue
		}

		name := zone.DisplayName(rrset.Name, z.Name)

		ttl := ""
		if rrset.TTL != defaultTTL {
			ttl = fmt.Sprintf("%d", rrset.TTL)
		}

		for _, record := range rrset.Records {
			line := fmt.Sprintf("%-*s %-*s IN %-*s %s",
				nameColumnWidth, name,
				ttlColumnWidth, ttl,
				typeColumnWidth, rrset.Type,
				record.Content,
			)

			switch {
			case !record.Disabled:
				b.WriteString(strings.TrimRight(line, " ") + "\n")
			case opts.IncludeDisabled:
				b.WriteString("; DISABLED: " + strings.TrimRight(line, " ") + "\n")
			}
		}
	}

	return b.String()
}

// mostCommonTTL picks the TTL shared by the largest number of RRSets, with
// ties broken in favour of the first one encountered.
func mostCommonTTL(z *zone.Zone) uint32 {
	if len(z.RRSets) == 0 {
		return zone.DefaultTTL
	}

	counts := make(map[uint32]int, len(z.RRSets))
	best := z.RRSets[0].TTL

	for i := range z.RRSets {
		ttl := z.RRSets[i].TTL
		counts[ttl]++

		if counts[ttl] > counts[best] {
			best = ttl
		}
	}

	return best
}
