package zone

// DeriveMetadata refreshes the zone attributes that are projections of the
// RRSet data: the serial from the SOA record and the nameserver list from
// the apex NS RRSet. Codecs call this after assembling RRSets from decoded
// records.
func (z *Zone) DeriveMetadata() {
	if soa, ok := z.SOA(); ok {
		z.Serial = soa.Serial
	}

	if ns := z.RRSet(z.Name, TypeNS); ns != nil {
		z.Nameservers = z.Nameservers[:0]
		for _, record := range ns.Records {
			z.Nameservers = append(z.Nameservers, record.Content)
		}
	}
}
