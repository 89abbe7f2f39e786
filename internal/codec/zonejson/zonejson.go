// Package zonejson parses and serializes the JSON zone representation,
// which is the closest format to the canonical model; decoding is mostly
// name normalization.
package zonejson

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/zonekeeper/zonekeeper/internal/codec"
	"github.com/zonekeeper/zonekeeper/internal/zone"
)

// ErrInvalidJSON is returned for input that is not valid JSON at all. This
// is a hard failure: no partial zones are returned.
var ErrInvalidJSON = errors.New("invalid JSON zone data")

// Decode accepts either a single zone object or an array of zones. Zone and
// RRSet names supplied without a trailing dot are corrected, not rejected.
func Decode(content string) ([]zone.Zone, error) {
	trimmed := strings.TrimSpace(content)

	var zones []zone.Zone

	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &zones); err != nil {
			return nil, errors.Wrap(ErrInvalidJSON, err.Error())
		}
	} else {
		var z zone.Zone
		if err := json.Unmarshal([]byte(trimmed), &z); err != nil {
			return nil, errors.Wrap(ErrInvalidJSON, err.Error())
		}

		zones = append(zones, z)
	}

	for i := range zones {
		normalize(&zones[i])
	}

	return zones, nil
}

// normalize forces every zone and RRSet name to a trailing-dot FQDN and
// fills in defaults the JSON may omit.
func normalize(z *zone.Zone) {
	z.Name = zone.Canonical(z.Name)

	if z.Kind == "" {
		z.Kind = zone.KindNative
	}

	for i := range z.RRSets {
		z.RRSets[i].Name = zone.Canonical(z.RRSets[i].Name)

		// JSON input may spell the type in any case; the validator switches
		// on the upper-case enumeration. Types outside the enumeration stay
		// behind for validation to flag.
		t, _ := zone.ParseRRType(string(z.RRSets[i].Type))
		z.RRSets[i].Type = t

		if z.RRSets[i].TTL == 0 {
			z.RRSets[i].TTL = zone.DefaultTTL
		}
	}

	for i, ns := range z.Nameservers {
		z.Nameservers[i] = zone.Canonical(ns)
	}
}

// Encode serializes the canonical model, optionally filtering SOA/NS RRSets
// and stripping disabled records. An RRSet left with zero records after
// stripping is dropped entirely.
func Encode(z *zone.Zone, opts codec.EncodeOptions) (string, error) {
	out := *z
	out.RRSets = make([]zone.RRSet, 0, len(z.RRSets))

	for _, rrset := range z.RRSets {
		if !opts.IncludeSOANS && (rrset.Type == zone.TypeSOA || rrset.Type == zone.TypeNS) {
			continue
		}

		if !opts.IncludeDisabled {
			records := make([]zone.Record, 0, len(rrset.Records))
			for _, record := range rrset.Records {
				if !record.Disabled {
					records = append(records, record)
				}
			}

			if len(records) == 0 {
				continue
			}

			rrset.Records = records
		}

		out.RRSets = append(out.RRSets, rrset)
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode zone as JSON")
	}

	return string(data) + "\n", nil
}

// EncodeAll serializes multiple zones as a JSON array.
func EncodeAll(zones []zone.Zone, opts codec.EncodeOptions) (string, error) {
	parts := make([]json.RawMessage, 0, len(zones))

	for i := range zones {
		s, err := Encode(&zones[i], opts)
		if err != nil {
			return "", err
		}

		parts = append(parts, json.RawMessage(s))
	}

	data, err := json.MarshalIndent(parts, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode zones as JSON")
	}

	return string(data) + "\n", nil
}
