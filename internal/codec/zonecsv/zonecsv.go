// Package zonecsv parses and serializes the flattened per-record CSV zone
// representation: one row per record with the fixed column set
// Zone,Name,Type,TTL,Priority,Content,Disabled.
package zonecsv

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/zonekeeper/zonekeeper/internal/codec"
	"github.com/zonekeeper/zonekeeper/internal/zone"
)

// Header is the mandatory first row of the CSV representation.
const Header = "Zone,Name,Type,TTL,Priority,Content,Disabled"

const columnCount = 7

// maxLineLength caps a single input line at 1 MiB. bufio's default token
// limit is 64 KiB, and hitting it ends the scan without an error,
// silently dropping the rest of the file.
const maxLineLength = 1 << 20

// Column indices into a decoded row.
const (
	colZone = iota
	colName
	colType
	colTTL
	colPriority
	colContent
	colDisabled
)

var (
	// ErrMissingHeader is returned when the input has no rows at all.
	ErrMissingHeader = errors.New("CSV input has no header row")

	// ErrColumnCount is returned for rows without exactly seven columns.
	ErrColumnCount = errors.New("row does not have 7 columns")

	// ErrUnterminatedQuote is returned when a quoted field never closes.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")

	// ErrUnknownType is returned for record types outside the enumeration.
	ErrUnknownType = errors.New("unknown record type")

	// ErrBadTTL is returned when the TTL column is not an unsigned integer.
	ErrBadTTL = errors.New("TTL is not an unsigned integer")
)

// Decode parses CSV rows into zones. The header row is skipped, rows are
// grouped into zones by the Zone column (trailing dot auto-appended), then
// into RRSets by (Name, Type). MX rows recombine the Priority and Content
// columns into the single-string MX content convention of the canonical
// model. Malformed rows are collected as soft ParseErrors unless
// opts.Strict is set, in which case the first one aborts the decode.
func Decode(content string, opts codec.DecodeOptions) ([]zone.Zone, []codec.ParseError, error) {
	var (
		zones     []zone.Zone
		parseErrs []codec.ParseError
		byName    = map[string]int{}
	)

	fail := func(lineNo int, text, message string) error {
		perr := codec.ParseError{Line: lineNo, Text: text, Message: message}
		parseErrs = append(parseErrs, perr)

		if opts.Strict {
			return perr
		}

		return nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineLength)

	var lineNo int
	var sawHeader bool

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if !sawHeader {
			sawHeader = true
			continue
		}

		fields, err := splitRow(line)
		if err != nil {
			if abort := fail(lineNo, line, err.Error()); abort != nil {
				return nil, parseErrs, abort
			}

			continue
		}

		row, err := decodeRow(fields)
		if err != nil {
			if abort := fail(lineNo, line, err.Error()); abort != nil {
				return nil, parseErrs, abort
			}

			continue
		}

		idx, ok := byName[row.zone]
		if !ok {
			zones = append(zones, zone.Zone{Name: row.zone, Kind: zone.KindNative})
			idx = len(zones) - 1
			byName[row.zone] = idx
		}

		addRecord(&zones[idx], row)
	}

	if err := scanner.Err(); err != nil {
		return nil, parseErrs, errors.Wrapf(err, "line %d: cannot scan CSV data", lineNo+1)
	}

	if !sawHeader {
		return nil, parseErrs, ErrMissingHeader
	}

	for i := range zones {
		zones[i].DeriveMetadata()
	}

	return zones, parseErrs, nil
}

// decodedRow is one successfully parsed CSV row.
type decodedRow struct {
	zone     string
	name     string
	rrType   zone.RRType
	ttl      uint32
	content  string
	disabled bool
}

// decodeRow interprets the seven row columns.
func decodeRow(fields []string) (decodedRow, error) {
	if len(fields) != columnCount {
		return decodedRow{}, ErrColumnCount
	}

	zoneName := zone.Canonical(strings.TrimSpace(fields[colZone]))

	rrType, known := zone.ParseRRType(fields[colType])
	if !known {
		return decodedRow{}, ErrUnknownType
	}

	ttl := uint64(zone.DefaultTTL)

	if ttlField := strings.TrimSpace(fields[colTTL]); ttlField != "" {
		var err error
		if ttl, err = strconv.ParseUint(ttlField, 10, 32); err != nil {
			return decodedRow{}, ErrBadTTL
		}
	}

	content := fields[colContent]

	// MX rows carry the priority in its own column; the canonical model
	// joins it back into the content string.
	if rrType == zone.TypeMX {
		if priority := strings.TrimSpace(fields[colPriority]); priority != "" {
			content = priority + " " + content
		}
	}

	return decodedRow{
		zone:     zoneName,
		name:     resolveName(strings.TrimSpace(fields[colName]), zoneName),
		rrType:   rrType,
		ttl:      uint32(ttl),
		content:  content,
		disabled: strings.EqualFold(strings.TrimSpace(fields[colDisabled]), "yes"),
	}, nil
}

// resolveName maps '@' to the zone name and suffixes bare names with it.
func resolveName(name, zoneName string) string {
	switch {
	case name == "@" || name == "":
		return zoneName
	case strings.HasSuffix(name, "."):
		return name
	default:
		return name + "." + zoneName
	}
}

// addRecord groups the row into the zone's RRSet for (name, type).
func addRecord(z *zone.Zone, row decodedRow) {
	record := zone.Record{Content: row.content, Disabled: row.disabled}

	if rrset := z.RRSet(row.name, row.rrType); rrset != nil {
		rrset.Records = append(rrset.Records, record)
		return
	}

	z.RRSets = append(z.RRSets, zone.RRSet{
		Name:    row.name,
		Type:    row.rrType,
		TTL:     row.ttl,
		Records: []zone.Record{record},
	})
}

// splitRow splits one CSV line into fields, tracking quote state character
// by character. Inside a quoted field a doubled quote ("") represents one
// literal quote; a naive comma split would break on quoted commas.
func splitRow(line string) ([]string, error) {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	runes := []rune(line)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case r == '"' && inQuotes:
			if i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++

				continue
			}

			inQuotes = false

		case r == '"':
			inQuotes = true

		case r == ',' && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()

		default:
			field.WriteRune(r)
		}
	}

	if inQuotes {
		return nil, ErrUnterminatedQuote
	}

	return append(fields, field.String()), nil
}

// Encode renders the zone as CSV rows under the mandatory header. MX
// content is split back into the Priority and Content columns; all other
// types leave Priority blank. Content is always wrapped in quotes with
// internal quotes doubled.
func Encode(z *zone.Zone, opts codec.EncodeOptions) string {
	var b strings.Builder

	b.WriteString(Header + "\n")

	writeZone(&b, z, opts)

	return b.String()
}

// EncodeAll renders multiple zones under one shared header.
func EncodeAll(zones []zone.Zone, opts codec.EncodeOptions) string {
	var b strings.Builder

	b.WriteString(Header + "\n")

	for i := range zones {
		writeZone(&b, &zones[i], opts)
	}

	return b.String()
}

func writeZone(b *strings.Builder, z *zone.Zone, opts codec.EncodeOptions) {
	for i := range z.RRSets {
		rrset := &z.RRSets[i]

		if !opts.IncludeSOANS && (rrset.Type == zone.TypeSOA || rrset.Type == zone.TypeNS) {
			continue
		}

		name := zone.DisplayName(rrset.Name, z.Name)

		for _, record := range rrset.Records {
			if record.Disabled && !opts.IncludeDisabled {
				continue
			}

			priority, content := splitPriority(rrset.Type, record.Content)

			disabled := "No"
			if record.Disabled {
				disabled = "Yes"
			}

			fmt.Fprintf(b, "%s,%s,%s,%d,%s,%s,%s\n",
				z.Name, name, rrset.Type, rrset.TTL, priority, quoteField(content), disabled)
		}
	}
}

// splitPriority pulls the leading priority token out of MX content.
func splitPriority(t zone.RRType, content string) (string, string) {
	if t != zone.TypeMX {
		return "", content
	}

	fields := strings.SplitN(content, " ", 2)
	if len(fields) < 2 {
		return "", content
	}

	if _, err := strconv.ParseUint(fields[0], 10, 16); err != nil {
		return "", content
	}

	return fields[0], fields[1]
}

// quoteField wraps a field in quotes, doubling internal quotes.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
