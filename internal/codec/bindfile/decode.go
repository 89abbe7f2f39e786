// Package bindfile parses and serializes the line-oriented BIND zone file
// format: $ORIGIN/$TTL directives, ; comments and whitespace-tokenized
// record lines.
package bindfile

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/zonekeeper/zonekeeper/internal/codec"
	"github.com/zonekeeper/zonekeeper/internal/zone"
)

// maxLineLength caps a single input line at 1 MiB. bufio's default token
// limit is 64 KiB, and hitting it ends the scan without an error,
// silently dropping the rest of the file.
const maxLineLength = 1 << 20

// parserContext is the explicit decoder state threaded through the line
// loop: the origin and default TTL currently in effect.
type parserContext struct {
	origin     string
	defaultTTL uint32
}

// Decode scans the zone file text line by line. Blank lines and comment
// lines starting with ';' are skipped, $ORIGIN and $TTL update the parser
// context, everything else is parsed as a record line. Records are grouped
// into RRSets by (resolved name, type); a zone is opened lazily on the first
// successfully parsed record under the current origin.
//
// Malformed lines are collected as soft ParseErrors and decoding continues;
// with opts.Strict the first malformed line aborts the whole decode and no
// zones are returned.
func Decode(content string, opts codec.DecodeOptions) ([]zone.Zone, []codec.ParseError, error) {
	var (
		ctx       parserContext
		zones     []zone.Zone
		parseErrs []codec.ParseError
		byOrigin  = map[string]int{}
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

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "$") {
			if err := decodeDirective(&ctx, line); err != nil {
				if abort := fail(lineNo, line, err.Error()); abort != nil {
					return nil, parseErrs, abort
				}
			}

			continue
		}

		rec, err := decodeRecordLine(&ctx, line)
		if err != nil {
			if abort := fail(lineNo, line, err.Error()); abort != nil {
				return nil, parseErrs, abort
			}

			continue
		}

		idx, ok := byOrigin[ctx.origin]
		if !ok {
			zones = append(zones, zone.Zone{Name: ctx.origin, Kind: zone.KindNative})
			idx = len(zones) - 1
			byOrigin[ctx.origin] = idx
		}

		addRecord(&zones[idx], rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, parseErrs, errors.Wrapf(err, "line %d: cannot scan zone data", lineNo+1)
	}

	for i := range zones {
		zones[i].DeriveMetadata()
	}

	log.Debug().
		Int("zone_count", len(zones)).
		Int("parse_error_count", len(parseErrs)).
		Msg("decoded bind zone file")

	return zones, parseErrs, nil
}

// parsedRecord is one successfully tokenized record line.
type parsedRecord struct {
	name    string
	rrType  zone.RRType
	ttl     uint32
	content string
}

// decodeDirective handles $ORIGIN and $TTL lines.
func decodeDirective(ctx *parserContext, line string) error {
	fields := strings.Fields(line)

	switch strings.ToUpper(fields[0]) {
	case "$ORIGIN":
		if len(fields) < 2 {
			return ErrOriginMissingName
		}

		ctx.origin = zone.Canonical(fields[1])

		return nil

	case "$TTL":
		if len(fields) < 2 {
			return ErrTTLMissingValue
		}

		ttl, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return ErrTTLNotANumber
		}

		ctx.defaultTTL = uint32(ttl)

		return nil
	}

	return ErrUnknownDirective
}

// decodeRecordLine tokenizes `[name] [ttl]? [IN]? <TYPE> <content...>`.
//
// Disambiguation rule: the first token of a record line is always the owner
// name, never a TTL. A line whose leading token is all digits and is
// directly followed by a known record type is rejected as ambiguous (the
// token could equally be a TTL with an omitted owner) rather than guessed
// at.
func decodeRecordLine(ctx *parserContext, line string) (parsedRecord, error) {
	if ctx.origin == "" {
		return parsedRecord{}, ErrNoOrigin
	}

	tokens := strings.Fields(line)

	if len(tokens) < 2 {
		return parsedRecord{}, ErrTooFewTokens
	}

	if allDigits(tokens[0]) {
		if _, known := zone.ParseRRType(tokens[1]); known {
			return parsedRecord{}, ErrAmbiguousLeadingInteger
		}
	}

	name := resolveName(tokens[0], ctx.origin)

	idx := 1
	ttl := ctx.defaultTTL

	if ttl == 0 {
		ttl = zone.DefaultTTL
	}

	// The optional TTL token is recognized by an all-digit lexeme appearing
	// before the type.
	if idx < len(tokens) && allDigits(tokens[idx]) {
		v, err := strconv.ParseUint(tokens[idx], 10, 32)
		if err != nil {
			return parsedRecord{}, ErrTTLNotANumber
		}

		ttl = uint32(v)
		idx++
	}

	// The class token IN is recognized and skipped if present.
	if idx < len(tokens) && strings.EqualFold(tokens[idx], "IN") {
		idx++
	}

	if idx >= len(tokens) {
		return parsedRecord{}, ErrMissingType
	}

	rrType, known := zone.ParseRRType(tokens[idx])
	if !known {
		return parsedRecord{}, ErrUnknownType
	}

	idx++

	if idx >= len(tokens) {
		return parsedRecord{}, ErrMissingContent
	}

	return parsedRecord{
		name:    name,
		rrType:  rrType,
		ttl:     ttl,
		content: strings.Join(tokens[idx:], " "),
	}, nil
}

// resolveName maps '@' to the origin, suffixes bare names with the origin
// and passes absolute names through verbatim.
func resolveName(token, origin string) string {
	switch {
	case token == "@":
		return origin
	case strings.HasSuffix(token, "."):
		return token
	default:
		return token + "." + origin
	}
}

// addRecord groups the record into the zone's RRSet for (name, type). The
// first record of an RRSet fixes the TTL.
func addRecord(z *zone.Zone, rec parsedRecord) {
	if rrset := z.RRSet(rec.name, rec.rrType); rrset != nil {
		rrset.Records = append(rrset.Records, zone.Record{Content: rec.content})
		return
	}

	z.RRSets = append(z.RRSets, zone.RRSet{
		Name:    rec.name,
		Type:    rec.rrType,
		TTL:     rec.ttl,
		Records: []zone.Record{{Content: rec.content}},
	})
}

// allDigits reports whether s is a non-empty run of ASCII digits.
func allDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
