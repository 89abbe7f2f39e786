// Package codec defines the shared surface of the zone import/export
// codecs: the format enumeration, decode/encode options and the soft
// per-line parse error shape.
package codec

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Format identifies one of the supported zone file formats.
type Format string

const (
	// FormatBind is the line-oriented BIND zone file format.
	FormatBind Format = "bind"

	// FormatJSON is the canonical JSON zone representation.
	FormatJSON Format = "json"

	// FormatCSV is the flattened per-record CSV representation.
	FormatCSV Format = "csv"
)

// ErrUnknownFormat is returned for format tokens outside the enumeration.
var ErrUnknownFormat = errors.New("unknown zone file format")

// ParseFormat maps a token to a Format, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatBind:
		return FormatBind, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}

	return "", errors.Wrap(ErrUnknownFormat, s)
}

// MIMEType returns the Content-Type used when exporting this format.
func (f Format) MIMEType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	default:
		return "text/plain"
	}
}

// Extension returns the export filename extension for this format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	default:
		return ".zone"
	}
}

// ExportFilename builds the download filename for a zone export.
func ExportFilename(zoneName string, f Format) string {
	return strings.TrimSuffix(zoneName, ".") + f.Extension()
}

// DecodeOptions control codec decoding behaviour.
type DecodeOptions struct {
	// Strict aborts the whole decode on the first malformed line instead of
	// skipping it.
	Strict bool
}

// EncodeOptions control codec encoding behaviour.
type EncodeOptions struct {
	// IncludeSOANS emits SOA and NS RRSets. When false both are filtered out.
	IncludeSOANS bool

	// IncludeDisabled keeps disabled records in the output. Disabled records
	// are never emitted as live records: the BIND encoder comments them out,
	// the other codecs carry the disabled flag or drop the record.
	IncludeDisabled bool

	// HeaderComment is an optional free-text block placed above BIND output.
	HeaderComment string
}

// ParseError is a soft, recoverable decode failure tied to one input line.
type ParseError struct {
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s (%q)", e.Line, e.Message, e.Text)
}
