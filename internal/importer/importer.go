// Package importer orchestrates multi-format zone imports: format
// detection, decoding, validation previews and the conflict-resolving
// commit against the zone store.
package importer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/zonekeeper/zonekeeper/internal/codec"
	"github.com/zonekeeper/zonekeeper/internal/codec/bindfile"
	"github.com/zonekeeper/zonekeeper/internal/codec/zonecsv"
	"github.com/zonekeeper/zonekeeper/internal/codec/zonejson"
	"github.com/zonekeeper/zonekeeper/internal/store"
	"github.com/zonekeeper/zonekeeper/internal/zone"
)

// ConflictMode selects what happens when an imported zone already exists.
type ConflictMode string

const (
	// ConflictSkip leaves the existing zone untouched.
	ConflictSkip ConflictMode = "skip"

	// ConflictOverwrite deletes the existing zone and recreates it.
	ConflictOverwrite ConflictMode = "overwrite"

	// ConflictMerge applies the imported RRSets as a REPLACE patch against
	// the existing zone.
	ConflictMerge ConflictMode = "merge"
)

// ErrUnknownConflictMode is returned for mode tokens outside the enumeration.
var ErrUnknownConflictMode = errors.New("unknown conflict mode")

// ParseConflictMode maps a token to a ConflictMode, case-insensitively.
func ParseConflictMode(s string) (ConflictMode, error) {
	switch ConflictMode(strings.ToLower(strings.TrimSpace(s))) {
	case ConflictSkip:
		return ConflictSkip, nil
	case ConflictOverwrite:
		return ConflictOverwrite, nil
	case ConflictMerge:
		return ConflictMerge, nil
	}

	return "", errors.Wrap(ErrUnknownConflictMode, s)
}

// Report is the per-zone validation preview.
type Report struct {
	Zone        string       `json:"zone"`
	RecordCount int          `json:"record_count"`
	Errors      []zone.Issue `json:"errors"`
	Warnings    []zone.Issue `json:"warnings"`
}

// Result is the outcome of decoding and validating an import payload.
// Nothing is persisted at this stage: the caller shows a preview and
// commits explicitly.
type Result struct {
	Format      codec.Format       `json:"format"`
	Zones       []zone.Zone        `json:"zones"`
	Reports     []Report           `json:"reports"`
	ParseErrors []codec.ParseError `json:"parse_errors"`
	HasErrors   bool               `json:"has_errors"`
}

// DetectFormat guesses the payload format: content that parses as JSON wins,
// else a first line that is comma-separated and mentions both "zone" and
// "type" (case-insensitive) is taken as CSV, else BIND.
func DetectFormat(content string) codec.Format {
	if json.Valid([]byte(strings.TrimSpace(content))) {
		return codec.FormatJSON
	}

	firstLine := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		firstLine = content[:i]
	}

	lower := strings.ToLower(firstLine)
	if strings.Contains(lower, ",") && strings.Contains(lower, "zone") && strings.Contains(lower, "type") {
		return codec.FormatCSV
	}

	return codec.FormatBind
}

// Import decodes the payload with the matching codec and validates every
// decoded zone. A completely unparsable payload (invalid JSON, or any parse
// error in strict mode) is a hard failure with no partial zones.
func Import(content string, format codec.Format, opts codec.DecodeOptions) (*Result, error) {
	if format == "" {
		format = DetectFormat(content)
	}

	result := &Result{Format: format}

	var err error

	switch format {
	case codec.FormatJSON:
		result.Zones, err = zonejson.Decode(content)
	case codec.FormatCSV:
		result.Zones, result.ParseErrors, err = zonecsv.Decode(content, opts)
	case codec.FormatBind:
		result.Zones, result.ParseErrors, err = bindfile.Decode(content, opts)
	default:
		return nil, errors.Wrap(codec.ErrUnknownFormat, string(format))
	}

	if err != nil {
		return nil, err
	}

	for i := range result.Zones {
		z := &result.Zones[i]
		validation := zone.ValidateZone(z)

		result.Reports = append(result.Reports, Report{
			Zone:        z.Name,
			RecordCount: z.RecordCount(),
			Errors:      validation.Errors,
			Warnings:    validation.Warnings,
		})

		if validation.HasErrors() {
			result.HasErrors = true
		}
	}

	log.Info().
		Str("format", string(format)).
		Int("zone_count", len(result.Zones)).
		Int("parse_error_count", len(result.ParseErrors)).
		Bool("has_errors", result.HasErrors).
		Msg("import preview assembled")

	return result, nil
}

// ZoneOutcome records what the commit did with one zone.
type ZoneOutcome struct {
	Zone    string `json:"zone"`
	Status  string `json:"status"` // created, overwritten, merged, skipped, failed
	Message string `json:"message,omitempty"`
}

// Commit applies a previewed import against the store, zone by zone.
// Zones whose validation reported a hard error are never committed, even
// under overwrite or merge; warnings do not block. The commit is sequential
// and non-transactional: a failure on one zone does not roll back earlier
// ones, it is reported in the outcome list. The context is checked between
// zones for cooperative cancellation, never mid-zone.
func Commit(ctx context.Context, s *store.Store, result *Result, mode ConflictMode) ([]ZoneOutcome, error) {
	outcomes := make([]ZoneOutcome, 0, len(result.Zones))

	for i := range result.Zones {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		z := result.Zones[i]
		outcomes = append(outcomes, commitZone(ctx, s, z, result.Reports[i], mode))
	}

	return outcomes, nil
}

func commitZone(ctx context.Context, s *store.Store, z zone.Zone, report Report, mode ConflictMode) ZoneOutcome {
	if len(report.Errors) > 0 {
		zonesFailed.Inc()

		return ZoneOutcome{Zone: z.Name, Status: "failed", Message: "zone has validation errors"}
	}

	_, err := s.GetZone(ctx, z.Name)

	switch {
	case errors.Is(err, store.ErrZoneNotFound):
		if _, err := s.CreateFromZone(ctx, z); err != nil {
			zonesFailed.Inc()

			return ZoneOutcome{Zone: z.Name, Status: "failed", Message: err.Error()}
		}

		zonesImported.Inc()

		return ZoneOutcome{Zone: z.Name, Status: "created"}

	case err != nil:
		zonesFailed.Inc()

		return ZoneOutcome{Zone: z.Name, Status: "failed", Message: err.Error()}
	}

	switch mode {
	case ConflictSkip:
		zonesSkipped.Inc()

		return ZoneOutcome{Zone: z.Name, Status: "skipped", Message: "zone already exists"}

	case ConflictOverwrite:
		if err := s.DeleteZone(ctx, z.Name); err != nil {
			zonesFailed.Inc()

			return ZoneOutcome{Zone: z.Name, Status: "failed", Message: err.Error()}
		}

		if _, err := s.CreateFromZone(ctx, z); err != nil {
			zonesFailed.Inc()

			return ZoneOutcome{Zone: z.Name, Status: "failed", Message: err.Error()}
		}

		zonesImported.Inc()

		return ZoneOutcome{Zone: z.Name, Status: "overwritten"}

	case ConflictMerge:
		changes := make([]zone.Change, 0, len(z.RRSets))
		for _, rrset := range z.RRSets {
			changes = append(changes, zone.Change{
				Name:       rrset.Name,
				Type:       rrset.Type,
				ChangeType: zone.ChangeTypeReplace,
				TTL:        rrset.TTL,
				Records:    rrset.Records,
				Comment:    rrset.Comment,
			})
		}

		if _, err := s.UpdateZone(ctx, z.Name, changes, nil); err != nil {
			zonesFailed.Inc()

			return ZoneOutcome{Zone: z.Name, Status: "failed", Message: err.Error()}
		}

		zonesImported.Inc()

		return ZoneOutcome{Zone: z.Name, Status: "merged"}
	}

	zonesFailed.Inc()

	return ZoneOutcome{Zone: z.Name, Status: "failed", Message: ErrUnknownConflictMode.Error()}
}
