// Package exporting provides the JSON API handler for downloading a zone
// in one of the supported file formats.
package exporting

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/zonekeeper/zonekeeper/internal/codec"
	"github.com/zonekeeper/zonekeeper/internal/codec/bindfile"
	"github.com/zonekeeper/zonekeeper/internal/codec/zonecsv"
	"github.com/zonekeeper/zonekeeper/internal/codec/zonejson"
	"github.com/zonekeeper/zonekeeper/internal/config"
	"github.com/zonekeeper/zonekeeper/internal/store"
	"github.com/zonekeeper/zonekeeper/internal/web/handler"
	"github.com/zonekeeper/zonekeeper/internal/zone"
)

// Path is the zone export route.
const Path = handler.APIPath + "/zones/:name/export"

// Service is the export handler service.
type Service struct {
	cfg   *config.Config
	store *store.Store
}

// Handler is the export handler.
var Handler = Service{}

// Init initializes the export handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, zoneStore *store.Store) {
	if app == nil || cfg == nil || zoneStore == nil {
		log.Fatal().Msg(handler.ErrNilACSFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.store = zoneStore

	app.Get(Path, s.Get)
}

// Get renders the zone in the requested format and serves it as a download
// with the matching MIME type.
func (s *Service) Get(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Zone name is required",
		})
	}

	format, err := codec.ParseFormat(c.Query("format", string(codec.FormatBind)))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Unknown export format",
		})
	}

	opts := codec.EncodeOptions{
		IncludeSOANS:    c.QueryBool("soa_ns", true),
		IncludeDisabled: c.QueryBool("disabled", false),
	}

	z, err := s.store.GetZone(c.Context(), name)

	switch {
	case errors.Is(err, store.ErrZoneNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Zone not found: " + zone.Canonical(name),
		})

	case err != nil:
		log.Error().Err(err).Str("zone_name", name).Msg("failed to fetch zone for export")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch zone: " + err.Error(),
		})
	}

	content, err := Render(z, format, opts)
	if err != nil {
		log.Error().Err(err).Str("zone_name", z.Name).Msg("failed to encode zone")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to encode zone: " + err.Error(),
		})
	}

	filename := codec.ExportFilename(z.Name, format)

	c.Set(fiber.HeaderContentType, format.MIMEType())
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	return c.SendString(content)
}

// Render encodes a zone with the format's codec. The BIND header comment
// carries the export timestamp.
func Render(z *zone.Zone, format codec.Format, opts codec.EncodeOptions) (string, error) {
	switch format {
	case codec.FormatJSON:
		return zonejson.Encode(z, opts)
	case codec.FormatCSV:
		return zonecsv.Encode(z, opts), nil
	default:
		if opts.HeaderComment == "" {
			opts.HeaderComment = "Zone " + z.Name + " exported " + time.Now().UTC().Format(time.RFC3339)
		}

		return bindfile.Encode(z, opts), nil
	}
}
