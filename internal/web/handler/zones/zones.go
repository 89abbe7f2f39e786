// Package zones provides the JSON API handlers for zone CRUD and the
// RRSet patch protocol.
package zones

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/zonekeeper/zonekeeper/internal/config"
	"github.com/zonekeeper/zonekeeper/internal/store"
	"github.com/zonekeeper/zonekeeper/internal/web/handler"
	"github.com/zonekeeper/zonekeeper/internal/zone"
)

// Path is the zone collection route.
const Path = handler.APIPath + "/zones"

// Service is the zones handler service.
type Service struct {
	cfg       *config.Config
	store     *store.Store
	validator *validator.Validate
}

// Handler is the zones handler.
var Handler = Service{}

// Init initializes the zones handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, zoneStore *store.Store) {
	if app == nil || cfg == nil || zoneStore == nil {
		log.Fatal().Msg(handler.ErrNilACSFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.store = zoneStore
	s.validator = validator.New()

	app.Get(Path, s.List)
	app.Post(Path, s.Create)
	app.Get(Path+"/:name", s.Get)
	app.Patch(Path+"/:name", s.Update)
	app.Delete(Path+"/:name", s.Delete)
	app.Get(Path+"/:name/dnssec", s.DNSSEC)
}

// CreateRequest is the body for creating a zone.
type CreateRequest struct {
	Name        string   `json:"name"        validate:"required,fqdn|endswith=."`
	Kind        string   `json:"kind"        validate:"omitempty,oneof=Native Master Slave"`
	Nameservers []string `json:"nameservers" validate:"omitempty,dive,min=1"`
}

// UpdateRequest is the body for the partial-update (patch) protocol.
type UpdateRequest struct {
	RRSets      []zone.Change `json:"rrsets"      validate:"required,min=1,dive"`
	Nameservers []string      `json:"nameservers" validate:"omitempty,dive,min=1"`
}

// List returns the names of all stored zones.
func (s *Service) List(c *fiber.Ctx) error {
	names, err := s.store.ListZones(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list zones")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to list zones",
		})
	}

	return c.JSON(fiber.Map{"success": true, "zones": names})
}

// Create handles zone creation.
func (s *Service) Create(c *fiber.Ctx) error {
	var request CreateRequest
	if err := c.BodyParser(&request); err != nil {
		log.Error().Err(err).Msg("failed to parse create zone request")

		return badRequest(c, "Invalid request data")
	}

	if err := s.validator.Struct(&request); err != nil {
		return badRequest(c, validationMessage(err))
	}

	kind := zone.Kind(request.Kind)
	if kind == "" {
		kind = zone.KindNative
	}

	z, err := s.store.CreateZone(c.Context(), request.Name, kind, request.Nameservers)

	switch {
	case errors.Is(err, store.ErrZoneAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Zone already exists: " + zone.Canonical(request.Name),
		})

	case err != nil:
		log.Error().Err(err).Str("zone_name", request.Name).Msg("failed to create zone")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create zone: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "zone": z})
}

// Get returns one zone.
func (s *Service) Get(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return badRequest(c, "Zone name is required")
	}

	z, err := s.store.GetZone(c.Context(), name)

	switch {
	case errors.Is(err, store.ErrZoneNotFound):
		return notFound(c, name)

	case err != nil:
		log.Error().Err(err).Str("zone_name", name).Msg("failed to fetch zone")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch zone: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true, "zone": z})
}

// Update applies REPLACE/DELETE changes to the zone and optionally rewrites
// its nameserver list.
func (s *Service) Update(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return badRequest(c, "Zone name is required")
	}

	var request UpdateRequest
	if err := c.BodyParser(&request); err != nil {
		log.Error().Err(err).Msg("failed to parse zone update request")

		return badRequest(c, "Invalid request data")
	}

	if err := s.validator.Struct(&request); err != nil {
		return badRequest(c, validationMessage(err))
	}

	for i := range request.RRSets {
		change := &request.RRSets[i]

		if change.ChangeType != zone.ChangeTypeReplace && change.ChangeType != zone.ChangeTypeDelete {
			return badRequest(c, "Changetype must be REPLACE or DELETE")
		}

		// Keep the canonical upper-case type: a lowercase spelling must hit
		// the same (name, type) RRSet as its upper-case twin.
		rrType, known := zone.ParseRRType(string(change.Type))
		if !known {
			return badRequest(c, "Unknown record type: "+string(change.Type))
		}

		change.Type = rrType

		for j := range change.Records {
			change.Records[j].Content = zone.EnsureQuotedContent(change.Type, change.Records[j].Content)
		}
	}

	z, err := s.store.UpdateZone(c.Context(), name, request.RRSets, request.Nameservers)

	switch {
	case errors.Is(err, store.ErrZoneNotFound):
		return notFound(c, name)

	case err != nil:
		log.Error().Err(err).Str("zone_name", name).Msg("failed to update zone")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update zone: " + err.Error(),
		})
	}

	log.Info().
		Str("zone_name", z.Name).
		Int("change_count", len(request.RRSets)).
		Msg("Zone records updated successfully")

	return c.JSON(fiber.Map{"success": true, "zone": z})
}

// Delete removes the zone.
func (s *Service) Delete(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return badRequest(c, "Zone name is required")
	}

	err := s.store.DeleteZone(c.Context(), name)

	switch {
	case errors.Is(err, store.ErrZoneNotFound):
		return notFound(c, name)

	case err != nil:
		log.Error().Err(err).Str("zone_name", name).Msg("failed to delete zone")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete zone: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Zone deleted successfully"})
}

// DNSSEC returns the placeholder DS record shown on the delegation panel.
func (s *Service) DNSSEC(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return badRequest(c, "Zone name is required")
	}

	z, err := s.store.GetZone(c.Context(), name)

	switch {
	case errors.Is(err, store.ErrZoneNotFound):
		return notFound(c, name)

	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch zone: " + err.Error(),
		})
	}

	if !z.DNSSEC {
		return c.JSON(fiber.Map{"success": true, "enabled": false})
	}

	ds := zone.PlaceholderDS(z.Name)

	return c.JSON(fiber.Map{
		"success": true,
		"enabled": true,
		"ds":      ds,
		"display": ds.String(),
	})
}

// badRequest renders a 400 JSON failure.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// notFound renders a 404 JSON failure.
func notFound(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "Zone not found: " + zone.Canonical(name),
	})
}

// validationMessage flattens validator errors into one message line.
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Invalid request data"
	}

	message := "Validation failed:"
	for _, ve := range validationErrors {
		message += " field '" + ve.Field() + "' failed tag '" + ve.Tag() + "';"
	}

	return message
}
