// Package importing provides the JSON API handlers for the two-step zone
// import flow: preview first, then an explicit commit.
package importing

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/zonekeeper/zonekeeper/internal/codec"
	"github.com/zonekeeper/zonekeeper/internal/config"
	"github.com/zonekeeper/zonekeeper/internal/importer"
	"github.com/zonekeeper/zonekeeper/internal/store"
	"github.com/zonekeeper/zonekeeper/internal/web/handler"
)

const (
	// PreviewPath decodes and validates an upload without persisting anything.
	PreviewPath = handler.APIPath + "/import/preview"

	// CommitPath applies a previously previewed upload to the store.
	CommitPath = handler.APIPath + "/import/commit"
)

// Service is the import handler service.
type Service struct {
	cfg       *config.Config
	store     *store.Store
	validator *validator.Validate
}

// Handler is the import handler.
var Handler = Service{}

// Init initializes the import handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, zoneStore *store.Store) {
	if app == nil || cfg == nil || zoneStore == nil {
		log.Fatal().Msg(handler.ErrNilACSFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.store = zoneStore
	s.validator = validator.New()

	app.Post(PreviewPath, s.Preview)
	app.Post(CommitPath, s.Commit)
}

// Request is the body shared by preview and commit. Format and mode are
// optional on preview; commit requires a mode. Nothing is persisted until
// the commit call: the client re-sends the content it previewed.
type Request struct {
	Content string `json:"content" validate:"required"`
	Format  string `json:"format"  validate:"omitempty,oneof=bind json csv"`
	Mode    string `json:"mode"    validate:"omitempty,oneof=skip overwrite merge"`
	Strict  *bool  `json:"strict"`
}

// Preview decodes and validates the upload and reports per-zone error and
// warning counts.
func (s *Service) Preview(c *fiber.Ctx) error {
	_, result, ok := s.decode(c)
	if !ok {
		return nil
	}

	return c.JSON(fiber.Map{"success": true, "preview": result})
}

// Commit re-decodes the upload and applies it zone by zone with the
// requested conflict mode.
func (s *Service) Commit(c *fiber.Ctx) error {
	request, result, ok := s.decode(c)
	if !ok {
		return nil
	}

	mode := importer.ConflictSkip

	if request.Mode != "" {
		var err error
		if mode, err = importer.ParseConflictMode(request.Mode); err != nil {
			return badRequest(c, "Unknown conflict mode: "+request.Mode)
		}
	}

	// Commit can span many zones and honours cancellation between them; the
	// user context carries the request context (see web.New).
	outcomes, err := importer.Commit(c.UserContext(), s.store, result, mode)
	if err != nil {
		log.Warn().Err(err).Msg("import commit cancelled")

		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success":  false,
			"message":  "Import cancelled",
			"outcomes": outcomes,
		})
	}

	log.Info().
		Str("mode", string(mode)).
		Int("zone_count", len(result.Zones)).
		Msg("import committed")

	return c.JSON(fiber.Map{"success": true, "outcomes": outcomes, "preview": result})
}

// decode parses the request body and runs the import preview; on failure a
// response has already been written and ok is false.
func (s *Service) decode(c *fiber.Ctx) (*Request, *importer.Result, bool) {
	var request Request
	if err := c.BodyParser(&request); err != nil {
		log.Error().Err(err).Msg("failed to parse import request")

		_ = badRequest(c, "Invalid request data")

		return nil, nil, false
	}

	if err := s.validator.Struct(&request); err != nil {
		_ = badRequest(c, "Invalid request data")

		return nil, nil, false
	}

	strict := s.cfg.Import.Strict
	if request.Strict != nil {
		strict = *request.Strict
	}

	result, err := importer.Import(request.Content, codec.Format(request.Format), codec.DecodeOptions{Strict: strict})
	if err != nil {
		log.Warn().Err(err).Msg("import payload could not be decoded")

		_ = c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Failed to decode import: " + err.Error(),
		})

		return nil, nil, false
	}

	return &request, result, true
}

// badRequest renders a 400 JSON failure.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
