package bridge

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"schemaport/internal/schema"
)

// Handler exposes the import/export bridge over HTTP.
type Handler struct {
	svc schema.Services
}

func NewHandler(svc schema.Services) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the bridge endpoints behind the given middleware.
func RegisterRoutes(app *fiber.App, h *Handler, middleware ...fiber.Handler) {
	group := app.Group("/api/schema", middleware...)
	group.Post("/import", h.Import)
	group.Post("/export", h.Export)
}

// Import handles POST /api/schema/import. The body is a portable schema
// document; the response is the per-entity notice list.
func (h *Handler) Import(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return NewAppError("INVALID_PAYLOAD", 400, "Request body is empty")
	}

	importer := NewImporter(h.svc)
	result, err := importer.Run(c.Context(), body)
	if err != nil {
		return NewAppError("INVALID_PAYLOAD", 400, fmt.Sprintf("Cannot parse document: %v", err))
	}

	return c.JSON(fiber.Map{"data": result})
}

// Export handles POST /api/schema/export. The body selects entities by
// internal ID; the response is the portable document.
func (h *Handler) Export(c *fiber.Ctx) error {
	var sel Selection
	if err := c.BodyParser(&sel); err != nil {
		return NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body")
	}

	exporter := NewExporter(h.svc)
	output, err := exporter.Export(c.Context(), sel)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	return c.JSON(output)
}
