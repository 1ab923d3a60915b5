package handler

import (
	"go-depot-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SiteHandler struct {
	siteService service.SiteService
}

func NewSiteHandler(siteService service.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

// GetSites returns all registered chantiers
// GET /api/v1/sites
func (h *SiteHandler) GetSites(c *fiber.Ctx) error {
	sites, err := h.siteService.GetAllSites()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch sites"})
	}
	return c.JSON(sites)
}

// GetSite returns a single site by ID
// GET /api/v1/sites/:id
func (h *SiteHandler) GetSite(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid site ID"})
	}

	site, err := h.siteService.GetSiteByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(site)
}

// CreateSite handles site registration
// POST /api/v1/sites
func (h *SiteHandler) CreateSite(c *fiber.Ctx) error {
	var req service.CreateSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	site, err := h.siteService.CreateSite(&req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Site created", "data": site})
}

// UpdateSite handles site update
// PUT /api/v1/sites/:id
func (h *SiteHandler) UpdateSite(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid site ID"})
	}

	var req service.UpdateSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	site, err := h.siteService.UpdateSite(id, &req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Site updated", "data": site})
}

// DeleteSite handles site removal (soft delete)
// DELETE /api/v1/sites/:id
func (h *SiteHandler) DeleteSite(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid site ID"})
	}

	if err := h.siteService.DeleteSite(id, getUserID(c)); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Site deleted"})
}
