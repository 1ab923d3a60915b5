package handler

import (
	"go-depot-api/internal/model"
	"go-depot-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MaterialHandler struct {
	service service.CatalogService
}

func NewMaterialHandler(s service.CatalogService) *MaterialHandler {
	return &MaterialHandler{service: s}
}

// GetMaterials lists the catalog. ?active=true restricts to active
// materials, ?low_stock=true to those at or under their minimum.
func (h *MaterialHandler) GetMaterials(c *fiber.Ctx) error {
	var (
		materials []model.Material
		err       error
	)
	switch {
	case c.QueryBool("low_stock"):
		materials, err = h.service.GetLowStockMaterials()
	case c.QueryBool("active"):
		materials, err = h.service.GetActiveMaterials()
	default:
		materials, err = h.service.GetAllMaterials()
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(materials)
}

func (h *MaterialHandler) GetMaterial(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	material, err := h.service.GetMaterialByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(material)
}

func (h *MaterialHandler) GetMaterialByCode(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Material code is required"})
	}

	material, err := h.service.GetMaterialByCode(code)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(material)
}

func (h *MaterialHandler) CreateMaterial(c *fiber.Ctx) error {
	var material model.Material
	if err := c.BodyParser(&material); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateMaterial(&material, getUserID(c)); err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Material created", "data": material})
}

func (h *MaterialHandler) UpdateMaterial(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	var material model.Material
	if err := c.BodyParser(&material); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateMaterial(id, &material, getUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Material updated", "data": updated})
}

func (h *MaterialHandler) DeactivateMaterial(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	updated, err := h.service.DeactivateMaterial(id, getUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Material deactivated", "data": updated})
}
