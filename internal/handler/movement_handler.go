package handler

import (
	"go-depot-api/internal/model"
	"go-depot-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MovementHandler struct {
	service service.LedgerService
}

func NewMovementHandler(s service.LedgerService) *MovementHandler {
	return &MovementHandler{service: s}
}

type commitPayload struct {
	MaterialID    string `json:"material_id"`
	Type          string `json:"type"`
	Quantity      int    `json:"quantity"`
	Motif         string `json:"motif"`
	Description   string `json:"description"`
	AllowNegative bool   `json:"allow_negative"`
}

// CommitMovement records a manual stock action: entree for receptions,
// ajustement for corrections, inventaire to restate a counted level.
// Sorties never come through here, they are issued via delivery notes.
func (h *MovementHandler) CommitMovement(c *fiber.Ctx) error {
	var payload commitPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	materialID, err := parseUUID(payload.MaterialID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	typ := model.MovementType(payload.Type)
	if typ == model.MovementSortie {
		return c.Status(400).JSON(fiber.Map{"error": "Sorties are issued through delivery notes"})
	}

	movement, err := h.service.Commit(service.CommitInput{
		MaterialID:    materialID,
		Type:          typ,
		Quantity:      payload.Quantity,
		Actor:         getUserID(c),
		Motif:         payload.Motif,
		Description:   payload.Description,
		AllowNegative: payload.AllowNegative,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Movement recorded", "data": movement})
}

func (h *MovementHandler) GetMovements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)

	movements, err := h.service.GetMovements(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movements)
}

func (h *MovementHandler) GetMaterialMovements(c *fiber.Ctx) error {
	materialID, err := parseUUID(c.Params("materialId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	movements, err := h.service.GetMaterialMovements(materialID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movements)
}
