package handler

import (
	"go-depot-api/internal/model"
	"go-depot-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DistributionHandler struct {
	service service.DistributionService
}

func NewDistributionHandler(s service.DistributionService) *DistributionHandler {
	return &DistributionHandler{service: s}
}

type distributionLine struct {
	MaterialID string `json:"material_id"`
	Quantity   int    `json:"quantity"`
}

type distributionPayload struct {
	Lines     []distributionLine `json:"lines"`
	Recipient model.Recipient    `json:"recipient"`
	Comment   string             `json:"comment"`
}

// Submit issues a delivery note directly, without a prior demande.
func (h *DistributionHandler) Submit(c *fiber.Ctx) error {
	var payload distributionPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	lines := make([]model.CartLine, 0, len(payload.Lines))
	for _, l := range payload.Lines {
		materialID, err := uuid.Parse(l.MaterialID)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
		}
		lines = append(lines, model.CartLine{MaterialID: materialID, Quantity: l.Quantity})
	}

	note, err := h.service.Submit(service.SubmitInput{
		Lines:     lines,
		Recipient: payload.Recipient,
		Actor:     getUserID(c),
		Comment:   payload.Comment,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Delivery note issued", "data": note})
}
