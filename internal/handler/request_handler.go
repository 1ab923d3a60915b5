package handler

import (
	"time"

	"go-depot-api/internal/model"
	"go-depot-api/internal/repository"
	"go-depot-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RequestHandler struct {
	service service.RequestService
}

func NewRequestHandler(s service.RequestService) *RequestHandler {
	return &RequestHandler{service: s}
}

type createRequestPayload struct {
	SiteID      string                      `json:"site_id"`
	Priority    string                      `json:"priority"`
	DesiredDate string                      `json:"desired_date"`
	Comment     string                      `json:"comment"`
	Items       []service.CreateRequestItem `json:"items"`
}

func (h *RequestHandler) CreateRequest(c *fiber.Ctx) error {
	var payload createRequestPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	siteID, err := parseUUID(payload.SiteID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid site ID"})
	}

	in := service.CreateRequestInput{
		RequesterID:   getUserID(c),
		RequesterName: getUserName(c),
		SiteID:        siteID,
		Priority:      model.RequestPriority(payload.Priority),
		Comment:       payload.Comment,
		Items:         payload.Items,
	}
	if payload.DesiredDate != "" {
		desired, err := time.Parse("2006-01-02", payload.DesiredDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid desired_date format. Use YYYY-MM-DD"})
		}
		in.DesiredDate = &desired
	}

	request, err := h.service.Create(in)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Request created", "data": request})
}

// GetRequests lists demandes. Chefs de chantier only ever see their own;
// everyone else can filter by status and site.
func (h *RequestHandler) GetRequests(c *fiber.Ctx) error {
	filter := repository.RequestFilter{
		Status: model.RequestStatus(c.Query("status")),
	}

	if role, ok := c.Locals("user_role").(string); ok && role == model.RoleChefChantier {
		filter.RequesterID = getUserID(c)
	}

	if siteParam := c.Query("site_id"); siteParam != "" {
		siteID, err := parseUUID(siteParam)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid site ID"})
		}
		filter.SiteID = &siteID
	}

	requests, err := h.service.GetAll(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(requests)
}

func (h *RequestHandler) GetRequest(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	request, err := h.service.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(request)
}

type validateRequestPayload struct {
	Action  string          `json:"action"`
	Comment string          `json:"comment"`
	Grants  []service.Grant `json:"grants"`
}

// ValidateRequest approves or rejects a pending demande. Approval
// carries the granted quantities, rejection requires a comment.
func (h *RequestHandler) ValidateRequest(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var payload validateRequestPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	action := service.ValidateAction(payload.Action)
	if action != service.ActionApprove && action != service.ActionReject {
		return c.Status(400).JSON(fiber.Map{"error": "Action must be 'approve' or 'reject'"})
	}

	request, err := h.service.Validate(id, action, getUserID(c), payload.Comment, payload.Grants)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Request " + string(request.Status), "data": request})
}

func (h *RequestHandler) GenerateDeliveryNote(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var payload struct {
		Comment string `json:"comment"`
	}
	// Body is optional here
	_ = c.BodyParser(&payload)

	note, err := h.service.GenerateDeliveryNote(id, getUserID(c), payload.Comment)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Delivery note issued", "data": note})
}

func (h *RequestHandler) MarkDelivered(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	request, err := h.service.MarkDelivered(id, getUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Request delivered", "data": request})
}

func (h *RequestHandler) DeleteRequest(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var payload struct {
		Motif string `json:"motif"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Delete(id, getUserID(c), payload.Motif); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Request archived"})
}
