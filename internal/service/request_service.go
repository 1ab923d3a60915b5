package service

import (
	"errors"
	"fmt"
	"time"

	"go-depot-api/internal/model"
	"go-depot-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ValidateAction string

const (
	ActionApprove ValidateAction = "approve"
	ActionReject  ValidateAction = "reject"
)

// CreateRequestInput carries everything a chef de chantier supplies when
// raising a demande.
type CreateRequestInput struct {
	RequesterID   string
	RequesterName string
	SiteID        uuid.UUID
	Priority      model.RequestPriority
	DesiredDate   *time.Time
	Comment       string
	Items         []CreateRequestItem
}

type CreateRequestItem struct {
	MaterialID uuid.UUID `json:"material_id"`
	Quantity   int       `json:"quantity"`
}

// Grant is the per-item quantity a magazinier authorizes at approval.
// Client-supplied grants are never trusted: the engine re-validates
// every one against requested quantity and live stock.
type Grant struct {
	ItemID  uuid.UUID `json:"item_id"`
	Granted int       `json:"granted"`
}

// RequestService owns the demande state machine:
//
//	en_attente -> approuvee -> en_preparation -> livree
//	en_attente -> rejetee
//	any non-livree state -> archivee (soft delete with audit record)
type RequestService interface {
	Create(in CreateRequestInput) (*model.MaterialRequest, error)
	Validate(id uuid.UUID, action ValidateAction, validatorID, comment string, grants []Grant) (*model.MaterialRequest, error)
	GenerateDeliveryNote(id uuid.UUID, actor, comment string) (*model.DeliveryNote, error)
	MarkDelivered(id uuid.UUID, actor string) (*model.MaterialRequest, error)
	Delete(id uuid.UUID, actor, motif string) error
	GetByID(id uuid.UUID) (*model.MaterialRequest, error)
	GetAll(filter repository.RequestFilter) ([]model.MaterialRequest, error)
}

type requestService struct {
	requestRepo  repository.RequestRepository
	materialRepo repository.MaterialRepository
	siteRepo     repository.SiteRepository
	seqRepo      repository.SequenceRepository
	issuer       NoteIssuer
	ledger       Ledger
	notifier     Notifier
	logger       *zap.Logger
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	materialRepo repository.MaterialRepository,
	siteRepo repository.SiteRepository,
	seqRepo repository.SequenceRepository,
	issuer NoteIssuer,
	ledger Ledger,
	notifier Notifier,
	logger *zap.Logger,
) RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &requestService{
		requestRepo:  requestRepo,
		materialRepo: materialRepo,
		siteRepo:     siteRepo,
		seqRepo:      seqRepo,
		issuer:       issuer,
		ledger:       ledger,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *requestService) Create(in CreateRequestInput) (*model.MaterialRequest, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyRequest
	}
	if in.Priority == "" {
		in.Priority = model.PriorityNormale
	}
	if !in.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if _, err := s.siteRepo.FindByID(in.SiteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}

	items := make([]model.RequestItem, 0, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		material, err := s.materialRepo.FindByID(line.MaterialID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMaterialNotFound
			}
			return nil, err
		}
		if !material.IsActive {
			return nil, ErrMaterialInactive
		}
		item := model.RequestItem{
			MaterialID:        material.ID,
			Unit:              material.Unit,
			RequestedQuantity: line.Quantity,
			GrantedQuantity:   0,
			StockAtRequest:    material.CurrentStock,
		}
		item.CreatedBy = in.RequesterID
		item.UpdatedBy = in.RequesterID
		items = append(items, item)
	}

	year := time.Now().Year()
	seq, err := s.seqRepo.Next(fmt.Sprintf("demande:%d", year))
	if err != nil {
		return nil, err
	}

	request := &model.MaterialRequest{
		Number:        formatSequenceNumber("DEM", year, seq),
		Status:        model.StatusEnAttente,
		Priority:      in.Priority,
		RequesterID:   in.RequesterID,
		RequesterName: in.RequesterName,
		SiteID:        in.SiteID,
		DesiredDate:   in.DesiredDate,
		Comment:       in.Comment,
		Items:         items,
	}
	request.CreatedBy = in.RequesterID
	request.UpdatedBy = in.RequesterID

	if err := s.requestRepo.Create(request); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Publish(EventRequestCreated, map[string]interface{}{
			"request_id": request.ID,
			"number":     request.Number,
			"requester":  in.RequesterName,
			"priority":   request.Priority,
			"items":      len(request.Items),
		})
	}

	return request, nil
}

func (s *requestService) Validate(id uuid.UUID, action ValidateAction, validatorID, comment string, grants []Grant) (*model.MaterialRequest, error) {
	request, err := s.loadRequest(id)
	if err != nil {
		return nil, err
	}

	var target model.RequestStatus
	switch action {
	case ActionApprove:
		if !request.Status.CanTransitionTo(model.StatusApprouvee) {
			return nil, ErrInvalidTransition
		}
		if err := s.applyGrants(request, grants); err != nil {
			return nil, err
		}
		target = model.StatusApprouvee
	case ActionReject:
		if !request.Status.CanTransitionTo(model.StatusRejetee) {
			return nil, ErrInvalidTransition
		}
		if comment == "" {
			return nil, ErrCommentRequired
		}
		for i := range request.Items {
			request.Items[i].GrantedQuantity = 0
		}
		target = model.StatusRejetee
	default:
		return nil, ErrInvalidTransition
	}

	// Claim the transition with a compare-and-set on the status column:
	// a concurrent validate or archive on the same demande loses here
	// instead of overwriting the winner.
	now := time.Now()
	claimed, err := s.requestRepo.UpdateStatusIf(request.ID, request.Status, target, map[string]interface{}{
		"keeper_comment": comment,
		"validator_id":   validatorID,
		"validated_at":   &now,
		"updated_by":     validatorID,
	})
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrConcurrentModification
	}
	if err := s.requestRepo.SaveItems(request.Items); err != nil {
		return nil, err
	}

	request.Status = target
	request.KeeperComment = comment
	request.ValidatorID = validatorID
	request.ValidatedAt = &now
	request.UpdatedBy = validatorID

	if s.notifier != nil {
		s.notifier.Publish(EventRequestValidated, map[string]interface{}{
			"request_id": request.ID,
			"number":     request.Number,
			"status":     request.Status,
			"validator":  validatorID,
		})
	}

	return request, nil
}

// applyGrants re-validates every grant server-side and writes them to
// the items. All-or-nothing: one bad item refuses the whole approval,
// nothing is mutated on failure. Quantities may still be partially
// granted per item within a successful approval.
func (s *requestService) applyGrants(request *model.MaterialRequest, grants []Grant) error {
	byItem := make(map[uuid.UUID]int, len(grants))
	for _, g := range grants {
		byItem[g.ItemID] = g.Granted
	}

	granted := make([]int, len(request.Items))
	for i := range request.Items {
		item := &request.Items[i]
		qty, ok := byItem[item.ID]
		if !ok {
			qty = 0
		}
		if qty < 0 || qty > item.RequestedQuantity {
			return ErrInvalidGrant
		}
		material, err := s.materialRepo.FindByID(item.MaterialID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMaterialNotFound
			}
			return err
		}
		if qty > material.CurrentStock {
			return ErrInvalidGrant
		}
		granted[i] = qty
	}

	for i := range request.Items {
		request.Items[i].GrantedQuantity = granted[i]
	}
	return nil
}

func (s *requestService) GenerateDeliveryNote(id uuid.UUID, actor, comment string) (*model.DeliveryNote, error) {
	request, err := s.loadRequest(id)
	if err != nil {
		return nil, err
	}
	if !request.Status.CanTransitionTo(model.StatusEnPreparation) {
		return nil, ErrInvalidTransition
	}

	lines := make([]IssueLine, 0, len(request.Items))
	for i := range request.Items {
		item := &request.Items[i]
		if item.GrantedQuantity <= 0 {
			continue
		}
		material := item.Material
		if material == nil {
			material, err = s.materialRepo.FindByID(item.MaterialID)
			if err != nil {
				return nil, ErrMaterialNotFound
			}
		}
		lines = append(lines, IssueLine{Material: material, Quantity: item.GrantedQuantity})
	}
	if len(lines) == 0 {
		// Approved with every grant at zero: there is nothing to hand
		// over, so no note can be issued.
		return nil, ErrEmptyRequest
	}

	recipient := model.Recipient{
		UserID: &request.RequesterID,
		Name:   request.RequesterName,
	}
	if request.Site != nil {
		recipient.Site = request.Site.Name
		recipient.Address = request.Site.Address
		recipient.Phone = request.Site.Phone
	}

	// Claim approuvee -> en_preparation before any stock moves. Two
	// concurrent calls on the same demande both read approuvee, but only
	// one compare-and-set wins; the loser never reaches the ledger, so a
	// grant can never be fulfilled twice.
	claimed, err := s.requestRepo.UpdateStatusIf(request.ID, model.StatusApprouvee, model.StatusEnPreparation,
		map[string]interface{}{"updated_by": actor})
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrConcurrentModification
	}

	// The issuer performs the per-line sortie commits. On any line
	// failure it has already reversed the earlier commits.
	note, err := s.issuer.Issue(IssueInput{
		Lines:     lines,
		Recipient: recipient,
		RequestID: &request.ID,
		Motif:     request.Number,
		Actor:     actor,
		Comment:   comment,
	})
	if err != nil {
		// Release the claim so the demande returns to approuvee and the
		// issuance can be retried once stock allows.
		if _, revertErr := s.requestRepo.UpdateStatusIf(request.ID, model.StatusEnPreparation, model.StatusApprouvee,
			map[string]interface{}{"updated_by": actor}); revertErr != nil {
			s.logger.Error("failed to release request after issuance failure",
				zap.String("request", request.Number),
				zap.Error(revertErr))
		}
		return nil, err
	}

	request.Status = model.StatusEnPreparation
	request.UpdatedBy = actor
	return note, nil
}

func (s *requestService) MarkDelivered(id uuid.UUID, actor string) (*model.MaterialRequest, error) {
	request, err := s.loadRequest(id)
	if err != nil {
		return nil, err
	}
	if !request.Status.CanTransitionTo(model.StatusLivree) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	claimed, err := s.requestRepo.UpdateStatusIf(request.ID, model.StatusEnPreparation, model.StatusLivree, map[string]interface{}{
		"delivered_at": &now,
		"updated_by":   actor,
	})
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrConcurrentModification
	}

	request.Status = model.StatusLivree
	request.DeliveredAt = &now
	request.UpdatedBy = actor
	return request, nil
}

func (s *requestService) Delete(id uuid.UUID, actor, motif string) error {
	if motif == "" {
		return ErrMotifRequired
	}
	request, err := s.loadRequest(id)
	if err != nil {
		return err
	}
	if !request.Status.CanTransitionTo(model.StatusArchivee) {
		return ErrInvalidTransition
	}

	// Claim the archive transition first: if a concurrent writer moved
	// the demande meanwhile, no audit trace must be written for it.
	claimed, err := s.requestRepo.UpdateStatusIf(request.ID, request.Status, model.StatusArchivee, map[string]interface{}{
		"archive_motif": motif,
		"updated_by":    actor,
		"deleted_by":    actor,
	})
	if err != nil {
		return err
	}
	if !claimed {
		return ErrConcurrentModification
	}

	// Archive the request's content into the ledger as it leaves
	// circulation: one zero-quantity adjustment per material, so the
	// audit trail survives without touching any stock.
	for i := range request.Items {
		item := &request.Items[i]
		description := fmt.Sprintf(
			"archivage demande %s (statut %s): materiel %s, demande %d, accorde %d; motif: %s",
			request.Number, request.Status, item.MaterialID, item.RequestedQuantity, item.GrantedQuantity, motif,
		)
		if _, err := s.ledger.Commit(CommitInput{
			MaterialID:  item.MaterialID,
			Type:        model.MovementAjustement,
			Quantity:    0,
			Actor:       actor,
			Motif:       motif,
			Description: description,
			RequestID:   &request.ID,
		}); err != nil {
			return err
		}
	}

	return nil
}

func (s *requestService) GetByID(id uuid.UUID) (*model.MaterialRequest, error) {
	return s.loadRequest(id)
}

func (s *requestService) GetAll(filter repository.RequestFilter) ([]model.MaterialRequest, error) {
	return s.requestRepo.FindAll(filter)
}

func (s *requestService) loadRequest(id uuid.UUID) (*model.MaterialRequest, error) {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}
