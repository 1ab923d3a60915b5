package service

import (
	"errors"
	"fmt"

	"go-depot-api/internal/model"
	"go-depot-api/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// CommitInput describes one stock-affecting action. Quantity is the
// outbound/inbound amount for sortie/entree, the signed delta for
// ajustement, and the counted absolute level for inventaire.
type CommitInput struct {
	MaterialID     uuid.UUID
	Type           model.MovementType
	Quantity       int
	Actor          string
	Motif          string
	Description    string
	RequestID      *uuid.UUID
	DeliveryNoteID *uuid.UUID

	// AllowNegative lets an ajustement drive the stock below zero.
	// Off by default.
	AllowNegative bool
}

// Ledger is the single authority over Material.CurrentStock. Every
// mutation is a check-and-commit that appends exactly one movement row.
type Ledger interface {
	Commit(in CommitInput) (*model.StockMovement, error)
}

type LedgerService interface {
	Ledger
	GetMovements(limit int) ([]model.StockMovement, error)
	GetMaterialMovements(materialID uuid.UUID) ([]model.StockMovement, error)
}

type ledgerService struct {
	db           *gorm.DB
	materialRepo repository.MaterialRepository
	movementRepo repository.MovementRepository
	notifier     Notifier
}

func NewLedgerService(db *gorm.DB, materialRepo repository.MaterialRepository, movementRepo repository.MovementRepository, notifier Notifier) LedgerService {
	return &ledgerService{
		db:           db,
		materialRepo: materialRepo,
		movementRepo: movementRepo,
		notifier:     notifier,
	}
}

// movementDelta computes the signed delta a commit applies and validates
// the quantity for the movement type. stockBefore is only consulted for
// inventaire, which restates the absolute level.
func movementDelta(typ model.MovementType, quantity, stockBefore int) (int, error) {
	switch typ {
	case model.MovementEntree:
		if quantity <= 0 {
			return 0, ErrInvalidQuantity
		}
		return quantity, nil
	case model.MovementSortie:
		if quantity <= 0 {
			return 0, ErrInvalidQuantity
		}
		return -quantity, nil
	case model.MovementAjustement:
		// Signed, zero allowed: archival records are zero-quantity
		// adjustments.
		return quantity, nil
	case model.MovementInventaire:
		if quantity < 0 {
			return 0, ErrInvalidQuantity
		}
		return quantity - stockBefore, nil
	}
	return 0, ErrInvalidMovementType
}

// nextStock applies a commit to stockBefore and enforces the
// non-negativity rule.
func nextStock(typ model.MovementType, quantity, stockBefore int, allowNegative bool) (after int, delta int, err error) {
	delta, err = movementDelta(typ, quantity, stockBefore)
	if err != nil {
		return 0, 0, err
	}

	after = stockBefore + delta
	if after < 0 {
		if typ == model.MovementSortie {
			return 0, 0, ErrInsufficientStock
		}
		if !allowNegative {
			return 0, 0, ErrInsufficientStock
		}
	}
	return after, delta, nil
}

func (s *ledgerService) Commit(in CommitInput) (*model.StockMovement, error) {
	var movement *model.StockMovement
	var materialName string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Locked read: concurrent commits on the same material serialize
		// here. The loser of a race sees the updated stock and may then
		// fail the sortie check.
		material, err := s.materialRepo.FindByIDForUpdate(tx, in.MaterialID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMaterialNotFound
			}
			return err
		}
		materialName = material.Name

		after, delta, err := nextStock(in.Type, in.Quantity, material.CurrentStock, in.AllowNegative)
		if err != nil {
			return err
		}

		if delta != 0 {
			if err := s.materialRepo.UpdateStock(tx, material.ID, after, in.Actor); err != nil {
				return err
			}
		}

		entry := &model.StockMovement{
			MaterialID:     material.ID,
			Type:           in.Type,
			Quantity:       delta,
			StockBefore:    material.CurrentStock,
			StockAfter:     after,
			Actor:          in.Actor,
			Motif:          in.Motif,
			Description:    in.Description,
			RequestID:      in.RequestID,
			DeliveryNoteID: in.DeliveryNoteID,
		}
		entry.CreatedBy = in.Actor
		entry.UpdatedBy = in.Actor

		if err := s.movementRepo.Create(tx, entry); err != nil {
			return err
		}

		movement = entry
		return nil
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
			// Serialization failure or deadlock: the caller retries the
			// whole commit, nothing was written.
			return nil, ErrConcurrentModification
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Publish(EventStockUpdate, map[string]interface{}{
			"material_id": movement.MaterialID,
			"material":    materialName,
			"type":        movement.Type,
			"quantity":    movement.Quantity,
			"new_stock":   movement.StockAfter,
			"actor":       movement.Actor,
			"message":     fmt.Sprintf("stock of '%s' moved from %d to %d (%s)", materialName, movement.StockBefore, movement.StockAfter, movement.Type),
		})
	}

	return movement, nil
}

func (s *ledgerService) GetMovements(limit int) ([]model.StockMovement, error) {
	return s.movementRepo.FindAll(limit)
}

func (s *ledgerService) GetMaterialMovements(materialID uuid.UUID) ([]model.StockMovement, error) {
	return s.movementRepo.FindByMaterialID(materialID)
}
