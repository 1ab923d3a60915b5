package service

import (
	"fmt"
	"time"

	"go-depot-api/internal/model"
	"go-depot-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IssueLine is one line to put on a delivery note. The material is
// passed in full so the issuer can snapshot code/name/unit at issuance.
type IssueLine struct {
	Material *model.Material
	Quantity int
}

// IssueInput is the single issuance contract shared by the request path
// and the direct-distribution path; they differ only in whether
// RequestID links back to a demande.
type IssueInput struct {
	Lines     []IssueLine
	Recipient model.Recipient
	RequestID *uuid.UUID
	Motif     string
	Actor     string
	Comment   string
}

// NoteIssuer is the only component allowed to instantiate a
// DeliveryNote. It numbers the note, snapshots recipient and lines, and
// drives the per-line ledger commits with compensating reversal when a
// later line fails.
type NoteIssuer interface {
	Issue(in IssueInput) (*model.DeliveryNote, error)
}

type NoteService interface {
	NoteIssuer
	GetByID(id uuid.UUID) (*model.DeliveryNote, error)
	GetByRequestID(requestID uuid.UUID) (*model.DeliveryNote, error)
	GetAll() ([]model.DeliveryNote, error)
}

type noteService struct {
	noteRepo repository.NoteRepository
	seqRepo  repository.SequenceRepository
	ledger   Ledger
	notifier Notifier
	logger   *zap.Logger
}

func NewNoteService(noteRepo repository.NoteRepository, seqRepo repository.SequenceRepository, ledger Ledger, notifier Notifier, logger *zap.Logger) NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noteService{
		noteRepo: noteRepo,
		seqRepo:  seqRepo,
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
	}
}

// formatSequenceNumber builds the human-readable year-scoped numbers,
// e.g. BL-2026-0042 or DEM-2026-0007.
func formatSequenceNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

func (s *noteService) Issue(in IssueInput) (*model.DeliveryNote, error) {
	if len(in.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	year := time.Now().Year()
	seq, err := s.seqRepo.Next(fmt.Sprintf("bon:%d", year))
	if err != nil {
		return nil, err
	}
	number := formatSequenceNumber("BL", year, seq)

	// The note ID is minted up front so each ledger entry can carry its
	// back-reference before the note row exists.
	noteID := uuid.New()

	committed := make([]*model.StockMovement, 0, len(in.Lines))
	for _, line := range in.Lines {
		movement, err := s.ledger.Commit(CommitInput{
			MaterialID:     line.Material.ID,
			Type:           model.MovementSortie,
			Quantity:       line.Quantity,
			Actor:          in.Actor,
			Motif:          in.Motif,
			Description:    fmt.Sprintf("bon de livraison %s", number),
			RequestID:      in.RequestID,
			DeliveryNoteID: &noteID,
		})
		if err != nil {
			s.reverse(committed, number, in.Actor)
			return nil, err
		}
		committed = append(committed, movement)
	}

	note := &model.DeliveryNote{
		Number:           number,
		RequestID:        in.RequestID,
		RecipientUserID:  in.Recipient.UserID,
		RecipientName:    in.Recipient.Name,
		RecipientSite:    in.Recipient.Site,
		RecipientAddress: in.Recipient.Address,
		RecipientPhone:   in.Recipient.Phone,
		IssuedBy:         in.Actor,
		Comment:          in.Comment,
	}
	note.ID = noteID
	note.CreatedBy = in.Actor
	note.UpdatedBy = in.Actor

	for _, line := range in.Lines {
		item := model.DeliveryNoteItem{
			DeliveryNoteID: noteID,
			MaterialID:     line.Material.ID,
			MaterialCode:   line.Material.Code,
			MaterialName:   line.Material.Name,
			Unit:           line.Material.Unit,
			Quantity:       line.Quantity,
		}
		item.CreatedBy = in.Actor
		item.UpdatedBy = in.Actor
		note.Items = append(note.Items, item)
	}

	if err := s.noteRepo.Create(note); err != nil {
		// The stock already moved; undo it so no note-less decrement
		// survives.
		s.reverse(committed, number, in.Actor)
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Publish(EventNoteIssued, map[string]interface{}{
			"note_id":    note.ID,
			"number":     note.Number,
			"request_id": in.RequestID,
			"recipient":  note.RecipientName,
			"items":      len(note.Items),
			"actor":      in.Actor,
		})
	}

	return note, nil
}

// reverse issues compensating adjustments for movements already
// committed by a failed multi-line issuance. Best effort: a reversal
// failure is logged, never masks the original error.
func (s *noteService) reverse(committed []*model.StockMovement, number, actor string) {
	for _, movement := range committed {
		_, err := s.ledger.Commit(CommitInput{
			MaterialID:  movement.MaterialID,
			Type:        model.MovementAjustement,
			Quantity:    -movement.Quantity, // movement.Quantity is negative for sortie
			Actor:       actor,
			Motif:       fmt.Sprintf("annulation %s", number),
			Description: fmt.Sprintf("reversal of movement %s after failed issuance of %s", movement.ID, number),
		})
		if err != nil {
			s.logger.Error("compensating reversal failed",
				zap.String("note_number", number),
				zap.String("movement_id", movement.ID.String()),
				zap.Error(err))
		}
	}
}

func (s *noteService) GetByID(id uuid.UUID) (*model.DeliveryNote, error) {
	return s.noteRepo.FindByID(id)
}

func (s *noteService) GetByRequestID(requestID uuid.UUID) (*model.DeliveryNote, error) {
	return s.noteRepo.FindByRequestID(requestID)
}

func (s *noteService) GetAll() ([]model.DeliveryNote, error) {
	return s.noteRepo.FindAll()
}
