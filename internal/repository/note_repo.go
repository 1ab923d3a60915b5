package repository

import (
	"go-depot-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepository interface {
	// Create inserts an issued note with its item snapshots. Notes are
	// immutable once written; no update surface exists.
	Create(note *model.DeliveryNote) error
	FindByID(id uuid.UUID) (*model.DeliveryNote, error)
	FindByRequestID(requestID uuid.UUID) (*model.DeliveryNote, error)
	FindAll() ([]model.DeliveryNote, error)
}

type noteRepo struct {
	db *gorm.DB
}

func NewNoteRepo(db *gorm.DB) NoteRepository {
	return &noteRepo{db}
}

func (r *noteRepo) Create(note *model.DeliveryNote) error {
	return r.db.Create(note).Error
}

func (r *noteRepo) FindByID(id uuid.UUID) (*model.DeliveryNote, error) {
	var note model.DeliveryNote
	err := r.db.Preload("Items").First(&note, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepo) FindByRequestID(requestID uuid.UUID) (*model.DeliveryNote, error) {
	var note model.DeliveryNote
	err := r.db.Preload("Items").First(&note, "request_id = ?", requestID).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepo) FindAll() ([]model.DeliveryNote, error) {
	var notes []model.DeliveryNote
	err := r.db.Preload("Items").Order("created_at DESC").Find(&notes).Error
	return notes, err
}
