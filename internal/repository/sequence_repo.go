package repository

import (
	"go-depot-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SequenceRepository interface {
	// Next increments and returns the counter for scope (e.g.
	// "demande:2026"). The increment runs under a row lock so two
	// concurrent callers never receive the same value, and the counter
	// is never decremented afterwards.
	Next(scope string) (int64, error)
}

type sequenceRepo struct {
	db *gorm.DB
}

func NewSequenceRepo(db *gorm.DB) SequenceRepository {
	return &sequenceRepo{db}
}

func (r *sequenceRepo) Next(scope string) (int64, error) {
	var value int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		counter := model.SequenceCounter{Scope: scope}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("scope = ?", scope).
			FirstOrCreate(&counter).Error; err != nil {
			return err
		}

		counter.Value++
		if err := tx.Save(&counter).Error; err != nil {
			return err
		}

		value = counter.Value
		return nil
	})

	if err != nil {
		return 0, err
	}
	return value, nil
}
