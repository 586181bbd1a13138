package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrStaleState reports that a conditional write matched no row because a
// concurrent writer already moved the entity.
var ErrStaleState = errors.New("stale state")

type Store struct {
	db     *gorm.DB
	RFQs   *RFQRepository
	Quotes *QuoteRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:     db,
		RFQs:   NewRFQRepository(db),
		Quotes: NewQuoteRepository(db),
	}
}

// Transaction runs fn against a store bound to one database transaction.
// Returning an error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
