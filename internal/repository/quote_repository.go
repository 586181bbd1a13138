package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
)

const quoteColumns = `
	id,
	rfq_id,
	provider_id,
	price,
	currency,
	delivery_eta_days,
	notes,
	status,
	created_at,
	updated_at`

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Upsert inserts a pending quote or, when the provider already holds a
// pending quote on the RFQ, replaces its terms. The partial unique index on
// (rfq_id, provider_id) WHERE status = 'pending' makes this a single atomic
// write under concurrent resubmission.
func (r *QuoteRepository) Upsert(ctx context.Context, quote model.Quote) (*model.Quote, error) {
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO quotes (`+quoteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (rfq_id, provider_id) WHERE status = 'pending'
		DO UPDATE SET
			price = excluded.price,
			currency = excluded.currency,
			delivery_eta_days = excluded.delivery_eta_days,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`,
		quote.ID,
		quote.RFQID,
		quote.ProviderID,
		quote.Price,
		quote.Currency,
		quote.DeliveryETADays,
		quote.Notes,
		model.QuoteStatusPending,
		quote.CreatedAt,
		quote.UpdatedAt,
	).Error
	if err != nil {
		return nil, err
	}
	return r.GetPending(ctx, quote.RFQID, quote.ProviderID)
}

func (r *QuoteRepository) Get(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	var quote model.Quote
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&quote).Error
	if err != nil {
		return nil, err
	}
	if quote.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &quote, nil
}

func (r *QuoteRepository) GetPending(ctx context.Context, rfqID, providerID uuid.UUID) (*model.Quote, error) {
	var quote model.Quote
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE rfq_id = ? AND provider_id = ? AND status = ?
		LIMIT 1
	`, rfqID, providerID, model.QuoteStatusPending).Scan(&quote).Error
	if err != nil {
		return nil, err
	}
	if quote.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &quote, nil
}

// ListByRFQ returns the RFQ's quotes, cheapest first. A non-nil providerID
// narrows the list to that provider.
func (r *QuoteRepository) ListByRFQ(ctx context.Context, rfqID uuid.UUID, providerID *uuid.UUID) ([]model.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE rfq_id = ?`
	args := []interface{}{rfqID}
	if providerID != nil {
		query += " AND provider_id = ?"
		args = append(args, *providerID)
	}
	query += " ORDER BY price ASC, created_at ASC"

	var quotes []model.Quote
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *QuoteRepository) CountPending(ctx context.Context, rfqID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM quotes WHERE rfq_id = ? AND status = ?
	`, rfqID, model.QuoteStatusPending).Scan(&count).Error
	return count, err
}

// SetStatus moves one quote of the RFQ from one status to another.
func (r *QuoteRepository) SetStatus(
	ctx context.Context,
	id, rfqID uuid.UUID,
	from, to model.QuoteStatus,
	now time.Time,
) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE quotes
		SET status = ?, updated_at = ?
		WHERE id = ? AND rfq_id = ? AND status = ?
	`, to, now, id, rfqID, from)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

// RejectPendingExcept rejects every pending quote of the RFQ other than keep
// and returns the rows it changed, cheapest first.
func (r *QuoteRepository) RejectPendingExcept(ctx context.Context, rfqID, keep uuid.UUID, now time.Time) ([]model.Quote, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE quotes
		SET status = ?, updated_at = ?
		WHERE rfq_id = ? AND id <> ? AND status = ?
	`, model.QuoteStatusRejected, now, rfqID, keep, model.QuoteStatusPending)
	if res.Error != nil {
		return nil, res.Error
	}
	quotes := []model.Quote{}
	if res.RowsAffected == 0 {
		return quotes, nil
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE rfq_id = ? AND id <> ? AND status = ? AND updated_at = ?
		ORDER BY price ASC, created_at ASC
	`, rfqID, keep, model.QuoteStatusRejected, now).Scan(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}
