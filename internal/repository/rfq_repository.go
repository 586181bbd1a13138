package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
)

const rfqColumns = `
	id,
	catalog_id,
	consumer_id,
	provider_id,
	quantity,
	unit,
	message,
	preferred_date,
	status,
	created_at,
	updated_at`

type RFQRepository struct {
	db *gorm.DB
}

func NewRFQRepository(db *gorm.DB) *RFQRepository {
	return &RFQRepository{db: db}
}

func (r *RFQRepository) Create(ctx context.Context, rfq model.RFQ) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO rfqs (`+rfqColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rfq.ID,
		rfq.CatalogID,
		rfq.ConsumerID,
		rfq.ProviderID,
		rfq.Quantity,
		rfq.Unit,
		rfq.Message,
		rfq.PreferredDate,
		rfq.Status,
		rfq.CreatedAt,
		rfq.UpdatedAt,
	).Error
}

func (r *RFQRepository) Get(ctx context.Context, id uuid.UUID) (*model.RFQ, error) {
	var rfq model.RFQ
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+rfqColumns+`
		FROM rfqs
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&rfq).Error
	if err != nil {
		return nil, err
	}
	if rfq.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &rfq, nil
}

const quotedBy = `EXISTS (SELECT 1 FROM quotes WHERE quotes.rfq_id = rfqs.id AND quotes.provider_id = ?)`

func (r *RFQRepository) List(ctx context.Context, filter model.RFQFilter) ([]model.RFQ, error) {
	query := `SELECT ` + rfqColumns + ` FROM rfqs`
	var conditions []string
	var args []interface{}

	if filter.ConsumerID != nil {
		conditions = append(conditions, "consumer_id = ?")
		args = append(args, *filter.ConsumerID)
	}
	switch {
	case filter.ProviderID != nil && filter.OpenOnly:
		conditions = append(conditions, "(provider_id = ? OR "+quotedBy+" OR status IN ?)")
		args = append(args, *filter.ProviderID, *filter.ProviderID, openStatuses())
	case filter.ProviderID != nil:
		conditions = append(conditions, "(provider_id = ? OR "+quotedBy+")")
		args = append(args, *filter.ProviderID, *filter.ProviderID)
	case filter.OpenOnly:
		conditions = append(conditions, "status IN ?")
		args = append(args, openStatuses())
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	var rfqs []model.RFQ
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rfqs).Error; err != nil {
		return nil, err
	}
	return rfqs, nil
}

// Update writes every mutable column, conditioned on the row still being in
// the expected status.
func (r *RFQRepository) Update(ctx context.Context, rfq model.RFQ, expected model.RFQStatus) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE rfqs
		SET
			catalog_id = ?,
			provider_id = ?,
			quantity = ?,
			unit = ?,
			message = ?,
			preferred_date = ?,
			status = ?,
			updated_at = ?
		WHERE id = ? AND status = ?
	`,
		rfq.CatalogID,
		rfq.ProviderID,
		rfq.Quantity,
		rfq.Unit,
		rfq.Message,
		rfq.PreferredDate,
		rfq.Status,
		rfq.UpdatedAt,
		rfq.ID,
		expected,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

// Resolve moves a responded RFQ to accepted and records the winning provider.
func (r *RFQRepository) Resolve(ctx context.Context, id, providerID uuid.UUID, now time.Time) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE rfqs
		SET status = ?, provider_id = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, model.RFQStatusAccepted, providerID, now, id, model.RFQStatusResponded)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

// LockOpen takes the row lock of an RFQ that is still collecting quotes.
// Writers that change the status serialize behind it.
func (r *RFQRepository) LockOpen(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE rfqs SET status = status
		WHERE id = ? AND status IN ?
	`, id, openStatuses())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *RFQRepository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM rfqs WHERE id = ? AND status = ?
	`, id, model.RFQStatusDraft)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *RFQRepository) AppendEvent(ctx context.Context, event model.RFQStatusEvent) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO rfq_status_events (id, rfq_id, from_status, to_status, actor_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.ID, event.RFQID, event.FromStatus, event.ToStatus, event.ActorID, event.CreatedAt).Error
}

func (r *RFQRepository) ListEvents(ctx context.Context, rfqID uuid.UUID) ([]model.RFQStatusEvent, error) {
	var events []model.RFQStatusEvent
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, rfq_id, from_status, to_status, actor_id, created_at
		FROM rfq_status_events
		WHERE rfq_id = ?
		ORDER BY created_at ASC, id ASC
	`, rfqID).Scan(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func openStatuses() []string {
	return []string{string(model.RFQStatusSubmitted), string(model.RFQStatusResponded)}
}
