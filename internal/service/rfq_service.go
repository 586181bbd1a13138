package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/config"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/repository"
)

type RFQService struct {
	store     *repository.Store
	directory Directory
	auth      Authorizer
	listLimit int
	log       zerolog.Logger
}

type CreateRFQInput struct {
	CatalogID     *uuid.UUID
	ProviderID    *uuid.UUID
	Quantity      decimal.Decimal
	Unit          string
	Message       *string
	PreferredDate *time.Time
	Status        model.RFQStatus
}

type ListRFQsInput struct {
	Status *model.RFQStatus
	Limit  int
	Offset int
}

func NewRFQService(
	store *repository.Store,
	directory Directory,
	auth Authorizer,
	cfg *config.Config,
	log zerolog.Logger,
) *RFQService {
	return &RFQService{
		store:     store,
		directory: directory,
		auth:      auth,
		listLimit: cfg.RFQ.ListLimit,
		log:       log.With().Str("component", "rfq").Logger(),
	}
}

func (s *RFQService) CreateRFQ(ctx context.Context, p model.Principal, input CreateRFQInput) (*model.RFQ, error) {
	if !p.IsConsumer() {
		return nil, forbidden("", "only consumers can create RFQs")
	}

	if err := RequirePositive("quantity", input.Quantity); err != nil {
		return nil, err
	}
	if err := RequireScale("quantity", input.Quantity, model.QuantityScale); err != nil {
		return nil, err
	}
	unit, err := RequireNonEmpty("unit", input.Unit)
	if err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = model.RFQStatusDraft
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	if err := checkProvider(status, input.ProviderID); err != nil {
		return nil, err
	}
	if err := CheckReference(ctx, s.directory, model.DirectoryCatalogItem, input.CatalogID); err != nil {
		return nil, err
	}
	if err := CheckReference(ctx, s.directory, model.DirectoryProvider, input.ProviderID); err != nil {
		return nil, err
	}

	ts := now()
	rfq := model.RFQ{
		ID:            uuid.New(),
		CatalogID:     input.CatalogID,
		ConsumerID:    p.UserID,
		ProviderID:    input.ProviderID,
		Quantity:      input.Quantity,
		Unit:          unit,
		Message:       optionalText(input.Message),
		PreferredDate: dateOnly(input.PreferredDate),
		Status:        status,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.RFQs.Create(ctx, rfq); err != nil {
			return err
		}
		return tx.RFQs.AppendEvent(ctx, statusEvent(rfq.ID, nil, status, p.UserID, ts))
	})
	if err != nil {
		return nil, storageError("create rfq", err)
	}

	s.log.Info().Str("rfq_id", rfq.ID.String()).Str("status", string(status)).Msg("rfq created")
	return &rfq, nil
}

// Transition moves an RFQ to status and merges patch in the same write. An
// empty status, or the current one, edits fields without a status change.
func (s *RFQService) Transition(
	ctx context.Context,
	p model.Principal,
	rfqID uuid.UUID,
	status model.RFQStatus,
	patch model.RFQPatch,
) (*model.RFQ, error) {
	current, err := loadRFQ(ctx, s.store, rfqID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		status = current.Status
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	if err := s.authorizeTransition(p, *current, status, patch); err != nil {
		return nil, err
	}
	if status != current.Status {
		if err := checkTransition(current.Status, status); err != nil {
			return nil, err
		}
	}

	next, err := mergePatch(*current, patch)
	if err != nil {
		return nil, err
	}
	next.Status = status
	if err := checkProvider(status, next.ProviderID); err != nil {
		return nil, err
	}
	if err := CheckReference(ctx, s.directory, model.DirectoryCatalogItem, patch.CatalogID); err != nil {
		return nil, err
	}
	if err := CheckReference(ctx, s.directory, model.DirectoryProvider, patch.ProviderID); err != nil {
		return nil, err
	}
	next.UpdatedAt = now()

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if status == model.RFQStatusAccepted && current.Status != model.RFQStatusAccepted {
			pending, err := tx.Quotes.CountPending(ctx, rfqID)
			if err != nil {
				return err
			}
			if pending > 0 {
				return forbidden(CodeAcceptViaQuote, "rfq has pending quotes; accept one of them instead")
			}
		}
		if err := tx.RFQs.Update(ctx, next, current.Status); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return conflict(CodeStaleState, "rfq %s changed status concurrently", rfqID)
			}
			return err
		}
		if status == current.Status {
			return nil
		}
		from := current.Status
		return tx.RFQs.AppendEvent(ctx, statusEvent(rfqID, &from, status, p.UserID, next.UpdatedAt))
	})
	if err != nil {
		return nil, storageError("transition rfq", err)
	}

	if status != current.Status {
		s.log.Info().
			Str("rfq_id", rfqID.String()).
			Str("from", string(current.Status)).
			Str("to", string(status)).
			Msg("rfq transitioned")
	}
	return &next, nil
}

func (s *RFQService) DeleteRFQ(ctx context.Context, p model.Principal, rfqID uuid.UUID) error {
	rfq, err := loadRFQ(ctx, s.store, rfqID)
	if err != nil {
		return err
	}
	if !s.auth.IsOwningConsumer(p, *rfq) && !p.IsAdmin() {
		return forbidden(CodeNotOwner, "only the owning consumer can delete an RFQ")
	}
	if rfq.Status != model.RFQStatusDraft {
		return forbidden(CodeDeleteNotAllowed, "rfq in status %s cannot be deleted", rfq.Status)
	}
	if err := s.store.RFQs.DeleteDraft(ctx, rfqID); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return forbidden(CodeDeleteNotAllowed, "rfq is no longer a draft")
		}
		return internalError("delete rfq", err)
	}
	return nil
}

func (s *RFQService) GetRFQ(ctx context.Context, p model.Principal, rfqID uuid.UUID) (*model.RFQ, error) {
	rfq, err := loadRFQ(ctx, s.store, rfqID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, p, *rfq); err != nil {
		return nil, err
	}
	return rfq, nil
}

// ListRFQs lists what the caller may see: consumers their own RFQs,
// providers the ones they are engaged on or have quoted plus every open one.
func (s *RFQService) ListRFQs(ctx context.Context, p model.Principal, input ListRFQsInput) ([]model.RFQ, error) {
	if input.Offset < 0 {
		return nil, validationError(CodeInvalidField, "offset must not be negative")
	}
	if input.Status != nil {
		if err := checkStatus(*input.Status); err != nil {
			return nil, err
		}
	}
	filter := model.RFQFilter{
		Status: input.Status,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if filter.Limit <= 0 || filter.Limit > s.listLimit {
		filter.Limit = s.listLimit
	}

	switch {
	case p.IsAdmin():
	case p.IsConsumer():
		filter.ConsumerID = &p.UserID
	case p.IsProvider():
		filter.ProviderID = &p.UserID
		filter.OpenOnly = true
	default:
		return nil, forbidden("", "unknown role")
	}

	rfqs, err := s.store.RFQs.List(ctx, filter)
	if err != nil {
		return nil, internalError("list rfqs", err)
	}
	return rfqs, nil
}

func (s *RFQService) ListHistory(ctx context.Context, p model.Principal, rfqID uuid.UUID) ([]model.RFQStatusEvent, error) {
	rfq, err := loadRFQ(ctx, s.store, rfqID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, p, *rfq); err != nil {
		return nil, err
	}
	events, err := s.store.RFQs.ListEvents(ctx, rfqID)
	if err != nil {
		return nil, internalError("list rfq history", err)
	}
	return events, nil
}

// authorizeTransition lets the owner and admins drive any transition. A
// provider may only respond to, or decline, an RFQ addressed to them.
func (s *RFQService) authorizeTransition(p model.Principal, rfq model.RFQ, status model.RFQStatus, patch model.RFQPatch) error {
	if p.IsAdmin() || s.auth.IsOwningConsumer(p, rfq) {
		return nil
	}
	if !p.IsProvider() || status == rfq.Status {
		return forbidden(CodeNotOwner, "only the owning consumer can edit this RFQ")
	}

	fieldsOnly := patch
	fieldsOnly.ProviderID = nil
	if !fieldsOnly.IsEmpty() {
		return forbidden(CodeNotOwner, "providers cannot edit RFQ fields")
	}
	if patch.ProviderID != nil && *patch.ProviderID != p.UserID {
		return forbidden(CodeNotOwner, "providers can only assign themselves")
	}

	claimsSelf := patch.ProviderID != nil && rfq.ProviderID == nil
	switch status {
	case model.RFQStatusResponded:
		if s.auth.IsRespondingProvider(p, rfq) || claimsSelf {
			return nil
		}
	case model.RFQStatusRejected:
		if s.auth.IsRespondingProvider(p, rfq) {
			return nil
		}
	}
	return forbidden(CodeNotOwner, "provider cannot move this RFQ to %s", status)
}

func (s *RFQService) authorizeView(ctx context.Context, p model.Principal, rfq model.RFQ) error {
	if p.IsAdmin() || s.auth.IsOwningConsumer(p, rfq) {
		return nil
	}
	if p.IsProvider() {
		if s.auth.IsRespondingProvider(p, rfq) || IsOpen(rfq.Status) {
			return nil
		}
		quoted, err := s.hasQuoted(ctx, p.UserID, rfq.ID)
		if err != nil {
			return err
		}
		if quoted {
			return nil
		}
	}
	return forbidden(CodeNotOwner, "rfq %s is not visible to the caller", rfq.ID)
}

func (s *RFQService) hasQuoted(ctx context.Context, providerID, rfqID uuid.UUID) (bool, error) {
	quotes, err := s.store.Quotes.ListByRFQ(ctx, rfqID, &providerID)
	if err != nil {
		return false, internalError("list quotes", err)
	}
	return len(quotes) > 0, nil
}

func loadRFQ(ctx context.Context, store *repository.Store, rfqID uuid.UUID) (*model.RFQ, error) {
	rfq, err := store.RFQs.Get(ctx, rfqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("rfq %s not found", rfqID)
		}
		return nil, internalError("load rfq", err)
	}
	return rfq, nil
}

// mergePatch applies patch to rfq and re-validates the merged scalar fields.
func mergePatch(rfq model.RFQ, patch model.RFQPatch) (model.RFQ, error) {
	if patch.ProviderID != nil && rfq.Status == model.RFQStatusAccepted &&
		(rfq.ProviderID == nil || *rfq.ProviderID != *patch.ProviderID) {
		return rfq, validationError(CodeProviderLocked, "providerId of an accepted RFQ cannot change")
	}
	if patch.CatalogID != nil {
		rfq.CatalogID = patch.CatalogID
	}
	if patch.ProviderID != nil {
		rfq.ProviderID = patch.ProviderID
	}
	if patch.Quantity != nil {
		rfq.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		rfq.Unit = *patch.Unit
	}
	if patch.Message != nil {
		rfq.Message = optionalText(patch.Message)
	}
	if patch.PreferredDate != nil {
		rfq.PreferredDate = dateOnly(patch.PreferredDate)
	}

	if err := RequirePositive("quantity", rfq.Quantity); err != nil {
		return rfq, err
	}
	if err := RequireScale("quantity", rfq.Quantity, model.QuantityScale); err != nil {
		return rfq, err
	}
	unit, err := RequireNonEmpty("unit", rfq.Unit)
	if err != nil {
		return rfq, err
	}
	rfq.Unit = unit
	return rfq, nil
}

func statusEvent(rfqID uuid.UUID, from *model.RFQStatus, to model.RFQStatus, actor uuid.UUID, at time.Time) model.RFQStatusEvent {
	return model.RFQStatusEvent{
		ID:         uuid.New(),
		RFQID:      rfqID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actor,
		CreatedAt:  at,
	}
}

// storageError keeps service errors raised inside a transaction and wraps
// anything else as INTERNAL.
func storageError(op string, err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict(CodeDuplicate, "%s: duplicate record", op)
	}
	return internalError(op, err)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &day
}
