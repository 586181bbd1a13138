package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/config"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/repository"
)

// QuoteService arbitrates the quotes competing for one RFQ.
type QuoteService struct {
	store           *repository.Store
	directory       Directory
	auth            Authorizer
	defaultCurrency string
	currencies      map[string]bool
	log             zerolog.Logger
}

type SubmitQuoteInput struct {
	Price           decimal.Decimal
	Currency        string
	DeliveryETADays *int
	Notes           *string
}

func NewQuoteService(
	store *repository.Store,
	directory Directory,
	auth Authorizer,
	cfg *config.Config,
	log zerolog.Logger,
) *QuoteService {
	currencies := make(map[string]bool, len(cfg.RFQ.AllowedCurrencies))
	for _, code := range cfg.RFQ.AllowedCurrencies {
		currencies[code] = true
	}
	return &QuoteService{
		store:           store,
		directory:       directory,
		auth:            auth,
		defaultCurrency: cfg.RFQ.DefaultCurrency,
		currencies:      currencies,
		log:             log.With().Str("component", "quote").Logger(),
	}
}

// SubmitQuote records the caller's quote on an open RFQ, replacing the terms
// of their pending quote if one exists. The first quote on a submitted RFQ
// moves it to responded.
func (s *QuoteService) SubmitQuote(ctx context.Context, p model.Principal, rfqID uuid.UUID, input SubmitQuoteInput) (*model.Quote, error) {
	if !p.IsProvider() {
		return nil, forbidden("", "only providers can submit quotes")
	}
	if err := RequirePositive("price", input.Price); err != nil {
		return nil, err
	}
	if err := RequireScale("price", input.Price, model.PriceScale); err != nil {
		return nil, err
	}
	if err := RequirePositiveInt("deliveryEtaDays", input.DeliveryETADays); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}
	if !s.currencies[currency] {
		return nil, validationError(CodeInvalidField, "currency %s is not accepted", currency)
	}
	if err := CheckReference(ctx, s.directory, model.DirectoryProvider, &p.UserID); err != nil {
		return nil, err
	}

	var saved *model.Quote
	var advanced bool
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		lockErr := tx.RFQs.LockOpen(ctx, rfqID)
		if lockErr != nil && !errors.Is(lockErr, repository.ErrStaleState) {
			return lockErr
		}
		rfq, err := loadRFQ(ctx, tx, rfqID)
		if err != nil {
			return err
		}
		if rfq.ConsumerID == p.UserID {
			return forbidden(CodeNotOwner, "cannot quote on your own RFQ")
		}
		if lockErr != nil || !IsOpen(rfq.Status) {
			return forbidden(CodeRFQNotOpen, "rfq in status %s does not accept quotes", rfq.Status)
		}

		ts := now()
		saved, err = tx.Quotes.Upsert(ctx, model.Quote{
			ID:              uuid.New(),
			RFQID:           rfqID,
			ProviderID:      p.UserID,
			Price:           input.Price,
			Currency:        currency,
			DeliveryETADays: input.DeliveryETADays,
			Notes:           optionalText(input.Notes),
			CreatedAt:       ts,
			UpdatedAt:       ts,
		})
		if err != nil {
			return err
		}

		if rfq.Status != model.RFQStatusSubmitted {
			return nil
		}
		next := *rfq
		next.Status = model.RFQStatusResponded
		if next.ProviderID == nil {
			next.ProviderID = &p.UserID
		}
		if err := checkTransition(rfq.Status, next.Status); err != nil {
			return err
		}
		if err := checkProvider(next.Status, next.ProviderID); err != nil {
			return err
		}
		next.UpdatedAt = ts
		if err := tx.RFQs.Update(ctx, next, rfq.Status); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return conflict(CodeStaleState, "rfq %s changed status concurrently", rfqID)
			}
			return err
		}
		advanced = true
		from := rfq.Status
		return tx.RFQs.AppendEvent(ctx, statusEvent(rfqID, &from, next.Status, p.UserID, ts))
	})
	if err != nil {
		return nil, storageError("submit quote", err)
	}

	s.log.Info().
		Str("rfq_id", rfqID.String()).
		Str("quote_id", saved.ID.String()).
		Bool("rfq_responded", advanced).
		Msg("quote submitted")
	return saved, nil
}

// AcceptQuote resolves the RFQ in favour of one pending quote. The RFQ, the
// winner and every competing pending quote change in one transaction.
func (s *QuoteService) AcceptQuote(ctx context.Context, p model.Principal, rfqID, quoteID uuid.UUID) (*model.Arbitration, error) {
	var result model.Arbitration
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		rfq, err := loadRFQ(ctx, tx, rfqID)
		if err != nil {
			return err
		}
		if !s.auth.IsOwningConsumer(p, *rfq) {
			return forbidden(CodeNotOwner, "only the owning consumer can accept a quote")
		}
		switch rfq.Status {
		case model.RFQStatusResponded:
		case model.RFQStatusAccepted:
			return conflict(CodeAlreadyResolved, "rfq %s already has an accepted quote", rfqID)
		default:
			return checkTransition(rfq.Status, model.RFQStatusAccepted)
		}

		quote, err := loadPendingQuote(ctx, tx, rfqID, quoteID)
		if err != nil {
			return err
		}

		ts := now()
		if err := tx.RFQs.Resolve(ctx, rfqID, quote.ProviderID, ts); err != nil {
			return resolvedConflict(rfqID, err)
		}
		err = tx.Quotes.SetStatus(ctx, quoteID, rfqID, model.QuoteStatusPending, model.QuoteStatusAccepted, ts)
		if err != nil {
			return resolvedConflict(rfqID, err)
		}
		rejected, err := tx.Quotes.RejectPendingExcept(ctx, rfqID, quoteID, ts)
		if err != nil {
			return err
		}
		from := rfq.Status
		if err := tx.RFQs.AppendEvent(ctx, statusEvent(rfqID, &from, model.RFQStatusAccepted, p.UserID, ts)); err != nil {
			return err
		}

		result.RFQ = *rfq
		result.RFQ.Status = model.RFQStatusAccepted
		result.RFQ.ProviderID = &quote.ProviderID
		result.RFQ.UpdatedAt = ts
		result.Accepted = *quote
		result.Accepted.Status = model.QuoteStatusAccepted
		result.Accepted.UpdatedAt = ts
		result.Rejected = rejected
		return nil
	})
	if err != nil {
		return nil, storageError("accept quote", err)
	}

	s.log.Info().
		Str("rfq_id", rfqID.String()).
		Str("quote_id", quoteID.String()).
		Int("rejected", len(result.Rejected)).
		Msg("quote accepted")
	return &result, nil
}

// RejectQuote declines a single pending quote. The RFQ keeps its status even
// when no pending quote remains.
func (s *QuoteService) RejectQuote(ctx context.Context, p model.Principal, rfqID, quoteID uuid.UUID) (*model.Quote, error) {
	var rejected *model.Quote
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		rfq, err := loadRFQ(ctx, tx, rfqID)
		if err != nil {
			return err
		}
		if !s.auth.IsOwningConsumer(p, *rfq) {
			return forbidden(CodeNotOwner, "only the owning consumer can reject a quote")
		}
		if !IsOpen(rfq.Status) {
			return newError(ErrInvalidTransition, "", "cannot reject quotes of an RFQ in status %s", rfq.Status)
		}
		quote, err := loadPendingQuote(ctx, tx, rfqID, quoteID)
		if err != nil {
			return err
		}

		ts := now()
		err = tx.Quotes.SetStatus(ctx, quoteID, rfqID, model.QuoteStatusPending, model.QuoteStatusRejected, ts)
		if err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return conflict(CodeStaleState, "quote %s was resolved concurrently", quoteID)
			}
			return err
		}
		quote.Status = model.QuoteStatusRejected
		quote.UpdatedAt = ts
		rejected = quote
		return nil
	})
	if err != nil {
		return nil, storageError("reject quote", err)
	}
	return rejected, nil
}

// ListQuotes returns every quote to the owner and an admin, and only their
// own quotes to a provider.
func (s *QuoteService) ListQuotes(ctx context.Context, p model.Principal, rfqID uuid.UUID) ([]model.Quote, error) {
	rfq, err := loadRFQ(ctx, s.store, rfqID)
	if err != nil {
		return nil, err
	}

	var providerID *uuid.UUID
	switch {
	case p.IsAdmin() || s.auth.IsOwningConsumer(p, *rfq):
	case p.IsProvider():
		providerID = &p.UserID
	default:
		return nil, forbidden(CodeNotOwner, "only the owning consumer can list quotes")
	}

	quotes, err := s.store.Quotes.ListByRFQ(ctx, rfqID, providerID)
	if err != nil {
		return nil, internalError("list quotes", err)
	}
	return quotes, nil
}

func loadPendingQuote(ctx context.Context, store *repository.Store, rfqID, quoteID uuid.UUID) (*model.Quote, error) {
	quote, err := store.Quotes.Get(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("quote %s not found", quoteID)
		}
		return nil, internalError("load quote", err)
	}
	if quote.RFQID != rfqID || quote.Status != model.QuoteStatusPending {
		return nil, notFound("quote %s not found among pending quotes of rfq %s", quoteID, rfqID)
	}
	return quote, nil
}

func resolvedConflict(rfqID uuid.UUID, err error) error {
	if errors.Is(err, repository.ErrStaleState) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict(CodeAlreadyResolved, "rfq %s was resolved concurrently", rfqID)
	}
	return err
}
